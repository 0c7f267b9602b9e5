//go:build integration

package integration

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/you-humble/stockledger/internal/metrics"
	"github.com/you-humble/stockledger/internal/model"
)

var _ = Describe("Ledger events", func() {
	It("reports products that fall below their minimum stock", func() {
		const dave int64 = 4

		p := createProduct(dave, 1000)
		before := testutil.ToFloat64(metrics.LowStockAlerts)

		By("recording purchases until the watcher has seen one")
		Eventually(func(g Gomega) {
			_, err := operations.Create(as(dave), model.CreateOperationParams{
				ProductID: p.ID,
				Type:      model.OperationPurchase,
				Quantity:  qty(1),
			})
			g.Expect(err).NotTo(HaveOccurred())
			g.Expect(testutil.ToFloat64(metrics.LowStockAlerts)).To(BeNumerically(">", before))
		}).WithTimeout(30 * time.Second).WithPolling(time.Second).Should(Succeed())
	})
})
