//go:build integration

package integration

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/samber/lo"

	"github.com/you-humble/stockledger/internal/model"
	"github.com/you-humble/stockledger/internal/owner"
	"github.com/you-humble/stockledger/internal/reconciler"
	filecache "github.com/you-humble/stockledger/internal/reconciler/cache/file"
	rediscache "github.com/you-humble/stockledger/internal/reconciler/cache/redis"
	"github.com/you-humble/stockledger/internal/reconciler/remote"
)

var _ = Describe("Sync client", func() {
	const carol int64 = 3

	var token string

	BeforeEach(func() {
		var err error
		token, err = resolver.Issue(owner.Identity{OwnerID: carol, Role: "user"}, time.Hour)
		Expect(err).NotTo(HaveOccurred())
	})

	newClient := func(cache reconciler.Cache, opts ...reconciler.Option) *reconciler.Reconciler {
		return reconciler.New(
			remote.New(server.URL, token, server.Client()),
			cache,
			5*time.Second,
			time.Hour,
			opts...,
		)
	}

	It("pushes changes made offline once the server is back", func() {
		cache, err := filecache.New(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
		client := newClient(cache)

		By("logging in while online")
		Expect(client.Login(ctx, carol)).To(Succeed())
		Expect(client.Status().State).To(Equal(reconciler.StateSynced))

		drill, err := client.CreateProduct(ctx, model.CreateProductParams{Name: "Drill"})
		Expect(err).NotTo(HaveOccurred())
		Expect(drill.ID).To(BeNumerically(">", 0))

		By("working while the server is down")
		offline.Store(true)

		saw, err := client.CreateProduct(ctx, model.CreateProductParams{Name: "Saw"})
		Expect(err).NotTo(HaveOccurred())
		Expect(saw.ID).To(BeNumerically("<", 0))
		Expect(client.Status().State).To(Equal(reconciler.StateDegraded))

		_, err = client.CreateOperation(ctx, model.CreateOperationParams{
			ProductID: saw.ID,
			Type:      model.OperationPurchase,
			Quantity:  qty(4),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(client.Status().Pending).To(BeTrue())

		local, ok := lo.Find(client.Products(), func(p model.ProductSummary) bool { return p.ID == saw.ID })
		Expect(ok).To(BeTrue())
		Expect(local.Stock.OnHand.Equal(qty(4))).To(BeTrue())

		Expect(client.Flush(ctx)).To(HaveOccurred())
		Expect(client.Status().Pending).To(BeTrue())

		By("flushing after the server is back")
		offline.Store(false)
		Expect(client.Flush(ctx)).To(Succeed())

		st := client.Status()
		Expect(st.State).To(Equal(reconciler.StateSynced))
		Expect(st.Pending).To(BeFalse())
		Expect(st.LastSync).NotTo(BeNil())

		list, err := products.List(as(carol))
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(2))

		pushed, ok := lo.Find(list, func(p model.ProductSummary) bool { return p.ID == saw.ID })
		Expect(ok).To(BeTrue(), "offline product keeps its id on the server")
		Expect(pushed.Name).To(Equal("Saw"))
		Expect(pushed.Stock.OnHand.Equal(qty(4))).To(BeTrue())
	})

	It("resumes pending changes from a shared redis cache", func() {
		cache := rediscache.New(redisC.Client(), time.Second)

		By("recording a change offline in one process")
		offline.Store(true)
		first := newClient(cache, reconciler.WithLocker(cache))
		Expect(first.Login(ctx, carol)).To(Succeed())
		Expect(first.Status().State).To(Equal(reconciler.StateDegraded))

		_, err := first.CreateProduct(ctx, model.CreateProductParams{Name: "Ladder", MinStock: 1})
		Expect(err).NotTo(HaveOccurred())

		By("pushing it from another process")
		offline.Store(false)
		second := newClient(cache, reconciler.WithLocker(cache))
		Expect(second.Resume(ctx, carol)).To(Succeed())
		Expect(second.Status().Pending).To(BeTrue())
		Expect(second.Flush(ctx)).To(Succeed())
		Expect(second.Status().Pending).To(BeFalse())

		list, err := products.List(as(carol))
		Expect(err).NotTo(HaveOccurred())
		Expect(list).To(HaveLen(1))
		Expect(list[0].Name).To(Equal("Ladder"))
	})

	It("rejects a token signed with another secret", func() {
		forged, err := owner.NewResolver("other-secret", 0).Issue(owner.Identity{OwnerID: carol}, time.Hour)
		Expect(err).NotTo(HaveOccurred())

		cache, err := filecache.New(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
		client := reconciler.New(remote.New(server.URL, forged, server.Client()), cache, 5*time.Second, time.Hour)

		Expect(client.Login(ctx, carol)).To(MatchError(model.ErrUnauthorized))
		Expect(client.Status().State).To(Equal(reconciler.StateUnsynced))
	})
})
