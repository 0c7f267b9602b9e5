//go:build integration

package integration

import (
	"github.com/brianvoe/gofakeit/v7"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/you-humble/stockledger/internal/model"
)

func qty(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func createProduct(ownerID int64, minStock int) *model.ProductSummary {
	GinkgoHelper()

	p, err := products.Create(as(ownerID), model.CreateProductParams{
		Name:     gofakeit.ProductName(),
		SKU:      lo.ToPtr(gofakeit.Numerify("SKU-#####")),
		MinStock: minStock,
		Aliases:  []string{gofakeit.Word()},
	})
	Expect(err).NotTo(HaveOccurred())
	return p
}

func record(ownerID int64, params model.CreateOperationParams) *model.OperationView {
	GinkgoHelper()

	v, err := operations.Create(as(ownerID), params)
	Expect(err).NotTo(HaveOccurred())
	return v
}

func stockOf(ownerID, productID int64) model.Stock {
	GinkgoHelper()

	list, err := products.List(as(ownerID))
	Expect(err).NotTo(HaveOccurred())
	p, ok := lo.Find(list, func(p model.ProductSummary) bool { return p.ID == productID })
	Expect(ok).To(BeTrue(), "product %d not listed", productID)
	return p.Stock
}

var _ = Describe("Ledger", func() {
	const (
		alice int64 = 1
		bob   int64 = 2
	)

	Context("owner isolation", func() {
		It("keeps every owner to their own rows", func() {
			p := createProduct(alice, 0)

			By("listing as another owner")
			list, err := products.List(as(bob))
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(BeEmpty())

			By("touching the product as another owner")
			Expect(products.Delete(as(bob), p.ID)).To(MatchError(model.ErrForbidden))

			_, err = operations.Create(as(bob), model.CreateOperationParams{
				ProductID: p.ID,
				Type:      model.OperationPurchase,
				Quantity:  qty(1),
			})
			Expect(err).To(MatchError(model.ErrForbidden))

			By("linking another owner's product as accessory")
			_, err = products.Create(as(bob), model.CreateProductParams{
				Name:         "Adapter",
				AccessoryIDs: []int64{p.ID},
			})
			Expect(err).To(MatchError(model.ErrInvalidAccessory))
		})
	})

	Context("stock", func() {
		It("follows a reservation from reserve to sale", func() {
			p := createProduct(alice, 0)
			record(alice, model.CreateOperationParams{ProductID: p.ID, Type: model.OperationPurchase, Quantity: qty(10)})

			By("reserving part of the stock")
			reserved := record(alice, model.CreateOperationParams{
				ProductID: p.ID,
				Type:      model.OperationReserve,
				Quantity:  qty(4),
				Customer:  lo.ToPtr("Acme"),
			})
			Expect(reserved.Reservation).NotTo(BeNil())
			Expect(reserved.Reservation.Status).To(Equal(model.ReservationActive))
			Expect(reserved.Reservation.LinkCode).NotTo(BeEmpty())

			s := stockOf(alice, p.ID)
			Expect(s.OnHand.Equal(qty(10))).To(BeTrue())
			Expect(s.Reserved.Equal(qty(4))).To(BeTrue())
			Expect(s.Available.Equal(qty(6))).To(BeTrue())

			By("selling from the reservation")
			record(alice, model.CreateOperationParams{
				ProductID:     p.ID,
				Type:          model.OperationSaleFromReserve,
				Quantity:      qty(4),
				ReservationID: &reserved.Reservation.ID,
			})

			s = stockOf(alice, p.ID)
			Expect(s.OnHand.Equal(qty(6))).To(BeTrue())
			Expect(s.Reserved.IsZero()).To(BeTrue())

			views, err := reservations.List(as(alice))
			Expect(err).NotTo(HaveOccurred())
			Expect(views).To(HaveLen(1))
			Expect(views[0].Status).To(Equal(model.ReservationSold))

			By("releasing a reservation that is already sold")
			_, err = operations.Create(as(alice), model.CreateOperationParams{
				ProductID:     p.ID,
				Type:          model.OperationReserveRelease,
				Quantity:      qty(4),
				ReservationID: &reserved.Reservation.ID,
			})
			Expect(err).To(MatchError(model.ErrReservationClosed))
		})

		It("recomputes stock after an operation is deleted", func() {
			p := createProduct(alice, 0)
			record(alice, model.CreateOperationParams{ProductID: p.ID, Type: model.OperationPurchase, Quantity: qty(5)})
			sale := record(alice, model.CreateOperationParams{ProductID: p.ID, Type: model.OperationSale, Quantity: qty(2)})

			Expect(stockOf(alice, p.ID).OnHand.Equal(qty(3))).To(BeTrue())
			Expect(operations.Delete(as(alice), sale.ID)).To(Succeed())
			Expect(stockOf(alice, p.ID).OnHand.Equal(qty(5))).To(BeTrue())
		})
	})

	Context("customer debt", func() {
		It("never closes more than is owed", func() {
			p := createProduct(alice, 0)
			record(alice, model.CreateOperationParams{ProductID: p.ID, Type: model.OperationPurchase, Quantity: qty(10)})
			record(alice, model.CreateOperationParams{
				ProductID: p.ID,
				Type:      model.OperationShipOnCredit,
				Quantity:  qty(5),
				Customer:  lo.ToPtr("Acme"),
			})

			closeDebt := func(customer string, n int64) error {
				_, err := operations.Create(as(alice), model.CreateOperationParams{
					ProductID: p.ID,
					Type:      model.OperationCloseDebt,
					Quantity:  qty(n),
					Customer:  lo.ToPtr(customer),
				})
				return err
			}

			Expect(closeDebt("Acme", 6)).To(MatchError(model.ErrDebtExceeded))
			Expect(closeDebt("Globex", 1)).To(MatchError(model.ErrNoDebt))

			By("matching the customer case-insensitively")
			Expect(closeDebt(" acme ", 5)).To(Succeed())
			Expect(closeDebt("Acme", 1)).To(MatchError(model.ErrNoDebt))

			d, err := dashboard.Get(as(alice))
			Expect(err).NotTo(HaveOccurred())
			Expect(d.ActiveDebts).To(BeEmpty())
		})
	})

	Context("products", func() {
		It("refuses to delete a product with operations", func() {
			p := createProduct(alice, 0)
			record(alice, model.CreateOperationParams{ProductID: p.ID, Type: model.OperationPurchase, Quantity: qty(1)})

			Expect(products.Delete(as(alice), p.ID)).To(MatchError(model.ErrProductReferenced))

			var n int
			Expect(pool.QueryRow(ctx, `SELECT count(*) FROM products WHERE id = $1`, p.ID).Scan(&n)).To(Succeed())
			Expect(n).To(Equal(1))
		})

		It("finds products by alias", func() {
			p, err := products.Create(as(alice), model.CreateProductParams{
				Name:    "Impact driver",
				Aliases: []string{"screwgun"},
			})
			Expect(err).NotTo(HaveOccurred())
			createProduct(alice, 0)

			found, err := products.Search(as(alice), "SCREW")
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(HaveLen(1))
			Expect(found[0].ID).To(Equal(p.ID))
		})
	})

	Context("snapshots", func() {
		It("restores an exported snapshot", func() {
			p := createProduct(alice, 3)
			record(alice, model.CreateOperationParams{ProductID: p.ID, Type: model.OperationPurchase, Quantity: qty(7)})

			exported, err := snapshots.Export(as(alice))
			Expect(err).NotTo(HaveOccurred())

			By("changing data after the export")
			createProduct(alice, 0)
			record(alice, model.CreateOperationParams{ProductID: p.ID, Type: model.OperationSale, Quantity: qty(2)})

			By("importing the export back")
			Expect(snapshots.Import(as(alice), *exported)).To(Succeed())

			list, err := products.List(as(alice))
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].ID).To(Equal(p.ID))
			Expect(list[0].Stock.OnHand.Equal(qty(7))).To(BeTrue())

			By("creating a row after the import")
			next := createProduct(alice, 0)
			Expect(next.ID).To(BeNumerically(">", p.ID))
		})

		It("rejects ids owned by someone else", func() {
			p := createProduct(alice, 0)

			err := snapshots.Import(as(bob), model.Snapshot{
				Products: []model.ProductSummary{{Product: model.Product{ID: p.ID, Name: "Stolen"}}},
			})
			Expect(err).To(MatchError(model.ErrIDTaken))

			list, err := products.List(as(alice))
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
		})

		It("rejects rows pointing at another owner's product", func() {
			p := createProduct(alice, 0)

			err := snapshots.Import(as(bob), model.Snapshot{
				Products: []model.ProductSummary{{Product: model.Product{ID: p.ID + 100, Name: "Bench"}}},
				Operations: []model.OperationView{{Operation: model.Operation{
					ID: 1, ProductID: p.ID, Type: model.OperationPurchase, Quantity: qty(1),
				}}},
			})
			Expect(err).To(MatchError(model.ErrForeignReference))

			Expect(products.Delete(as(alice), p.ID)).To(Succeed())
		})
	})
})
