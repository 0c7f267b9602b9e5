package reconciler

import (
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/you-humble/stockledger/internal/ledger"
	"github.com/you-humble/stockledger/internal/model"
)

// local applies mutations to a cached snapshot with the same rules the
// server enforces. Created rows get negative ids from nextID.
type local struct {
	ownerID int64
	now     time.Time
	nextID  func() int64
}

func (l *local) createProduct(s *model.Snapshot, p model.CreateProductParams) (*model.ProductSummary, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, model.ErrEmptyName
	}
	if p.MinStock < 0 {
		return nil, model.ErrInvalidMinStock
	}

	id := l.nextID()
	accessories, err := accessoriesOf(s, id, p.AccessoryIDs)
	if err != nil {
		return nil, err
	}

	ps := model.ProductSummary{
		Product: model.Product{
			ID:              id,
			OwnerID:         l.ownerID,
			Name:            name,
			SKU:             p.SKU,
			Model:           p.Model,
			MinStock:        p.MinStock,
			HasImportPermit: p.HasImportPermit,
			Notes:           p.Notes,
			CreatedAt:       l.now,
			UpdatedAt:       l.now,
		},
		Aliases:     l.aliasesOf(id, p.Aliases),
		Accessories: accessories,
	}
	s.Products = append(s.Products, ps)

	return &ps, nil
}

func (l *local) updateProduct(s *model.Snapshot, p model.UpdateProductParams) (*model.ProductSummary, error) {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return nil, model.ErrEmptyName
	}
	if p.MinStock != nil && *p.MinStock < 0 {
		return nil, model.ErrInvalidMinStock
	}

	i := slices.IndexFunc(s.Products, func(ps model.ProductSummary) bool { return ps.ID == p.ID })
	if i < 0 {
		return nil, model.ErrProductNotFound
	}

	ps := s.Products[i]
	p.ApplyTo(&ps.Product)
	ps.UpdatedAt = l.now

	if p.Aliases != nil {
		ps.Aliases = l.aliasesOf(ps.ID, *p.Aliases)
	}
	if p.AccessoryIDs != nil {
		accessories, err := accessoriesOf(s, ps.ID, *p.AccessoryIDs)
		if err != nil {
			return nil, err
		}
		ps.Accessories = accessories
	}

	s.Products[i] = ps
	renameRefs(s, ps.Product)

	return &ps, nil
}

func (l *local) deleteProduct(s *model.Snapshot, id int64) error {
	if !slices.ContainsFunc(s.Products, func(ps model.ProductSummary) bool { return ps.ID == id }) {
		return model.ErrProductNotFound
	}
	if slices.ContainsFunc(s.Operations, func(o model.OperationView) bool { return o.ProductID == id }) {
		return model.ErrProductReferenced
	}

	dropProduct(s, id)
	return nil
}

func (l *local) createOperation(s *model.Snapshot, p model.CreateOperationParams) (*model.OperationView, error) {
	i := slices.IndexFunc(s.Products, func(ps model.ProductSummary) bool { return ps.ID == p.ProductID })
	if i < 0 {
		return nil, model.ErrProductNotFound
	}
	product := s.Products[i].Product

	if err := ledger.ValidateRequest(p); err != nil {
		return nil, err
	}
	if p.Type == model.OperationCloseDebt {
		debt := ledger.Debt(operationsOf(s.Operations), product.ID, *p.Customer)
		if err := ledger.CheckCloseDebt(debt, p.Quantity); err != nil {
			return nil, err
		}
	}

	o := ledger.NewOperation(l.ownerID, product.ID, p, l.now)
	view := model.OperationView{Product: refOf(product)}

	reservation, err := l.applyReservation(s, &o, p)
	if err != nil {
		return nil, err
	}
	if reservation != nil {
		rv := model.NewReservationView(*reservation, refOf(product), l.now)
		view.Reservation = &rv
	}

	bundle, err := l.applyBundle(s, &o, p)
	if err != nil {
		return nil, err
	}
	view.Bundle = bundle

	o.ID = l.nextID()
	view.Operation = o
	s.Operations = slices.Insert(s.Operations, 0, view)
	s.Products[i].UpdatedAt = l.now

	if rm := ledger.ReminderFor(o, product, reservation, l.now); rm != nil {
		rm.ID = l.nextID()
		s.Reminders = append(s.Reminders, *rm)
	}

	return &view, nil
}

func (l *local) applyReservation(s *model.Snapshot, o *model.Operation, p model.CreateOperationParams) (*model.Reservation, error) {
	if o.Type == model.OperationReserve {
		r := ledger.NewReservation(*o, l.now)
		r.ID = l.nextID()
		o.ReservationID = &r.ID

		s.Reservations = append(s.Reservations, model.NewReservationView(r, productRef(s, r.ProductID), l.now))
		return &r, nil
	}

	status, ok := ledger.ReservationOutcome(o.Type)
	if !ok {
		return nil, nil
	}
	if p.ReservationID == nil {
		return nil, model.ErrMissingReservation
	}

	i := slices.IndexFunc(s.Reservations, func(v model.ReservationView) bool { return v.ID == *p.ReservationID })
	if i < 0 {
		return nil, model.ErrReservationNotFound
	}
	r := s.Reservations[i].Reservation
	if err := ledger.CheckReservation(r); err != nil {
		return nil, err
	}

	r.Status = status
	r.UpdatedAt = l.now
	s.Reservations[i].Reservation = r
	s.Reservations[i].EffectiveStatus = r.EffectiveStatus(l.now)
	o.ReservationID = &r.ID

	return &r, nil
}

func (l *local) applyBundle(s *model.Snapshot, o *model.Operation, p model.CreateOperationParams) (*model.Bundle, error) {
	if p.BundleID != nil {
		i := slices.IndexFunc(s.Bundles, func(b model.Bundle) bool { return b.ID == *p.BundleID })
		if i < 0 {
			return nil, model.ErrBundleNotFound
		}
		b := s.Bundles[i]
		o.BundleID = &b.ID
		return &b, nil
	}

	title := ledger.Trimmed(p.BundleTitle)
	if title == nil {
		return nil, nil
	}

	b := ledger.NewBundle(*o, *title, l.now)
	b.ID = l.nextID()
	o.BundleID = &b.ID
	s.Bundles = slices.Insert(s.Bundles, 0, b)

	return &b, nil
}

// deleteOperation is a no-op for unknown ids.
func (l *local) deleteOperation(s *model.Snapshot, id int64) {
	s.Operations = lo.Reject(s.Operations, func(o model.OperationView, _ int) bool { return o.ID == id })
}

func (l *local) updateReservation(s *model.Snapshot, p model.UpdateReservationParams) (*model.ReservationView, error) {
	if p.Status != nil && !p.Status.Stored() {
		return nil, model.ErrInvalidStatus
	}

	i := slices.IndexFunc(s.Reservations, func(v model.ReservationView) bool { return v.ID == p.ID })
	if i < 0 {
		return nil, model.ErrReservationNotFound
	}

	v := s.Reservations[i]
	p.ApplyTo(&v.Reservation)
	v.UpdatedAt = l.now
	v.EffectiveStatus = v.Reservation.EffectiveStatus(l.now)
	s.Reservations[i] = v

	for j := range s.Operations {
		if rv := s.Operations[j].Reservation; rv != nil && rv.ID == v.ID {
			linked := v
			s.Operations[j].Reservation = &linked
		}
	}

	return &v, nil
}

func (l *local) createReminder(s *model.Snapshot, p model.CreateReminderParams) (*model.Reminder, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, model.ErrEmptyTitle
	}
	if p.TargetType != nil && !p.TargetType.Valid() {
		return nil, model.ErrInvalidTarget
	}

	r := model.Reminder{
		ID:         l.nextID(),
		OwnerID:    l.ownerID,
		Title:      title,
		Message:    p.Message,
		DueAt:      p.DueAt,
		TargetType: p.TargetType,
		TargetID:   p.TargetID,
		CreatedAt:  l.now,
	}
	s.Reminders = append(s.Reminders, r)

	return &r, nil
}

func (l *local) updateReminder(s *model.Snapshot, p model.UpdateReminderParams) (*model.Reminder, error) {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return nil, model.ErrEmptyTitle
	}

	i := slices.IndexFunc(s.Reminders, func(r model.Reminder) bool { return r.ID == p.ID })
	if i < 0 {
		return nil, model.ErrReminderNotFound
	}

	r := s.Reminders[i]
	p.ApplyTo(&r)
	s.Reminders[i] = r

	return &r, nil
}

func (l *local) aliasesOf(productID int64, labels []string) []model.Alias {
	clean := lo.Uniq(lo.FilterMap(labels, func(label string, _ int) (string, bool) {
		label = strings.TrimSpace(label)
		return label, label != ""
	}))
	return lo.Map(clean, func(label string, _ int) model.Alias {
		return model.Alias{ID: l.nextID(), ProductID: productID, Label: label}
	})
}

// accessoriesOf rejects the whole batch when any id is not a cached product.
func accessoriesOf(s *model.Snapshot, productID int64, ids []int64) ([]model.Accessory, error) {
	ids = lo.Without(lo.Uniq(ids), productID)

	byID := lo.KeyBy(s.Products, func(ps model.ProductSummary) int64 { return ps.ID })
	out := make([]model.Accessory, 0, len(ids))
	for _, id := range ids {
		a, ok := byID[id]
		if !ok {
			return nil, model.ErrInvalidAccessory
		}
		out = append(out, model.Accessory{
			ProductID:     productID,
			AccessoryID:   id,
			AccessoryName: a.Name,
			AccessorySKU:  a.SKU,
		})
	}
	return out, nil
}

// renameRefs refreshes the product projections embedded in other rows.
func renameRefs(s *model.Snapshot, p model.Product) {
	ref := refOf(p)
	for i := range s.Operations {
		if s.Operations[i].ProductID == p.ID {
			s.Operations[i].Product = ref
		}
	}
	for i := range s.Reservations {
		if s.Reservations[i].ProductID == p.ID {
			s.Reservations[i].Product = ref
		}
	}
	for i := range s.Products {
		s.Products[i].Accessories = lo.Map(s.Products[i].Accessories, func(a model.Accessory, _ int) model.Accessory {
			if a.AccessoryID == p.ID {
				a.AccessoryName = p.Name
				a.AccessorySKU = p.SKU
			}
			return a
		})
	}
}

func refOf(p model.Product) model.ProductRef {
	return model.ProductRef{ID: p.ID, Name: p.Name, SKU: p.SKU}
}

func productRef(s *model.Snapshot, id int64) model.ProductRef {
	if i := slices.IndexFunc(s.Products, func(ps model.ProductSummary) bool { return ps.ID == id }); i >= 0 {
		return refOf(s.Products[i].Product)
	}
	return model.ProductRef{ID: id}
}

func operationsOf(views []model.OperationView) []model.Operation {
	return lo.Map(views, func(v model.OperationView, _ int) model.Operation { return v.Operation })
}

// restock recomputes every product stock from the cached journal.
func restock(s *model.Snapshot) {
	s.Products = ledger.WithStock(s.Products, operationsOf(s.Operations))
}

// clone copies the top-level slices so a failed mutation leaves the
// original untouched. Nested slices are replaced, never written in place.
func clone(s model.Snapshot) model.Snapshot {
	return model.Snapshot{
		Products:     slices.Clone(s.Products),
		Operations:   slices.Clone(s.Operations),
		Reservations: slices.Clone(s.Reservations),
		Reminders:    slices.Clone(s.Reminders),
		Bundles:      slices.Clone(s.Bundles),
	}
}

func emptySnapshot() model.Snapshot {
	return model.Snapshot{
		Products:     []model.ProductSummary{},
		Operations:   []model.OperationView{},
		Reservations: []model.ReservationView{},
		Reminders:    []model.Reminder{},
		Bundles:      []model.Bundle{},
	}
}
