package http

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/you-humble/stockledger/internal/model"
)

type ProductService interface {
	List(ctx context.Context) ([]model.ProductSummary, error)
	Search(ctx context.Context, query string) ([]model.ProductSummary, error)
	Create(ctx context.Context, params model.CreateProductParams) (*model.ProductSummary, error)
	Update(ctx context.Context, params model.UpdateProductParams) (*model.ProductSummary, error)
	Delete(ctx context.Context, id int64) error
}

type OperationService interface {
	List(ctx context.Context) ([]model.OperationView, error)
	ListBundles(ctx context.Context) ([]model.Bundle, error)
	Create(ctx context.Context, params model.CreateOperationParams) (*model.OperationView, error)
	Delete(ctx context.Context, id int64) error
}

type ReservationService interface {
	List(ctx context.Context) ([]model.ReservationView, error)
	Update(ctx context.Context, params model.UpdateReservationParams) (*model.ReservationView, error)
}

type ReminderService interface {
	List(ctx context.Context) ([]model.Reminder, error)
	Create(ctx context.Context, params model.CreateReminderParams) (*model.Reminder, error)
	Update(ctx context.Context, params model.UpdateReminderParams) (*model.Reminder, error)
}

type DashboardService interface {
	Get(ctx context.Context) (*model.Dashboard, error)
}

type SnapshotService interface {
	Export(ctx context.Context) (*model.Snapshot, error)
	Import(ctx context.Context, s model.Snapshot) error
}

type Services struct {
	Products     ProductService
	Operations   OperationService
	Reservations ReservationService
	Reminders    ReminderService
	Dashboard    DashboardService
	Snapshots    SnapshotService
}

type handler struct {
	products     ProductService
	operations   OperationService
	reservations ReservationService
	reminders    ReminderService
	dashboard    DashboardService
	snapshots    SnapshotService
	validate     *validator.Validate
}

func NewLedgerHandler(s Services) *handler {
	return &handler{
		products:     s.Products,
		operations:   s.Operations,
		reservations: s.Reservations,
		reminders:    s.Reminders,
		dashboard:    s.Dashboard,
		snapshots:    s.Snapshots,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Routes expects an owner identity in the request context; mount it behind
// the auth middleware.
func (h *handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.CreateProduct)
		r.Get("/search", h.SearchProducts)
		r.Put("/{id}", h.UpdateProduct)
		r.Delete("/{id}", h.DeleteProduct)
	})

	r.Route("/operations", func(r chi.Router) {
		r.Get("/", h.ListOperations)
		r.Post("/", h.CreateOperation)
		r.Get("/export", h.ExportOperations)
		r.Delete("/{id}", h.DeleteOperation)
	})

	r.Get("/bundles", h.ListBundles)
	r.Get("/dashboard", h.GetDashboard)

	r.Route("/reservations", func(r chi.Router) {
		r.Get("/", h.ListReservations)
		r.Put("/{id}", h.UpdateReservation)
	})

	r.Route("/reminders", func(r chi.Router) {
		r.Get("/", h.ListReminders)
		r.Post("/", h.CreateReminder)
		r.Put("/{id}", h.UpdateReminder)
	})

	r.Route("/sync/full", func(r chi.Router) {
		r.Get("/", h.ExportSnapshot)
		r.Post("/", h.ImportSnapshot)
	})

	return r
}
