package service

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/you-humble/stockledger/internal/ledger"
	"github.com/you-humble/stockledger/internal/model"
	"github.com/you-humble/stockledger/internal/owner"
	"github.com/you-humble/stockledger/platform/logger"
)

type ProductSummarizer interface {
	Summaries(ctx context.Context, ownerID int64) ([]model.ProductSummary, error)
}

type OperationRepository interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Operation, error)
}

type service struct {
	products      ProductSummarizer
	operations    OperationRepository
	readDBTimeout time.Duration
}

func NewDashboardService(
	products ProductSummarizer,
	operations OperationRepository,
	readDBTimeout time.Duration,
) *service {
	return &service{
		products:      products,
		operations:    operations,
		readDBTimeout: readDBTimeout,
	}
}

func (svc *service) Get(ctx context.Context) (*model.Dashboard, error) {
	const op string = "dashboard.service.Get"

	ownerID, err := owner.ID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log := logger.With(logger.Int64("owner_id", ownerID))

	summaries, err := svc.products.Summaries(ctx, ownerID)
	if err != nil {
		log.Error(ctx, "product summaries", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, svc.readDBTimeout)
	defer cancel()

	ops, err := svc.operations.ListByOwner(ctx, ownerID)
	if err != nil {
		log.Error(ctx, "repository list operations", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	d := ledger.BuildDashboard(summaries, ops)
	return &d, nil
}

// LowStockProduct returns the product when it is below its minimum stock and
// nil otherwise. The event watcher calls it for every ledger event.
func (svc *service) LowStockProduct(ctx context.Context, ownerID, productID int64) (*model.ProductSummary, error) {
	const op string = "dashboard.service.LowStockProduct"

	summaries, err := svc.products.Summaries(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	p, ok := lo.Find(summaries, func(s model.ProductSummary) bool { return s.ID == productID })
	if !ok || !ledger.IsLowStock(p) {
		return nil, nil
	}

	return &p, nil
}
