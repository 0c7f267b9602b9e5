package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/you-humble/stockledger/internal/ledger"
	"github.com/you-humble/stockledger/internal/model"
	"github.com/you-humble/stockledger/internal/owner"
	"github.com/you-humble/stockledger/platform/logger"
)

const searchLimit = 8

type ProductRepository interface {
	List(ctx context.Context, ownerID int64) ([]model.Product, error)
	Search(ctx context.Context, ownerID int64, query string, limit uint64) ([]model.Product, error)
	ByID(ctx context.Context, id int64) (*model.Product, error)
	Create(ctx context.Context, p *model.Product) (int64, error)
	Update(ctx context.Context, p *model.Product) error
	Delete(ctx context.Context, id int64) error
	IsReferenced(ctx context.Context, id int64) (bool, error)
	CountOwned(ctx context.Context, ownerID int64, ids []int64) (int, error)
	Aliases(ctx context.Context, productIDs []int64) (map[int64][]model.Alias, error)
	ReplaceAliases(ctx context.Context, productID int64, labels []string) error
	Accessories(ctx context.Context, productIDs []int64) (map[int64][]model.Accessory, error)
	ReplaceAccessories(ctx context.Context, productID int64, accessoryIDs []int64) error
}

type OperationRepository interface {
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Operation, error)
	ListByProduct(ctx context.Context, productID int64) ([]model.Operation, error)
}

type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type service struct {
	repo           ProductRepository
	operations     OperationRepository
	tx             TxManager
	readDBTimeout  time.Duration
	writeDBTimeout time.Duration
	now            func() time.Time
}

func NewProductService(
	repository ProductRepository,
	operations OperationRepository,
	tx TxManager,
	readDBTimeout time.Duration,
	writeDBTimeout time.Duration,
) *service {
	return &service{
		repo:           repository,
		operations:     operations,
		tx:             tx,
		readDBTimeout:  readDBTimeout,
		writeDBTimeout: writeDBTimeout,
		now:            time.Now,
	}
}

func (svc *service) List(ctx context.Context) ([]model.ProductSummary, error) {
	const op string = "product.service.List"

	ownerID, err := owner.ID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	summaries, err := svc.Summaries(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return summaries, nil
}

// Summaries returns every product of ownerID with aliases, accessories and
// the stock folded from the owner's ledger.
func (svc *service) Summaries(ctx context.Context, ownerID int64) ([]model.ProductSummary, error) {
	const op string = "product.service.Summaries"
	log := logger.With(logger.Int64("owner_id", ownerID))

	ctx, cancel := context.WithTimeout(ctx, svc.readDBTimeout)
	defer cancel()

	products, err := svc.repo.List(ctx, ownerID)
	if err != nil {
		log.Error(ctx, "repository list products", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ops, err := svc.operations.ListByOwner(ctx, ownerID)
	if err != nil {
		log.Error(ctx, "repository list operations", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	summaries, err := svc.summarize(ctx, products, ops)
	if err != nil {
		log.Error(ctx, "summarize products", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return summaries, nil
}

func (svc *service) Search(ctx context.Context, query string) ([]model.ProductSummary, error) {
	const op string = "product.service.Search"

	ownerID, err := owner.ID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log := logger.With(logger.Int64("owner_id", ownerID), logger.String("query", query))

	if strings.TrimSpace(query) == "" {
		return []model.ProductSummary{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, svc.readDBTimeout)
	defer cancel()

	products, err := svc.repo.Search(ctx, ownerID, query, searchLimit)
	if err != nil {
		log.Error(ctx, "repository search products", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(products) == 0 {
		return []model.ProductSummary{}, nil
	}

	ops, err := svc.operations.ListByOwner(ctx, ownerID)
	if err != nil {
		log.Error(ctx, "repository list operations", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	summaries, err := svc.summarize(ctx, products, ops)
	if err != nil {
		log.Error(ctx, "summarize products", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return summaries, nil
}

func (svc *service) Create(ctx context.Context, params model.CreateProductParams) (*model.ProductSummary, error) {
	const op string = "product.service.Create"

	ownerID, err := owner.ID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log := logger.With(logger.Int64("owner_id", ownerID))

	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, fmt.Errorf("%s: %w", op, model.ErrEmptyName)
	}
	if params.MinStock < 0 {
		return nil, fmt.Errorf("%s: %w", op, model.ErrInvalidMinStock)
	}

	now := svc.now()
	p := &model.Product{
		OwnerID:         ownerID,
		Name:            name,
		SKU:             params.SKU,
		Model:           params.Model,
		MinStock:        params.MinStock,
		HasImportPermit: params.HasImportPermit,
		Notes:           params.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	ctx, cancel := context.WithTimeout(ctx, svc.writeDBTimeout)
	defer cancel()

	err = svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		id, err := svc.repo.Create(ctx, p)
		if err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		p.ID = id

		if err := svc.repo.ReplaceAliases(ctx, id, cleanLabels(params.Aliases)); err != nil {
			return fmt.Errorf("replace aliases: %w", err)
		}

		return svc.replaceAccessories(ctx, ownerID, id, params.AccessoryIDs)
	})
	if err != nil {
		log.Error(ctx, "create product", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	summary, err := svc.summary(ctx, p)
	if err != nil {
		log.Error(ctx, "summarize product", logger.Int64("product_id", p.ID), logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return summary, nil
}

func (svc *service) Update(ctx context.Context, params model.UpdateProductParams) (*model.ProductSummary, error) {
	const op string = "product.service.Update"

	ownerID, err := owner.ID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	log := logger.With(logger.Int64("owner_id", ownerID), logger.Int64("product_id", params.ID))

	if params.Name != nil && strings.TrimSpace(*params.Name) == "" {
		return nil, fmt.Errorf("%s: %w", op, model.ErrEmptyName)
	}
	if params.MinStock != nil && *params.MinStock < 0 {
		return nil, fmt.Errorf("%s: %w", op, model.ErrInvalidMinStock)
	}

	ctx, cancel := context.WithTimeout(ctx, svc.writeDBTimeout)
	defer cancel()

	var updated *model.Product
	err = svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := svc.repo.ByID(ctx, params.ID)
		if err != nil {
			return err
		}
		if err := owner.Check(ownerID, p.OwnerID); err != nil {
			return err
		}

		params.ApplyTo(p)
		p.UpdatedAt = svc.now()

		if err := svc.repo.Update(ctx, p); err != nil {
			return fmt.Errorf("update product: %w", err)
		}

		if params.Aliases != nil {
			if err := svc.repo.ReplaceAliases(ctx, p.ID, cleanLabels(*params.Aliases)); err != nil {
				return fmt.Errorf("replace aliases: %w", err)
			}
		}
		if params.AccessoryIDs != nil {
			if err := svc.replaceAccessories(ctx, ownerID, p.ID, *params.AccessoryIDs); err != nil {
				return err
			}
		}

		updated = p
		return nil
	})
	if err != nil {
		log.Error(ctx, "update product", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	summary, err := svc.summary(ctx, updated)
	if err != nil {
		log.Error(ctx, "summarize product", logger.ErrorF(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return summary, nil
}

// Delete removes a product that no operation references.
func (svc *service) Delete(ctx context.Context, id int64) error {
	const op string = "product.service.Delete"

	ownerID, err := owner.ID(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	log := logger.With(logger.Int64("owner_id", ownerID), logger.Int64("product_id", id))

	ctx, cancel := context.WithTimeout(ctx, svc.writeDBTimeout)
	defer cancel()

	err = svc.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := svc.repo.ByID(ctx, id)
		if err != nil {
			return err
		}
		if err := owner.Check(ownerID, p.OwnerID); err != nil {
			return err
		}

		referenced, err := svc.repo.IsReferenced(ctx, id)
		if err != nil {
			return fmt.Errorf("check references: %w", err)
		}
		if referenced {
			return model.ErrProductReferenced
		}

		return svc.repo.Delete(ctx, id)
	})
	if err != nil {
		log.Error(ctx, "delete product", logger.ErrorF(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// replaceAccessories rejects the whole batch unless every id is a product
// of the same owner. A link to the product itself is dropped.
func (svc *service) replaceAccessories(ctx context.Context, ownerID, productID int64, accessoryIDs []int64) error {
	ids := lo.Without(lo.Uniq(accessoryIDs), productID)
	if len(ids) > 0 {
		n, err := svc.repo.CountOwned(ctx, ownerID, ids)
		if err != nil {
			return fmt.Errorf("count accessories: %w", err)
		}
		if n != len(ids) {
			return model.ErrInvalidAccessory
		}
	}

	if err := svc.repo.ReplaceAccessories(ctx, productID, ids); err != nil {
		return fmt.Errorf("replace accessories: %w", err)
	}
	return nil
}

func (svc *service) summary(ctx context.Context, p *model.Product) (*model.ProductSummary, error) {
	ops, err := svc.operations.ListByProduct(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	summaries, err := svc.summarize(ctx, []model.Product{*p}, ops)
	if err != nil {
		return nil, err
	}

	return &summaries[0], nil
}

func (svc *service) summarize(
	ctx context.Context,
	products []model.Product,
	ops []model.Operation,
) ([]model.ProductSummary, error) {
	ids := lo.Map(products, func(p model.Product, _ int) int64 { return p.ID })

	aliases, err := svc.repo.Aliases(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("aliases: %w", err)
	}
	accessories, err := svc.repo.Accessories(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("accessories: %w", err)
	}

	stocks := ledger.Fold(ops)
	out := make([]model.ProductSummary, len(products))
	for i, p := range products {
		out[i] = model.ProductSummary{
			Product:     p,
			Aliases:     orEmpty(aliases[p.ID]),
			Accessories: orEmpty(accessories[p.ID]),
			Stock:       ledger.StockOf(stocks, p.ID),
		}
	}

	return out, nil
}

func cleanLabels(labels []string) []string {
	return lo.Uniq(lo.FilterMap(labels, func(l string, _ int) (string, bool) {
		l = strings.TrimSpace(l)
		return l, l != ""
	}))
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
