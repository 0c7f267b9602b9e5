package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/you-humble/stockledger/internal/model"
	"github.com/you-humble/stockledger/internal/repository/txmanager"
)

var productColumns = []string{
	"id", "owner_id", "name", "sku", "model", "min_stock",
	"has_import_permit", "notes", "archived", "created_at", "updated_at",
}

type repository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

func NewProductRepository(pool *pgxpool.Pool) *repository {
	return &repository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *repository) List(ctx context.Context, ownerID int64) ([]model.Product, error) {
	q := r.sb.
		Select(productColumns...).
		From("products").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("lower(name)", "id")

	return r.query(ctx, q)
}

// Search matches name, sku, model or any alias; archived products are skipped.
func (r *repository) Search(ctx context.Context, ownerID int64, query string, limit uint64) ([]model.Product, error) {
	pattern := "%" + escapeLike(strings.TrimSpace(query)) + "%"

	q := r.sb.
		Select(productColumns...).
		From("products").
		Where(sq.Eq{"owner_id": ownerID, "archived": false}).
		Where(sq.Or{
			sq.ILike{"name": pattern},
			sq.ILike{"sku": pattern},
			sq.ILike{"model": pattern},
			sq.Expr("EXISTS (SELECT 1 FROM aliases a WHERE a.product_id = products.id AND a.label ILIKE ?)", pattern),
		}).
		OrderBy("lower(name)", "id").
		Limit(limit)

	return r.query(ctx, q)
}

func (r *repository) ByID(ctx context.Context, id int64) (*model.Product, error) {
	q := r.sb.
		Select(productColumns...).
		From("products").
		Where(sq.Eq{"id": id})

	return r.get(ctx, q)
}

// LockByID reads the product with a row lock held until the surrounding
// transaction ends. Ledger writes for one product are serialized through it.
func (r *repository) LockByID(ctx context.Context, id int64) (*model.Product, error) {
	q := r.sb.
		Select(productColumns...).
		From("products").
		Where(sq.Eq{"id": id}).
		Suffix("FOR UPDATE")

	return r.get(ctx, q)
}

func (r *repository) Create(ctx context.Context, p *model.Product) (int64, error) {
	q := r.sb.
		Insert("products").
		Columns("owner_id", "name", "sku", "model", "min_stock",
			"has_import_permit", "notes", "archived", "created_at", "updated_at").
		Values(p.OwnerID, p.Name, p.SKU, p.Model, p.MinStock,
			p.HasImportPermit, p.Notes, p.Archived, p.CreatedAt, p.UpdatedAt).
		Suffix("RETURNING id")

	sqlStr, args, err := q.ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := txmanager.Conn(ctx, r.pool).QueryRow(ctx, sqlStr, args...).Scan(&id); err != nil {
		return 0, err
	}

	return id, nil
}

func (r *repository) Update(ctx context.Context, p *model.Product) error {
	if p.ID == 0 {
		return errors.New("empty product id")
	}

	q := r.sb.
		Update("products").
		SetMap(sq.Eq{
			"name":              p.Name,
			"sku":               p.SKU,
			"model":             p.Model,
			"min_stock":         p.MinStock,
			"has_import_permit": p.HasImportPermit,
			"notes":             p.Notes,
			"archived":          p.Archived,
			"updated_at":        p.UpdatedAt,
		}).
		Where(sq.Eq{"id": p.ID})

	return r.execOne(ctx, q)
}

func (r *repository) Touch(ctx context.Context, id int64, at time.Time) error {
	q := r.sb.
		Update("products").
		Set("updated_at", at).
		Where(sq.Eq{"id": id})

	return r.execOne(ctx, q)
}

// Delete removes the product; aliases and accessory links go with it.
func (r *repository) Delete(ctx context.Context, id int64) error {
	q := r.sb.
		Delete("products").
		Where(sq.Eq{"id": id})

	return r.execOne(ctx, q)
}

func (r *repository) IsReferenced(ctx context.Context, id int64) (bool, error) {
	sqlStr, args, err := r.sb.
		Select("1").
		From("operations").
		Where(sq.Eq{"product_id": id}).
		Limit(1).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, err
	}

	var exists bool
	if err := txmanager.Conn(ctx, r.pool).QueryRow(ctx, sqlStr, args...).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

// CountOwned counts how many of ids are products of ownerID.
func (r *repository) CountOwned(ctx context.Context, ownerID int64, ids []int64) (int, error) {
	sqlStr, args, err := r.sb.
		Select("count(*)").
		From("products").
		Where(sq.Eq{"owner_id": ownerID, "id": ids}).
		ToSql()
	if err != nil {
		return 0, err
	}

	var n int
	if err := txmanager.Conn(ctx, r.pool).QueryRow(ctx, sqlStr, args...).Scan(&n); err != nil {
		return 0, err
	}

	return n, nil
}

func (r *repository) query(ctx context.Context, q sq.SelectBuilder) ([]model.Product, error) {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := txmanager.Conn(ctx, r.pool).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}

	return products, rows.Err()
}

func (r *repository) get(ctx context.Context, q sq.SelectBuilder) (*model.Product, error) {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	p, err := scanProduct(txmanager.Conn(ctx, r.pool).QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProductNotFound
		}
		return nil, err
	}

	return p, nil
}

func (r *repository) execOne(ctx context.Context, q sq.Sqlizer) error {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return err
	}

	ct, err := txmanager.Conn(ctx, r.pool).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	return nil
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID,
		&p.OwnerID,
		&p.Name,
		&p.SKU,
		&p.Model,
		&p.MinStock,
		&p.HasImportPermit,
		&p.Notes,
		&p.Archived,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
