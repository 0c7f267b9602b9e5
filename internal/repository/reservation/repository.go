package repository

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/you-humble/stockledger/internal/model"
	"github.com/you-humble/stockledger/internal/repository/txmanager"
)

var reservationColumns = []string{
	"r.id", "r.owner_id", "r.product_id", "r.quantity", "r.customer", "r.contact",
	"r.status", "r.due_at", "r.comment", "r.link_code", "r.created_at", "r.updated_at",
}

type repository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

func NewReservationRepository(pool *pgxpool.Pool) *repository {
	return &repository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// List returns reservations joined with their product, soonest due first.
// EffectiveStatus mirrors the stored status; the caller projects expiry.
func (r *repository) List(ctx context.Context, ownerID int64) ([]model.ReservationView, error) {
	sqlStr, args, err := r.views().
		Where(sq.Eq{"r.owner_id": ownerID}).
		OrderBy("r.due_at ASC NULLS LAST", "r.id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := txmanager.Conn(ctx, r.pool).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []model.ReservationView
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}

	return views, rows.Err()
}

func (r *repository) ViewByID(ctx context.Context, id int64) (*model.ReservationView, error) {
	sqlStr, args, err := r.views().Where(sq.Eq{"r.id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	v, err := scanView(txmanager.Conn(ctx, r.pool).QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReservationNotFound
		}
		return nil, err
	}

	return v, nil
}

func (r *repository) ByID(ctx context.Context, id int64) (*model.Reservation, error) {
	return r.get(ctx, r.sb.
		Select(reservationColumns...).
		From("reservations r").
		Where(sq.Eq{"r.id": id}))
}

// LockByID is ByID with a row lock for the rest of the transaction.
func (r *repository) LockByID(ctx context.Context, id int64) (*model.Reservation, error) {
	return r.get(ctx, r.sb.
		Select(reservationColumns...).
		From("reservations r").
		Where(sq.Eq{"r.id": id}).
		Suffix("FOR UPDATE"))
}

func (r *repository) Create(ctx context.Context, res *model.Reservation) (int64, error) {
	sqlStr, args, err := r.sb.
		Insert("reservations").
		Columns("owner_id", "product_id", "quantity", "customer", "contact", "status",
			"due_at", "comment", "link_code", "created_at", "updated_at").
		Values(res.OwnerID, res.ProductID, res.Quantity, res.Customer, res.Contact, res.Status,
			res.DueAt, res.Comment, res.LinkCode, res.CreatedAt, res.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}

	var id int64
	if err := txmanager.Conn(ctx, r.pool).QueryRow(ctx, sqlStr, args...).Scan(&id); err != nil {
		return 0, err
	}

	return id, nil
}

func (r *repository) Update(ctx context.Context, res *model.Reservation) error {
	return r.execOne(ctx, r.sb.
		Update("reservations").
		SetMap(sq.Eq{
			"customer":   res.Customer,
			"contact":    res.Contact,
			"status":     res.Status,
			"due_at":     res.DueAt,
			"comment":    res.Comment,
			"updated_at": res.UpdatedAt,
		}).
		Where(sq.Eq{"id": res.ID}))
}

func (r *repository) get(ctx context.Context, q sq.SelectBuilder) (*model.Reservation, error) {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	var res model.Reservation
	err = txmanager.Conn(ctx, r.pool).QueryRow(ctx, sqlStr, args...).Scan(reservationDest(&res)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReservationNotFound
		}
		return nil, err
	}

	return &res, nil
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
		return model.ErrReservationNotFound
	}

	return nil
}

func (r *repository) views() sq.SelectBuilder {
	return r.sb.
		Select(append(append([]string{}, reservationColumns...), "p.name", "p.sku")...).
		From("reservations r").
		Join("products p ON p.id = r.product_id")
}

func scanView(row pgx.Row) (*model.ReservationView, error) {
	var v model.ReservationView
	dest := append(reservationDest(&v.Reservation), &v.Product.Name, &v.Product.SKU)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	v.Product.ID = v.ProductID
	v.EffectiveStatus = v.Status
	return &v, nil
}

func reservationDest(res *model.Reservation) []any {
	return []any{
		&res.ID,
		&res.OwnerID,
		&res.ProductID,
		&res.Quantity,
		&res.Customer,
		&res.Contact,
		&res.Status,
		&res.DueAt,
		&res.Comment,
		&res.LinkCode,
		&res.CreatedAt,
		&res.UpdatedAt,
	}
}
