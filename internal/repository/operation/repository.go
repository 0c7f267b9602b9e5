package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/you-humble/stockledger/internal/model"
	"github.com/you-humble/stockledger/internal/repository/txmanager"
)

var operationColumns = []string{
	"o.id", "o.owner_id", "o.product_id", "o.type", "o.quantity", "o.customer",
	"o.contact", "o.permit_number", "o.paid", "o.reservation_id", "o.bundle_id",
	"o.due_at", "o.comment", "o.occurred_at", "o.created_at",
}

var viewColumns = append(append([]string{}, operationColumns...),
	"p.name", "p.sku",
	"r.id", "r.quantity", "r.customer", "r.contact", "r.status", "r.due_at",
	"r.comment", "r.link_code", "r.created_at", "r.updated_at",
	"b.id", "b.title", "b.customer", "b.note", "b.created_at",
)

type repository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

func NewOperationRepository(pool *pgxpool.Pool) *repository {
	return &repository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *repository) ListByOwner(ctx context.Context, ownerID int64) ([]model.Operation, error) {
	q := r.sb.
		Select(operationColumns...).
		From("operations o").
		Where(sq.Eq{"o.owner_id": ownerID}).
		OrderBy("o.occurred_at DESC", "o.id DESC")

	return r.query(ctx, q)
}

func (r *repository) ListByProduct(ctx context.Context, productID int64) ([]model.Operation, error) {
	q := r.sb.
		Select(operationColumns...).
		From("operations o").
		Where(sq.Eq{"o.product_id": productID}).
		OrderBy("o.occurred_at DESC", "o.id DESC")

	return r.query(ctx, q)
}

func (r *repository) ByID(ctx context.Context, id int64) (*model.Operation, error) {
	sqlStr, args, err := r.sb.
		Select(operationColumns...).
		From("operations o").
		Where(sq.Eq{"o.id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	op, err := scanOperation(txmanager.Conn(ctx, r.pool).QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOperationNotFound
		}
		return nil, err
	}

	return op, nil
}

// ListViews returns the owner's operations with product, reservation and
// bundle attached, newest first.
func (r *repository) ListViews(ctx context.Context, ownerID int64) ([]model.OperationView, error) {
	sqlStr, args, err := r.views().
		Where(sq.Eq{"o.owner_id": ownerID}).
		OrderBy("o.occurred_at DESC", "o.id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := txmanager.Conn(ctx, r.pool).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []model.OperationView
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}

	return views, rows.Err()
}

func (r *repository) ViewByID(ctx context.Context, id int64) (*model.OperationView, error) {
	sqlStr, args, err := r.views().Where(sq.Eq{"o.id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	v, err := scanView(txmanager.Conn(ctx, r.pool).QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOperationNotFound
		}
		return nil, err
	}

	return v, nil
}

func (r *repository) Create(ctx context.Context, op *model.Operation) (int64, error) {
	q := r.sb.
		Insert("operations").
		Columns("owner_id", "product_id", "type", "quantity", "customer", "contact",
			"permit_number", "paid", "reservation_id", "bundle_id", "due_at",
			"comment", "occurred_at", "created_at").
		Values(op.OwnerID, op.ProductID, op.Type, op.Quantity, op.Customer, op.Contact,
			op.PermitNumber, op.Paid, op.ReservationID, op.BundleID, op.DueAt,
			op.Comment, op.OccurredAt, op.CreatedAt).
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

func (r *repository) Delete(ctx context.Context, id int64) error {
	sqlStr, args, err := r.sb.Delete("operations").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}

	ct, err := txmanager.Conn(ctx, r.pool).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return model.ErrOperationNotFound
	}

	return nil
}

func (r *repository) views() sq.SelectBuilder {
	return r.sb.
		Select(viewColumns...).
		From("operations o").
		Join("products p ON p.id = o.product_id").
		LeftJoin("reservations r ON r.id = o.reservation_id").
		LeftJoin("bundles b ON b.id = o.bundle_id")
}

func (r *repository) query(ctx context.Context, q sq.SelectBuilder) ([]model.Operation, error) {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := txmanager.Conn(ctx, r.pool).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ops []model.Operation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, err
		}
		ops = append(ops, *op)
	}

	return ops, rows.Err()
}

func operationDest(op *model.Operation) []any {
	return []any{
		&op.ID,
		&op.OwnerID,
		&op.ProductID,
		&op.Type,
		&op.Quantity,
		&op.Customer,
		&op.Contact,
		&op.PermitNumber,
		&op.Paid,
		&op.ReservationID,
		&op.BundleID,
		&op.DueAt,
		&op.Comment,
		&op.OccurredAt,
		&op.CreatedAt,
	}
}

func scanOperation(row pgx.Row) (*model.Operation, error) {
	var op model.Operation
	if err := row.Scan(operationDest(&op)...); err != nil {
		return nil, err
	}
	return &op, nil
}

type nullReservation struct {
	id        *int64
	quantity  decimal.NullDecimal
	customer  *string
	contact   *string
	status    *string
	dueAt     *time.Time
	comment   *string
	linkCode  *string
	createdAt *time.Time
	updatedAt *time.Time
}

type nullBundle struct {
	id        *int64
	title     *string
	customer  *string
	note      *string
	createdAt *time.Time
}

func scanView(row pgx.Row) (*model.OperationView, error) {
	var (
		v   model.OperationView
		res nullReservation
		bnd nullBundle
	)

	dest := operationDest(&v.Operation)
	dest = append(dest,
		&v.Product.Name, &v.Product.SKU,
		&res.id, &res.quantity, &res.customer, &res.contact, &res.status, &res.dueAt,
		&res.comment, &res.linkCode, &res.createdAt, &res.updatedAt,
		&bnd.id, &bnd.title, &bnd.customer, &bnd.note, &bnd.createdAt,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	v.Product.ID = v.ProductID

	if res.id != nil {
		rv := model.ReservationView{
			Reservation: model.Reservation{
				ID:        *res.id,
				OwnerID:   v.OwnerID,
				ProductID: v.ProductID,
				Quantity:  res.quantity.Decimal,
				Customer:  res.customer,
				Contact:   res.contact,
				Status:    model.ReservationStatus(deref(res.status)),
				DueAt:     res.dueAt,
				Comment:   res.comment,
				LinkCode:  deref(res.linkCode),
				CreatedAt: derefTime(res.createdAt),
				UpdatedAt: derefTime(res.updatedAt),
			},
			Product: v.Product,
		}
		rv.EffectiveStatus = rv.Status
		v.Reservation = &rv
	}

	if bnd.id != nil {
		v.Bundle = &model.Bundle{
			ID:        *bnd.id,
			OwnerID:   v.OwnerID,
			Title:     bnd.title,
			Customer:  bnd.customer,
			Note:      bnd.note,
			CreatedAt: derefTime(bnd.createdAt),
		}
	}

	return &v, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
