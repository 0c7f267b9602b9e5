package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"

	"github.com/you-humble/stockledger/internal/model"
	"github.com/you-humble/stockledger/internal/repository/txmanager"
)

// rows per INSERT, keeps every statement well below the bind parameter limit
const chunkSize = 500

// ownedTables are wiped by DeleteOwnerData in this order.
var ownedTables = []string{"operations", "reservations", "reminders", "bundles", "products"}

type repository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

func NewSnapshotRepository(pool *pgxpool.Pool) *repository {
	return &repository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// TakenElsewhere reports whether any of ids already exists in table under
// another owner.
func (r *repository) TakenElsewhere(ctx context.Context, table string, ownerID int64, ids []int64) (bool, error) {
	if len(ids) == 0 {
		return false, nil
	}

	sqlStr, args, err := r.sb.
		Select("1").
		From(table).
		Where(sq.Eq{"id": ids}).
		Where(sq.NotEq{"owner_id": ownerID}).
		Limit(1).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, err
	}

	var taken bool
	if err := txmanager.Conn(ctx, r.pool).QueryRow(ctx, sqlStr, args...).Scan(&taken); err != nil {
		return false, err
	}

	return taken, nil
}

// DeleteOwnerData removes every entity of ownerID. Aliases and accessory
// links are removed with their products.
func (r *repository) DeleteOwnerData(ctx context.Context, ownerID int64) error {
	for _, table := range ownedTables {
		sqlStr, args, err := r.sb.Delete(table).Where(sq.Eq{"owner_id": ownerID}).ToSql()
		if err != nil {
			return err
		}
		if _, err := txmanager.Conn(ctx, r.pool).Exec(ctx, sqlStr, args...); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}
	return nil
}

func (r *repository) InsertProducts(ctx context.Context, ownerID int64, products []model.ProductSummary) error {
	for _, chunk := range lo.Chunk(products, chunkSize) {
		q := r.sb.Insert("products").Columns("id", "owner_id", "name", "sku", "model", "min_stock",
			"has_import_permit", "notes", "archived", "created_at", "updated_at")
		for _, p := range chunk {
			q = q.Values(p.ID, ownerID, p.Name, p.SKU, p.Model, p.MinStock,
				p.HasImportPermit, p.Notes, p.Archived, p.CreatedAt, p.UpdatedAt)
		}
		if err := r.exec(ctx, q); err != nil {
			return fmt.Errorf("insert products: %w", err)
		}
	}
	return nil
}

// InsertRelations writes aliases and accessory links. Alias ids are reassigned.
func (r *repository) InsertRelations(ctx context.Context, products []model.ProductSummary) error {
	var (
		aliases     []model.Alias
		accessories []model.Accessory
	)
	for _, p := range products {
		for _, a := range p.Aliases {
			a.ProductID = p.ID
			aliases = append(aliases, a)
		}
		for _, a := range p.Accessories {
			if a.AccessoryID == p.ID {
				continue
			}
			a.ProductID = p.ID
			accessories = append(accessories, a)
		}
	}

	for _, chunk := range lo.Chunk(aliases, chunkSize) {
		q := r.sb.Insert("aliases").Columns("product_id", "label")
		for _, a := range chunk {
			q = q.Values(a.ProductID, a.Label)
		}
		if err := r.exec(ctx, q); err != nil {
			return fmt.Errorf("insert aliases: %w", err)
		}
	}

	for _, chunk := range lo.Chunk(accessories, chunkSize) {
		q := r.sb.Insert("product_accessories").Columns("product_id", "accessory_id")
		for _, a := range chunk {
			q = q.Values(a.ProductID, a.AccessoryID)
		}
		q = q.Suffix("ON CONFLICT DO NOTHING")
		if err := r.exec(ctx, q); err != nil {
			return fmt.Errorf("insert accessories: %w", err)
		}
	}
	return nil
}

func (r *repository) InsertBundles(ctx context.Context, ownerID int64, bundles []model.Bundle) error {
	for _, chunk := range lo.Chunk(bundles, chunkSize) {
		q := r.sb.Insert("bundles").Columns("id", "owner_id", "title", "customer", "note", "created_at")
		for _, b := range chunk {
			q = q.Values(b.ID, ownerID, b.Title, b.Customer, b.Note, b.CreatedAt)
		}
		if err := r.exec(ctx, q); err != nil {
			return fmt.Errorf("insert bundles: %w", err)
		}
	}
	return nil
}

// InsertReservations stores the persisted status; the expired projection is
// never written.
func (r *repository) InsertReservations(ctx context.Context, ownerID int64, reservations []model.ReservationView) error {
	for _, chunk := range lo.Chunk(reservations, chunkSize) {
		q := r.sb.Insert("reservations").Columns("id", "owner_id", "product_id", "quantity", "customer",
			"contact", "status", "due_at", "comment", "link_code", "created_at", "updated_at")
		for _, v := range chunk {
			q = q.Values(v.ID, ownerID, v.ProductID, v.Quantity, v.Customer,
				v.Contact, v.Status, v.DueAt, v.Comment, v.LinkCode, v.CreatedAt, v.UpdatedAt)
		}
		if err := r.exec(ctx, q); err != nil {
			return fmt.Errorf("insert reservations: %w", err)
		}
	}
	return nil
}

func (r *repository) InsertOperations(ctx context.Context, ownerID int64, ops []model.OperationView) error {
	for _, chunk := range lo.Chunk(ops, chunkSize) {
		q := r.sb.Insert("operations").Columns("id", "owner_id", "product_id", "type", "quantity",
			"customer", "contact", "permit_number", "paid", "reservation_id", "bundle_id",
			"due_at", "comment", "occurred_at", "created_at")
		for _, o := range chunk {
			q = q.Values(o.ID, ownerID, o.ProductID, o.Type, o.Quantity,
				o.Customer, o.Contact, o.PermitNumber, o.Paid, o.ReservationID, o.BundleID,
				o.DueAt, o.Comment, o.OccurredAt, o.CreatedAt)
		}
		if err := r.exec(ctx, q); err != nil {
			return fmt.Errorf("insert operations: %w", err)
		}
	}
	return nil
}

func (r *repository) InsertReminders(ctx context.Context, ownerID int64, reminders []model.Reminder) error {
	for _, chunk := range lo.Chunk(reminders, chunkSize) {
		q := r.sb.Insert("reminders").Columns("id", "owner_id", "title", "message", "due_at",
			"done", "target_type", "target_id", "created_at")
		for _, rm := range chunk {
			q = q.Values(rm.ID, ownerID, rm.Title, rm.Message, rm.DueAt,
				rm.Done, rm.TargetType, rm.TargetID, rm.CreatedAt)
		}
		if err := r.exec(ctx, q); err != nil {
			return fmt.Errorf("insert reminders: %w", err)
		}
	}
	return nil
}

// ResetSequences moves every id sequence past the largest stored id so that
// rows created after an import never collide with imported ones.
func (r *repository) ResetSequences(ctx context.Context) error {
	for _, table := range ownedTables {
		sqlStr := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%[1]s', 'id'), GREATEST((SELECT COALESCE(MAX(id), 0) FROM %[1]s), 0) + 1, false)",
			table,
		)
		if _, err := txmanager.Conn(ctx, r.pool).Exec(ctx, sqlStr); err != nil {
			return fmt.Errorf("reset %s sequence: %w", table, err)
		}
	}
	return nil
}

func (r *repository) exec(ctx context.Context, q sq.InsertBuilder) error {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return err
	}
	_, err = txmanager.Conn(ctx, r.pool).Exec(ctx, sqlStr, args...)
	return err
}
