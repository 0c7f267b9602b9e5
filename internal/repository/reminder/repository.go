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

var reminderColumns = []string{
	"id", "owner_id", "title", "message", "due_at", "done", "target_type", "target_id", "created_at",
}

type repository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

func NewReminderRepository(pool *pgxpool.Pool) *repository {
	return &repository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// List puts open reminders first, each group soonest due first.
func (r *repository) List(ctx context.Context, ownerID int64) ([]model.Reminder, error) {
	sqlStr, args, err := r.sb.
		Select(reminderColumns...).
		From("reminders").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("done ASC", "due_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := txmanager.Conn(ctx, r.pool).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []model.Reminder
	for rows.Next() {
		var rm model.Reminder
		if err := rows.Scan(reminderDest(&rm)...); err != nil {
			return nil, err
		}
		reminders = append(reminders, rm)
	}

	return reminders, rows.Err()
}

func (r *repository) ByID(ctx context.Context, id int64) (*model.Reminder, error) {
	sqlStr, args, err := r.sb.
		Select(reminderColumns...).
		From("reminders").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var rm model.Reminder
	if err := txmanager.Conn(ctx, r.pool).QueryRow(ctx, sqlStr, args...).Scan(reminderDest(&rm)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReminderNotFound
		}
		return nil, err
	}

	return &rm, nil
}

func (r *repository) Create(ctx context.Context, rm *model.Reminder) (int64, error) {
	sqlStr, args, err := r.sb.
		Insert("reminders").
		Columns("owner_id", "title", "message", "due_at", "done", "target_type", "target_id", "created_at").
		Values(rm.OwnerID, rm.Title, rm.Message, rm.DueAt, rm.Done, rm.TargetType, rm.TargetID, rm.CreatedAt).
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

func (r *repository) Update(ctx context.Context, rm *model.Reminder) error {
	sqlStr, args, err := r.sb.
		Update("reminders").
		SetMap(sq.Eq{
			"title":   rm.Title,
			"message": rm.Message,
			"due_at":  rm.DueAt,
			"done":    rm.Done,
		}).
		Where(sq.Eq{"id": rm.ID}).
		ToSql()
	if err != nil {
		return err
	}

	ct, err := txmanager.Conn(ctx, r.pool).Exec(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return model.ErrReminderNotFound
	}

	return nil
}

func reminderDest(rm *model.Reminder) []any {
	return []any{
		&rm.ID,
		&rm.OwnerID,
		&rm.Title,
		&rm.Message,
		&rm.DueAt,
		&rm.Done,
		&rm.TargetType,
		&rm.TargetID,
		&rm.CreatedAt,
	}
}
