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

var bundleColumns = []string{"id", "owner_id", "title", "customer", "note", "created_at"}

type repository struct {
	pool *pgxpool.Pool
	sb   sq.StatementBuilderType
}

func NewBundleRepository(pool *pgxpool.Pool) *repository {
	return &repository{
		pool: pool,
		sb:   sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *repository) List(ctx context.Context, ownerID int64) ([]model.Bundle, error) {
	sqlStr, args, err := r.sb.
		Select(bundleColumns...).
		From("bundles").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := txmanager.Conn(ctx, r.pool).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bundles []model.Bundle
	for rows.Next() {
		var b model.Bundle
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.Title, &b.Customer, &b.Note, &b.CreatedAt); err != nil {
			return nil, err
		}
		bundles = append(bundles, b)
	}

	return bundles, rows.Err()
}

func (r *repository) ByID(ctx context.Context, id int64) (*model.Bundle, error) {
	sqlStr, args, err := r.sb.
		Select(bundleColumns...).
		From("bundles").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var b model.Bundle
	err = txmanager.Conn(ctx, r.pool).QueryRow(ctx, sqlStr, args...).
		Scan(&b.ID, &b.OwnerID, &b.Title, &b.Customer, &b.Note, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBundleNotFound
		}
		return nil, err
	}

	return &b, nil
}

func (r *repository) Create(ctx context.Context, b *model.Bundle) (int64, error) {
	sqlStr, args, err := r.sb.
		Insert("bundles").
		Columns("owner_id", "title", "customer", "note", "created_at").
		Values(b.OwnerID, b.Title, b.Customer, b.Note, b.CreatedAt).
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
