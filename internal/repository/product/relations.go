package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/samber/lo"

	"github.com/you-humble/stockledger/internal/model"
	"github.com/you-humble/stockledger/internal/repository/txmanager"
)

// Aliases returns the aliases of the given products keyed by product id.
func (r *repository) Aliases(ctx context.Context, productIDs []int64) (map[int64][]model.Alias, error) {
	sqlStr, args, err := r.sb.
		Select("id", "product_id", "label").
		From("aliases").
		Where(sq.Eq{"product_id": productIDs}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := txmanager.Conn(ctx, r.pool).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]model.Alias, len(productIDs))
	for rows.Next() {
		var a model.Alias
		if err := rows.Scan(&a.ID, &a.ProductID, &a.Label); err != nil {
			return nil, err
		}
		out[a.ProductID] = append(out[a.ProductID], a)
	}

	return out, rows.Err()
}

// ReplaceAliases drops every alias of the product and inserts labels.
func (r *repository) ReplaceAliases(ctx context.Context, productID int64, labels []string) error {
	conn := txmanager.Conn(ctx, r.pool)

	sqlStr, args, err := r.sb.Delete("aliases").Where(sq.Eq{"product_id": productID}).ToSql()
	if err != nil {
		return err
	}
	if _, err := conn.Exec(ctx, sqlStr, args...); err != nil {
		return err
	}

	if len(labels) == 0 {
		return nil
	}

	ins := r.sb.Insert("aliases").Columns("product_id", "label")
	for _, l := range labels {
		ins = ins.Values(productID, l)
	}

	sqlStr, args, err = ins.ToSql()
	if err != nil {
		return err
	}
	_, err = conn.Exec(ctx, sqlStr, args...)
	return err
}

// Accessories returns the accessory links of the given products with the
// accessory name and sku resolved.
func (r *repository) Accessories(ctx context.Context, productIDs []int64) (map[int64][]model.Accessory, error) {
	sqlStr, args, err := r.sb.
		Select("pa.product_id", "pa.accessory_id", "p.name", "p.sku").
		From("product_accessories pa").
		Join("products p ON p.id = pa.accessory_id").
		Where(sq.Eq{"pa.product_id": productIDs}).
		OrderBy("lower(p.name)", "pa.accessory_id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := txmanager.Conn(ctx, r.pool).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[int64][]model.Accessory, len(productIDs))
	for rows.Next() {
		var a model.Accessory
		if err := rows.Scan(&a.ProductID, &a.AccessoryID, &a.AccessoryName, &a.AccessorySKU); err != nil {
			return nil, err
		}
		out[a.ProductID] = append(out[a.ProductID], a)
	}

	return out, rows.Err()
}

// ReplaceAccessories drops every accessory link of the product and inserts
// links to accessoryIDs. Ids are expected to be validated by the caller.
func (r *repository) ReplaceAccessories(ctx context.Context, productID int64, accessoryIDs []int64) error {
	conn := txmanager.Conn(ctx, r.pool)

	sqlStr, args, err := r.sb.Delete("product_accessories").Where(sq.Eq{"product_id": productID}).ToSql()
	if err != nil {
		return err
	}
	if _, err := conn.Exec(ctx, sqlStr, args...); err != nil {
		return err
	}

	ids := lo.Uniq(lo.Without(accessoryIDs, productID))
	if len(ids) == 0 {
		return nil
	}

	ins := r.sb.Insert("product_accessories").Columns("product_id", "accessory_id")
	for _, id := range ids {
		ins = ins.Values(productID, id)
	}

	sqlStr, args, err = ins.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return err
	}
	_, err = conn.Exec(ctx, sqlStr, args...)
	return err
}
