package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/you-humble/stockledger/internal/model"
)

// IsLowStock reports whether a tracked product has fallen below its minimum.
// A zero minimum disables tracking; archived products are never low.
func IsLowStock(p model.ProductSummary) bool {
	if p.Archived || p.MinStock <= 0 {
		return false
	}
	return p.Stock.Available.LessThan(decimal.NewFromInt(int64(p.MinStock)))
}

// BuildDashboard derives the dashboard from summaries whose stock is already
// folded and from the owner's full operation log.
func BuildDashboard(products []model.ProductSummary, ops []model.Operation) model.Dashboard {
	d := model.Dashboard{
		LowStock:      []model.ProductSummary{},
		TotalReserved: decimal.Zero,
	}

	names := make(map[int64]string, len(products))
	for _, p := range products {
		names[p.ID] = p.Name
		d.TotalReserved = d.TotalReserved.Add(p.Stock.Reserved)
		if IsLowStock(p) {
			d.LowStock = append(d.LowStock, p)
		}
	}

	d.ActiveDebts = ActiveDebts(ops)
	for i := range d.ActiveDebts {
		d.ActiveDebts[i].ProductName = names[d.ActiveDebts[i].ProductID]
	}

	return d
}
