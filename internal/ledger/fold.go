// Package ledger derives stock and debt figures from the operation log.
// Everything here is pure: the same operations always fold to the same result.
package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/you-humble/stockledger/internal/model"
)

// Apply folds a single operation into s.
func Apply(s model.Stock, op model.Operation) model.Stock {
	q := op.Quantity

	switch op.Type {
	case model.OperationPurchase, model.OperationReturn:
		s.OnHand = s.OnHand.Add(q)
	case model.OperationSale, model.OperationSaleFromReserve, model.OperationShipOnCredit:
		s.OnHand = s.OnHand.Sub(q)
	default:
	}

	switch op.Type {
	case model.OperationReserve:
		s.Reserved = s.Reserved.Add(q)
	case model.OperationReserveRelease, model.OperationSaleFromReserve:
		s.Reserved = s.Reserved.Sub(q)
	default:
	}

	switch op.Type {
	case model.OperationShipOnCredit:
		s.Debt = s.Debt.Add(q)
	case model.OperationCloseDebt:
		s.Debt = s.Debt.Sub(q)
	default:
	}

	s.Balance = s.OnHand
	s.Available = s.OnHand.Sub(s.Reserved)
	return s
}

// Zero is the stock of a product without operations.
func Zero() model.Stock {
	return model.Stock{
		OnHand:    decimal.Zero,
		Reserved:  decimal.Zero,
		Debt:      decimal.Zero,
		Balance:   decimal.Zero,
		Available: decimal.Zero,
	}
}

// Fold groups ops by product and folds each group.
func Fold(ops []model.Operation) map[int64]model.Stock {
	stocks := make(map[int64]model.Stock)
	for _, op := range ops {
		s, ok := stocks[op.ProductID]
		if !ok {
			s = Zero()
		}
		stocks[op.ProductID] = Apply(s, op)
	}
	return stocks
}

// StockOf returns the folded stock of one product, zero when it has no operations.
func StockOf(stocks map[int64]model.Stock, productID int64) model.Stock {
	if s, ok := stocks[productID]; ok {
		return s
	}
	return Zero()
}

// WithStock replaces the stock of every summary by the fold of ops.
func WithStock(products []model.ProductSummary, ops []model.Operation) []model.ProductSummary {
	stocks := Fold(ops)
	out := make([]model.ProductSummary, len(products))
	for i, p := range products {
		p.Stock = StockOf(stocks, p.ID)
		out[i] = p
	}
	return out
}
