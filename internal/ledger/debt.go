package ledger

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/you-humble/stockledger/internal/model"
)

// NormalizeCustomer is the key customers are compared by.
func NormalizeCustomer(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func SameCustomer(a, b string) bool {
	return NormalizeCustomer(a) == NormalizeCustomer(b)
}

// Debt is what customer owes for productID, never below zero.
func Debt(ops []model.Operation, productID int64, customer string) decimal.Decimal {
	key := NormalizeCustomer(customer)
	sum := decimal.Zero

	for _, op := range ops {
		if op.ProductID != productID || op.Customer == nil || NormalizeCustomer(*op.Customer) != key {
			continue
		}
		switch op.Type {
		case model.OperationShipOnCredit:
			sum = sum.Add(op.Quantity)
		case model.OperationCloseDebt:
			sum = sum.Sub(op.Quantity)
		default:
		}
	}

	if sum.IsNegative() {
		return decimal.Zero
	}
	return sum
}

// CheckCloseDebt rejects a close_debt of quantity against the current debt.
func CheckCloseDebt(current, quantity decimal.Decimal) error {
	if !current.IsPositive() {
		return model.ErrNoDebt
	}
	if quantity.GreaterThan(current) {
		return model.ErrDebtExceeded
	}
	return nil
}

type debtKey struct {
	productID int64
	customer  string
}

// ActiveDebts lists every (product, customer) pair with a positive debt,
// ordered by customer then product. ProductName is left to the caller.
func ActiveDebts(ops []model.Operation) []model.DebtEntry {
	sums := make(map[debtKey]decimal.Decimal)
	names := make(map[debtKey]string)

	for _, op := range ops {
		if op.Customer == nil {
			continue
		}
		if op.Type != model.OperationShipOnCredit && op.Type != model.OperationCloseDebt {
			continue
		}
		k := debtKey{productID: op.ProductID, customer: NormalizeCustomer(*op.Customer)}
		if k.customer == "" {
			continue
		}
		if _, ok := names[k]; !ok {
			names[k] = strings.TrimSpace(*op.Customer)
		}

		sum, ok := sums[k]
		if !ok {
			sum = decimal.Zero
		}
		if op.Type == model.OperationShipOnCredit {
			sums[k] = sum.Add(op.Quantity)
		} else {
			sums[k] = sum.Sub(op.Quantity)
		}
	}

	out := make([]model.DebtEntry, 0, len(sums))
	for k, sum := range sums {
		if !sum.IsPositive() {
			continue
		}
		out = append(out, model.DebtEntry{
			Customer:  names[k],
			ProductID: k.productID,
			Debt:      sum,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		ci, cj := NormalizeCustomer(out[i].Customer), NormalizeCustomer(out[j].Customer)
		if ci != cj {
			return ci < cj
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}
