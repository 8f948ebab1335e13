package core

import "github.com/shopspring/decimal"

// HoldingValue is a holding paired with its current per-unit quote.
// The derived numbers are computed, never persisted.
type HoldingValue struct {
	Holding
	CurrentPrice decimal.Decimal
}

// CurrentValue returns the position's worth at the current quote.
func (v HoldingValue) CurrentValue() decimal.Decimal {
	return v.CurrentPrice.Mul(v.Amount)
}

// PurchaseValue returns what the position cost at acquisition.
func (v HoldingValue) PurchaseValue() decimal.Decimal {
	return v.BuyPrice.Mul(v.Amount)
}

// Profit returns current value minus purchase value.
func (v HoldingValue) Profit() decimal.Decimal {
	return v.CurrentValue().Sub(v.PurchaseValue())
}

// ExpenseTotal sums the amounts of all expenses in the list.
func ExpenseTotal(expenses []Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// PortfolioProfit sums the profit of all enriched holdings.
func PortfolioProfit(values []HoldingValue) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v.Profit())
	}
	return total
}
