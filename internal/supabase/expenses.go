package supabase

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"portfel/internal/core"
	"portfel/internal/log"
)

const expensesPath = "/rest/v1/expenses"

// ExpenseFields are the mutable fields of an expense. The identifier and
// the owner are never part of an update.
type ExpenseFields struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Location    string          `json:"location"`
	Coordinates string          `json:"coordinates"`
}

type newExpense struct {
	UserID int `json:"user_id"`
	ExpenseFields
}

// CreateExpense inserts a new expense for ownerID. The backend is asked for
// a minimal reply, so no record is returned.
func (c *Client) CreateExpense(ctx context.Context, ownerID int, fields ExpenseFields) error {
	resp, err := c.do(ctx, log.OpCreate, http.MethodPost, expensesPath,
		newExpense{UserID: ownerID, ExpenseFields: fields}, "return=minimal")
	if err != nil {
		return err
	}
	drain(resp)

	c.logger.DebugContext(ctx, "Expense created", log.FieldUserID, ownerID)
	return nil
}

// ListExpenses fetches all expenses owned by ownerID, in backend order.
func (c *Client) ListExpenses(ctx context.Context, ownerID int) ([]core.Expense, error) {
	resp, err := c.do(ctx, log.OpList, http.MethodGet, expensesPath+"?"+eqOwner(ownerID), nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var expenses []core.Expense
	if err := json.NewDecoder(resp.Body).Decode(&expenses); err != nil {
		return nil, &Error{Op: log.OpList, Kind: KindDecode, Err: err}
	}

	c.logger.DebugContext(ctx, "Expenses listed",
		log.FieldUserID, ownerID, log.FieldCount, len(expenses))
	return expenses, nil
}

// UpdateExpense overwrites the mutable fields of the expense with the
// given identifier.
func (c *Client) UpdateExpense(ctx context.Context, id int, fields ExpenseFields) error {
	resp, err := c.do(ctx, log.OpUpdate, http.MethodPatch, expensesPath+"?"+eqID(id), fields, "")
	if err != nil {
		return err
	}
	drain(resp)

	c.logger.DebugContext(ctx, "Expense updated", log.FieldRecordID, id)
	return nil
}

// DeleteExpense removes the expense with the given identifier.
func (c *Client) DeleteExpense(ctx context.Context, id int) error {
	resp, err := c.do(ctx, log.OpDelete, http.MethodDelete, expensesPath+"?"+eqID(id), nil, "")
	if err != nil {
		return err
	}
	drain(resp)

	c.logger.DebugContext(ctx, "Expense deleted", log.FieldRecordID, id)
	return nil
}
