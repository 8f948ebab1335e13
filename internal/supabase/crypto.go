package supabase

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"portfel/internal/core"
	"portfel/internal/log"
)

const cryptoPath = "/rest/v1/crypto"

// HoldingFields are the mutable fields of a crypto holding.
type HoldingFields struct {
	Name     string          `json:"name"`
	BuyPrice decimal.Decimal `json:"buy_price"`
	Amount   decimal.Decimal `json:"amount"`
}

type newHolding struct {
	UserID int `json:"user_id"`
	HoldingFields
}

// CreateHolding inserts a new holding for ownerID and returns the created
// record. Unlike expenses, the backend is asked to echo the row back, which
// it does as a one-element array.
func (c *Client) CreateHolding(ctx context.Context, ownerID int, fields HoldingFields) (core.Holding, error) {
	resp, err := c.do(ctx, log.OpCreate, http.MethodPost, cryptoPath,
		newHolding{UserID: ownerID, HoldingFields: fields}, "return=representation")
	if err != nil {
		return core.Holding{}, err
	}
	defer resp.Body.Close()

	var created []core.Holding
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return core.Holding{}, &Error{Op: log.OpCreate, Kind: KindDecode, Err: err}
	}
	if len(created) == 0 {
		return core.Holding{}, &Error{Op: log.OpCreate, Kind: KindDecode, Err: errEmptyRepresentation}
	}

	c.logger.DebugContext(ctx, "Holding created",
		log.FieldUserID, ownerID, log.FieldRecordID, created[0].ID)
	return created[0], nil
}

// ListHoldings fetches all holdings owned by ownerID, oldest first.
func (c *Client) ListHoldings(ctx context.Context, ownerID int) ([]core.Holding, error) {
	resp, err := c.do(ctx, log.OpList, http.MethodGet,
		cryptoPath+"?"+eqOwner(ownerID)+"&order=created_at.asc", nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var holdings []core.Holding
	if err := json.NewDecoder(resp.Body).Decode(&holdings); err != nil {
		return nil, &Error{Op: log.OpList, Kind: KindDecode, Err: err}
	}

	c.logger.DebugContext(ctx, "Holdings listed",
		log.FieldUserID, ownerID, log.FieldCount, len(holdings))
	return holdings, nil
}

// UpdateHolding overwrites the mutable fields of the holding with the
// given identifier.
func (c *Client) UpdateHolding(ctx context.Context, id int, fields HoldingFields) error {
	resp, err := c.do(ctx, log.OpUpdate, http.MethodPatch, cryptoPath+"?"+eqID(id), fields, "")
	if err != nil {
		return err
	}
	drain(resp)

	c.logger.DebugContext(ctx, "Holding updated", log.FieldRecordID, id)
	return nil
}

// DeleteHolding removes the holding with the given identifier.
func (c *Client) DeleteHolding(ctx context.Context, id int) error {
	resp, err := c.do(ctx, log.OpDelete, http.MethodDelete, cryptoPath+"?"+eqID(id), nil, "")
	if err != nil {
		return err
	}
	drain(resp)

	c.logger.DebugContext(ctx, "Holding deleted", log.FieldRecordID, id)
	return nil
}
