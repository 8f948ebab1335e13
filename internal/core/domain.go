package core

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	// The backend stores amounts and prices in numeric columns and speaks
	// plain JSON numbers, so cached arrays and request bodies must not
	// quote them.
	decimal.MarshalJSONWithoutQuotes = true
}

var (
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrUnsupportedCoin  = errors.New("unsupported coin")
)

// Record is any backend-owned row with an immutable integer identifier.
type Record interface {
	RecordID() int
}

// Expense is a single logged cash expense. The identifier is assigned by
// the backend on create and never changes; all other fields are overwritten
// wholesale on edit.
type Expense struct {
	ID          int             `json:"id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Location    string          `json:"location"`
	Coordinates string          `json:"coordinates"`
}

func (e Expense) RecordID() int { return e.ID }

func (e Expense) Validate() error {
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if e.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// Holding is a single cryptocurrency position: quantity held and the
// per-unit price paid at acquisition.
type Holding struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	BuyPrice decimal.Decimal `json:"buy_price"`
	Amount   decimal.Decimal `json:"amount"`
}

func (h Holding) RecordID() int { return h.ID }

func (h Holding) Validate() error {
	if !IsSupportedCoin(h.Name) {
		return ErrUnsupportedCoin
	}
	if h.BuyPrice.IsNegative() || h.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	return nil
}

// SupportedCoins lists the coins a holding may be created for.
var SupportedCoins = []string{
	"Bitcoin",
	"Ethereum",
	"XRP",
	"Dogecoin",
}

// IsSupportedCoin reports whether name is in SupportedCoins,
// matched case-insensitively.
func IsSupportedCoin(name string) bool {
	for _, c := range SupportedCoins {
		if strings.EqualFold(c, name) {
			return true
		}
	}
	return false
}
