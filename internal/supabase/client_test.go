package supabase

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfel/internal/log"
)

func testLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "test-key", 5*time.Second, testLogger())
}

func TestAuthHeadersOnEveryRequest(t *testing.T) {
	var captured http.Header
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Clone()
		w.Write([]byte(`[]`))
	})

	_, err := client.ListExpenses(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, "test-key", captured.Get("apikey"))
	assert.Equal(t, "Bearer test-key", captured.Get("Authorization"))
	assert.Equal(t, "application/json", captured.Get("Accept"))
}

func TestListExpenses(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/expenses", r.URL.Path)
		assert.Equal(t, "user_id=eq.7", r.URL.RawQuery)
		w.Write([]byte(`[
			{"id":1,"description":"Coffee","amount":4.50,"location":"Cafe","coordinates":"52.1,21.0"},
			{"id":2,"description":"Book","amount":30.0,"location":"","coordinates":""}
		]`))
	})

	expenses, err := client.ListExpenses(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, expenses, 2)

	assert.Equal(t, 1, expenses[0].ID)
	assert.Equal(t, "Coffee", expenses[0].Description)
	assert.True(t, expenses[0].Amount.Equal(decimal.NewFromFloat(4.50)))
	assert.Equal(t, "Cafe", expenses[0].Location)
	assert.Equal(t, "52.1,21.0", expenses[0].Coordinates)
	assert.Equal(t, 2, expenses[1].ID)
}

func TestListExpensesFailureKinds(t *testing.T) {
	t.Run("non-2xx status", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})

		_, err := client.ListExpenses(context.Background(), 7)
		require.Error(t, err)
		assert.Equal(t, KindStatus, KindOf(err))

		var se *Error
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusUnauthorized, se.Status)
	})

	t.Run("malformed body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"not":"an array"}`))
		})

		_, err := client.ListExpenses(context.Background(), 7)
		require.Error(t, err)
		assert.Equal(t, KindDecode, KindOf(err))
	})

	t.Run("unreachable server", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		server.Close()
		client := NewClient(server.URL, "test-key", time.Second, testLogger())

		_, err := client.ListExpenses(context.Background(), 7)
		require.Error(t, err)
		assert.Equal(t, KindTransport, KindOf(err))
	})
}

func TestCreateExpense(t *testing.T) {
	var body map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=minimal", r.Header.Get("Prefer"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.WriteHeader(http.StatusCreated)
	})

	fields := ExpenseFields{
		Description: "Coffee",
		Amount:      decimal.NewFromFloat(4.50),
		Location:    "Cafe",
		Coordinates: "52.1,21.0",
	}
	require.NoError(t, client.CreateExpense(context.Background(), 7, fields))

	assert.Equal(t, float64(7), body["user_id"])
	assert.Equal(t, "Coffee", body["description"])
	assert.Equal(t, 4.50, body["amount"], "amount must be a JSON number, not a string")
	assert.Equal(t, "Cafe", body["location"])
}

func TestUpdateExpense(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "id=eq.3", r.URL.RawQuery)

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, hasUserID := body["user_id"]
		assert.False(t, hasUserID, "owner must never be part of an update")
		_, hasID := body["id"]
		assert.False(t, hasID, "identifier must never be part of an update")
		w.WriteHeader(http.StatusNoContent)
	})

	fields := ExpenseFields{Description: "Espresso", Amount: decimal.NewFromFloat(5.0)}
	require.NoError(t, client.UpdateExpense(context.Background(), 3, fields))
}

func TestDeleteExpense(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "id=eq.9", r.URL.RawQuery)
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, client.DeleteExpense(context.Background(), 9))
}

func TestCreateHoldingReturnsRepresentation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/crypto", r.URL.Path)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))
		w.Write([]byte(`[{"id":5,"name":"Bitcoin","buy_price":20000,"amount":0.1}]`))
	})

	fields := HoldingFields{
		Name:     "Bitcoin",
		BuyPrice: decimal.NewFromInt(20000),
		Amount:   decimal.NewFromFloat(0.1),
	}
	created, err := client.CreateHolding(context.Background(), 7, fields)
	require.NoError(t, err)

	assert.Equal(t, 5, created.ID)
	assert.Equal(t, "Bitcoin", created.Name)
	assert.True(t, created.BuyPrice.Equal(decimal.NewFromInt(20000)))
	assert.True(t, created.Amount.Equal(decimal.NewFromFloat(0.1)))
}

func TestCreateHoldingEmptyRepresentation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	_, err := client.CreateHolding(context.Background(), 7, HoldingFields{Name: "Bitcoin"})
	require.Error(t, err)
	assert.Equal(t, KindDecode, KindOf(err))
}

func TestListHoldingsOrdersByCreation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.7", r.URL.Query().Get("user_id"))
		assert.Equal(t, "created_at.asc", r.URL.Query().Get("order"))
		w.Write([]byte(`[{"id":5,"name":"Bitcoin","buy_price":20000,"amount":0.1}]`))
	})

	holdings, err := client.ListHoldings(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, holdings, 1)
	assert.Equal(t, "Bitcoin", holdings[0].Name)
}

func TestCheckLogin(t *testing.T) {
	t.Run("matching user", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/rest/v1/users", r.URL.Path)
			assert.Equal(t, "eq.anna", r.URL.Query().Get("login"))
			w.Write([]byte(`[{"id":7,"login":"anna"}]`))
		})

		id, err := client.CheckLogin(context.Background(), "anna", HashPassword("secret"))
		require.NoError(t, err)
		assert.Equal(t, 7, id)
	})

	t.Run("no matching user", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		})

		_, err := client.CheckLogin(context.Background(), "anna", HashPassword("wrong"))
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestHashPassword(t *testing.T) {
	// SHA-256 of "password", hex-encoded, as stored in the users table.
	assert.Equal(t,
		"5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8",
		HashPassword("password"))
	assert.Len(t, HashPassword(""), 64)
}
