package syncer

import (
	"portfel/internal/core"
	"portfel/internal/log"
	"portfel/internal/session"
	"portfel/internal/store"
	"portfel/internal/supabase"
)

// ForExpenses builds the expense syncer over the shared backend client.
func ForExpenses(client *supabase.Client, st *store.Store, sm *session.Manager, logger *log.Logger) *Syncer[core.Expense] {
	remote := Remote[core.Expense]{
		List:   client.ListExpenses,
		Delete: client.DeleteExpense,
	}
	return New(store.KeyExpenses, remote, st, sm, logger)
}

// ForHoldings builds the crypto-holding syncer over the shared backend client.
func ForHoldings(client *supabase.Client, st *store.Store, sm *session.Manager, logger *log.Logger) *Syncer[core.Holding] {
	remote := Remote[core.Holding]{
		List:   client.ListHoldings,
		Delete: client.DeleteHolding,
	}
	return New(store.KeyHoldings, remote, st, sm, logger)
}
