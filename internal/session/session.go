// Package session holds the current login. There is exactly one Manager at
// the application root; everything that needs an owner id asks it instead
// of re-reading the store ad hoc.
package session

import (
	"context"
	"sync"

	"portfel/internal/log"
	"portfel/internal/store"
	"portfel/internal/supabase"
)

// Session identifies the logged-in user.
type Session struct {
	UserID int
}

type Manager struct {
	store  *store.Store
	client *supabase.Client
	logger *log.Logger

	mu      sync.Mutex
	current Session
	active  bool
}

func NewManager(st *store.Store, client *supabase.Client, logger *log.Logger) *Manager {
	return &Manager{
		store:  st,
		client: client,
		logger: logger.WithComponent(log.ComponentSession),
	}
}

// Restore loads a previously persisted session from the store. The sentinel
// id means nobody is logged in, which is not an error.
func (m *Manager) Restore(ctx context.Context) error {
	id, err := m.store.UserID(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if id == store.NoUser {
		m.active = false
		return nil
	}

	m.current = Session{UserID: id}
	m.active = true
	m.logger.DebugContext(ctx, "Session restored", log.FieldUserID, id)
	return nil
}

// Current returns the active session, if any.
func (m *Manager) Current() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current, m.active
}

// Login verifies the credentials against the backend and persists the
// matched user id as the current session.
func (m *Manager) Login(ctx context.Context, login, password string) (Session, error) {
	id, err := m.client.CheckLogin(ctx, login, supabase.HashPassword(password))
	if err != nil {
		return Session{}, err
	}

	if err := m.store.SetUserID(ctx, id); err != nil {
		return Session{}, err
	}

	m.mu.Lock()
	m.current = Session{UserID: id}
	m.active = true
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "Logged in", log.FieldUserID, id)
	return Session{UserID: id}, nil
}

// Logout clears the persisted session. The caches are left in place, so the
// next login on this installation inherits them until it refreshes.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.ClearUserID(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	m.active = false
	m.current = Session{}
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "Logged out")
	return nil
}
