// Package syncer keeps one in-memory record list and its cache entry in
// step with the backend. Refresh replaces both wholesale from a fetch;
// delete is optimistic, mutating local state before the backend confirms.
package syncer

import (
	"context"
	"slices"
	"sync"

	"golang.org/x/sync/singleflight"

	"portfel/internal/core"
	"portfel/internal/log"
	"portfel/internal/session"
	"portfel/internal/store"
)

// Remote is the slice of the backend client one Syncer drives. Function
// fields rather than an interface: the concrete client exposes one method
// set per resource, and tests swap in fakes without adapter types.
type Remote[T core.Record] struct {
	List   func(ctx context.Context, ownerID int) ([]T, error)
	Delete func(ctx context.Context, id int) error
}

type Syncer[T core.Record] struct {
	key     string
	remote  Remote[T]
	store   *store.Store
	session *session.Manager
	logger  *log.Logger

	// At most one in-flight refresh per key; concurrent triggers attach
	// to the running one instead of racing it.
	group singleflight.Group

	mu    sync.Mutex
	items []T
}

func New[T core.Record](key string, remote Remote[T], st *store.Store, sm *session.Manager, logger *log.Logger) *Syncer[T] {
	return &Syncer[T]{
		key:     key,
		remote:  remote,
		store:   st,
		session: sm,
		logger:  logger.WithComponent(log.ComponentSyncer),
	}
}

// Items returns a copy of the current in-memory list.
func (s *Syncer[T]) Items() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// LoadCached seeds the in-memory list from the cache without touching the
// network, so a view can render the last known state immediately.
func (s *Syncer[T]) LoadCached(ctx context.Context) error {
	cached, err := store.ReadAll[T](ctx, s.store, s.key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.items = cached
	s.mu.Unlock()
	return nil
}

// Refresh fetches the authoritative list for the current session, replaces
// the in-memory list wholesale (an empty response legitimately clears it)
// and overwrites the cache entry. Without a session it is a no-op, not an
// error. On a failed fetch the stale list and cache are kept and the
// classified error is returned.
func (s *Syncer[T]) Refresh(ctx context.Context) error {
	sess, ok := s.session.Current()
	if !ok {
		s.logger.DebugContext(ctx, "Refresh skipped, not logged in",
			log.FieldCacheKey, s.key)
		return nil
	}

	_, err, _ := s.group.Do(s.key, func() (any, error) {
		fetched, err := s.remote.List(ctx, sess.UserID)
		if err != nil {
			s.logger.WarnContext(ctx, "Refresh failed, keeping stale state",
				log.FieldCacheKey, s.key, log.FieldError, err)
			return nil, err
		}
		if fetched == nil {
			fetched = []T{}
		}

		s.mu.Lock()
		s.items = fetched
		s.mu.Unlock()

		if err := store.WriteAll(ctx, s.store, s.key, fetched); err != nil {
			return nil, err
		}

		s.logger.DebugContext(ctx, "Refreshed",
			log.FieldCacheKey, s.key, log.FieldCount, len(fetched))
		return nil, nil
	})
	return err
}

// Delete removes the record locally first (in-memory list, then cache
// entry) and only then asks the backend. A failed remote delete is
// returned but NOT rolled back: local state keeps believing the record is
// gone until the next successful refresh reconciles it.
func (s *Syncer[T]) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	kept := make([]T, 0, len(s.items))
	for _, item := range s.items {
		if item.RecordID() != id {
			kept = append(kept, item)
		}
	}
	s.items = kept
	s.mu.Unlock()

	if err := store.RemoveOne[T](ctx, s.store, s.key, id); err != nil {
		// Cache patch failed but the in-memory removal stands; the remote
		// delete is still attempted.
		s.logger.WarnContext(ctx, "Cache patch failed",
			log.FieldCacheKey, s.key, log.FieldRecordID, id, log.FieldError, err)
	}

	if err := s.remote.Delete(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "Remote delete failed after local removal",
			log.FieldCacheKey, s.key, log.FieldRecordID, id, log.FieldError, err)
		return err
	}

	s.logger.DebugContext(ctx, "Deleted",
		log.FieldCacheKey, s.key, log.FieldRecordID, id)
	return nil
}
