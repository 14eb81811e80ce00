package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Lixing-Zhang/kart-challenge/pos-order/internal/order"
	"github.com/google/uuid"
)

// Session is the state of the single operator session: the access token and
// the draft being assembled. Persisting the token is delegated to the store.
type Session struct {
	mu    sync.RWMutex
	token string
	draft *order.Draft
	store TokenStore
}

// New restores the token from store. A non-empty initial token wins over the
// stored one and is persisted.
func New(ctx context.Context, store TokenStore, initialToken string) (*Session, error) {
	s := &Session{
		draft: order.NewDraft(),
		store: store,
	}

	if initialToken = strings.TrimSpace(initialToken); initialToken != "" {
		if err := s.SetToken(ctx, initialToken); err != nil {
			return nil, err
		}
		return s, nil
	}

	token, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("restore token: %w", err)
	}
	s.token = token
	return s, nil
}

// Token returns the current access token, "" when none is set
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// SetToken replaces the token and persists it
func (s *Session) SetToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if err := s.store.Save(ctx, token); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Draft returns the view of the current draft
func (s *Session) Draft() order.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft.View()
}

// Update runs fn against the current draft under the session lock
func (s *Session) Update(fn func(d *order.Draft) error) (order.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.draft); err != nil {
		return s.draft.View(), err
	}
	return s.draft.View(), nil
}

// DraftID returns the id of the current draft
func (s *Session) DraftID() uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft.ID
}

// Snapshot returns a copy of the draft that is safe to use without the lock
func (s *Session) Snapshot() *order.Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft.Clone()
}

// Reset discards the current draft and starts an empty one
func (s *Session) Reset() order.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft = order.NewDraft()
	return s.draft.View()
}

// Discard resets the draft only if it is still the one identified by id,
// so a draft started after a submission began is kept
func (s *Session) Discard(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft.ID != id {
		return false
	}
	s.draft = order.NewDraft()
	return true
}
