package sessions

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Session
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Session),
	}
}

// Create stores a new session.
func (r *MemoryRepo) Create(ctx context.Context, s Session) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[s.ID] = s.Clone()
	return nil
}

// Get returns a copy of the session.
func (r *MemoryRepo) Get(ctx context.Context, id string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.data[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return s.Clone(), nil
}

// Update mutates a copy and stores it when fn succeeds.
func (r *MemoryRepo) Update(ctx context.Context, id string, fn func(*Session) error) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.data[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	next := s.Clone()
	if err := fn(&next); err != nil {
		return s.Clone(), err
	}
	r.data[id] = next
	return next.Clone(), nil
}

// Delete removes the session and returns its last state.
func (r *MemoryRepo) Delete(ctx context.Context, id string) (Session, error) {
	if err := ctx.Err(); err != nil {
		return Session{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.data[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	delete(r.data, id)
	return s, nil
}

// Sweep removes idle sessions, oldest first. Sessions with a generation in
// flight are kept.
func (r *MemoryRepo) Sweep(ctx context.Context, cutoff time.Time) ([]Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var expired []Session
	for id, s := range r.data {
		if s.Generating || !s.UpdatedAt.Before(cutoff) {
			continue
		}
		expired = append(expired, s)
		delete(r.data, id)
	}
	sort.Slice(expired, func(i, j int) bool {
		return expired[i].UpdatedAt.Before(expired[j].UpdatedAt)
	})
	return expired, nil
}

// Len reports the number of live sessions.
func (r *MemoryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

var _ Repo = (*MemoryRepo)(nil)
