package sessions

import (
	"context"
	"time"
)

// Repo defines storage operations for sessions.
type Repo interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	// Update applies fn to the stored session atomically. If fn returns an
	// error nothing is written.
	Update(ctx context.Context, id string, fn func(*Session) error) (Session, error)
	Delete(ctx context.Context, id string) (Session, error)
	// Sweep removes sessions idle since before cutoff and returns them.
	Sweep(ctx context.Context, cutoff time.Time) ([]Session, error)
}
