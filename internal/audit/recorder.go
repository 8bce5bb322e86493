// Package audit keeps the append-only trail of registration attempts and
// draw outcomes. Entries go through the storage layer so tests can swap
// sinks easily.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"giveaway/internal/domain"
	"giveaway/internal/storage"
)

// Recorder appends audit entries. Store failures propagate to the caller;
// the trail is part of the operation, not best-effort telemetry.
type Recorder struct {
	store storage.AuditStore
	now   func() time.Time
}

func NewRecorder(store storage.AuditStore) *Recorder {
	return &Recorder{store: store, now: time.Now}
}

func (r *Recorder) Record(ctx context.Context, action, details string) error {
	return r.store.Append(ctx, domain.AuditEntry{
		ID:        uuid.New(),
		Action:    action,
		Details:   details,
		Timestamp: r.now(),
	})
}

func (r *Recorder) List(ctx context.Context, limit, offset int) ([]domain.AuditEntry, error) {
	return r.store.List(ctx, limit, offset)
}
