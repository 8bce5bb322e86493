package storage

import (
	"context"
	"time"

	"giveaway/internal/domain"
)

// Stores are interface-driven to keep the domain logic testable and to
// allow swapping in-memory and postgres persistence without rewiring
// business code.

type RegistrationStore interface {
	Save(ctx context.Context, reg domain.Registration) error
	// ExistsByEmailBetween reports whether any registration with the given
	// normalized email has created_at in [start, end).
	ExistsByEmailBetween(ctx context.Context, email string, start, end time.Time) (bool, error)
	// ListBetween returns registrations with created_at in [start, end) in
	// insertion order.
	ListBetween(ctx context.Context, start, end time.Time) ([]domain.Registration, error)
	// ListAll returns every registration in insertion order.
	ListAll(ctx context.Context) ([]domain.Registration, error)
}

type WinnerStore interface {
	Save(ctx context.Context, winner domain.Winner) error
	// ListDetails returns winners joined with their registrations, newest
	// selection first.
	ListDetails(ctx context.Context) ([]domain.WinnerDetail, error)
}

type AuditStore interface {
	Append(ctx context.Context, entry domain.AuditEntry) error
	// List returns entries newest first. limit == 0 means no limit;
	// offset skips that many entries from the top.
	List(ctx context.Context, limit, offset int) ([]domain.AuditEntry, error)
}
