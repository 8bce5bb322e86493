package domain

import (
	"time"

	"github.com/google/uuid"
)

// Registration is one accepted entry into the current giveaway. Immutable
// after creation; Email is stored in normalized (lower-cased) form.
type Registration struct {
	ID        uuid.UUID
	Name      string
	Email     string
	CreatedAt time.Time
}

// Winner records the outcome of one random draw. RegistrationID is not
// unique across winners: re-running a draw in the same month produces an
// independent record.
type Winner struct {
	ID             uuid.UUID
	RegistrationID uuid.UUID
	SelectedAt     time.Time
}

// WinnerDetail is a Winner joined with the registration it references, as
// exposed on the query surface.
type WinnerDetail struct {
	WinnerID   uuid.UUID
	Name       string
	Email      string
	SelectedAt time.Time
}

// AuditEntry is one record in the append-only trail of registration
// attempts and draw outcomes. Entries are never updated or deleted.
type AuditEntry struct {
	ID        uuid.UUID
	Action    string
	Details   string
	Timestamp time.Time
}

// Audit actions emitted by the services.
const (
	ActionRegisterSuccess = "register_success"
	ActionRegisterFailed  = "register_failed"
	ActionWinnerSelected  = "winner_selected"
)
