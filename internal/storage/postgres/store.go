// Package postgres implements the giveaway stores on database/sql with the
// lib/pq driver. Queries use $n placeholders and wrap failures with the
// operation name so store errors stay diagnosable at the boundary.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"giveaway/internal/domain"
	txcontext "giveaway/pkg/platform/tx"
)

// Open connects to the given postgres URL and verifies the connection.
func Open(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("postgres", url)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// InitSchema creates the three tables when missing. There are no further
// migrations, and deliberately no unique constraint on (email, month): the
// duplicate rule is enforced at write time by the service.
func InitSchema(ctx context.Context, db *sql.DB) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS registrations (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS winners (
			id UUID PRIMARY KEY,
			registration_id UUID NOT NULL REFERENCES registrations (id),
			selected_at TIMESTAMPTZ NOT NULL
		);
		CREATE TABLE IF NOT EXISTS audit_log (
			id UUID PRIMARY KEY,
			action TEXT NOT NULL,
			details TEXT NOT NULL DEFAULT '',
			timestamp TIMESTAMPTZ NOT NULL
		);
	`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// execer returns the ambient transaction when one is carried in context,
// otherwise the shared handle.
func execer(ctx context.Context, db *sql.DB) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return db
}

// RegistrationStore persists registrations in the registrations table.
type RegistrationStore struct {
	db *sql.DB
}

func NewRegistrationStore(db *sql.DB) *RegistrationStore {
	return &RegistrationStore{db: db}
}

func (s *RegistrationStore) Save(ctx context.Context, reg domain.Registration) error {
	query := `
		INSERT INTO registrations (id, name, email, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := execer(ctx, s.db).ExecContext(ctx, query, reg.ID, reg.Name, reg.Email, reg.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert registration: %w", err)
	}
	return nil
}

func (s *RegistrationStore) ExistsByEmailBetween(ctx context.Context, email string, start, end time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM registrations
			WHERE email = $1 AND created_at >= $2 AND created_at < $3
		)
	`
	var exists bool
	err := execer(ctx, s.db).QueryRowContext(ctx, query, email, start, end).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query duplicate email: %w", err)
	}
	return exists, nil
}

func (s *RegistrationStore) ListBetween(ctx context.Context, start, end time.Time) ([]domain.Registration, error) {
	query := `
		SELECT id, name, email, created_at
		FROM registrations
		WHERE created_at >= $1 AND created_at < $2
		ORDER BY created_at, id
	`
	rows, err := execer(ctx, s.db).QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("query registrations in window: %w", err)
	}
	defer rows.Close()

	return scanRegistrations(rows)
}

func (s *RegistrationStore) ListAll(ctx context.Context) ([]domain.Registration, error) {
	query := `
		SELECT id, name, email, created_at
		FROM registrations
		ORDER BY created_at, id
	`
	rows, err := execer(ctx, s.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query registrations: %w", err)
	}
	defer rows.Close()

	return scanRegistrations(rows)
}

func scanRegistrations(rows *sql.Rows) ([]domain.Registration, error) {
	var regs []domain.Registration
	for rows.Next() {
		var reg domain.Registration
		if err := rows.Scan(&reg.ID, &reg.Name, &reg.Email, &reg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate registrations: %w", err)
	}
	return regs, nil
}

// WinnerStore persists draw results in the winners table.
type WinnerStore struct {
	db *sql.DB
}

func NewWinnerStore(db *sql.DB) *WinnerStore {
	return &WinnerStore{db: db}
}

func (s *WinnerStore) Save(ctx context.Context, winner domain.Winner) error {
	query := `
		INSERT INTO winners (id, registration_id, selected_at)
		VALUES ($1, $2, $3)
	`
	_, err := execer(ctx, s.db).ExecContext(ctx, query, winner.ID, winner.RegistrationID, winner.SelectedAt)
	if err != nil {
		return fmt.Errorf("insert winner: %w", err)
	}
	return nil
}

func (s *WinnerStore) ListDetails(ctx context.Context) ([]domain.WinnerDetail, error) {
	query := `
		SELECT w.id, r.name, r.email, w.selected_at
		FROM winners w
		JOIN registrations r ON r.id = w.registration_id
		ORDER BY w.selected_at DESC
	`
	rows, err := execer(ctx, s.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query winners: %w", err)
	}
	defer rows.Close()

	var details []domain.WinnerDetail
	for rows.Next() {
		var d domain.WinnerDetail
		if err := rows.Scan(&d.WinnerID, &d.Name, &d.Email, &d.SelectedAt); err != nil {
			return nil, fmt.Errorf("scan winner: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate winners: %w", err)
	}
	return details, nil
}

// AuditStore persists the append-only trail in the audit_log table.
type AuditStore struct {
	db *sql.DB
}

func NewAuditStore(db *sql.DB) *AuditStore {
	return &AuditStore{db: db}
}

func (s *AuditStore) Append(ctx context.Context, entry domain.AuditEntry) error {
	query := `
		INSERT INTO audit_log (id, action, details, timestamp)
		VALUES ($1, $2, $3, $4)
	`
	_, err := execer(ctx, s.db).ExecContext(ctx, query, entry.ID, entry.Action, entry.Details, entry.Timestamp)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (s *AuditStore) List(ctx context.Context, limit, offset int) ([]domain.AuditEntry, error) {
	query := `
		SELECT id, action, details, timestamp
		FROM audit_log
		ORDER BY timestamp DESC
		LIMIT $1 OFFSET $2
	`
	// LIMIT NULL means no limit in postgres; 0 here is the "return all"
	// contract of the query surface.
	var limitArg any
	if limit > 0 {
		limitArg = limit
	}
	rows, err := execer(ctx, s.db).QueryContext(ctx, query, limitArg, offset)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.ID, &e.Action, &e.Details, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}

// WithinTx runs fn with a transaction carried in context, so every store
// call inside joins the same transaction. This is the hook for callers who
// want the duplicate check-then-insert to be a single serializable unit.
func WithinTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(txcontext.With(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
