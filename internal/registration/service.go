// Package registration implements the monthly-scoped entry rules: email
// normalization, calendar-month windowing, duplicate detection, and the
// registration orchestration itself.
package registration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"giveaway/internal/audit"
	"giveaway/internal/domain"
	"giveaway/internal/storage"
	dErrors "giveaway/pkg/domainerrors"
)

// Service orchestrates one registration attempt: validation, duplicate
// check, persistence, and the audit entry. It keeps orchestration out of
// handlers and domain logic thin.
type Service struct {
	regs  storage.RegistrationStore
	audit *audit.Recorder
	now   func() time.Time
}

func NewService(regs storage.RegistrationStore, rec *audit.Recorder) *Service {
	return &Service{regs: regs, audit: rec, now: time.Now}
}

// Register applies the checks in fixed precedence: missing fields, email
// format, duplicate-this-month. Every failure is audited before the error
// returns; the trail records attempts, not just successes.
//
// The duplicate check and the insert are two separate store calls with no
// lock between them. Two concurrent attempts for the same email can both
// pass the check; closing that race is the store's WithinTx seam.
func (s *Service) Register(ctx context.Context, name, rawEmail string) (domain.Registration, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(rawEmail) == "" {
		err := dErrors.New(dErrors.CodeMissingField, "Name and email are required")
		if auditErr := s.audit.Record(ctx, domain.ActionRegisterFailed, "Missing name or email"); auditErr != nil {
			return domain.Registration{}, auditErr
		}
		return domain.Registration{}, err
	}

	email, err := NormalizeEmail(rawEmail)
	if err != nil {
		if auditErr := s.audit.Record(ctx, domain.ActionRegisterFailed, fmt.Sprintf("Invalid email: %s", rawEmail)); auditErr != nil {
			return domain.Registration{}, auditErr
		}
		return domain.Registration{}, err
	}

	// One reference instant for the whole attempt, so the window check and
	// created_at cannot straddle a month boundary.
	now := s.now()
	start, end := MonthWindow(now)
	dup, err := s.regs.ExistsByEmailBetween(ctx, email, start, end)
	if err != nil {
		return domain.Registration{}, err
	}
	if dup {
		dupErr := dErrors.New(dErrors.CodeDuplicate, "Email already registered this month")
		if auditErr := s.audit.Record(ctx, domain.ActionRegisterFailed, fmt.Sprintf("Duplicate email: %s", email)); auditErr != nil {
			return domain.Registration{}, auditErr
		}
		return domain.Registration{}, dupErr
	}

	reg := domain.Registration{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		CreatedAt: now,
	}
	if err := s.regs.Save(ctx, reg); err != nil {
		return domain.Registration{}, err
	}
	if err := s.audit.Record(ctx, domain.ActionRegisterSuccess, fmt.Sprintf("%s <%s>", name, email)); err != nil {
		return domain.Registration{}, err
	}
	return reg, nil
}

// List exposes all registrations in insertion order for the query surface.
func (s *Service) List(ctx context.Context) ([]domain.Registration, error) {
	return s.regs.ListAll(ctx)
}
