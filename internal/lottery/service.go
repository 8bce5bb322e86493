// Package lottery draws one uniformly random winner from the current
// month's registrants and persists the result.
package lottery

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"giveaway/internal/audit"
	"giveaway/internal/domain"
	"giveaway/internal/registration"
	"giveaway/internal/storage"
)

// ErrNoParticipants reports an empty candidate pool. It is a normal,
// loggable outcome, not a failure: the scheduler logs it and exits clean.
var ErrNoParticipants = errors.New("no participants this month")

// Picker chooses an index in [0, n) uniformly. Injectable so tests can fix
// the draw without touching production randomness.
type Picker func(n int) int

// Service performs the monthly draw. Selection does not guard against an
// existing winner for the month: each invocation that finds participants
// is an independent draw producing its own record.
type Service struct {
	regs    storage.RegistrationStore
	winners storage.WinnerStore
	audit   *audit.Recorder
	pick    Picker
}

func NewService(regs storage.RegistrationStore, winners storage.WinnerStore, rec *audit.Recorder) *Service {
	return &Service{
		regs:    regs,
		winners: winners,
		audit:   rec,
		pick:    rand.IntN,
	}
}

// SelectWinner draws from registrations created within ref's calendar
// month. The pool is pre-filtered to the window, so the persisted winner
// always references a registration from the selection month.
func (s *Service) SelectWinner(ctx context.Context, ref time.Time) (domain.Winner, error) {
	start, end := registration.MonthWindow(ref)
	pool, err := s.regs.ListBetween(ctx, start, end)
	if err != nil {
		return domain.Winner{}, err
	}
	if len(pool) == 0 {
		return domain.Winner{}, ErrNoParticipants
	}

	chosen := pool[s.pick(len(pool))]
	winner := domain.Winner{
		ID:             uuid.New(),
		RegistrationID: chosen.ID,
		SelectedAt:     ref,
	}
	if err := s.winners.Save(ctx, winner); err != nil {
		return domain.Winner{}, err
	}
	if err := s.audit.Record(ctx, domain.ActionWinnerSelected, fmt.Sprintf("%s <%s>", chosen.Name, chosen.Email)); err != nil {
		return domain.Winner{}, err
	}
	return winner, nil
}

// ListDetails exposes past winners joined with their registrations, newest
// selection first.
func (s *Service) ListDetails(ctx context.Context) ([]domain.WinnerDetail, error) {
	return s.winners.ListDetails(ctx)
}
