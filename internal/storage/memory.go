package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"giveaway/internal/domain"
)

// In-memory stores back tests and local runs without a database. They
// intentionally favor clarity over performance. Slices keep insertion
// order, which is the contract for registration listings.

type InMemoryRegistrationStore struct {
	mu   sync.RWMutex
	regs []domain.Registration
}

func NewInMemoryRegistrationStore() *InMemoryRegistrationStore {
	return &InMemoryRegistrationStore{}
}

func (s *InMemoryRegistrationStore) Save(_ context.Context, reg domain.Registration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regs = append(s.regs, reg)
	return nil
}

func (s *InMemoryRegistrationStore) ExistsByEmailBetween(_ context.Context, email string, start, end time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.regs {
		if r.Email == email && inWindow(r.CreatedAt, start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (s *InMemoryRegistrationStore) ListBetween(_ context.Context, start, end time.Time) ([]domain.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Registration
	for _, r := range s.regs {
		if inWindow(r.CreatedAt, start, end) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *InMemoryRegistrationStore) ListAll(_ context.Context) ([]domain.Registration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Registration, len(s.regs))
	copy(out, s.regs)
	return out, nil
}

// inWindow implements the half-open [start, end) window check shared by
// duplicate detection and the winner pool.
func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && t.Before(end)
}

type InMemoryWinnerStore struct {
	mu      sync.RWMutex
	winners []domain.Winner
	regs    *InMemoryRegistrationStore
}

// NewInMemoryWinnerStore joins against the given registration store when
// listing winner details, mirroring the SQL join in the postgres store.
func NewInMemoryWinnerStore(regs *InMemoryRegistrationStore) *InMemoryWinnerStore {
	return &InMemoryWinnerStore{regs: regs}
}

func (s *InMemoryWinnerStore) Save(_ context.Context, winner domain.Winner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.winners = append(s.winners, winner)
	return nil
}

func (s *InMemoryWinnerStore) ListDetails(ctx context.Context) ([]domain.WinnerDetail, error) {
	regs, err := s.regs.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Registration, len(regs))
	for _, r := range regs {
		byID[r.ID.String()] = r
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.WinnerDetail, 0, len(s.winners))
	for _, w := range s.winners {
		reg, ok := byID[w.RegistrationID.String()]
		if !ok {
			continue
		}
		out = append(out, domain.WinnerDetail{
			WinnerID:   w.ID,
			Name:       reg.Name,
			Email:      reg.Email,
			SelectedAt: w.SelectedAt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SelectedAt.After(out[j].SelectedAt)
	})
	return out, nil
}

type InMemoryAuditStore struct {
	mu      sync.RWMutex
	entries []domain.AuditEntry
}

func NewInMemoryAuditStore() *InMemoryAuditStore {
	return &InMemoryAuditStore{}
}

func (s *InMemoryAuditStore) Append(_ context.Context, entry domain.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

func (s *InMemoryAuditStore) List(_ context.Context, limit, offset int) ([]domain.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Reversed copy before the stable sort, so entries with identical
	// timestamps still come back newest-appended first.
	sorted := make([]domain.AuditEntry, 0, len(s.entries))
	for i := len(s.entries) - 1; i >= 0; i-- {
		sorted = append(sorted, s.entries[i])
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	if offset >= len(sorted) {
		return nil, nil
	}
	sorted = sorted[offset:]
	if limit > 0 && limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted, nil
}
