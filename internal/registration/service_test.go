package registration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"giveaway/internal/audit"
	"giveaway/internal/domain"
	"giveaway/internal/storage"
	dErrors "giveaway/pkg/domainerrors"
)

type RegistrationServiceSuite struct {
	suite.Suite
	ctx        context.Context
	regs       *storage.InMemoryRegistrationStore
	auditStore *storage.InMemoryAuditStore
	service    *Service
}

func TestRegistrationServiceSuite(t *testing.T) {
	suite.Run(t, new(RegistrationServiceSuite))
}

func (s *RegistrationServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.regs = storage.NewInMemoryRegistrationStore()
	s.auditStore = storage.NewInMemoryAuditStore()
	s.service = NewService(s.regs, audit.NewRecorder(s.auditStore))
}

func (s *RegistrationServiceSuite) auditEntries() []domain.AuditEntry {
	entries, err := s.auditStore.List(s.ctx, 0, 0)
	s.Require().NoError(err)
	return entries
}

func (s *RegistrationServiceSuite) TestRegisterSuccess() {
	reg, err := s.service.Register(s.ctx, "John Doe", "John.Doe@Example.com")

	s.Require().NoError(err)
	s.Equal("John Doe", reg.Name)
	s.Equal("john.doe@example.com", reg.Email, "stored email is normalized")
	s.NotZero(reg.ID)
	s.False(reg.CreatedAt.IsZero())

	stored, err := s.regs.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Len(stored, 1)

	entries := s.auditEntries()
	s.Require().Len(entries, 1)
	s.Equal(domain.ActionRegisterSuccess, entries[0].Action)
	s.Contains(entries[0].Details, "john.doe@example.com")
}

func (s *RegistrationServiceSuite) TestRegisterMissingFields() {
	cases := []struct {
		name     string
		userName string
		email    string
	}{
		{"empty name", "", "user@example.com"},
		{"empty email", "John", ""},
		{"both empty", "", ""},
		{"whitespace name", "   ", "user@example.com"},
		{"whitespace email", "John", "  "},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.SetupTest()

			_, err := s.service.Register(s.ctx, tc.userName, tc.email)

			s.Require().Error(err)
			s.True(dErrors.Is(err, dErrors.CodeMissingField))
			s.Equal("Name and email are required", err.Error())

			stored, listErr := s.regs.ListAll(s.ctx)
			s.Require().NoError(listErr)
			s.Empty(stored, "nothing persisted on validation failure")

			entries := s.auditEntries()
			s.Require().Len(entries, 1, "every attempt leaves one audit entry")
			s.Equal(domain.ActionRegisterFailed, entries[0].Action)
		})
	}
}

func (s *RegistrationServiceSuite) TestMissingFieldCheckedBeforeFormat() {
	// An empty email is a missing field, not an invalid format, even
	// though it would also fail normalization.
	_, err := s.service.Register(s.ctx, "John", "")
	s.True(dErrors.Is(err, dErrors.CodeMissingField))
}

func (s *RegistrationServiceSuite) TestRegisterInvalidEmail() {
	_, err := s.service.Register(s.ctx, "John", "not-an-email")

	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeInvalidEmail))

	stored, listErr := s.regs.ListAll(s.ctx)
	s.Require().NoError(listErr)
	s.Empty(stored)

	entries := s.auditEntries()
	s.Require().Len(entries, 1)
	s.Equal(domain.ActionRegisterFailed, entries[0].Action)
	s.Contains(entries[0].Details, "not-an-email")
}

func (s *RegistrationServiceSuite) TestRegisterDuplicateSameMonth() {
	_, err := s.service.Register(s.ctx, "Jane Doe", "jane.doe@example.com")
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, "Jane Doe", "jane.doe@example.com")

	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeDuplicate))
	s.Equal("Email already registered this month", err.Error())

	stored, listErr := s.regs.ListAll(s.ctx)
	s.Require().NoError(listErr)
	s.Len(stored, 1, "duplicate is not persisted")
}

func (s *RegistrationServiceSuite) TestRegisterDuplicateCaseInsensitive() {
	_, err := s.service.Register(s.ctx, "Alice", "alice@example.com")
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, "Alice", "ALICE@Example.com")

	s.Require().Error(err)
	s.True(dErrors.Is(err, dErrors.CodeDuplicate))
	s.Equal("Email already registered this month", err.Error())
}

func (s *RegistrationServiceSuite) TestRegisterSameEmailNextMonth() {
	august := time.Date(2025, time.August, 15, 10, 0, 0, 0, time.UTC)
	september := time.Date(2025, time.September, 5, 16, 0, 0, 0, time.UTC)

	s.service.now = func() time.Time { return august }
	_, err := s.service.Register(s.ctx, "Jane", "jane@example.com")
	s.Require().NoError(err)

	s.service.now = func() time.Time { return september }
	_, err = s.service.Register(s.ctx, "Jane", "jane@example.com")
	s.Require().NoError(err, "a new calendar month resets the duplicate window")

	stored, listErr := s.regs.ListAll(s.ctx)
	s.Require().NoError(listErr)
	s.Len(stored, 2)
}

func (s *RegistrationServiceSuite) TestRegisterAcrossMonthBoundary() {
	// Registered at the last second of August; the first instant of
	// September is a different window.
	s.service.now = func() time.Time {
		return time.Date(2025, time.August, 31, 23, 59, 59, 0, time.UTC)
	}
	_, err := s.service.Register(s.ctx, "Edge", "edge@example.com")
	s.Require().NoError(err)

	s.service.now = func() time.Time {
		return time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)
	}
	_, err = s.service.Register(s.ctx, "Edge", "edge@example.com")
	s.Require().NoError(err)
}

func (s *RegistrationServiceSuite) TestAuditTrailPerAttempt() {
	_, _ = s.service.Register(s.ctx, "Alice", "alice@example.com")
	_, _ = s.service.Register(s.ctx, "Bob", "bob@example.com")
	_, _ = s.service.Register(s.ctx, "Alice", "alice@example.com") // duplicate

	entries := s.auditEntries()
	s.Require().Len(entries, 3, "one entry per attempt, success or failure")

	// Newest first.
	s.Equal(domain.ActionRegisterFailed, entries[0].Action)
	s.Equal(domain.ActionRegisterSuccess, entries[1].Action)
	s.Equal(domain.ActionRegisterSuccess, entries[2].Action)
}

func (s *RegistrationServiceSuite) TestStoreErrorPropagates() {
	svc := NewService(failingRegistrationStore{}, audit.NewRecorder(s.auditStore))

	_, err := svc.Register(s.ctx, "John", "john@example.com")

	s.Require().Error(err)
	s.False(dErrors.Is(err, dErrors.CodeMissingField))
	s.False(dErrors.Is(err, dErrors.CodeInvalidEmail))
	s.False(dErrors.Is(err, dErrors.CodeDuplicate))
}

var errStoreDown = errors.New("store unavailable")

type failingRegistrationStore struct{}

func (failingRegistrationStore) Save(context.Context, domain.Registration) error {
	return errStoreDown
}

func (failingRegistrationStore) ExistsByEmailBetween(context.Context, string, time.Time, time.Time) (bool, error) {
	return false, errStoreDown
}

func (failingRegistrationStore) ListBetween(context.Context, time.Time, time.Time) ([]domain.Registration, error) {
	return nil, errStoreDown
}

func (failingRegistrationStore) ListAll(context.Context) ([]domain.Registration, error) {
	return nil, errStoreDown
}
