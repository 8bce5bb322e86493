package httptransport

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"giveaway/internal/domain"
	"giveaway/internal/transport/http/mocks"
	dErrors "giveaway/pkg/domainerrors"
	"giveaway/pkg/testutil"
)

//go:generate mockgen -source=handlers_registration.go -destination=mocks/services.go -package=mocks

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRouter(t *testing.T) (*mocks.MockRegistrationService, *mocks.MockWinnerService, *mocks.MockAuditLog, http.Handler) {
	t.Helper()
	ctrl := gomock.NewController(t)
	regs := mocks.NewMockRegistrationService(ctrl)
	winners := mocks.NewMockWinnerService(ctrl)
	logs := mocks.NewMockAuditLog(ctrl)
	router := NewRouter(RouterConfig{
		Logger:       discardLogger(),
		Registration: regs,
		Winners:      winners,
		Logs:         logs,
	})
	return regs, winners, logs, router
}

func TestHandleRegister(t *testing.T) {
	t.Run("valid registration returns 201", func(t *testing.T) {
		regs, _, _, router := newTestRouter(t)
		regs.EXPECT().
			Register(gomock.Any(), "John Doe", "john.doe@example.com").
			Return(domain.Registration{
				ID:        uuid.New(),
				Name:      "John Doe",
				Email:     "john.doe@example.com",
				CreatedAt: time.Now(),
			}, nil)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/register", map[string]string{
			"name":  "John Doe",
			"email": "john.doe@example.com",
		})
		rr := testutil.DoRequest(router, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
		body := *testutil.UnmarshalResponse[map[string]string](t, rr)
		assert.Equal(t, "Registration successful", body["message"])
	})

	t.Run("invalid JSON body returns 400 without calling the service", func(t *testing.T) {
		regs, _, _, router := newTestRouter(t)
		regs.EXPECT().Register(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		req := testutil.NewRequestWithBody(t, http.MethodPost, "/register", `{"name": "John", invalid}`)
		rr := testutil.DoRequest(router, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing fields return 400 with the service message", func(t *testing.T) {
		regs, _, _, router := newTestRouter(t)
		regs.EXPECT().
			Register(gomock.Any(), "", "john@example.com").
			Return(domain.Registration{}, dErrors.New(dErrors.CodeMissingField, "Name and email are required"))

		req := testutil.NewJSONRequest(t, http.MethodPost, "/register", map[string]string{
			"email": "john@example.com",
		})
		rr := testutil.DoRequest(router, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		body := testutil.UnmarshalErrorResponse(t, rr)
		assert.Equal(t, "Name and email are required", body["error"])
	})

	t.Run("duplicate returns 400 with the duplicate message", func(t *testing.T) {
		regs, _, _, router := newTestRouter(t)
		regs.EXPECT().
			Register(gomock.Any(), "Jane", "jane@example.com").
			Return(domain.Registration{}, dErrors.New(dErrors.CodeDuplicate, "Email already registered this month"))

		req := testutil.NewJSONRequest(t, http.MethodPost, "/register", map[string]string{
			"name":  "Jane",
			"email": "jane@example.com",
		})
		rr := testutil.DoRequest(router, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		body := testutil.UnmarshalErrorResponse(t, rr)
		assert.Equal(t, "Email already registered this month", body["error"])
	})

	t.Run("store failure returns 500 with a generic message", func(t *testing.T) {
		regs, _, _, router := newTestRouter(t)
		regs.EXPECT().
			Register(gomock.Any(), "John", "john@example.com").
			Return(domain.Registration{}, assertAnError)

		req := testutil.NewJSONRequest(t, http.MethodPost, "/register", map[string]string{
			"name":  "John",
			"email": "john@example.com",
		})
		rr := testutil.DoRequest(router, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		body := testutil.UnmarshalErrorResponse(t, rr)
		assert.Equal(t, "internal server error", body["error"], "store details must not leak")
	})
}

func TestHandleListRegistrations(t *testing.T) {
	regs, _, _, router := newTestRouter(t)
	created := time.Date(2025, time.August, 15, 10, 0, 0, 0, time.UTC)
	id := uuid.New()
	regs.EXPECT().List(gomock.Any()).Return([]domain.Registration{
		{ID: id, Name: "Alice", Email: "alice@example.com", CreatedAt: created},
	}, nil)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/registrations", nil)
	rr := testutil.DoRequest(router, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	got := testutil.UnmarshalResponse[[]map[string]string](t, rr)
	assert.Len(t, *got, 1)
	entry := (*got)[0]
	assert.Equal(t, id.String(), entry["id"])
	assert.Equal(t, "Alice", entry["name"])
	assert.Equal(t, "alice@example.com", entry["email"])
	assert.Equal(t, "2025-08-15T10:00:00Z", entry["timestamp"])
}

// assertAnError is an uncoded error standing in for a store failure.
var assertAnError = errors.New("pq: connection refused")
