package httptransport

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"giveaway/internal/domain"
	"giveaway/internal/platform/metrics"
	"giveaway/internal/platform/middleware"
	dErrors "giveaway/pkg/domainerrors"
)

// RegistrationService defines the interface for registration operations.
type RegistrationService interface {
	Register(ctx context.Context, name, rawEmail string) (domain.Registration, error)
	List(ctx context.Context) ([]domain.Registration, error)
}

// RegistrationHandler is the thin HTTP layer over the registration
// service. It owns request parsing and response shaping only.
type RegistrationHandler struct {
	logger  *slog.Logger
	service RegistrationService
	metrics *metrics.Metrics
}

func NewRegistrationHandler(service RegistrationService, logger *slog.Logger, m *metrics.Metrics) *RegistrationHandler {
	return &RegistrationHandler{logger: logger, service: service, metrics: m}
}

type registerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type registrationResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Timestamp string `json:"timestamp"`
}

func (h *RegistrationHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WarnContext(ctx, "invalid register request body",
			"request_id", requestID,
			"error", err.Error(),
		)
		h.countOutcome("invalid_body")
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	_, err := h.service.Register(ctx, req.Name, req.Email)
	if err != nil {
		code := dErrors.CodeOf(err)
		switch code {
		case dErrors.CodeMissingField, dErrors.CodeInvalidEmail, dErrors.CodeDuplicate:
			h.logger.WarnContext(ctx, "registration rejected",
				"request_id", requestID,
				"reason", string(code),
			)
			h.countOutcome(string(code))
		default:
			h.logger.ErrorContext(ctx, "registration failed",
				"request_id", requestID,
				"error", err.Error(),
			)
			h.countOutcome("error")
		}
		writeError(w, err)
		return
	}

	h.countOutcome("success")
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Registration successful"})
}

func (h *RegistrationHandler) handleListRegistrations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	regs, err := h.service.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list registrations",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		writeError(w, err)
		return
	}

	out := make([]registrationResponse, 0, len(regs))
	for _, reg := range regs {
		out = append(out, registrationResponse{
			ID:        reg.ID.String(),
			Name:      reg.Name,
			Email:     reg.Email,
			Timestamp: reg.CreatedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *RegistrationHandler) countOutcome(outcome string) {
	if h.metrics != nil {
		h.metrics.IncrementRegistration(outcome)
	}
}
