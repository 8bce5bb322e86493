package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"giveaway/internal/domain"
	"giveaway/internal/platform/middleware"
	dErrors "giveaway/pkg/domainerrors"
)

// WinnerService defines the query interface for past draws.
type WinnerService interface {
	ListDetails(ctx context.Context) ([]domain.WinnerDetail, error)
}

// AuditLog defines the query interface for the audit trail.
type AuditLog interface {
	List(ctx context.Context, limit, offset int) ([]domain.AuditEntry, error)
}

// QueryHandler serves the read-only surface: winners, logs, and liveness.
type QueryHandler struct {
	logger  *slog.Logger
	winners WinnerService
	logs    AuditLog
}

func NewQueryHandler(winners WinnerService, logs AuditLog, logger *slog.Logger) *QueryHandler {
	return &QueryHandler{logger: logger, winners: winners, logs: logs}
}

type winnerResponse struct {
	WinnerID   string `json:"winner_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	SelectedAt string `json:"selected_at"`
}

type logResponse struct {
	ID        string `json:"id"`
	Action    string `json:"action"`
	Details   string `json:"details"`
	Timestamp string `json:"timestamp"`
}

func (h *QueryHandler) handleListWinners(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	details, err := h.winners.ListDetails(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list winners",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		writeError(w, err)
		return
	}

	out := make([]winnerResponse, 0, len(details))
	for _, d := range details {
		out = append(out, winnerResponse{
			WinnerID:   d.WinnerID.String(),
			Name:       d.Name,
			Email:      d.Email,
			SelectedAt: d.SelectedAt.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *QueryHandler) handleListLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, offset, err := parsePagination(r)
	if err != nil {
		writeError(w, err)
		return
	}

	entries, err := h.logs.List(ctx, limit, offset)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list audit entries",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		writeError(w, err)
		return
	}

	out := make([]logResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, logResponse{
			ID:        e.ID.String(),
			Action:    e.Action,
			Details:   e.Details,
			Timestamp: e.Timestamp.Format(time.RFC3339),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *QueryHandler) handlePing(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "App is running",
	})
}

// parsePagination reads page/per_page. per_page=0 (the default) means
// return everything; otherwise offset = (page-1) * per_page.
func parsePagination(r *http.Request) (limit, offset int, err error) {
	q := r.URL.Query()

	perPage := 0
	if raw := q.Get("per_page"); raw != "" {
		perPage, err = strconv.Atoi(raw)
		if err != nil || perPage < 0 {
			return 0, 0, dErrors.New(dErrors.CodeBadRequest, "per_page must be a non-negative integer")
		}
	}

	page := 1
	if raw := q.Get("page"); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, dErrors.New(dErrors.CodeBadRequest, "page must be a positive integer")
		}
	}

	if perPage == 0 {
		return 0, 0, nil
	}
	return perPage, (page - 1) * perPage, nil
}
