package audithandler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Yamanxl9/employee-management-system/internal/domain/audit"
	"github.com/Yamanxl9/employee-management-system/internal/platform/requestctx"
	"github.com/Yamanxl9/employee-management-system/internal/transport/http/api"
	"github.com/Yamanxl9/employee-management-system/internal/transport/http/middleware"
	"github.com/Yamanxl9/employee-management-system/internal/transport/http/shared"
)

type Handler struct {
	Audit *audit.Service
}

func NewHandler(auditSvc *audit.Service) *Handler {
	return &Handler{Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireRole("admin")).Get("/audit", h.HandleList)
	r.With(middleware.RequireRole("admin")).Post("/audit/purge", h.HandlePurge)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	filter := audit.Filter{
		Action:   r.URL.Query().Get("action"),
		Username: r.URL.Query().Get("username"),
	}
	pagination := shared.ParsePagination(r, 50, 200)

	total, err := h.Audit.Count(r.Context(), filter)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_failed", "failed to load audit log", requestID)
		return
	}
	entries, err := h.Audit.List(r.Context(), filter, pagination.Skip(), pagination.Limit())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_failed", "failed to load audit log", requestID)
		return
	}
	if entries == nil {
		entries = []audit.Entry{}
	}

	api.Success(w, map[string]any{
		"entries":      entries,
		"total":        total,
		"pages":        shared.Pages(total, pagination.PerPage),
		"current_page": pagination.Page,
	}, requestID)
}

func (h *Handler) HandlePurge(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	days := 90
	if raw := r.URL.Query().Get("older_than_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "older_than_days must be a positive integer", requestID)
			return
		}
		days = parsed
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	deleted, err := h.Audit.Purge(r.Context(), cutoff)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "audit_failed", "failed to purge audit log", requestID)
		return
	}

	username := ""
	if user, ok := middleware.GetUser(r.Context()); ok {
		username = user.Username
	}
	h.Audit.Record(r.Context(), audit.Entry{
		Action:    "audit_purged",
		Detail:    "purged audit entries older than cutoff",
		Username:  username,
		IP:        shared.ClientIP(r),
		UserAgent: r.UserAgent(),
		RequestID: requestID,
	})

	api.Success(w, map[string]any{"deleted": deleted, "cutoff": cutoff.UTC()}, requestID)
}
