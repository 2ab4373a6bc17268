package reportshandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Yamanxl9/employee-management-system/internal/domain/audit"
	"github.com/Yamanxl9/employee-management-system/internal/domain/directory"
	"github.com/Yamanxl9/employee-management-system/internal/domain/export"
	"github.com/Yamanxl9/employee-management-system/internal/domain/reports"
	"github.com/Yamanxl9/employee-management-system/internal/platform/requestctx"
	"github.com/Yamanxl9/employee-management-system/internal/transport/http/api"
	"github.com/Yamanxl9/employee-management-system/internal/transport/http/middleware"
	"github.com/Yamanxl9/employee-management-system/internal/transport/http/shared"
)

type Handler struct {
	Store         *directory.Store
	Reports       *reports.Service
	Audit         *audit.Service
	ExportMaxRows int
}

func NewHandler(store *directory.Store, reportsSvc *reports.Service, auditSvc *audit.Service, exportMaxRows int) *Handler {
	return &Handler{Store: store, Reports: reportsSvc, Audit: auditSvc, ExportMaxRows: exportMaxRows}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/statistics", h.HandleStatistics)
	r.Get("/reports/expiring-documents", h.HandleExpiringDocuments)
	r.Get("/reports/by-company", h.HandleByCompany)
	r.Get("/reports/by-company/{code}", h.HandleByCompany)
	r.Get("/reports/by-nationality", h.HandleByNationality)
	r.Get("/reports/new-employees", h.HandleNewEmployees)
	r.Get("/reports/summary.pdf", h.HandleSummaryPDF)
	r.Post("/export-filtered-results", h.HandleExportFiltered)
	r.Post("/export-report", h.HandleExportReport)
}

// HandleStatistics serves the dashboard aggregates. A store failure degrades
// to a zeroed payload with the database_error flag instead of a 5xx so the
// dashboard still renders.
func (h *Handler) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	stats, err := h.Store.Statistics(r.Context(), time.Now())
	if err != nil {
		slog.Warn("statistics query failed", "error", err, "requestId", requestID)
		api.Success(w, directory.EmptyStatistics(), requestID)
		return
	}
	api.Success(w, stats, requestID)
}

func (h *Handler) HandleExpiringDocuments(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	days := queryInt(r, "days", 90)
	rows, err := h.Reports.ExpiringDocuments(r.Context(), days, time.Now())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build report", requestID)
		return
	}
	if rows == nil {
		rows = []directory.EnrichedEmployee{}
	}
	api.Success(w, map[string]any{"days": days, "employees": rows, "total": len(rows)}, requestID)
}

func (h *Handler) HandleByCompany(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	code := chi.URLParam(r, "code")
	if code == "" {
		code = r.URL.Query().Get("company_code")
	}
	if code == "" {
		api.Fail(w, http.StatusBadRequest, "validation_error", "company code is required", requestID)
		return
	}

	rows, err := h.Reports.ByCompany(r.Context(), code, time.Now())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build report", requestID)
		return
	}
	if rows == nil {
		rows = []directory.EnrichedEmployee{}
	}
	api.Success(w, map[string]any{"company_code": code, "employees": rows, "total": len(rows)}, requestID)
}

func (h *Handler) HandleByNationality(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	rows, err := h.Reports.ByNationality(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build report", requestID)
		return
	}
	if code := r.URL.Query().Get("nationality_code"); code != "" {
		filtered := rows[:0]
		for _, row := range rows {
			if strings.EqualFold(row.Code, code) {
				filtered = append(filtered, row)
			}
		}
		rows = filtered
	}
	if rows == nil {
		rows = []reports.NationalityCount{}
	}
	api.Success(w, map[string]any{"nationalities": rows, "total": len(rows)}, requestID)
}

func (h *Handler) HandleNewEmployees(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	days := queryInt(r, "days", 30)
	rows, err := h.Reports.NewEmployees(r.Context(), days, time.Now())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build report", requestID)
		return
	}
	if rows == nil {
		rows = []directory.EnrichedEmployee{}
	}
	api.Success(w, map[string]any{"days": days, "employees": rows, "total": len(rows)}, requestID)
}

func (h *Handler) HandleSummaryPDF(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	now := time.Now()

	stats, err := h.Store.Statistics(r.Context(), now)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to build report", requestID)
		return
	}

	buf, err := export.StatisticsPDF(stats, now)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "report_failed", "failed to render report", requestID)
		return
	}

	h.recordAudit(r, "report_exported", "exported statistics summary pdf")
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="statistics_summary.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) HandleExportFiltered(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	now := time.Now()

	var filter directory.SearchFilter
	if r.Body != nil {
		if err := json.NewDecoder(r.Body).Decode(&filter); err != nil {
			api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
			return
		}
	}

	emps, _, err := h.Store.Search(r.Context(), filter, 0, int64(h.ExportMaxRows), now)
	if err != nil {
		var filterErr *directory.FilterError
		if errors.As(err, &filterErr) {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", filterErr.Reason, requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to collect export rows", requestID)
		return
	}

	enriched, err := h.Store.EnrichAll(r.Context(), emps, now)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to collect export rows", requestID)
		return
	}

	buf, err := export.Workbook(enriched, filter, now)
	if errors.Is(err, export.ErrNoRows) {
		api.Fail(w, http.StatusBadRequest, "export_empty", "no records match the current filters", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to render workbook", requestID)
		return
	}

	h.recordAudit(r, "export_created", "exported filtered employees, rows: "+strconv.Itoa(len(enriched)))
	writeWorkbook(w, buf.Bytes(), export.Filename(now))
}

type exportReportRequest struct {
	ReportType  string `json:"report_type"`
	Days        int    `json:"days"`
	CompanyCode string `json:"company_code"`
}

func (h *Handler) HandleExportReport(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	now := time.Now()

	var payload exportReportRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("report_type", payload.ReportType, "report type is required")
	v.Enum("report_type", payload.ReportType, []string{
		reports.TypeExpiringDocuments,
		reports.TypeByCompany,
		reports.TypeByNationality,
		reports.TypeNewEmployees,
	}, "unknown report type")
	if payload.ReportType == reports.TypeByCompany {
		v.Required("company_code", payload.CompanyCode, "company code is required for this report")
	}
	if v.Reject(w, requestID) {
		return
	}

	if payload.ReportType == reports.TypeByNationality {
		rows, err := h.Reports.ByNationality(r.Context())
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to build report", requestID)
			return
		}
		buf, err := export.NationalityWorkbook(rows, now)
		if errors.Is(err, export.ErrNoRows) {
			api.Fail(w, http.StatusBadRequest, "export_empty", "no records to export", requestID)
			return
		}
		if err != nil {
			api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to render workbook", requestID)
			return
		}
		h.recordAudit(r, "report_exported", "exported report "+payload.ReportType)
		writeWorkbook(w, buf.Bytes(), export.Filename(now))
		return
	}

	var (
		rows []directory.EnrichedEmployee
		err  error
	)
	switch payload.ReportType {
	case reports.TypeExpiringDocuments:
		days := payload.Days
		if days <= 0 {
			days = 90
		}
		rows, err = h.Reports.ExpiringDocuments(r.Context(), days, now)
	case reports.TypeByCompany:
		rows, err = h.Reports.ByCompany(r.Context(), payload.CompanyCode, now)
	case reports.TypeNewEmployees:
		days := payload.Days
		if days <= 0 {
			days = 30
		}
		rows, err = h.Reports.NewEmployees(r.Context(), days, now)
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to build report", requestID)
		return
	}

	buf, err := export.Workbook(rows, directory.SearchFilter{}, now)
	if errors.Is(err, export.ErrNoRows) {
		api.Fail(w, http.StatusBadRequest, "export_empty", "no records to export", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "export_failed", "failed to render workbook", requestID)
		return
	}

	h.recordAudit(r, "report_exported", "exported report "+payload.ReportType)
	writeWorkbook(w, buf.Bytes(), export.Filename(now))
}

func writeWorkbook(w http.ResponseWriter, data []byte, filename string) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) recordAudit(r *http.Request, action, detail string) {
	username := ""
	if user, ok := middleware.GetUser(r.Context()); ok {
		username = user.Username
	}
	h.Audit.Record(r.Context(), audit.Entry{
		Action:    action,
		Detail:    detail,
		Username:  username,
		IP:        shared.ClientIP(r),
		UserAgent: r.UserAgent(),
		RequestID: requestctx.GetRequestID(r.Context()),
	})
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}
