package directoryhandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Yamanxl9/employee-management-system/internal/domain/audit"
	"github.com/Yamanxl9/employee-management-system/internal/domain/directory"
	"github.com/Yamanxl9/employee-management-system/internal/platform/requestctx"
	"github.com/Yamanxl9/employee-management-system/internal/transport/http/api"
	"github.com/Yamanxl9/employee-management-system/internal/transport/http/middleware"
	"github.com/Yamanxl9/employee-management-system/internal/transport/http/shared"
)

type Handler struct {
	Store *directory.Store
	Audit *audit.Service
}

func NewHandler(store *directory.Store, auditSvc *audit.Service) *Handler {
	return &Handler{Store: store, Audit: auditSvc}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/search", h.HandleSearch)
	r.Get("/filters", h.HandleFilters)

	r.Post("/employees", h.HandleCreateEmployee)
	r.Get("/employees/{staffNo}", h.HandleGetEmployee)
	r.Put("/employees/{staffNo}", h.HandleUpdateEmployee)
	r.Delete("/employees/{staffNo}", h.HandleDeleteEmployee)

	r.Get("/companies", h.HandleListCompanies)
	r.Post("/companies", h.HandleCreateCompany)
	r.Delete("/companies/{code}", h.HandleDeleteCompany)

	r.Get("/jobs", h.HandleListJobs)
	r.Post("/jobs", h.HandleCreateJob)
	r.Delete("/jobs/{code}", h.HandleDeleteJob)

	r.Get("/departments", h.HandleListDepartments)
	r.Post("/departments", h.HandleCreateDepartment)
	r.Delete("/departments/{code}", h.HandleDeleteDepartment)
}

func filterFromQuery(r *http.Request) directory.SearchFilter {
	q := r.URL.Query()
	query := q.Get("q")
	if query == "" {
		query = q.Get("query")
	}
	return directory.SearchFilter{
		Query:            query,
		Nationality:      q.Get("nationality"),
		Company:          q.Get("company"),
		Job:              q.Get("job"),
		Department:       q.Get("department"),
		PassportStatus:   q.Get("passport_status"),
		CardStatus:       q.Get("card_status"),
		EmiratesIDStatus: q.Get("emirates_id_status"),
		ResidenceStatus:  q.Get("residence_status"),
	}
}

type searchResponse struct {
	Employees   []directory.EnrichedEmployee `json:"employees"`
	Total       int64                        `json:"total"`
	Pages       int                          `json:"pages"`
	CurrentPage int                          `json:"current_page"`
	PerPage     int                          `json:"per_page"`
	HasNext     bool                         `json:"has_next"`
	HasPrev     bool                         `json:"has_prev"`
}

func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	filter := filterFromQuery(r)
	pagination := shared.ParsePagination(r, 20, 100)
	now := time.Now()

	emps, total, err := h.Store.Search(r.Context(), filter, pagination.Skip(), pagination.Limit(), now)
	if err != nil {
		var filterErr *directory.FilterError
		if errors.As(err, &filterErr) {
			api.Fail(w, http.StatusBadRequest, "invalid_filter", filterErr.Reason, requestID)
			return
		}
		api.Fail(w, http.StatusInternalServerError, "search_failed", "search failed", requestID)
		return
	}

	enriched, err := h.Store.EnrichAll(r.Context(), emps, now)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "search_failed", "search failed", requestID)
		return
	}
	if enriched == nil {
		enriched = []directory.EnrichedEmployee{}
	}

	pages := shared.Pages(total, pagination.PerPage)
	api.Success(w, searchResponse{
		Employees:   enriched,
		Total:       total,
		Pages:       pages,
		CurrentPage: pagination.Page,
		PerPage:     pagination.PerPage,
		HasNext:     pagination.Page < pages,
		HasPrev:     pagination.Page > 1 && total > 0,
	}, requestID)
}

func (h *Handler) HandleFilters(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	companies, err := h.Store.ListCompanies(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "filters_failed", "failed to load filter options", requestID)
		return
	}
	jobs, err := h.Store.ListJobs(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "filters_failed", "failed to load filter options", requestID)
		return
	}
	departments, err := h.Store.ListDepartments(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "filters_failed", "failed to load filter options", requestID)
		return
	}
	codes, err := h.Store.UsedNationalities(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "filters_failed", "failed to load filter options", requestID)
		return
	}

	type nationalityOption struct {
		Code    string `json:"code"`
		NameEng string `json:"name_eng"`
		NameAra string `json:"name_ara"`
	}
	nationalityOptions := make([]nationalityOption, 0, len(codes))
	for _, code := range codes {
		nationalityOptions = append(nationalityOptions, nationalityOption{
			Code:    code,
			NameEng: directory.NationalityName(code, "en"),
			NameAra: directory.NationalityName(code, "ar"),
		})
	}

	api.Success(w, map[string]any{
		"companies":     companies,
		"jobs":          jobs,
		"departments":   departments,
		"nationalities": nationalityOptions,
		"document_statuses": []string{
			string(directory.StatusMissing),
			string(directory.StatusAvailable),
			string(directory.StatusNoExpiry),
			string(directory.StatusExpired),
			string(directory.StatusExpiringSoon),
			string(directory.StatusValid),
		},
	}, requestID)
}

type employeeRequest struct {
	StaffNo             string `json:"staff_no"`
	StaffName           string `json:"staff_name"`
	StaffNameAra        string `json:"staff_name_ara"`
	NationalityCode     string `json:"nationality_code"`
	JobCode             *int   `json:"job_code"`
	DepartmentCode      string `json:"department_code"`
	CompanyCode         string `json:"company_code"`
	PassNo              string `json:"pass_no"`
	CardNo              string `json:"card_no"`
	CardExpiryDate      string `json:"card_expiry_date"`
	EmiratesID          string `json:"emirates_id"`
	EmiratesIDExpiry    string `json:"emirates_id_expiry"`
	ResidenceNo         string `json:"residence_no"`
	ResidenceIssueDate  string `json:"residence_issue_date"`
	ResidenceExpiryDate string `json:"residence_expiry_date"`
}

func (h *Handler) HandleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	var payload employeeRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("staff_no", payload.StaffNo, "staff number is required")
	v.Required("staff_name", payload.StaffName, "staff name is required")
	v.Required("staff_name_ara", payload.StaffNameAra, "arabic staff name is required")
	v.Required("nationality_code", payload.NationalityCode, "nationality code is required")
	v.Required("company_code", payload.CompanyCode, "company code is required")
	if payload.JobCode == nil {
		v.Add("job_code", "job code is required")
	}

	emp := directory.Employee{
		StaffNo:         strings.TrimSpace(payload.StaffNo),
		StaffName:       strings.TrimSpace(payload.StaffName),
		StaffNameAra:    strings.TrimSpace(payload.StaffNameAra),
		NationalityCode: strings.ToUpper(strings.TrimSpace(payload.NationalityCode)),
		DepartmentCode:  strings.TrimSpace(payload.DepartmentCode),
		CompanyCode:     strings.TrimSpace(payload.CompanyCode),
		PassNo:          strings.TrimSpace(payload.PassNo),
		CardNo:          strings.TrimSpace(payload.CardNo),
		EmiratesID:      strings.TrimSpace(payload.EmiratesID),
		ResidenceNo:     strings.TrimSpace(payload.ResidenceNo),
	}
	if payload.JobCode != nil {
		emp.JobCode = *payload.JobCode
	}
	emp.CardExpiryDate = parseOptionalDate(v, "card_expiry_date", payload.CardExpiryDate)
	emp.EmiratesIDExpiry = parseOptionalDate(v, "emirates_id_expiry", payload.EmiratesIDExpiry)
	emp.ResidenceIssueDate = parseOptionalDate(v, "residence_issue_date", payload.ResidenceIssueDate)
	emp.ResidenceExpiryDate = parseOptionalDate(v, "residence_expiry_date", payload.ResidenceExpiryDate)

	if v.Reject(w, requestID) {
		return
	}

	created, err := h.Store.Create(r.Context(), emp)
	if errors.Is(err, directory.ErrDuplicateStaffNo) {
		api.Fail(w, http.StatusBadRequest, "duplicate_staff_no", "staff number already exists", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to create employee", requestID)
		return
	}

	h.recordAudit(r, "employee_created", "created employee "+created.StaffNo)
	api.Created(w, created, requestID)
}

func (h *Handler) HandleGetEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	staffNo := chi.URLParam(r, "staffNo")

	emp, err := h.Store.GetByStaffNo(r.Context(), staffNo)
	if errors.Is(err, directory.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "lookup_failed", "failed to load employee", requestID)
		return
	}

	enriched, err := h.Store.EnrichAll(r.Context(), []directory.Employee{*emp}, time.Now())
	if err != nil || len(enriched) != 1 {
		api.Fail(w, http.StatusInternalServerError, "lookup_failed", "failed to load employee", requestID)
		return
	}
	api.Success(w, enriched[0], requestID)
}

type employeeUpdateRequest struct {
	StaffName           *string `json:"staff_name"`
	StaffNameAra        *string `json:"staff_name_ara"`
	NationalityCode     *string `json:"nationality_code"`
	JobCode             *int    `json:"job_code"`
	DepartmentCode      *string `json:"department_code"`
	CompanyCode         *string `json:"company_code"`
	PassNo              *string `json:"pass_no"`
	CardNo              *string `json:"card_no"`
	CardExpiryDate      *string `json:"card_expiry_date"`
	EmiratesID          *string `json:"emirates_id"`
	EmiratesIDExpiry    *string `json:"emirates_id_expiry"`
	ResidenceNo         *string `json:"residence_no"`
	ResidenceIssueDate  *string `json:"residence_issue_date"`
	ResidenceExpiryDate *string `json:"residence_expiry_date"`
}

func (h *Handler) HandleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	staffNo := chi.URLParam(r, "staffNo")

	var payload employeeUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	patch := directory.EmployeeUpdate{
		StaffName:       payload.StaffName,
		StaffNameAra:    payload.StaffNameAra,
		NationalityCode: payload.NationalityCode,
		JobCode:         payload.JobCode,
		DepartmentCode:  payload.DepartmentCode,
		CompanyCode:     payload.CompanyCode,
		PassNo:          payload.PassNo,
		CardNo:          payload.CardNo,
		EmiratesID:      payload.EmiratesID,
		ResidenceNo:     payload.ResidenceNo,
	}
	patch.CardExpiryDate = parseDatePatch(v, "card_expiry_date", payload.CardExpiryDate)
	patch.EmiratesIDExpiry = parseDatePatch(v, "emirates_id_expiry", payload.EmiratesIDExpiry)
	patch.ResidenceIssueDate = parseDatePatch(v, "residence_issue_date", payload.ResidenceIssueDate)
	patch.ResidenceExpiryDate = parseDatePatch(v, "residence_expiry_date", payload.ResidenceExpiryDate)

	if v.Reject(w, requestID) {
		return
	}

	updated, err := h.Store.Update(r.Context(), staffNo, patch)
	if errors.Is(err, directory.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "update_failed", "failed to update employee", requestID)
		return
	}

	h.recordAudit(r, "employee_updated", "updated employee "+staffNo)
	api.Success(w, updated, requestID)
}

func (h *Handler) HandleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	staffNo := chi.URLParam(r, "staffNo")

	err := h.Store.Delete(r.Context(), staffNo)
	if errors.Is(err, directory.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "delete_failed", "failed to delete employee", requestID)
		return
	}

	h.recordAudit(r, "employee_deleted", "deleted employee "+staffNo)
	api.Success(w, map[string]string{"message": "employee deleted"}, requestID)
}

func (h *Handler) HandleListCompanies(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	companies, err := h.Store.ListCompanies(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list companies", requestID)
		return
	}
	api.Success(w, companies, requestID)
}

func (h *Handler) HandleCreateCompany(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	var payload directory.Company
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("company_code", payload.CompanyCode, "company code is required")
	v.Required("company_name_eng", payload.CompanyNameEng, "english name is required")
	v.Required("company_name_ara", payload.CompanyNameAra, "arabic name is required")
	if v.Reject(w, requestID) {
		return
	}

	payload.CompanyCode = strings.ToUpper(strings.TrimSpace(payload.CompanyCode))
	err := h.Store.CreateCompany(r.Context(), payload)
	if errors.Is(err, directory.ErrDuplicateCode) {
		api.Fail(w, http.StatusBadRequest, "duplicate_code", "company code already exists", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to create company", requestID)
		return
	}

	h.recordAudit(r, "company_created", "created company "+payload.CompanyCode)
	api.Created(w, payload, requestID)
}

func (h *Handler) HandleDeleteCompany(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	code := chi.URLParam(r, "code")

	err := h.Store.DeleteCompany(r.Context(), code)
	if h.failReferenceDelete(w, r, err, "company", code, requestID) {
		return
	}
	h.recordAudit(r, "company_deleted", "deleted company "+code)
	api.Success(w, map[string]string{"message": "company deleted"}, requestID)
}

func (h *Handler) HandleListJobs(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	jobs, err := h.Store.ListJobs(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list jobs", requestID)
		return
	}
	api.Success(w, jobs, requestID)
}

func (h *Handler) HandleCreateJob(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	var payload struct {
		JobCode *int   `json:"job_code"`
		JobEng  string `json:"job_eng"`
		JobAra  string `json:"job_ara"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	if payload.JobCode == nil {
		v.Add("job_code", "job code is required")
	}
	v.Required("job_eng", payload.JobEng, "english title is required")
	v.Required("job_ara", payload.JobAra, "arabic title is required")
	if v.Reject(w, requestID) {
		return
	}

	job := directory.Job{JobCode: *payload.JobCode, JobEng: payload.JobEng, JobAra: payload.JobAra}
	err := h.Store.CreateJob(r.Context(), job)
	if errors.Is(err, directory.ErrDuplicateCode) {
		api.Fail(w, http.StatusBadRequest, "duplicate_code", "job code already exists", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to create job", requestID)
		return
	}

	h.recordAudit(r, "job_created", "created job "+itoa(job.JobCode))
	api.Created(w, job, requestID)
}

func (h *Handler) HandleDeleteJob(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	raw := chi.URLParam(r, "code")

	code, err := atoi(raw)
	if err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_code", "job code must be numeric", requestID)
		return
	}

	err = h.Store.DeleteJob(r.Context(), code)
	if h.failReferenceDelete(w, r, err, "job", raw, requestID) {
		return
	}
	h.recordAudit(r, "job_deleted", "deleted job "+raw)
	api.Success(w, map[string]string{"message": "job deleted"}, requestID)
}

func (h *Handler) HandleListDepartments(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	departments, err := h.Store.ListDepartments(r.Context())
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_failed", "failed to list departments", requestID)
		return
	}
	api.Success(w, departments, requestID)
}

func (h *Handler) HandleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())

	var payload directory.Department
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
		return
	}

	v := shared.NewValidator()
	v.Required("department_code", payload.DepartmentCode, "department code is required")
	v.Required("department_name_eng", payload.DepartmentNameEng, "english name is required")
	v.Required("department_name_ara", payload.DepartmentNameAra, "arabic name is required")
	if v.Reject(w, requestID) {
		return
	}

	payload.DepartmentCode = strings.ToUpper(strings.TrimSpace(payload.DepartmentCode))
	err := h.Store.CreateDepartment(r.Context(), payload)
	if errors.Is(err, directory.ErrDuplicateCode) {
		api.Fail(w, http.StatusBadRequest, "duplicate_code", "department code already exists", requestID)
		return
	}
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "create_failed", "failed to create department", requestID)
		return
	}

	h.recordAudit(r, "department_created", "created department "+payload.DepartmentCode)
	api.Created(w, payload, requestID)
}

func (h *Handler) HandleDeleteDepartment(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	code := chi.URLParam(r, "code")

	err := h.Store.DeleteDepartment(r.Context(), code)
	if h.failReferenceDelete(w, r, err, "department", code, requestID) {
		return
	}
	h.recordAudit(r, "department_deleted", "deleted department "+code)
	api.Success(w, map[string]string{"message": "department deleted"}, requestID)
}

// failReferenceDelete writes the error response for reference-collection
// deletes and reports whether one was written.
func (h *Handler) failReferenceDelete(w http.ResponseWriter, r *http.Request, err error, kind, code, requestID string) bool {
	if err == nil {
		return false
	}
	var referenced *directory.ReferencedError
	if errors.As(err, &referenced) {
		api.FailWithDetails(w, http.StatusBadRequest, "reference_conflict",
			kind+" is still referenced by employees",
			map[string]any{"employee_count": referenced.Count},
			requestID)
		return true
	}
	if errors.Is(err, directory.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", kind+" not found", requestID)
		return true
	}
	api.Fail(w, http.StatusInternalServerError, "delete_failed", "failed to delete "+kind, requestID)
	return true
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

func itoa(value int) string {
	return strconv.Itoa(value)
}

func atoi(raw string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}

// parseOptionalDate returns nil for an empty value and flags invalid input on
// the validator.
func parseOptionalDate(v *shared.Validator, field, raw string) *time.Time {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parsed, ok := v.Date(field, raw)
	if !ok {
		return nil
	}
	utc := parsed.UTC()
	return &utc
}

// parseDatePatch maps an update payload date onto the patch convention:
// absent leaves the field alone, empty clears it, anything else must parse.
func parseDatePatch(v *shared.Validator, field string, raw *string) **time.Time {
	if raw == nil {
		return nil
	}
	if strings.TrimSpace(*raw) == "" {
		var cleared *time.Time
		return &cleared
	}
	parsed, ok := v.Date(field, *raw)
	if !ok {
		return nil
	}
	utc := parsed.UTC()
	ptr := &utc
	return &ptr
}
