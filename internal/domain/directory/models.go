package directory

import "time"

// Employee is the primary record. The staff number is the canonical string
// identifier: unique, immutable once assigned.
type Employee struct {
	StaffNo             string     `bson:"staff_no" json:"staff_no"`
	StaffName           string     `bson:"staff_name" json:"staff_name"`
	StaffNameAra        string     `bson:"staff_name_ara" json:"staff_name_ara"`
	NationalityCode     string     `bson:"nationality_code" json:"nationality_code"`
	JobCode             int        `bson:"job_code" json:"job_code"`
	DepartmentCode      string     `bson:"department_code,omitempty" json:"department_code,omitempty"`
	CompanyCode         string     `bson:"company_code" json:"company_code"`
	PassNo              string     `bson:"pass_no,omitempty" json:"pass_no,omitempty"`
	CardNo              string     `bson:"card_no,omitempty" json:"card_no,omitempty"`
	CardExpiryDate      *time.Time `bson:"card_expiry_date,omitempty" json:"card_expiry_date,omitempty"`
	EmiratesID          string     `bson:"emirates_id,omitempty" json:"emirates_id,omitempty"`
	EmiratesIDExpiry    *time.Time `bson:"emirates_id_expiry,omitempty" json:"emirates_id_expiry,omitempty"`
	ResidenceNo         string     `bson:"residence_no,omitempty" json:"residence_no,omitempty"`
	ResidenceIssueDate  *time.Time `bson:"residence_issue_date,omitempty" json:"residence_issue_date,omitempty"`
	ResidenceExpiryDate *time.Time `bson:"residence_expiry_date,omitempty" json:"residence_expiry_date,omitempty"`
	CreateDateTime      time.Time  `bson:"create_date_time" json:"create_date_time"`
}

// EmployeeUpdate carries a partial update: nil fields are left untouched.
// Pointer-to-empty clears the value. The staff number itself is not updatable.
type EmployeeUpdate struct {
	StaffName           *string
	StaffNameAra        *string
	NationalityCode     *string
	JobCode             *int
	DepartmentCode      *string
	CompanyCode         *string
	PassNo              *string
	CardNo              *string
	CardExpiryDate      **time.Time
	EmiratesID          *string
	EmiratesIDExpiry    **time.Time
	ResidenceNo         *string
	ResidenceIssueDate  **time.Time
	ResidenceExpiryDate **time.Time
}

type Company struct {
	CompanyCode    string `bson:"company_code" json:"company_code"`
	CompanyNameEng string `bson:"company_name_eng" json:"company_name_eng"`
	CompanyNameAra string `bson:"company_name_ara" json:"company_name_ara"`
}

type Job struct {
	JobCode int    `bson:"job_code" json:"job_code"`
	JobEng  string `bson:"job_eng" json:"job_eng"`
	JobAra  string `bson:"job_ara" json:"job_ara"`
}

type Department struct {
	DepartmentCode    string `bson:"department_code" json:"department_code"`
	DepartmentNameEng string `bson:"department_name_eng" json:"department_name_eng"`
	DepartmentNameAra string `bson:"department_name_ara" json:"department_name_ara"`
}

// EnrichedEmployee is an Employee joined with reference display names and the
// derived document statuses. Never persisted.
type EnrichedEmployee struct {
	Employee

	CompanyEng     string `json:"company_eng,omitempty"`
	CompanyAra     string `json:"company_ara,omitempty"`
	JobEng         string `json:"job_eng,omitempty"`
	JobAra         string `json:"job_ara,omitempty"`
	DepartmentEng  string `json:"department_eng,omitempty"`
	DepartmentAra  string `json:"department_ara,omitempty"`
	NationalityEng string `json:"nationality_eng,omitempty"`
	NationalityAra string `json:"nationality_ara,omitempty"`

	PassportStatus   DocumentStatus `json:"passport_status"`
	CardStatus       DocumentStatus `json:"card_status"`
	EmiratesIDStatus DocumentStatus `json:"emirates_id_status"`
	ResidenceStatus  DocumentStatus `json:"residence_status"`
}

// Enrich computes the read-time view of an employee against preloaded
// reference maps.
func Enrich(emp Employee, companies map[string]Company, jobs map[int]Job, departments map[string]Department, now time.Time) EnrichedEmployee {
	out := EnrichedEmployee{
		Employee:         emp,
		PassportStatus:   PassportStatus(emp.PassNo),
		CardStatus:       ExpiryStatus(emp.CardNo, emp.CardExpiryDate, now),
		EmiratesIDStatus: ExpiryStatus(emp.EmiratesID, emp.EmiratesIDExpiry, now),
		ResidenceStatus:  ExpiryStatus(emp.ResidenceNo, emp.ResidenceExpiryDate, now),
	}
	if company, ok := companies[emp.CompanyCode]; ok {
		out.CompanyEng = company.CompanyNameEng
		out.CompanyAra = company.CompanyNameAra
	}
	if job, ok := jobs[emp.JobCode]; ok {
		out.JobEng = job.JobEng
		out.JobAra = job.JobAra
	}
	if department, ok := departments[emp.DepartmentCode]; ok {
		out.DepartmentEng = department.DepartmentNameEng
		out.DepartmentAra = department.DepartmentNameAra
	}
	out.NationalityEng = NationalityName(emp.NationalityCode, "en")
	out.NationalityAra = NationalityName(emp.NationalityCode, "ar")
	return out
}
