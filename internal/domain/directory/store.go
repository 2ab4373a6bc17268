package directory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound         = errors.New("employee not found")
	ErrDuplicateStaffNo = errors.New("staff number already exists")
)

// ReferencedError blocks reference-collection deletes while employees still
// point at the code.
type ReferencedError struct {
	Count int64
}

func (e *ReferencedError) Error() string {
	return fmt.Sprintf("referenced by %d employees", e.Count)
}

type Store struct {
	employees   *mongo.Collection
	companies   *mongo.Collection
	jobs        *mongo.Collection
	departments *mongo.Collection
}

func NewStore(database *mongo.Database) *Store {
	return &Store{
		employees:   database.Collection("employees"),
		companies:   database.Collection("companies"),
		jobs:        database.Collection("jobs"),
		departments: database.Collection("departments"),
	}
}

// Search runs the filter predicate with skip/limit pagination in natural
// order and returns the page plus the total match count.
func (s *Store) Search(ctx context.Context, filter SearchFilter, skip, limit int64, now time.Time) ([]Employee, int64, error) {
	predicate, err := filter.Predicate(now)
	if err != nil {
		return nil, 0, err
	}

	findOpts := options.Find().SetSkip(skip)
	if limit > 0 {
		findOpts.SetLimit(limit)
	}
	cursor, err := s.employees.Find(ctx, predicate, findOpts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var out []Employee
	if err := cursor.All(ctx, &out); err != nil {
		return nil, 0, err
	}

	total, err := s.employees.CountDocuments(ctx, predicate)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *Store) GetByStaffNo(ctx context.Context, staffNo string) (*Employee, error) {
	var emp Employee
	err := s.employees.FindOne(ctx, bson.M{"staff_no": staffNo}).Decode(&emp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &emp, nil
}

func (s *Store) Create(ctx context.Context, emp Employee) (*Employee, error) {
	count, err := s.employees.CountDocuments(ctx, bson.M{"staff_no": emp.StaffNo})
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateStaffNo
	}

	emp.CreateDateTime = time.Now().UTC()
	if _, err := s.employees.InsertOne(ctx, emp); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateStaffNo
		}
		return nil, err
	}
	return &emp, nil
}

// Update applies a partial update and returns the updated record. Fields left
// nil in the patch stay untouched; double-pointer dates set to nil-inner clear
// the stored date.
func (s *Store) Update(ctx context.Context, staffNo string, patch EmployeeUpdate) (*Employee, error) {
	set := bson.M{}
	setString := func(field string, value *string) {
		if value != nil {
			set[field] = *value
		}
	}
	setDate := func(field string, value **time.Time) {
		if value == nil {
			return
		}
		if *value == nil {
			set[field] = nil
			return
		}
		set[field] = (*value).UTC()
	}

	setString("staff_name", patch.StaffName)
	setString("staff_name_ara", patch.StaffNameAra)
	setString("nationality_code", patch.NationalityCode)
	if patch.JobCode != nil {
		set["job_code"] = *patch.JobCode
	}
	setString("department_code", patch.DepartmentCode)
	setString("company_code", patch.CompanyCode)
	setString("pass_no", patch.PassNo)
	setString("card_no", patch.CardNo)
	setDate("card_expiry_date", patch.CardExpiryDate)
	setString("emirates_id", patch.EmiratesID)
	setDate("emirates_id_expiry", patch.EmiratesIDExpiry)
	setString("residence_no", patch.ResidenceNo)
	setDate("residence_issue_date", patch.ResidenceIssueDate)
	setDate("residence_expiry_date", patch.ResidenceExpiryDate)

	if len(set) > 0 {
		result, err := s.employees.UpdateOne(ctx, bson.M{"staff_no": staffNo}, bson.M{"$set": set})
		if err != nil {
			return nil, err
		}
		if result.MatchedCount == 0 {
			return nil, ErrNotFound
		}
	}
	return s.GetByStaffNo(ctx, staffNo)
}

func (s *Store) Delete(ctx context.Context, staffNo string) error {
	result, err := s.employees.DeleteOne(ctx, bson.M{"staff_no": staffNo})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CountEmployees(ctx context.Context, predicate bson.M) (int64, error) {
	return s.employees.CountDocuments(ctx, predicate)
}

// EnrichAll joins display names and derived statuses for a result page with
// one $in lookup per reference collection instead of one query per record.
func (s *Store) EnrichAll(ctx context.Context, emps []Employee, now time.Time) ([]EnrichedEmployee, error) {
	companies, jobs, departments, err := s.referenceMaps(ctx, emps)
	if err != nil {
		return nil, err
	}

	out := make([]EnrichedEmployee, 0, len(emps))
	for _, emp := range emps {
		out = append(out, Enrich(emp, companies, jobs, departments, now))
	}
	return out, nil
}

func (s *Store) referenceMaps(ctx context.Context, emps []Employee) (map[string]Company, map[int]Job, map[string]Department, error) {
	companyCodes := map[string]struct{}{}
	jobCodes := map[int]struct{}{}
	departmentCodes := map[string]struct{}{}
	for _, emp := range emps {
		if emp.CompanyCode != "" {
			companyCodes[emp.CompanyCode] = struct{}{}
		}
		jobCodes[emp.JobCode] = struct{}{}
		if emp.DepartmentCode != "" {
			departmentCodes[emp.DepartmentCode] = struct{}{}
		}
	}

	companies := map[string]Company{}
	if len(companyCodes) > 0 {
		cursor, err := s.companies.Find(ctx, bson.M{"company_code": bson.M{"$in": keys(companyCodes)}})
		if err != nil {
			return nil, nil, nil, err
		}
		var docs []Company
		if err := cursor.All(ctx, &docs); err != nil {
			return nil, nil, nil, err
		}
		for _, doc := range docs {
			companies[doc.CompanyCode] = doc
		}
	}

	jobs := map[int]Job{}
	if len(jobCodes) > 0 {
		cursor, err := s.jobs.Find(ctx, bson.M{"job_code": bson.M{"$in": keys(jobCodes)}})
		if err != nil {
			return nil, nil, nil, err
		}
		var docs []Job
		if err := cursor.All(ctx, &docs); err != nil {
			return nil, nil, nil, err
		}
		for _, doc := range docs {
			jobs[doc.JobCode] = doc
		}
	}

	departments := map[string]Department{}
	if len(departmentCodes) > 0 {
		cursor, err := s.departments.Find(ctx, bson.M{"department_code": bson.M{"$in": keys(departmentCodes)}})
		if err != nil {
			return nil, nil, nil, err
		}
		var docs []Department
		if err := cursor.All(ctx, &docs); err != nil {
			return nil, nil, nil, err
		}
		for _, doc := range docs {
			departments[doc.DepartmentCode] = doc
		}
	}

	return companies, jobs, departments, nil
}

func keys[K comparable](set map[K]struct{}) []K {
	out := make([]K, 0, len(set))
	for key := range set {
		out = append(out, key)
	}
	return out
}
