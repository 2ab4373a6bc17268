package directory

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrDuplicateCode = errors.New("code already exists")

func (s *Store) ListCompanies(ctx context.Context) ([]Company, error) {
	cursor, err := s.companies.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "company_code", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []Company
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) CreateCompany(ctx context.Context, company Company) error {
	count, err := s.companies.CountDocuments(ctx, bson.M{"company_code": company.CompanyCode})
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateCode
	}
	_, err = s.companies.InsertOne(ctx, company)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateCode
	}
	return err
}

// DeleteCompany refuses while any employee references the code; the returned
// ReferencedError carries the blocking count.
func (s *Store) DeleteCompany(ctx context.Context, code string) error {
	references, err := s.employees.CountDocuments(ctx, bson.M{"company_code": code})
	if err != nil {
		return err
	}
	if references > 0 {
		return &ReferencedError{Count: references}
	}
	result, err := s.companies.DeleteOne(ctx, bson.M{"company_code": code})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListJobs(ctx context.Context) ([]Job, error) {
	cursor, err := s.jobs.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "job_code", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []Job
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) CreateJob(ctx context.Context, job Job) error {
	count, err := s.jobs.CountDocuments(ctx, bson.M{"job_code": job.JobCode})
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateCode
	}
	_, err = s.jobs.InsertOne(ctx, job)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateCode
	}
	return err
}

func (s *Store) DeleteJob(ctx context.Context, code int) error {
	references, err := s.employees.CountDocuments(ctx, bson.M{"job_code": code})
	if err != nil {
		return err
	}
	if references > 0 {
		return &ReferencedError{Count: references}
	}
	result, err := s.jobs.DeleteOne(ctx, bson.M{"job_code": code})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListDepartments(ctx context.Context) ([]Department, error) {
	cursor, err := s.departments.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "department_code", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var out []Department
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) CreateDepartment(ctx context.Context, department Department) error {
	count, err := s.departments.CountDocuments(ctx, bson.M{"department_code": department.DepartmentCode})
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrDuplicateCode
	}
	_, err = s.departments.InsertOne(ctx, department)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateCode
	}
	return err
}

func (s *Store) DeleteDepartment(ctx context.Context, code string) error {
	references, err := s.employees.CountDocuments(ctx, bson.M{"department_code": code})
	if err != nil {
		return err
	}
	if references > 0 {
		return &ReferencedError{Count: references}
	}
	result, err := s.departments.DeleteOne(ctx, bson.M{"department_code": code})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// UsedNationalities returns the distinct nationality codes present on
// employee records, for the filter dropdowns.
func (s *Store) UsedNationalities(ctx context.Context) ([]string, error) {
	values, err := s.employees.Distinct(ctx, "nationality_code", bson.M{})
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		if code, ok := value.(string); ok && code != "" {
			out = append(out, code)
		}
	}
	return out, nil
}
