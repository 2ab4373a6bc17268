package reports

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Yamanxl9/employee-management-system/internal/domain/directory"
)

// Report type identifiers accepted by the report endpoints.
const (
	TypeExpiringDocuments = "expiring_documents"
	TypeByCompany         = "by_company"
	TypeByNationality     = "by_nationality"
	TypeNewEmployees      = "new_employees"
)

type Service struct {
	employees *mongo.Collection
	store     *directory.Store
}

func New(database *mongo.Database, store *directory.Store) *Service {
	return &Service{employees: database.Collection("employees"), store: store}
}

// ExpiringDocuments lists employees holding at least one document that expires
// within the next `days` days, enriched for display.
func (s *Service) ExpiringDocuments(ctx context.Context, days int, now time.Time) ([]directory.EnrichedEmployee, error) {
	nowUTC := now.UTC()
	deadline := nowUTC.AddDate(0, 0, days)
	window := bson.M{"$gt": nowUTC, "$lte": deadline}
	predicate := bson.M{"$or": []bson.M{
		{"card_expiry_date": window},
		{"emirates_id_expiry": window},
		{"residence_expiry_date": window},
	}}
	return s.find(ctx, predicate, options.Find().SetSort(bson.D{{Key: "card_expiry_date", Value: 1}}), now)
}

// ByCompany lists a single company's employees.
func (s *Service) ByCompany(ctx context.Context, companyCode string, now time.Time) ([]directory.EnrichedEmployee, error) {
	predicate := bson.M{"company_code": companyCode}
	return s.find(ctx, predicate, options.Find().SetSort(bson.D{{Key: "staff_no", Value: 1}}), now)
}

type NationalityCount struct {
	Code      string `json:"nationality_code"`
	NameEng   string `json:"nationality_eng"`
	NameAra   string `json:"nationality_ara"`
	Employees int64  `json:"employee_count"`
}

// ByNationality counts employees per nationality, largest first.
func (s *Service) ByNationality(ctx context.Context) ([]NationalityCount, error) {
	cursor, err := s.employees.Aggregate(ctx, bson.A{
		bson.M{"$group": bson.M{"_id": "$nationality_code", "count": bson.M{"$sum": 1}}},
	})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []NationalityCount
	for cursor.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, NationalityCount{
			Code:      row.ID,
			NameEng:   directory.NationalityName(row.ID, "en"),
			NameAra:   directory.NationalityName(row.ID, "ar"),
			Employees: row.Count,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Employees != out[j].Employees {
			return out[i].Employees > out[j].Employees
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

// NewEmployees lists records created within the last `days` days, newest
// first.
func (s *Service) NewEmployees(ctx context.Context, days int, now time.Time) ([]directory.EnrichedEmployee, error) {
	since := now.UTC().AddDate(0, 0, -days)
	predicate := bson.M{"create_date_time": bson.M{"$gte": since}}
	return s.find(ctx, predicate, options.Find().SetSort(bson.D{{Key: "create_date_time", Value: -1}}), now)
}

func (s *Service) find(ctx context.Context, predicate bson.M, opts *options.FindOptions, now time.Time) ([]directory.EnrichedEmployee, error) {
	cursor, err := s.employees.Find(ctx, predicate, opts)
	if err != nil {
		return nil, err
	}
	var emps []directory.Employee
	if err := cursor.All(ctx, &emps); err != nil {
		return nil, err
	}
	return s.store.EnrichAll(ctx, emps, now)
}
