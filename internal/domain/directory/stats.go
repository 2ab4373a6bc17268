package directory

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// Statistics is the one-pass aggregate view. DatabaseError marks a degraded
// response produced when the store is unreachable.
type Statistics struct {
	TotalEmployees   int64            `json:"total_employees"`
	NationalityStats map[string]int64 `json:"nationality_stats"`
	CompanyStats     map[string]int64 `json:"company_stats"`
	JobStats         map[string]int64 `json:"job_stats"`
	PassportMissing  int64            `json:"passport_missing"`
	CardsMissing     int64            `json:"cards_missing"`
	CardsExpired     int64            `json:"cards_expired"`
	DatabaseError    bool             `json:"database_error,omitempty"`
}

// EmptyStatistics is the degraded-database shape: zeroed counts, empty maps,
// error flag set.
func EmptyStatistics() Statistics {
	return Statistics{
		NationalityStats: map[string]int64{},
		CompanyStats:     map[string]int64{},
		JobStats:         map[string]int64{},
		DatabaseError:    true,
	}
}

func (s *Store) Statistics(ctx context.Context, now time.Time) (Statistics, error) {
	stats := Statistics{
		NationalityStats: map[string]int64{},
		CompanyStats:     map[string]int64{},
		JobStats:         map[string]int64{},
	}

	total, err := s.employees.CountDocuments(ctx, bson.M{})
	if err != nil {
		return stats, err
	}
	stats.TotalEmployees = total

	nationalityCounts, err := s.groupCounts(ctx, bson.A{
		bson.M{"$group": bson.M{"_id": "$nationality_code", "count": bson.M{"$sum": 1}}},
	})
	if err != nil {
		return stats, err
	}
	stats.NationalityStats = nationalityCounts

	companyCounts, err := s.groupCounts(ctx, bson.A{
		bson.M{"$lookup": bson.M{
			"from":         "companies",
			"localField":   "company_code",
			"foreignField": "company_code",
			"as":           "company_info",
		}},
		bson.M{"$group": bson.M{
			"_id":   bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$company_info.company_name_ara", 0}}, "$company_code"}},
			"count": bson.M{"$sum": 1},
		}},
	})
	if err != nil {
		return stats, err
	}
	stats.CompanyStats = companyCounts

	jobCounts, err := s.groupCounts(ctx, bson.A{
		bson.M{"$lookup": bson.M{
			"from":         "jobs",
			"localField":   "job_code",
			"foreignField": "job_code",
			"as":           "job_info",
		}},
		bson.M{"$group": bson.M{
			"_id":   bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$job_info.job_ara", 0}}, bson.M{"$toString": "$job_code"}}},
			"count": bson.M{"$sum": 1},
		}},
	})
	if err != nil {
		return stats, err
	}
	stats.JobStats = jobCounts

	if stats.PassportMissing, err = s.employees.CountDocuments(ctx, numberMissing("pass_no")); err != nil {
		return stats, err
	}
	if stats.CardsMissing, err = s.employees.CountDocuments(ctx, numberMissing("card_no")); err != nil {
		return stats, err
	}
	expired, err := statusConjunct("card_no", "card_expiry_date", string(StatusExpired), now)
	if err != nil {
		return stats, err
	}
	if stats.CardsExpired, err = s.employees.CountDocuments(ctx, expired); err != nil {
		return stats, err
	}

	return stats, nil
}

func (s *Store) groupCounts(ctx context.Context, pipeline bson.A) (map[string]int64, error) {
	cursor, err := s.employees.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := map[string]int64{}
	for cursor.Next(ctx) {
		var row struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		key := row.ID
		if key == "" {
			key = "غير محدد"
		}
		out[key] = row.Count
	}
	return out, cursor.Err()
}
