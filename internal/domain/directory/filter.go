package directory

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SearchFilter holds the independent search parameters. Each non-empty field
// contributes exactly one conjunct to the final predicate, so filters never
// clobber each other's $or clauses.
type SearchFilter struct {
	Query            string `json:"query,omitempty"`
	Nationality      string `json:"nationality,omitempty"`
	Company          string `json:"company,omitempty"`
	Job              string `json:"job,omitempty"`
	Department       string `json:"department,omitempty"`
	PassportStatus   string `json:"passport_status,omitempty"`
	CardStatus       string `json:"card_status,omitempty"`
	EmiratesIDStatus string `json:"emirates_id_status,omitempty"`
	ResidenceStatus  string `json:"residence_status,omitempty"`
}

// FilterError marks a predicate that could not be built from caller input.
type FilterError struct {
	Reason string
}

func (e *FilterError) Error() string {
	return e.Reason
}

var freeTextFields = []string{
	"staff_name",
	"staff_name_ara",
	"staff_no",
	"pass_no",
	"card_no",
	"emirates_id",
	"residence_no",
}

// Predicate assembles the Mongo filter document. now anchors the expiry
// comparisons so one search evaluates every status against the same instant.
func (f SearchFilter) Predicate(now time.Time) (bson.M, error) {
	var conjuncts []bson.M

	if query := strings.TrimSpace(f.Query); query != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
		clauses := make([]bson.M, 0, len(freeTextFields))
		for _, field := range freeTextFields {
			clauses = append(clauses, bson.M{field: pattern})
		}
		conjuncts = append(conjuncts, bson.M{"$or": clauses})
	}

	if f.Nationality != "" {
		codes := MatchNationalityCodes(f.Nationality)
		if len(codes) == 1 {
			conjuncts = append(conjuncts, bson.M{"nationality_code": codes[0]})
		} else if len(codes) > 1 {
			conjuncts = append(conjuncts, bson.M{"nationality_code": bson.M{"$in": codes}})
		}
	}

	if f.Company != "" {
		conjuncts = append(conjuncts, bson.M{"company_code": f.Company})
	}
	if f.Job != "" {
		jobCode, err := strconv.Atoi(strings.TrimSpace(f.Job))
		if err != nil {
			return nil, &FilterError{Reason: fmt.Sprintf("job filter must be numeric: %q", f.Job)}
		}
		conjuncts = append(conjuncts, bson.M{"job_code": jobCode})
	}
	if f.Department != "" {
		conjuncts = append(conjuncts, bson.M{"department_code": f.Department})
	}

	statusFilters := []struct {
		status      string
		numberField string
		expiryField string
	}{
		{f.PassportStatus, "pass_no", ""},
		{f.CardStatus, "card_no", "card_expiry_date"},
		{f.EmiratesIDStatus, "emirates_id", "emirates_id_expiry"},
		{f.ResidenceStatus, "residence_no", "residence_expiry_date"},
	}
	for _, sf := range statusFilters {
		if sf.status == "" {
			continue
		}
		conjunct, err := statusConjunct(sf.numberField, sf.expiryField, sf.status, now)
		if err != nil {
			return nil, err
		}
		conjuncts = append(conjuncts, conjunct)
	}

	switch len(conjuncts) {
	case 0:
		return bson.M{}, nil
	case 1:
		return conjuncts[0], nil
	default:
		return bson.M{"$and": conjuncts}, nil
	}
}

// HasFilters reports whether any filter parameter is set.
func (f SearchFilter) HasFilters() bool {
	return f != (SearchFilter{})
}

// Describe renders the active filters as a human-readable summary for
// export metadata.
func (f SearchFilter) Describe() string {
	var parts []string
	add := func(label, value string) {
		if value != "" {
			parts = append(parts, label+": "+value)
		}
	}
	add("نص البحث", f.Query)
	add("الجنسية", f.Nationality)
	add("الشركة", f.Company)
	add("المهنة", f.Job)
	add("القسم", f.Department)
	add("حالة الجواز", f.PassportStatus)
	add("حالة البطاقة", f.CardStatus)
	add("حالة الهوية", f.EmiratesIDStatus)
	add("حالة الإقامة", f.ResidenceStatus)
	if len(parts) == 0 {
		return "بدون فلاتر"
	}
	return strings.Join(parts, "، ")
}

func numberPresent(numberField string) bson.M {
	return bson.M{numberField: bson.M{"$exists": true, "$nin": bson.A{nil, ""}}}
}

func numberMissing(numberField string) bson.M {
	return bson.M{"$or": []bson.M{
		{numberField: bson.M{"$exists": false}},
		{numberField: nil},
		{numberField: ""},
	}}
}

func statusConjunct(numberField, expiryField, status string, now time.Time) (bson.M, error) {
	nowUTC := now.UTC()
	deadline := nowUTC.Add(ExpiryWarningWindow)

	if expiryField == "" {
		// Presence-only document: available and valid mean the same thing.
		switch Status(status) {
		case StatusMissing:
			return numberMissing(numberField), nil
		case StatusAvailable, StatusValid:
			return numberPresent(numberField), nil
		default:
			return nil, &FilterError{Reason: fmt.Sprintf("unknown %s filter value: %q", numberField, status)}
		}
	}

	switch Status(status) {
	case StatusMissing:
		return numberMissing(numberField), nil
	case StatusAvailable:
		return numberPresent(numberField), nil
	case StatusNoExpiry:
		return bson.M{"$and": []bson.M{
			numberPresent(numberField),
			{"$or": []bson.M{
				{expiryField: bson.M{"$exists": false}},
				{expiryField: nil},
			}},
		}}, nil
	case StatusExpired:
		return bson.M{"$and": []bson.M{
			numberPresent(numberField),
			{expiryField: bson.M{"$lte": nowUTC}},
		}}, nil
	case StatusExpiringSoon:
		return bson.M{"$and": []bson.M{
			numberPresent(numberField),
			{expiryField: bson.M{"$gt": nowUTC, "$lt": deadline}},
		}}, nil
	case StatusValid:
		return bson.M{"$and": []bson.M{
			numberPresent(numberField),
			{expiryField: bson.M{"$gte": deadline}},
		}}, nil
	default:
		return nil, &FilterError{Reason: fmt.Sprintf("unknown %s filter value: %q", numberField, status)}
	}
}
