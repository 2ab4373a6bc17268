package shared

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-12-31")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Year() != 2025 || got.Month() != time.December || got.Day() != 31 {
		t.Fatalf("parsed = %v", got)
	}

	got, err = ParseDate("2025-12-31T10:30:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 10 {
		t.Fatalf("rfc3339 parse lost the time: %v", got)
	}

	if _, err := ParseDate("31/12/2025"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}

	got, err = ParseDate("")
	if err != nil || !got.IsZero() {
		t.Fatalf("empty input should return zero time, got %v, %v", got, err)
	}
}

func TestValidatorCollectsAndSortsIssues(t *testing.T) {
	v := NewValidator()
	v.Required("staff_no", "", "staff number is required")
	v.Required("staff_name", " ", "staff name is required")
	v.Required("company_code", "BRG", "company code is required")
	v.Enum("card_status", "sideways", []string{"expired", "valid"}, "unknown status")

	if !v.HasIssues() {
		t.Fatalf("expected issues")
	}
	issues := v.Issues()
	if len(issues) != 3 {
		t.Fatalf("expected 3 issues, got %d: %v", len(issues), issues)
	}
	for i := 1; i < len(issues); i++ {
		if issues[i-1].Field > issues[i].Field {
			t.Fatalf("issues not sorted: %v", issues)
		}
	}
}

func TestValidatorDate(t *testing.T) {
	v := NewValidator()
	if _, ok := v.Date("card_expiry_date", "2025-06-01"); !ok {
		t.Fatalf("valid date rejected")
	}
	if v.HasIssues() {
		t.Fatalf("valid date should not add issues")
	}

	if _, ok := v.Date("card_expiry_date", "soon"); ok {
		t.Fatalf("invalid date accepted")
	}
	if !v.HasIssues() {
		t.Fatalf("invalid date should add an issue")
	}
}

func TestValidatorNilSafety(t *testing.T) {
	var v *Validator
	v.Add("field", "reason")
	if v.HasIssues() {
		t.Fatalf("nil validator cannot hold issues")
	}
}
