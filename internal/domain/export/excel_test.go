package export

import (
	"errors"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Yamanxl9/employee-management-system/internal/domain/directory"
)

var exportNow = time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

func sampleEmployee(staffNo string, cardExpiry *time.Time) directory.EnrichedEmployee {
	emp := directory.Employee{
		StaffNo:         staffNo,
		StaffName:       "Ahmed Ali",
		StaffNameAra:    "أحمد علي",
		NationalityCode: "SY",
		JobCode:         1,
		CompanyCode:     "BRG",
		PassNo:          "P123",
		CardNo:          "C456",
		CardExpiryDate:  cardExpiry,
	}
	return directory.Enrich(emp, nil, nil, nil, exportNow)
}

func TestWorkbookRejectsEmptyResult(t *testing.T) {
	_, err := Workbook(nil, directory.SearchFilter{}, exportNow)
	if !errors.Is(err, ErrNoRows) {
		t.Fatalf("expected ErrNoRows, got %v", err)
	}
}

func TestWorkbookRoundTrip(t *testing.T) {
	expiry := exportNow.AddDate(1, 0, 0)
	buf, err := Workbook([]directory.EnrichedEmployee{sampleEmployee("1001", &expiry)}, directory.SearchFilter{Company: "BRG"}, exportNow)
	if err != nil {
		t.Fatalf("workbook failed: %v", err)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("generated workbook does not parse: %v", err)
	}
	defer f.Close()

	staffNo, err := f.GetCellValue("الموظفين", "A2")
	if err != nil {
		t.Fatalf("read data cell: %v", err)
	}
	if staffNo != "1001" {
		t.Fatalf("data sheet staff_no = %q, want 1001", staffNo)
	}

	total, err := f.GetCellValue("معلومات التصدير", "B1")
	if err != nil {
		t.Fatalf("read metadata cell: %v", err)
	}
	if total != "1" {
		t.Fatalf("metadata row count = %q, want 1", total)
	}

	summary, err := f.GetCellValue("معلومات التصدير", "B3")
	if err != nil {
		t.Fatalf("read filter summary: %v", err)
	}
	if summary == "" || summary == "بدون فلاتر" {
		t.Fatalf("expected filter summary to mention the company filter, got %q", summary)
	}
}

func TestWorstClass(t *testing.T) {
	expired := exportNow.AddDate(0, 0, -1)
	soon := exportNow.Add(directory.ExpiryWarningWindow / 2)
	farOut := exportNow.AddDate(1, 0, 0)

	if got := worstClass(sampleEmployee("1", &expired)); got != "danger" {
		t.Fatalf("expired card should rank danger, got %q", got)
	}
	if got := worstClass(sampleEmployee("2", &soon)); got != "warning" {
		t.Fatalf("expiring card should rank warning, got %q", got)
	}
	// Residence and emirates id are unset on the sample, which reads missing.
	if got := worstClass(sampleEmployee("3", &farOut)); got != "danger" {
		t.Fatalf("missing documents should rank danger, got %q", got)
	}
}

func TestFilename(t *testing.T) {
	if got := Filename(exportNow); got != "employees_export_20250601_093000.xlsx" {
		t.Fatalf("filename = %q", got)
	}
}

func TestStatisticsPDF(t *testing.T) {
	stats := directory.Statistics{
		TotalEmployees:   3,
		NationalityStats: map[string]int64{"SY": 2, "IN": 1},
		CompanyStats:     map[string]int64{"BRG": 3},
		JobStats:         map[string]int64{"محاسب": 3},
		PassportMissing:  1,
	}
	buf, err := StatisticsPDF(stats, exportNow)
	if err != nil {
		t.Fatalf("pdf render failed: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected non-empty pdf output")
	}
	if string(buf.Bytes()[:5]) != "%PDF-" {
		t.Fatalf("output does not start with a pdf header")
	}
}
