package export

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Yamanxl9/employee-management-system/internal/domain/directory"
)

// ErrNoRows means the filter matched nothing; callers turn this into a 400
// instead of shipping an empty workbook.
var ErrNoRows = errors.New("no rows to export")

const (
	dataSheet = "الموظفين"
	metaSheet = "معلومات التصدير"
)

var headers = []string{
	"الرقم الوظيفي",
	"الاسم",
	"الاسم بالعربية",
	"الجنسية",
	"الشركة",
	"المهنة",
	"القسم",
	"رقم الجواز",
	"حالة الجواز",
	"رقم البطاقة",
	"انتهاء البطاقة",
	"حالة البطاقة",
	"الهوية الإماراتية",
	"انتهاء الهوية",
	"حالة الهوية",
	"رقم الإقامة",
	"انتهاء الإقامة",
	"حالة الإقامة",
}

// Workbook renders the enriched result set into an xlsx file with a data
// sheet and a metadata sheet. Rows are tinted by their worst document status.
func Workbook(employees []directory.EnrichedEmployee, filter directory.SearchFilter, generatedAt time.Time) (*bytes.Buffer, error) {
	if len(employees) == 0 {
		return nil, ErrNoRows
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(dataSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	dangerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFC7CE"}, Pattern: 1},
	})
	warningStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#FFEB9C"}, Pattern: 1},
	})

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(dataSheet, cell, header)
	}
	first, _ := excelize.CoordinatesToCellName(1, 1)
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(dataSheet, first, last, headerStyle)

	for i := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(dataSheet, col, col, 18)
	}

	for rowIdx, emp := range employees {
		row := rowIdx + 2
		values := []any{
			emp.StaffNo,
			emp.StaffName,
			emp.StaffNameAra,
			emp.NationalityAra,
			emp.CompanyAra,
			emp.JobAra,
			emp.DepartmentAra,
			emp.PassNo,
			emp.PassportStatus.Text,
			emp.CardNo,
			formatDate(emp.CardExpiryDate),
			emp.CardStatus.Text,
			emp.EmiratesID,
			formatDate(emp.EmiratesIDExpiry),
			emp.EmiratesIDStatus.Text,
			emp.ResidenceNo,
			formatDate(emp.ResidenceExpiryDate),
			emp.ResidenceStatus.Text,
		}
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, row)
			f.SetCellValue(dataSheet, cell, value)
		}

		switch worstClass(emp) {
		case "danger":
			start, _ := excelize.CoordinatesToCellName(1, row)
			end, _ := excelize.CoordinatesToCellName(len(headers), row)
			f.SetCellStyle(dataSheet, start, end, dangerStyle)
		case "warning":
			start, _ := excelize.CoordinatesToCellName(1, row)
			end, _ := excelize.CoordinatesToCellName(len(headers), row)
			f.SetCellStyle(dataSheet, start, end, warningStyle)
		}
	}

	if _, err := f.NewSheet(metaSheet); err != nil {
		return nil, err
	}
	f.SetColWidth(metaSheet, "A", "A", 24)
	f.SetColWidth(metaSheet, "B", "B", 60)
	f.SetCellValue(metaSheet, "A1", "عدد السجلات")
	f.SetCellValue(metaSheet, "B1", len(employees))
	f.SetCellValue(metaSheet, "A2", "تاريخ التصدير")
	f.SetCellValue(metaSheet, "B2", generatedAt.UTC().Format("2006-01-02 15:04:05"))
	f.SetCellValue(metaSheet, "A3", "الفلاتر المطبقة")
	f.SetCellValue(metaSheet, "B3", filter.Describe())

	return f.WriteToBuffer()
}

// Filename builds the download name from the generation instant.
func Filename(generatedAt time.Time) string {
	return fmt.Sprintf("employees_export_%s.xlsx", generatedAt.UTC().Format("20060102_150405"))
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

// worstClass picks the most severe status class across the four documents.
func worstClass(emp directory.EnrichedEmployee) string {
	worst := ""
	for _, status := range []directory.DocumentStatus{
		emp.PassportStatus,
		emp.CardStatus,
		emp.EmiratesIDStatus,
		emp.ResidenceStatus,
	} {
		switch status.Class {
		case "danger":
			return "danger"
		case "warning":
			worst = "warning"
		}
	}
	return worst
}
