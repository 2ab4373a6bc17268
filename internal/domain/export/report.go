package export

import (
	"bytes"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Yamanxl9/employee-management-system/internal/domain/reports"
)

// NationalityWorkbook renders the per-nationality counts report.
func NationalityWorkbook(rows []reports.NationalityCount, generatedAt time.Time) (*bytes.Buffer, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "الجنسيات"
	idx, err := f.NewSheet(sheet)
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

	f.SetColWidth(sheet, "A", "A", 10)
	f.SetColWidth(sheet, "B", "C", 22)
	f.SetColWidth(sheet, "D", "D", 14)
	f.SetCellValue(sheet, "A1", "الرمز")
	f.SetCellValue(sheet, "B1", "الجنسية")
	f.SetCellValue(sheet, "C1", "Nationality")
	f.SetCellValue(sheet, "D1", "عدد الموظفين")
	f.SetCellStyle(sheet, "A1", "D1", headerStyle)

	for i, row := range rows {
		r := i + 2
		startCell, _ := excelize.CoordinatesToCellName(1, r)
		f.SetCellValue(sheet, startCell, row.Code)
		for col, value := range []any{row.NameAra, row.NameEng, row.Employees} {
			cell, _ := excelize.CoordinatesToCellName(col+2, r)
			f.SetCellValue(sheet, cell, value)
		}
	}

	footer := len(rows) + 3
	f.SetCellValue(sheet, "A"+strconv.Itoa(footer), "تاريخ التصدير")
	f.SetCellValue(sheet, "B"+strconv.Itoa(footer), generatedAt.UTC().Format("2006-01-02 15:04:05"))

	return f.WriteToBuffer()
}
