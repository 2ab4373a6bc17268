package export

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/Yamanxl9/employee-management-system/internal/domain/directory"
)

// StatisticsPDF renders a one-page summary of the aggregate statistics.
// Output uses the English labels since the built-in PDF fonts cannot shape
// Arabic text.
func StatisticsPDF(stats directory.Statistics, generatedAt time.Time) (*bytes.Buffer, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Employee Statistics Summary")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Generated: %s", generatedAt.UTC().Format("2006-01-02 15:04 UTC")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Totals")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Total employees: %d", stats.TotalEmployees))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Passports missing: %d", stats.PassportMissing))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Work cards missing: %d", stats.CardsMissing))
	pdf.Ln(6)
	pdf.Cell(0, 7, fmt.Sprintf("Work cards expired: %d", stats.CardsExpired))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Employees by nationality")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, code := range sortedKeys(stats.NationalityStats) {
		name := directory.NationalityName(code, "en")
		pdf.Cell(0, 6, fmt.Sprintf("%s: %d", name, stats.NationalityStats[code]))
		pdf.Ln(5)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return &buf, nil
}

func sortedKeys(counts map[string]int64) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
