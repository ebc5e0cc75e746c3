package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/turanyusif9/watchkeeper/internal/domain/record"
)

// ExcelExporter builds a report workbook, one sheet per report table.
type ExcelExporter struct {
	f      *excelize.File
	sheets int
}

// NewExcelExporter creates an exporter with an empty workbook.
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{f: excelize.NewFile()}
}

// AddPositionAverages writes the positional average report to a new sheet.
func (e *ExcelExporter) AddPositionAverages(sheet string, rows []PositionAverage) error {
	data := make([][]any, len(rows))
	for i, r := range rows {
		data[i] = []any{r.Position, r.AverageHours}
	}
	return e.addSheet(sheet, []any{"Position", "Average Hours Worked"}, data)
}

// AddMonthlyOvertime writes the monthly overtime report to a new sheet.
func (e *ExcelExporter) AddMonthlyOvertime(sheet string, rows []MonthOvertime) error {
	data := make([][]any, len(rows))
	for i, r := range rows {
		data[i] = []any{r.Month, r.Overtime, r.TotalHoursWorked}
	}
	return e.addSheet(sheet, []any{"Month", "Overtime", "Total Hours Worked"}, data)
}

// AddPositionOvertime writes the positional overtime report to a new sheet.
func (e *ExcelExporter) AddPositionOvertime(sheet string, rows []PositionOvertime) error {
	data := make([][]any, len(rows))
	for i, r := range rows {
		data[i] = []any{r.Position, r.Overtime, r.TotalHoursWorked}
	}
	return e.addSheet(sheet, []any{"Position", "Overtime", "Total Hours Worked"}, data)
}

// AddPositionMonthlyOvertime writes the position-by-month matrices to two
// sheets, overtime and total hours, positions as rows and months as columns.
func (e *ExcelExporter) AddPositionMonthlyOvertime(m *PositionMonthlyOvertime) error {
	if err := e.addMatrix("Overtimes", m.Positions, m.Months, m.Overtime); err != nil {
		return err
	}
	return e.addMatrix("Total Hours Worked", m.Positions, m.Months, m.TotalHours)
}

// AddViolations writes the rest-violations report to a new sheet.
func (e *ExcelExporter) AddViolations(sheet string, rows []MonthViolations) error {
	data := make([][]any, len(rows))
	for i, r := range rows {
		data[i] = []any{r.Month, r.In24h, r.In7d, r.TotalDaysWorked}
	}
	header := []any{"Month", "Violations in any 24h", "Violations in any 7d", "Total Days Worked"}
	return e.addSheet(sheet, header, data)
}

// AddSeafarerStats writes the per-seafarer report to a new sheet.
func (e *ExcelExporter) AddSeafarerStats(sheet string, rows []SeafarerStats) error {
	data := make([][]any, len(rows))
	for i, r := range rows {
		data[i] = []any{r.Seafarer, r.Mean, r.Std, r.Days}
	}
	return e.addSheet(sheet, []any{"Seafarer", "Mean", "Std", "Number of Days"}, data)
}

// AddGantt writes one page's decoded schedule to its own sheet named
// "Page<n>", one row per day, one column per half-hour slot.
func (e *ExcelExporter) AddGantt(rec record.PageRecord) error {
	header := make([]any, 0, record.SlotsPerDay+1)
	header = append(header, "Day")
	for slot := 0; slot < record.SlotsPerDay; slot++ {
		header = append(header, slotLabel(slot))
	}

	data := make([][]any, len(rec.Grid))
	for i, row := range rec.Grid {
		cells := make([]any, 0, record.SlotsPerDay+1)
		cells = append(cells, rec.Header.StartDay+i)
		for _, cell := range row {
			cells = append(cells, cell)
		}
		data[i] = cells
	}
	return e.addSheet(fmt.Sprintf("Page%d", rec.Index+1), header, data)
}

// Write serializes the workbook.
func (e *ExcelExporter) Write(w io.Writer) error {
	if e.sheets == 0 {
		return fmt.Errorf("workbook has no sheets")
	}
	if err := e.f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Close releases the underlying workbook resources.
func (e *ExcelExporter) Close() error {
	return e.f.Close()
}

func (e *ExcelExporter) addSheet(name string, header []any, rows [][]any) error {
	name = SanitizeSheetName(name)
	if e.sheets == 0 {
		// Reuse the default sheet for the first report.
		if err := e.f.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
	} else if _, err := e.f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %q: %w", name, err)
	}
	e.sheets++

	if err := e.f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("write header of %q: %w", name, err)
	}
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := e.f.SetSheetRow(name, cell, &rows[i]); err != nil {
			return fmt.Errorf("write row %d of %q: %w", i, name, err)
		}
	}
	return nil
}

func (e *ExcelExporter) addMatrix(name string, rowNames []string, months []int, cells [][]float64) error {
	header := make([]any, 0, len(months)+1)
	header = append(header, "Position")
	for _, m := range months {
		header = append(header, m)
	}

	data := make([][]any, len(rowNames))
	for i, rowName := range rowNames {
		row := make([]any, 0, len(months)+1)
		row = append(row, rowName)
		for _, v := range cells[i] {
			row = append(row, v)
		}
		data[i] = row
	}
	return e.addSheet(name, header, data)
}

// SanitizeSheetName strips the characters Excel rejects in sheet names and
// trims to the 31-character limit.
func SanitizeSheetName(name string) string {
	replacer := strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", " ", "]", " ")
	name = strings.TrimSpace(replacer.Replace(name))
	if name == "" {
		name = "Sheet"
	}
	if len(name) > 31 {
		name = strings.TrimSpace(name[:31])
	}
	return name
}

// slotLabel formats a half-hour slot index as its start time, e.g. "08:30".
func slotLabel(slot int) string {
	return fmt.Sprintf("%02d:%02d", slot/2, (slot%2)*30)
}
