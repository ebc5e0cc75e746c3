// Package report aggregates assembled page records into monthly, positional
// and per-seafarer statistics and exports them as Excel workbooks, CSV files
// and bar charts.
package report

import (
	"math"

	"github.com/turanyusif9/watchkeeper/internal/domain/record"
)

// Default thresholds for the statutory rest-hours rules and the overtime
// reports.
const (
	DefaultRestLimit24h  = 10.0 // minimum rest hours in any 24h window
	DefaultRestLimit7d   = 77.0 // minimum rest hours in any 7d window
	DefaultOvertimeLimit = 8.0  // daily hours above which work counts as overtime
)

// RecordSet is a read-only collection of page records with prebuilt grouping
// indexes, so every report runs off a single pass over its group instead of
// rescanning the whole collection.
type RecordSet struct {
	records    []record.PageRecord
	byMonth    map[int][]*record.PageRecord
	byPosition map[string][]*record.PageRecord
	bySeafarer map[string][]*record.PageRecord
	positions  []string // unique positions in first-seen order
	seafarers  []string // unique seafarers in first-seen order
}

// NewRecordSet indexes the given records. The slice is not copied; records
// are immutable after assembly.
func NewRecordSet(records []record.PageRecord) *RecordSet {
	rs := &RecordSet{
		records:    records,
		byMonth:    make(map[int][]*record.PageRecord),
		byPosition: make(map[string][]*record.PageRecord),
		bySeafarer: make(map[string][]*record.PageRecord),
	}
	for i := range records {
		rec := &records[i]
		rs.byMonth[rec.Header.Period] = append(rs.byMonth[rec.Header.Period], rec)
		if _, seen := rs.byPosition[rec.Header.Position]; !seen {
			rs.positions = append(rs.positions, rec.Header.Position)
		}
		rs.byPosition[rec.Header.Position] = append(rs.byPosition[rec.Header.Position], rec)
		if _, seen := rs.bySeafarer[rec.Header.Seafarer]; !seen {
			rs.seafarers = append(rs.seafarers, rec.Header.Seafarer)
		}
		rs.bySeafarer[rec.Header.Seafarer] = append(rs.bySeafarer[rec.Header.Seafarer], rec)
	}
	return rs
}

// Len returns the number of page records.
func (rs *RecordSet) Len() int {
	return len(rs.records)
}

// Vessel returns the vessel name of the document, taken from the first
// record.
func (rs *RecordSet) Vessel() string {
	if len(rs.records) == 0 {
		return ""
	}
	return rs.records[0].Header.Vessel
}

// Positions returns the unique positions in first-seen order.
func (rs *RecordSet) Positions() []string {
	return rs.positions
}

// Records returns the underlying page records in page order.
func (rs *RecordSet) Records() []record.PageRecord {
	return rs.records
}

// PositionAverage is one row of the positional average report: one page
// record's position and its mean daily worked hours.
type PositionAverage struct {
	Position     string  `csv:"Position"`
	AverageHours float64 `csv:"Average Hours Worked"`
}

// AverageHoursByPosition returns, for every page record of the given month,
// the position and the mean worked hours per day.
func (rs *RecordSet) AverageHoursByPosition(month int) []PositionAverage {
	pages := rs.byMonth[month]
	rows := make([]PositionAverage, 0, len(pages))
	for _, rec := range pages {
		rows = append(rows, PositionAverage{
			Position:     rec.Header.Position,
			AverageHours: mean(rec.Hours),
		})
	}
	return rows
}

// MonthOvertime is one row of the monthly overtime report.
type MonthOvertime struct {
	Month            int     `csv:"Month"`
	Overtime         float64 `csv:"Overtime"`
	TotalHoursWorked float64 `csv:"Total Hours Worked"`
}

// MonthlyOvertime sums, per calendar month, the hours worked above the daily
// limit and the total hours worked. All twelve months are reported; months
// without records are zero.
func (rs *RecordSet) MonthlyOvertime(limit float64) []MonthOvertime {
	rows := make([]MonthOvertime, 0, 12)
	for month := 1; month <= 12; month++ {
		overtime, total := overtimeOf(rs.byMonth[month], limit)
		rows = append(rows, MonthOvertime{
			Month:            month,
			Overtime:         overtime,
			TotalHoursWorked: total,
		})
	}
	return rows
}

// PositionOvertime is one row of the positional overtime report.
type PositionOvertime struct {
	Position         string  `csv:"Position"`
	Overtime         float64 `csv:"Overtime"`
	TotalHoursWorked float64 `csv:"Total Hours Worked"`
}

// OvertimeByPosition sums overtime and total hours per position, in
// first-seen order.
func (rs *RecordSet) OvertimeByPosition(limit float64) []PositionOvertime {
	rows := make([]PositionOvertime, 0, len(rs.positions))
	for _, position := range rs.positions {
		overtime, total := overtimeOf(rs.byPosition[position], limit)
		rows = append(rows, PositionOvertime{
			Position:         position,
			Overtime:         overtime,
			TotalHoursWorked: total,
		})
	}
	return rows
}

// PositionMonthlyOvertime cross-tabulates overtime and total hours by
// position and month. Cells are indexed [position][month-1].
type PositionMonthlyOvertime struct {
	Positions  []string
	Months     []int
	Overtime   [][]float64
	TotalHours [][]float64
}

// PositionMonthRow is the flattened form of one matrix cell, used for CSV
// export.
type PositionMonthRow struct {
	Position         string  `csv:"Position"`
	Month            int     `csv:"Month"`
	Overtime         float64 `csv:"Overtime"`
	TotalHoursWorked float64 `csv:"Total Hours Worked"`
}

// Rows flattens the matrix into one row per position and month.
func (m *PositionMonthlyOvertime) Rows() []PositionMonthRow {
	rows := make([]PositionMonthRow, 0, len(m.Positions)*len(m.Months))
	for i, position := range m.Positions {
		for j, month := range m.Months {
			rows = append(rows, PositionMonthRow{
				Position:         position,
				Month:            month,
				Overtime:         m.Overtime[i][j],
				TotalHoursWorked: m.TotalHours[i][j],
			})
		}
	}
	return rows
}

// OvertimeByPositionMonthly computes the overtime and total-hours matrices
// across all positions and months.
func (rs *RecordSet) OvertimeByPositionMonthly(limit float64) *PositionMonthlyOvertime {
	months := make([]int, 12)
	for i := range months {
		months[i] = i + 1
	}

	m := &PositionMonthlyOvertime{
		Positions:  rs.positions,
		Months:     months,
		Overtime:   make([][]float64, len(rs.positions)),
		TotalHours: make([][]float64, len(rs.positions)),
	}
	for i, position := range rs.positions {
		m.Overtime[i] = make([]float64, 12)
		m.TotalHours[i] = make([]float64, 12)
		for _, rec := range rs.byPosition[position] {
			overtime, total := overtimeOf([]*record.PageRecord{rec}, limit)
			j := rec.Header.Period - 1
			m.Overtime[i][j] += overtime
			m.TotalHours[i][j] += total
		}
	}
	return m
}

// MonthViolations is one row of the rest-violations report.
type MonthViolations struct {
	Month           int `csv:"Month"`
	In24h           int `csv:"Violations in any 24h"`
	In7d            int `csv:"Violations in any 7d"`
	TotalDaysWorked int `csv:"Total Days Worked"`
}

// ViolationsByMonth counts, per calendar month, the days whose normalized
// rest hours fall below the given thresholds, along with the total days the
// month's records cover.
func (rs *RecordSet) ViolationsByMonth(limit24h, limit7d float64) []MonthViolations {
	rows := make([]MonthViolations, 0, 12)
	for month := 1; month <= 12; month++ {
		row := MonthViolations{Month: month}
		for _, rec := range rs.byMonth[month] {
			row.In24h += CountViolations(rec.Rest24h, limit24h)
			row.In7d += CountViolations(rec.Rest7d, limit7d)
			row.TotalDaysWorked += rec.Header.Days()
		}
		rows = append(rows, row)
	}
	return rows
}

// CountViolations counts values strictly below the limit.
func CountViolations(values []float64, limit float64) int {
	count := 0
	for _, v := range values {
		if v < limit {
			count++
		}
	}
	return count
}

// SeafarerStats is one row of the per-seafarer report.
type SeafarerStats struct {
	Seafarer string  `csv:"Seafarer"`
	Mean     float64 `csv:"Mean"`
	Std      float64 `csv:"Std"`
	Days     int     `csv:"Number of Days"`
}

// SeafarerStatistics computes mean, sample standard deviation and day count
// of daily worked hours per seafarer, in first-seen order. The deviation is
// zero for seafarers with fewer than two days on record.
func (rs *RecordSet) SeafarerStatistics() []SeafarerStats {
	rows := make([]SeafarerStats, 0, len(rs.seafarers))
	for _, seafarer := range rs.seafarers {
		var hours []float64
		for _, rec := range rs.bySeafarer[seafarer] {
			hours = append(hours, rec.Hours...)
		}
		rows = append(rows, SeafarerStats{
			Seafarer: seafarer,
			Mean:     mean(hours),
			Std:      sampleStdDev(hours),
			Days:     len(hours),
		})
	}
	return rows
}

// overtimeOf sums overtime (hours strictly above the daily limit) and total
// worked hours across the given records.
func overtimeOf(records []*record.PageRecord, limit float64) (overtime, total float64) {
	for _, rec := range records {
		for _, h := range rec.Hours {
			total += h
			if h > limit {
				overtime += h - limit
			}
		}
	}
	return overtime, total
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev is the n-1 denominator standard deviation.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
