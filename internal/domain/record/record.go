// Package record defines the data model for extracted hours-of-rest
// timesheet pages: the decoded work/rest grid, the header fields, the
// rest-hours summaries and the assembled per-page record.
package record

import "fmt"

// SlotsPerDay is the number of half-hour slots in one day row of the chart.
const SlotsPerDay = 48

// GanttGrid is the decoded work/rest matrix for one timesheet page: one row
// per calendar day in the record's date range, 48 half-hour cells per row.
// A cell is 1 for a worked half hour and 0 for rest.
type GanttGrid [][]int

// Days returns the number of day rows in the grid.
func (g GanttGrid) Days() int {
	return len(g)
}

// Validate checks the grid invariants: every row has exactly 48 cells and
// every cell is 0 or 1.
func (g GanttGrid) Validate() error {
	for i, row := range g {
		if len(row) != SlotsPerDay {
			return fmt.Errorf("grid row %d has %d cells, want %d", i, len(row), SlotsPerDay)
		}
		for j, cell := range row {
			if cell != 0 && cell != 1 {
				return fmt.Errorf("grid cell (%d,%d) has value %d, want 0 or 1", i, j, cell)
			}
		}
	}
	return nil
}

// Header holds the identifying fields of one timesheet page.
type Header struct {
	Vessel      string
	Seafarer    string
	Position    string
	PeriodLabel string // raw period text as printed on the page
	Period      int    // month 1-12 derived from the period label or date range
	StartDay    int    // day of month, first day covered by the page
	EndDay      int    // day of month, last day covered by the page
	Page        string // page identifier as printed, e.g. "1"
}

// Days returns the number of calendar days the page covers.
func (h Header) Days() int {
	return h.EndDay - h.StartDay + 1
}

// RestValue is one per-day rest-hours entry from the summary table. NA marks
// the template's "N/A" token for days without an entry.
type RestValue struct {
	Hours float64
	NA    bool
}

// RestHours holds the two raw rest-hours sequences of one page, one value
// per day, in page order.
type RestHours struct {
	In24h []RestValue // "Hours of rest in any 24h"
	In7d  []RestValue // "Hours of rest in any 7d"
}

// HoursWorkedSeries holds derived worked hours, one value per day row of the
// grid, aligned by index.
type HoursWorkedSeries []float64

// Total returns the summed worked hours across all days.
func (s HoursWorkedSeries) Total() float64 {
	var total float64
	for _, h := range s {
		total += h
	}
	return total
}

// PageRecord is the assembled result for one timesheet page: header, decoded
// grid, normalized rest hours and derived worked hours. Records are created
// once during extraction and never mutated afterwards.
type PageRecord struct {
	Index   int // page order within the source document
	Header  Header
	Grid    GanttGrid
	Rest24h []float64 // normalized "in any 24h" values, one per day
	Rest7d  []float64 // normalized "in any 7d" values, one per day
	Hours   HoursWorkedSeries
}

// DeriveHoursWorked computes per-day worked hours from a grid: each worked
// half-hour cell contributes 0.5 hours.
func DeriveHoursWorked(grid GanttGrid) HoursWorkedSeries {
	hours := make(HoursWorkedSeries, len(grid))
	for i, row := range grid {
		worked := 0
		for _, cell := range row {
			if cell == 1 {
				worked++
			}
		}
		hours[i] = float64(worked) / 2
	}
	return hours
}
