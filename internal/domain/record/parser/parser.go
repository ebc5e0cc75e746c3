// Package parser extracts header and rest-hours fields from the text layer
// of one timesheet page. The extraction is pattern-based and calibrated to a
// single fixed template; every required field must be present or parsing
// fails for that page.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/turanyusif9/watchkeeper/internal/domain/record"
)

// SegmentDelimiter separates logical records in the extracted document text.
// Everything before the first occurrence is front matter and is discarded.
const SegmentDelimiter = "RECORD OF HOURS OF REST"

// NotApplicable is the template's token for days without a rest-hours entry.
const NotApplicable = "N/A"

// Fixed positional patterns of the timesheet template.
var (
	vesselRe   = regexp.MustCompile(`Vessel:\n\n(.*)\n`)
	seafarerRe = regexp.MustCompile(`Seafarer \(Full Name\):\n\n(.*)\n`)
	positionRe = regexp.MustCompile(`Position \(Rank\):\n\n(.*)\n`)
	periodRe   = regexp.MustCompile(`\n(.*)\n\nPeriods`)
	startRe    = regexp.MustCompile(`Date\n(\d\d)/(\d\d)/`)
	endRe      = regexp.MustCompile(`\n(\d\d)/\d\d/\d{4}\n\n`)
	pageRe     = regexp.MustCompile(`Page *(.*?) `)
	rest24Re   = regexp.MustCompile(`in any 24h\n([\s\S]+?)\n\n`)
	rest7Re    = regexp.MustCompile(`in any 7d\n([\s\S]+?)\n\n`)
)

// MalformedRecordError reports a required field that could not be located or
// read in a page's text segment.
type MalformedRecordError struct {
	Page   int    // zero-based page index within the document
	Field  string // the field that failed
	Detail string // optional context, e.g. the offending value
}

func (e *MalformedRecordError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("page %d: malformed record: field %q: %s", e.Page, e.Field, e.Detail)
	}
	return fmt.Sprintf("page %d: malformed record: field %q not found", e.Page, e.Field)
}

// SplitSegments splits the full document text into one segment per logical
// record. The return is nil when the delimiter never occurs.
func SplitSegments(text string) []string {
	parts := strings.Split(text, SegmentDelimiter)
	if len(parts) <= 1 {
		return nil
	}
	return parts[1:]
}

// Parser extracts header and rest-hours fields from page text segments.
// It is stateless and safe for concurrent use.
type Parser struct{}

// New creates a new record parser.
func New() *Parser {
	return &Parser{}
}

// Parse extracts the header and raw rest-hours sequences from one page
// segment. page is the zero-based page index, used for error context only.
func (p *Parser) Parse(segment string, page int) (record.Header, record.RestHours, error) {
	var header record.Header
	var rest record.RestHours

	vessel, ok := firstGroup(vesselRe, segment)
	if !ok {
		return header, rest, &MalformedRecordError{Page: page, Field: "vessel"}
	}
	seafarer, ok := firstGroup(seafarerRe, segment)
	if !ok {
		return header, rest, &MalformedRecordError{Page: page, Field: "seafarer"}
	}
	position, ok := firstGroup(positionRe, segment)
	if !ok {
		return header, rest, &MalformedRecordError{Page: page, Field: "position"}
	}
	periodLabel, ok := firstGroup(periodRe, segment)
	if !ok {
		return header, rest, &MalformedRecordError{Page: page, Field: "period"}
	}
	pageID, ok := firstGroup(pageRe, segment)
	if !ok {
		return header, rest, &MalformedRecordError{Page: page, Field: "page"}
	}

	startMatch := startRe.FindStringSubmatch(segment)
	if startMatch == nil {
		return header, rest, &MalformedRecordError{Page: page, Field: "start day"}
	}
	startDay, _ := strconv.Atoi(startMatch[1])
	startMonth, _ := strconv.Atoi(startMatch[2])

	endStr, ok := firstGroup(endRe, segment)
	if !ok {
		return header, rest, &MalformedRecordError{Page: page, Field: "end day"}
	}
	endDay, _ := strconv.Atoi(endStr)

	if endDay < startDay {
		return header, rest, &MalformedRecordError{
			Page:   page,
			Field:  "date range",
			Detail: fmt.Sprintf("end day %02d before start day %02d", endDay, startDay),
		}
	}

	period := monthFromLabel(periodLabel)
	if period == 0 {
		// The period label carries no recognizable month; fall back to the
		// month component of the page's start date.
		period = startMonth
	}
	if period < 1 || period > 12 {
		return header, rest, &MalformedRecordError{
			Page:   page,
			Field:  "period",
			Detail: fmt.Sprintf("no month in label %q or date range", periodLabel),
		}
	}

	in24h, err := p.parseRestBlock(rest24Re, segment, page, "hours of rest in any 24h")
	if err != nil {
		return header, rest, err
	}
	in7d, err := p.parseRestBlock(rest7Re, segment, page, "hours of rest in any 7d")
	if err != nil {
		return header, rest, err
	}

	header = record.Header{
		Vessel:      vessel,
		Seafarer:    seafarer,
		Position:    position,
		PeriodLabel: periodLabel,
		Period:      period,
		StartDay:    startDay,
		EndDay:      endDay,
		Page:        pageID,
	}
	rest = record.RestHours{In24h: in24h, In7d: in7d}
	return header, rest, nil
}

// parseRestBlock extracts one newline-delimited rest-hours block. Values are
// floats or the not-applicable token; anything else is a malformed record.
func (p *Parser) parseRestBlock(re *regexp.Regexp, segment string, page int, field string) ([]record.RestValue, error) {
	block, ok := firstGroup(re, segment)
	if !ok {
		return nil, &MalformedRecordError{Page: page, Field: field}
	}

	lines := strings.Split(block, "\n")
	values := make([]record.RestValue, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == NotApplicable {
			values = append(values, record.RestValue{NA: true})
			continue
		}
		hours, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, &MalformedRecordError{
				Page:   page,
				Field:  field,
				Detail: fmt.Sprintf("invalid value %q", line),
			}
		}
		values = append(values, record.RestValue{Hours: hours})
	}
	return values, nil
}

// monthFromLabel scans a free-text period label for a month, either numeric
// (1-12) or an English month name. Returns 0 when none is found.
func monthFromLabel(label string) int {
	for _, word := range strings.Fields(label) {
		word = strings.Trim(word, ".,;:/")
		if n, err := strconv.Atoi(word); err == nil && n >= 1 && n <= 12 {
			return n
		}
		for m := time.January; m <= time.December; m++ {
			name := m.String()
			if strings.EqualFold(word, name) || strings.EqualFold(word, name[:3]) {
				return int(m)
			}
		}
	}
	return 0
}

func firstGroup(re *regexp.Regexp, s string) (string, bool) {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	return m[1], true
}
