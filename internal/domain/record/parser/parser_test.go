package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turanyusif9/watchkeeper/internal/domain/record"
)

// segment builds a text segment in the fixed template layout.
func segment(vessel, seafarer, position, period, start, end, page, rest24, rest7 string) string {
	var b strings.Builder
	b.WriteString("\n\nVessel:\n\n" + vessel + "\n\n")
	b.WriteString("Seafarer (Full Name):\n\n" + seafarer + "\n\n")
	b.WriteString("Position (Rank):\n\n" + position + "\n\n")
	b.WriteString(period + "\n\nPeriods of work and rest\n\n")
	b.WriteString("Date\n" + start + "\nto\n" + end + "\n\n")
	b.WriteString("Page " + page + " of 1 \n\n")
	b.WriteString("Hours of rest\nin any 24h\n" + rest24 + "\n\n")
	b.WriteString("Hours of rest\nin any 7d\n" + rest7 + "\n\n")
	return b.String()
}

func validSegment() string {
	return segment(
		"MV Aurora", "John Smith", "Chief Engineer", "March 2024",
		"01/03/2024", "03/03/2024", "1",
		"12.5\n10\nN/A",
		"77\nN/A\n70.5",
	)
}

func TestSplitSegments(t *testing.T) {
	t.Run("discards text before the first record", func(t *testing.T) {
		text := "cover page\n" + SegmentDelimiter + "first" + SegmentDelimiter + "second"
		segments := SplitSegments(text)
		require.Len(t, segments, 2)
		assert.Equal(t, "first", segments[0])
		assert.Equal(t, "second", segments[1])
	})

	t.Run("returns nil without the delimiter", func(t *testing.T) {
		assert.Nil(t, SplitSegments("unrelated document"))
	})
}

func TestParser_Parse(t *testing.T) {
	p := New()

	t.Run("extracts all header fields", func(t *testing.T) {
		header, rest, err := p.Parse(validSegment(), 0)
		require.NoError(t, err)

		assert.Equal(t, "MV Aurora", header.Vessel)
		assert.Equal(t, "John Smith", header.Seafarer)
		assert.Equal(t, "Chief Engineer", header.Position)
		assert.Equal(t, "March 2024", header.PeriodLabel)
		assert.Equal(t, 3, header.Period)
		assert.Equal(t, 1, header.StartDay)
		assert.Equal(t, 3, header.EndDay)
		assert.Equal(t, "1", header.Page)
		assert.Equal(t, 3, header.Days())

		require.Len(t, rest.In24h, 3)
		assert.Equal(t, record.RestValue{Hours: 12.5}, rest.In24h[0])
		assert.Equal(t, record.RestValue{Hours: 10}, rest.In24h[1])
		assert.Equal(t, record.RestValue{NA: true}, rest.In24h[2])

		require.Len(t, rest.In7d, 3)
		assert.Equal(t, record.RestValue{Hours: 77}, rest.In7d[0])
		assert.Equal(t, record.RestValue{NA: true}, rest.In7d[1])
		assert.Equal(t, record.RestValue{Hours: 70.5}, rest.In7d[2])
	})

	t.Run("is idempotent", func(t *testing.T) {
		h1, r1, err := p.Parse(validSegment(), 0)
		require.NoError(t, err)
		h2, r2, err := p.Parse(validSegment(), 0)
		require.NoError(t, err)
		assert.Equal(t, h1, h2)
		assert.Equal(t, r1, r2)
	})

	t.Run("derives the month from the date range when the label has none", func(t *testing.T) {
		seg := segment("MV Aurora", "John Smith", "Bosun", "rotation A",
			"10/07/2024", "12/07/2024", "2", "10\n10\n10", "77\n77\n77")
		header, _, err := p.Parse(seg, 1)
		require.NoError(t, err)
		assert.Equal(t, 7, header.Period)
		assert.Equal(t, "rotation A", header.PeriodLabel)
	})

	t.Run("reports the missing field and page", func(t *testing.T) {
		seg := strings.Replace(validSegment(), "Vessel:", "Ship:", 1)
		_, _, err := p.Parse(seg, 4)

		var malformed *MalformedRecordError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, 4, malformed.Page)
		assert.Equal(t, "vessel", malformed.Field)
		assert.Contains(t, err.Error(), "page 4")
	})

	t.Run("rejects an inverted date range", func(t *testing.T) {
		seg := segment("MV Aurora", "John Smith", "Bosun", "March 2024",
			"10/03/2024", "03/03/2024", "1", "10", "77")
		_, _, err := p.Parse(seg, 0)

		var malformed *MalformedRecordError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, "date range", malformed.Field)
	})

	t.Run("rejects non-numeric rest values", func(t *testing.T) {
		seg := segment("MV Aurora", "John Smith", "Bosun", "March 2024",
			"01/03/2024", "03/03/2024", "1", "10\nabc\n10", "77\n77\n77")
		_, _, err := p.Parse(seg, 2)

		var malformed *MalformedRecordError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, 2, malformed.Page)
		assert.Contains(t, malformed.Detail, "abc")
	})

	t.Run("rejects a missing rest-hours block", func(t *testing.T) {
		seg := strings.Replace(validSegment(), "in any 7d", "in any 7 days", 1)
		_, _, err := p.Parse(seg, 0)

		var malformed *MalformedRecordError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, "hours of rest in any 7d", malformed.Field)
	})
}

func TestMonthFromLabel(t *testing.T) {
	tests := []struct {
		label string
		want  int
	}{
		{"March 2024", 3},
		{"mar 2024", 3},
		{"7", 7},
		{"period 12", 12},
		{"2024", 0},
		{"rotation A", 0},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			assert.Equal(t, tt.want, monthFromLabel(tt.label))
		})
	}
}
