package service

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turanyusif9/watchkeeper/internal/domain/record"
	"github.com/turanyusif9/watchkeeper/internal/domain/record/decoder"
	"github.com/turanyusif9/watchkeeper/internal/domain/record/parser"
)

func testCalibration() decoder.LayoutCalibration {
	columns := make([]int, record.SlotsPerDay)
	for i := range columns {
		columns[i] = 10 + 2*i
	}
	return decoder.LayoutCalibration{
		ColumnX:   columns,
		StartY:    5,
		RowStep:   4,
		RefWidth:  120,
		RefHeight: 40,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// pageSegment builds one record's text segment in the template layout.
func pageSegment(seafarer, position, period, start, end, page, rest24, rest7 string) string {
	var b strings.Builder
	b.WriteString("\n\nVessel:\n\nMV Aurora\n\n")
	b.WriteString("Seafarer (Full Name):\n\n" + seafarer + "\n\n")
	b.WriteString("Position (Rank):\n\n" + position + "\n\n")
	b.WriteString(period + "\n\nPeriods of work and rest\n\n")
	b.WriteString("Date\n" + start + "\nto\n" + end + "\n\n")
	b.WriteString("Page " + page + " of 2 \n\n")
	b.WriteString("Hours of rest\nin any 24h\n" + rest24 + "\n\n")
	b.WriteString("Hours of rest\nin any 7d\n" + rest7 + "\n\n")
	return b.String()
}

// workdayPage renders a page where every day is worked 08:00-17:00
// (slots 16..33, 18 half hours).
func workdayPage(cal decoder.LayoutCalibration, days int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, cal.RefWidth, cal.RefHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	for day := 0; day < days; day++ {
		for slot := 16; slot < 34; slot++ {
			img.Set(cal.ColumnX[slot], cal.StartY+day*cal.RowStep, color.RGBA{R: 120, G: 120, B: 120, A: 255})
		}
	}
	return img
}

func newTestService() *Service {
	return New(parser.New(), decoder.New(testCalibration()), testLogger())
}

func twoPageDocument() string {
	return "cover sheet\n" +
		parser.SegmentDelimiter +
		pageSegment("John Smith", "Chief Engineer", "March 2024",
			"01/03/2024", "03/03/2024", "1", "15\n15\nN/A", "105\n105\nN/A") +
		parser.SegmentDelimiter +
		pageSegment("Jane Doe", "Bosun", "March 2024",
			"10/03/2024", "12/03/2024", "2", "15\n15\n15", "105\nN/A\n105")
}

func TestService_Extract(t *testing.T) {
	cal := testCalibration()
	svc := newTestService()

	t.Run("assembles a two-page document", func(t *testing.T) {
		images := []image.Image{workdayPage(cal, 3), workdayPage(cal, 3)}

		records, err := svc.Extract(context.Background(), twoPageDocument(), images)
		require.NoError(t, err)
		require.Len(t, records, 2)

		first := records[0]
		assert.Equal(t, 0, first.Index)
		assert.Equal(t, "John Smith", first.Header.Seafarer)
		assert.Equal(t, 1, first.Header.StartDay)
		assert.Equal(t, 3, first.Header.EndDay)
		assert.Equal(t, 3, first.Grid.Days())
		assert.Equal(t, record.HoursWorkedSeries{9, 9, 9}, first.Hours)
		assert.Equal(t, []float64{15, 15, 24}, first.Rest24h)
		assert.Equal(t, []float64{105, 105, 168}, first.Rest7d)

		second := records[1]
		assert.Equal(t, 1, second.Index)
		assert.Equal(t, "Jane Doe", second.Header.Seafarer)
		assert.Equal(t, 10, second.Header.StartDay)
		assert.Equal(t, 12, second.Header.EndDay)
		assert.Equal(t, record.HoursWorkedSeries{9, 9, 9}, second.Hours)
		assert.Equal(t, []float64{105, 168, 105}, second.Rest7d)

		// Grid rows always match the header date range.
		for _, rec := range records {
			assert.Equal(t, rec.Header.Days(), rec.Grid.Days())
			require.NoError(t, rec.Grid.Validate())
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		images := []image.Image{workdayPage(cal, 3), workdayPage(cal, 3)}

		first, err := svc.Extract(context.Background(), twoPageDocument(), images)
		require.NoError(t, err)
		second, err := svc.Extract(context.Background(), twoPageDocument(), images)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("fails without record segments", func(t *testing.T) {
		_, err := svc.Extract(context.Background(), "unrelated text", nil)
		assert.ErrorIs(t, err, ErrNoRecords)
	})

	t.Run("fails on text/image misalignment", func(t *testing.T) {
		images := []image.Image{workdayPage(cal, 3)}
		_, err := svc.Extract(context.Background(), twoPageDocument(), images)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "2 record segments, 1 page images")
	})

	t.Run("propagates parse failures with the page index", func(t *testing.T) {
		text := parser.SegmentDelimiter +
			pageSegment("John Smith", "Chief Engineer", "March 2024",
				"01/03/2024", "03/03/2024", "1", "15\n15\n15", "105\n105\n105") +
			parser.SegmentDelimiter +
			strings.Replace(pageSegment("Jane Doe", "Bosun", "March 2024",
				"10/03/2024", "12/03/2024", "2", "15\n15\n15", "105\n105\n105"),
				"Position (Rank):", "Rank:", 1)
		images := []image.Image{workdayPage(cal, 3), workdayPage(cal, 3)}

		_, err := svc.Extract(context.Background(), text, images)

		var malformed *parser.MalformedRecordError
		require.ErrorAs(t, err, &malformed)
		assert.Equal(t, 1, malformed.Page)
	})

	t.Run("propagates layout mismatches with the page index", func(t *testing.T) {
		small := image.NewRGBA(image.Rect(0, 0, 10, 10))
		images := []image.Image{workdayPage(cal, 3), small}

		_, err := svc.Extract(context.Background(), twoPageDocument(), images)

		var mismatch *decoder.LayoutMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Contains(t, err.Error(), "page 1")
	})

	t.Run("stops on context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		images := []image.Image{workdayPage(cal, 3), workdayPage(cal, 3)}
		_, err := svc.Extract(ctx, twoPageDocument(), images)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
