// Package service orchestrates record extraction: it pairs each parsed text
// segment with its rasterized page image and assembles immutable page
// records for downstream aggregation.
package service

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/turanyusif9/watchkeeper/internal/domain/record"
	"github.com/turanyusif9/watchkeeper/internal/domain/record/decoder"
	"github.com/turanyusif9/watchkeeper/internal/domain/record/normalizer"
	"github.com/turanyusif9/watchkeeper/internal/domain/record/parser"
)

// ErrNoRecords indicates the document text contains no record segments.
var ErrNoRecords = errors.New("no hours-of-rest records found in document")

// InconsistentDayCountError reports a disagreement between the decoded grid
// and the parsed header about how many days a page covers.
type InconsistentDayCountError struct {
	Page       int
	GridRows   int
	HeaderDays int
}

func (e *InconsistentDayCountError) Error() string {
	return fmt.Sprintf("page %d: decoded grid has %d rows but header date range covers %d days",
		e.Page, e.GridRows, e.HeaderDays)
}

// Service assembles page records from a document's text layer and page
// images. Pages are processed in document order; the first failure aborts
// the run.
type Service struct {
	parser  *parser.Parser
	decoder *decoder.Decoder
	logger  *slog.Logger
}

// New creates an extraction service.
func New(p *parser.Parser, d *decoder.Decoder, logger *slog.Logger) *Service {
	return &Service{
		parser:  p,
		decoder: d,
		logger:  logger,
	}
}

// Extract splits the document text into record segments, parses and decodes
// each page, and returns the assembled records in page order. The text
// segments and page images must align one to one.
func (s *Service) Extract(ctx context.Context, text string, images []image.Image) ([]record.PageRecord, error) {
	segments := parser.SplitSegments(text)
	if len(segments) == 0 {
		return nil, ErrNoRecords
	}
	if len(segments) != len(images) {
		return nil, fmt.Errorf("text and image layers disagree: %d record segments, %d page images",
			len(segments), len(images))
	}

	records := make([]record.PageRecord, 0, len(segments))
	for i, segment := range segments {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		header, rest, err := s.parser.Parse(segment, i)
		if err != nil {
			return nil, err
		}

		grid, err := s.decoder.Decode(images[i], header.Days())
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		if grid.Days() != header.Days() {
			return nil, &InconsistentDayCountError{
				Page:       i,
				GridRows:   grid.Days(),
				HeaderDays: header.Days(),
			}
		}
		if err := grid.Validate(); err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}

		in24h, in7d := normalizer.NormalizeRestHours(rest)
		rec := record.PageRecord{
			Index:   i,
			Header:  header,
			Grid:    grid,
			Rest24h: in24h,
			Rest7d:  in7d,
			Hours:   record.DeriveHoursWorked(grid),
		}
		records = append(records, rec)

		s.logger.Debug("assembled page record",
			"page", i,
			"seafarer", header.Seafarer,
			"position", header.Position,
			"month", header.Period,
			"days", header.Days(),
		)
	}

	s.logger.Info("extraction complete", "pages", len(records))
	return records, nil
}
