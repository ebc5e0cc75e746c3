package report

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
)

// WriteCSV writes report rows to w using their csv struct tags. rows must be
// a slice of one of the report row types.
func WriteCSV(w io.Writer, rows any) error {
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
