// Package decoder converts a rasterized timesheet page into a binary
// work/rest grid by sampling fixed pixel positions. The sampling geometry is
// calibrated to one scanned template and carried in a LayoutCalibration
// value, so alternate templates only need a different calibration.
package decoder

import (
	"fmt"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/turanyusif9/watchkeeper/internal/domain/record"
)

// LayoutCalibration pins the pixel geometry of one timesheet template: one
// sampling x per half-hour column, the y of the first day row, the vertical
// step between day rows, and the page dimensions the coordinates were
// calibrated against.
type LayoutCalibration struct {
	ColumnX   []int // sampling x positions, one per half-hour slot
	StartY    int   // y of the first day row
	RowStep   int   // vertical pixels between consecutive day rows
	RefWidth  int   // page width the calibration assumes, 0 to skip the check
	RefHeight int   // page height the calibration assumes, 0 to skip the check
}

// Validate checks that the calibration describes a usable sampling grid.
func (c LayoutCalibration) Validate() error {
	if len(c.ColumnX) != record.SlotsPerDay {
		return fmt.Errorf("calibration has %d columns, want %d", len(c.ColumnX), record.SlotsPerDay)
	}
	if c.RowStep <= 0 {
		return fmt.Errorf("calibration row step must be positive, got %d", c.RowStep)
	}
	if c.StartY < 0 {
		return fmt.Errorf("calibration start y must be non-negative, got %d", c.StartY)
	}
	return nil
}

// maxColumnX returns the rightmost sampling position.
func (c LayoutCalibration) maxColumnX() int {
	max := 0
	for _, x := range c.ColumnX {
		if x > max {
			max = x
		}
	}
	return max
}

// DefaultCalibration returns the geometry of the known hours-of-rest
// template: an A4 page rasterized at 200 DPI.
func DefaultCalibration() LayoutCalibration {
	return LayoutCalibration{
		ColumnX: []int{
			288, 303, 327, 343, 366, 383, 406, 422, 445, 461, 484, 500,
			523, 540, 563, 579, 602, 619, 643, 658, 682, 698, 721, 736,
			760, 776, 798, 814, 839, 853, 877, 894, 917, 932, 957, 972,
			996, 1012, 1036, 1051, 1074, 1090, 1114, 1130, 1153, 1170, 1193, 1208,
		},
		StartY:    348,
		RowStep:   26,
		RefWidth:  1654,
		RefHeight: 2339,
	}
}

// LayoutMismatchError reports a page image that does not fit the calibrated
// sampling layout. It is raised instead of silently producing a wrong grid.
type LayoutMismatchError struct {
	Width, Height         int
	WantWidth, WantHeight int
	Reason                string
}

func (e *LayoutMismatchError) Error() string {
	return fmt.Sprintf("layout mismatch: %s: page is %dx%d, calibration expects %dx%d",
		e.Reason, e.Width, e.Height, e.WantWidth, e.WantHeight)
}

// Decoder samples page images into work/rest grids.
type Decoder struct {
	cal     LayoutCalibration
	rescale bool
}

// New creates a decoder for the given calibration.
func New(cal LayoutCalibration) *Decoder {
	return &Decoder{cal: cal}
}

// WithRescale enables rescaling of pages whose dimensions differ from the
// calibration reference instead of failing. Off by default: a mismatched
// layout is a hard error.
func (d *Decoder) WithRescale(enabled bool) *Decoder {
	d.rescale = enabled
	return d
}

// Decode samples the chart area of one page image and returns a grid with
// exactly numDays rows of 48 binary cells. A cell is work (1) when the
// sampled pixel is non-white on all three channels, exploiting the template
// convention that worked half hours are filled with a non-white shade.
func (d *Decoder) Decode(img image.Image, numDays int) (record.GanttGrid, error) {
	if err := d.cal.Validate(); err != nil {
		return nil, err
	}
	if numDays <= 0 {
		return nil, fmt.Errorf("day count must be positive, got %d", numDays)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if d.cal.RefWidth > 0 && d.cal.RefHeight > 0 &&
		(width != d.cal.RefWidth || height != d.cal.RefHeight) {
		if !d.rescale {
			return nil, &LayoutMismatchError{
				Width: width, Height: height,
				WantWidth: d.cal.RefWidth, WantHeight: d.cal.RefHeight,
				Reason: "page dimensions differ from calibration reference",
			}
		}
		img = rescale(img, d.cal.RefWidth, d.cal.RefHeight)
		bounds = img.Bounds()
		width, height = bounds.Dx(), bounds.Dy()
	}

	lastY := d.cal.StartY + (numDays-1)*d.cal.RowStep
	if d.cal.maxColumnX() >= width || lastY >= height {
		return nil, &LayoutMismatchError{
			Width: width, Height: height,
			WantWidth: d.cal.maxColumnX() + 1, WantHeight: lastY + 1,
			Reason: "sampling coordinates exceed page bounds",
		}
	}

	grid := make(record.GanttGrid, numDays)
	y := d.cal.StartY
	for day := 0; day < numDays; day++ {
		row := make([]int, record.SlotsPerDay)
		for slot, x := range d.cal.ColumnX {
			if isWorked(img.At(bounds.Min.X+x, bounds.Min.Y+y)) {
				row[slot] = 1
			}
		}
		grid[day] = row
		y += d.cal.RowStep
	}
	return grid, nil
}

// isWorked classifies a sampled pixel: worked cells are filled with a shade
// that is non-white on all three channels, rest cells stay pure white.
func isWorked(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return uint8(r>>8) != 0xFF && uint8(g>>8) != 0xFF && uint8(b>>8) != 0xFF
}

// rescale resamples src to the given size.
func rescale(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}
