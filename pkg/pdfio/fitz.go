package pdfio

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// FitzRasterizer renders pages with the go-fitz (MuPDF) bindings.
type FitzRasterizer struct{}

// NewFitzRasterizer creates a page rasterizer.
func NewFitzRasterizer() *FitzRasterizer {
	return &FitzRasterizer{}
}

// RenderPages renders every page of the document at the given DPI.
func (r *FitzRasterizer) RenderPages(path string, dpi float64) ([]image.Image, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %q: %w", path, err)
	}
	defer doc.Close()

	pages := make([]image.Image, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		img, err := doc.ImageDPI(i, dpi)
		if err != nil {
			return nil, fmt.Errorf("render page %d of %q: %w", i, path, err)
		}
		pages = append(pages, img)
	}
	return pages, nil
}
