// Package pdfio wraps the PDF collaborators the extraction pipeline depends
// on: plain-text extraction of the document's text layer and rasterization
// of its pages. The extraction core only sees the resulting text and images.
package pdfio

import "image"

// TextExtractor produces the full plain-text content of a PDF document.
type TextExtractor interface {
	ExtractText(path string) (string, error)
}

// Rasterizer renders every page of a PDF document to an image, in page
// order, aligned one to one with the text layer's record segments.
type Rasterizer interface {
	RenderPages(path string, dpi float64) ([]image.Image, error)
}
