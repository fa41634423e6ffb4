//go:build nopdfium

package pdfprocessor

import "errors"

// ErrPdfiumUnavailable is returned by NewPdfiumEngine in builds without
// PDFium. The extractor reports it in a Footer-only stream.
var ErrPdfiumUnavailable = errors.New("built without PDFium support")

// PdfiumEngine is a placeholder in builds tagged nopdfium.
type PdfiumEngine struct{}

func NewPdfiumEngine(PdfiumConfig) (*PdfiumEngine, error) {
	return nil, ErrPdfiumUnavailable
}

func (*PdfiumEngine) OpenDocument(string) (Document, error) {
	return nil, ErrPdfiumUnavailable
}

func (*PdfiumEngine) Close() error {
	return nil
}
