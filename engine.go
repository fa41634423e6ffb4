// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package pdfprocessor

import "time"

// Engine is the document rendering engine. It is initialized once per
// process and closed at the end of the run.
type Engine interface {
	// OpenDocument loads the document at path. The error's message is the
	// reason shown to the consumer, e.g. "file is password-protected".
	OpenDocument(path string) (Document, error)
	Close() error
}

// Document is an open document. It must be closed by the caller.
type Document interface {
	PageCount() (int, error)

	// LoadPage returns a handle on the page at the zero-based index. The
	// caller owns it exclusively and must close it.
	LoadPage(index int) (Page, error)

	// ExportPage builds a new single-page document holding only the page at
	// index and returns its serialized bytes.
	ExportPage(index int) ([]byte, error)

	Close() error
}

// Page is a loaded page handle.
type Page interface {
	// Size returns the page dimensions in points.
	Size() (width, height float64, err error)

	// Render rasterizes the page at exactly width x height pixels over a
	// white background. Failure to allocate the buffer is ErrOutOfMemory.
	Render(width, height int) (*PixelBuffer, error)

	// LoadText loads the page's text layer. The caller must close it.
	LoadText() (TextLayer, error)

	// LastAnnotation returns the page's last annotation, or nil when the
	// page has none.
	LastAnnotation() (*Annotation, error)

	Close() error
}

// TextLayer is a loaded text layer of one page.
type TextLayer interface {
	// Text returns up to maxChars UTF-16 code units of page text, encoded
	// as UTF-16LE bytes.
	Text(maxChars int) ([]byte, error)
	Close() error
}

// PixelBuffer is a rendered page in the engine's native layout: four bytes
// per pixel in B, G, R, A order, rows Stride bytes apart.
type PixelBuffer struct {
	Width  int
	Height int
	Stride int
	Pix    []byte
}

// AnnotationSubtype is the PDF annotation subtype.
type AnnotationSubtype int

const (
	AnnotationUnknown AnnotationSubtype = iota
	AnnotationLine
	AnnotationOther
)

// Color is an annotation color with 8-bit channels.
type Color struct {
	R, G, B, A uint8
}

// Annotation is a snapshot of an annotation's properties. The engine handle
// it was read from is already released.
type Annotation struct {
	Subtype  AnnotationSubtype
	Color    Color
	HasColor bool
}

// PdfiumConfig configures the WebAssembly PDFium runtime.
type PdfiumConfig struct {
	// InstanceTimeout bounds the wait for a free PDFium instance.
	InstanceTimeout time.Duration
	// MaxInstances is the pool size. One is enough for a single document.
	MaxInstances int
}

// DefaultPdfiumConfig returns the defaults used by the CLI.
func DefaultPdfiumConfig() PdfiumConfig {
	return PdfiumConfig{
		InstanceTimeout: 30 * time.Second,
		MaxInstances:    1,
	}
}
