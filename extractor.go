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

import (
	"io"

	"github.com/rs/zerolog"
)

// DefaultMaxTextChars bounds the UTF-16 code units of text read per page.
const DefaultMaxTextChars = 100000

// OcrMarkerColor is the color of the line annotation an OCR pass appends to
// every page it processed. Only a page's last annotation is checked.
var OcrMarkerColor = Color{R: 1, G: 2, B: 3, A: 4}

// Capabilities selects the optional artifacts of one page. Text is always
// extracted.
type Capabilities struct {
	Thumbnail bool
	Export    bool
}

// Extractor turns one loaded page into a PageRecord. It does no framing.
type Extractor struct {
	MaxThumbnailDimension int
	MaxTextChars          int
	Logger                zerolog.Logger
}

// NewExtractor returns an Extractor with default limits.
func NewExtractor() *Extractor {
	return &Extractor{
		MaxThumbnailDimension: DefaultMaxThumbnailDimension,
		MaxTextChars:          DefaultMaxTextChars,
		Logger:                zerolog.Nop(),
	}
}

// ExtractPage runs, in order, OCR detection, thumbnail, text and export for
// the page at index. The first failing step ends the page; later steps are
// not attempted. The page handle is released on every path.
func (x *Extractor) ExtractPage(doc Document, index int, caps Capabilities) (*PageRecord, error) {
	page, err := doc.LoadPage(index)
	if err != nil {
		return nil, engineError(StagePage, index, err)
	}
	defer x.release(page, "page", index)

	rec := &PageRecord{IsOcr: x.isOcr(page, index)}

	if caps.Thumbnail {
		png, err := x.thumbnail(page)
		if err != nil {
			x.Logger.Warn().Err(err).Int("page", index+1).Msg("thumbnail rendering failed")
			return nil, engineError(StageThumbnail, index, ErrOutOfMemory)
		}
		rec.Thumbnail = png
	}

	text, err := x.text(page, index)
	if err != nil {
		return nil, err
	}
	rec.Text = text

	if caps.Export {
		pdf, err := doc.ExportPage(index)
		if err != nil {
			return nil, engineError(StageExport, index, err)
		}
		rec.ExportedPage = pdf
	}

	return rec, nil
}

func (x *Extractor) isOcr(page Page, index int) bool {
	annot, err := page.LastAnnotation()
	if err != nil {
		x.Logger.Debug().Err(err).Int("page", index+1).Msg("cannot read last annotation; assuming no OCR marker")
		return false
	}
	return isOcrMarker(annot)
}

func isOcrMarker(a *Annotation) bool {
	return a != nil && a.Subtype == AnnotationLine && a.HasColor && a.Color == OcrMarkerColor
}

func (x *Extractor) thumbnail(page Page) ([]byte, error) {
	pageWidth, pageHeight, err := page.Size()
	if err != nil {
		return nil, err
	}
	width, height := thumbnailSize(pageWidth, pageHeight, x.MaxThumbnailDimension)
	pixels, err := page.Render(width, height)
	if err != nil {
		return nil, err
	}
	return encodeThumbnail(pixels)
}

func (x *Extractor) text(page Page, index int) ([]byte, error) {
	layer, err := page.LoadText()
	if err != nil {
		return nil, engineError(StageText, index, err)
	}
	defer x.release(layer, "text layer", index)

	raw, err := layer.Text(x.MaxTextChars)
	if err != nil {
		return nil, engineError(StageText, index, err)
	}
	text, err := pageText(raw)
	if err != nil {
		return nil, engineError(StageText, index, err)
	}
	return text, nil
}

func (x *Extractor) release(c io.Closer, what string, index int) {
	if err := c.Close(); err != nil {
		x.Logger.Warn().Err(err).Int("page", index+1).Msgf("failed to close %s", what)
	}
}
