//go:build !nopdfium

package pdfprocessor

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/enums"
	pdfiumerrors "github.com/klippa-app/go-pdfium/errors"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/klippa-app/go-pdfium/webassembly"
)

// PdfiumEngine implements Engine on top of PDFium compiled to WebAssembly.
type PdfiumEngine struct {
	pool     pdfium.Pool
	instance pdfium.Pdfium
}

// NewPdfiumEngine starts the runtime and checks out one instance. Close
// releases both.
func NewPdfiumEngine(cfg PdfiumConfig) (*PdfiumEngine, error) {
	if cfg.MaxInstances <= 0 {
		cfg.MaxInstances = 1
	}
	if cfg.InstanceTimeout <= 0 {
		cfg.InstanceTimeout = DefaultPdfiumConfig().InstanceTimeout
	}

	pool, err := webassembly.Init(webassembly.Config{
		MinIdle:  1,
		MaxIdle:  cfg.MaxInstances,
		MaxTotal: cfg.MaxInstances,
	})
	if err != nil {
		return nil, fmt.Errorf("init pdfium: %w", err)
	}

	instance, err := pool.GetInstance(cfg.InstanceTimeout)
	if err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("get pdfium instance: %w", err)
	}

	return &PdfiumEngine{pool: pool, instance: instance}, nil
}

func (e *PdfiumEngine) OpenDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &pdfiumError{msg: msgFile, cause: err}
	}

	doc, err := e.instance.OpenDocument(&requests.OpenDocument{
		File: &data,
	})
	if err != nil {
		return nil, translatePdfiumError(err)
	}
	return &pdfiumDocument{instance: e.instance, doc: doc.Document}, nil
}

func (e *PdfiumEngine) Close() error {
	return errors.Join(e.instance.Close(), e.pool.Close())
}

const (
	msgUnknown  = "unknown error"
	msgFile     = "file not found or could not be opened"
	msgFormat   = "file is not a valid PDF"
	msgPassword = "file is password-protected"
	msgSecurity = "unsupported security scheme"
	msgPage     = "page not found or content error"
)

var pdfiumMessages = []struct {
	err error
	msg string
}{
	{pdfiumerrors.ErrUnknown, msgUnknown},
	{pdfiumerrors.ErrFile, msgFile},
	{pdfiumerrors.ErrFormat, msgFormat},
	{pdfiumerrors.ErrPassword, msgPassword},
	{pdfiumerrors.ErrSecurity, msgSecurity},
	{pdfiumerrors.ErrPage, msgPage},
}

// pdfiumError carries the operator-facing text for a PDFium error code.
type pdfiumError struct {
	msg   string
	cause error
}

func (e *pdfiumError) Error() string { return e.msg }
func (e *pdfiumError) Unwrap() error { return e.cause }

// translatePdfiumError maps PDFium's last-error codes to stable messages.
// Errors that cross the WebAssembly boundary are compared by text as well.
func translatePdfiumError(err error) error {
	for _, m := range pdfiumMessages {
		if errors.Is(err, m.err) || err.Error() == m.err.Error() {
			return &pdfiumError{msg: m.msg, cause: err}
		}
	}
	return err
}

type pdfiumDocument struct {
	instance pdfium.Pdfium
	doc      references.FPDF_DOCUMENT
}

func (d *pdfiumDocument) PageCount() (int, error) {
	resp, err := d.instance.FPDF_GetPageCount(&requests.FPDF_GetPageCount{
		Document: d.doc,
	})
	if err != nil {
		return 0, translatePdfiumError(err)
	}
	return resp.PageCount, nil
}

func (d *pdfiumDocument) LoadPage(index int) (Page, error) {
	resp, err := d.instance.FPDF_LoadPage(&requests.FPDF_LoadPage{
		Document: d.doc,
		Index:    index,
	})
	if err != nil {
		return nil, translatePdfiumError(err)
	}
	return &pdfiumPage{instance: d.instance, page: resp.Page}, nil
}

// ExportPage copies one page into a new document and serializes it.
func (d *pdfiumDocument) ExportPage(index int) ([]byte, error) {
	created, err := d.instance.FPDF_CreateNewDocument(&requests.FPDF_CreateNewDocument{})
	if err != nil {
		return nil, translatePdfiumError(err)
	}
	defer d.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: created.Document,
	})

	pageRange := strconv.Itoa(index + 1)
	if _, err := d.instance.FPDF_ImportPages(&requests.FPDF_ImportPages{
		Source:      d.doc,
		Destination: created.Document,
		PageRange:   &pageRange,
		Index:       0,
	}); err != nil {
		return nil, translatePdfiumError(err)
	}

	saved, err := d.instance.FPDF_SaveAsCopy(&requests.FPDF_SaveAsCopy{
		Document: created.Document,
	})
	if err != nil {
		return nil, translatePdfiumError(err)
	}
	if saved.FileBytes == nil {
		return nil, &pdfiumError{msg: msgUnknown}
	}
	return *saved.FileBytes, nil
}

func (d *pdfiumDocument) Close() error {
	_, err := d.instance.FPDF_CloseDocument(&requests.FPDF_CloseDocument{
		Document: d.doc,
	})
	return err
}

type pdfiumPage struct {
	instance pdfium.Pdfium
	page     references.FPDF_PAGE
}

func (p *pdfiumPage) ref() requests.Page {
	return requests.Page{ByReference: &p.page}
}

func (p *pdfiumPage) Size() (float64, float64, error) {
	resp, err := p.instance.GetPageSize(&requests.GetPageSize{
		Page: p.ref(),
	})
	if err != nil {
		return 0, 0, translatePdfiumError(err)
	}
	return resp.Width, resp.Height, nil
}

// Render draws the page on white at exactly width x height pixels.
func (p *pdfiumPage) Render(width, height int) (*PixelBuffer, error) {
	bitmap, err := p.instance.FPDFBitmap_Create(&requests.FPDFBitmap_Create{
		Width:  width,
		Height: height,
		Alpha:  1,
	})
	if err != nil {
		return nil, ErrOutOfMemory
	}
	defer p.instance.FPDFBitmap_Destroy(&requests.FPDFBitmap_Destroy{
		Bitmap: bitmap.Bitmap,
	})

	if _, err := p.instance.FPDFBitmap_FillRect(&requests.FPDFBitmap_FillRect{
		Bitmap: bitmap.Bitmap,
		Width:  width,
		Height: height,
		Color:  0xffffffff,
	}); err != nil {
		return nil, translatePdfiumError(err)
	}

	if _, err := p.instance.FPDF_RenderPageBitmap(&requests.FPDF_RenderPageBitmap{
		Bitmap: bitmap.Bitmap,
		Page:   p.ref(),
		SizeX:  width,
		SizeY:  height,
	}); err != nil {
		return nil, translatePdfiumError(err)
	}

	stride, err := p.instance.FPDFBitmap_GetStride(&requests.FPDFBitmap_GetStride{
		Bitmap: bitmap.Bitmap,
	})
	if err != nil {
		return nil, translatePdfiumError(err)
	}
	buf, err := p.instance.FPDFBitmap_GetBuffer(&requests.FPDFBitmap_GetBuffer{
		Bitmap: bitmap.Bitmap,
	})
	if err != nil {
		return nil, translatePdfiumError(err)
	}

	// The buffer belongs to the bitmap, which is destroyed on return.
	pix := make([]byte, len(buf.Buffer))
	copy(pix, buf.Buffer)
	return &PixelBuffer{Width: width, Height: height, Stride: stride.Stride, Pix: pix}, nil
}

func (p *pdfiumPage) LoadText() (TextLayer, error) {
	resp, err := p.instance.FPDFText_LoadPage(&requests.FPDFText_LoadPage{
		Page: p.ref(),
	})
	if err != nil {
		return nil, translatePdfiumError(err)
	}
	return &pdfiumText{instance: p.instance, text: resp.TextPage}, nil
}

// LastAnnotation returns nil when the page has no annotations.
func (p *pdfiumPage) LastAnnotation() (*Annotation, error) {
	count, err := p.instance.FPDFPage_GetAnnotCount(&requests.FPDFPage_GetAnnotCount{
		Page: p.ref(),
	})
	if err != nil {
		return nil, translatePdfiumError(err)
	}
	if count.Count == 0 {
		return nil, nil
	}

	annot, err := p.instance.FPDFPage_GetAnnot(&requests.FPDFPage_GetAnnot{
		Page:  p.ref(),
		Index: count.Count - 1,
	})
	if err != nil {
		return nil, translatePdfiumError(err)
	}
	defer p.instance.FPDFPage_CloseAnnot(&requests.FPDFPage_CloseAnnot{
		Annotation: annot.Annotation,
	})

	subtype, err := p.instance.FPDFAnnot_GetSubtype(&requests.FPDFAnnot_GetSubtype{
		Annotation: annot.Annotation,
	})
	if err != nil {
		return nil, translatePdfiumError(err)
	}

	out := &Annotation{Subtype: AnnotationOther}
	switch subtype.Subtype {
	case enums.FPDF_ANNOT_SUBTYPE_UNKNOWN:
		out.Subtype = AnnotationUnknown
	case enums.FPDF_ANNOT_SUBTYPE_LINE:
		out.Subtype = AnnotationLine
	}

	color, err := p.instance.FPDFAnnot_GetColor(&requests.FPDFAnnot_GetColor{
		Annotation: annot.Annotation,
		ColorType:  enums.FPDFANNOT_COLORTYPE_Color,
	})
	if err == nil {
		out.HasColor = true
		out.Color = Color{R: uint8(color.R), G: uint8(color.G), B: uint8(color.B), A: uint8(color.A)}
	}
	return out, nil
}

func (p *pdfiumPage) Close() error {
	_, err := p.instance.FPDF_ClosePage(&requests.FPDF_ClosePage{
		Page: p.page,
	})
	return err
}

type pdfiumText struct {
	instance pdfium.Pdfium
	text     references.FPDF_TEXTPAGE
}

// Text returns at most maxChars UTF-16 code units, little-endian.
func (t *pdfiumText) Text(maxChars int) ([]byte, error) {
	resp, err := t.instance.FPDFText_GetText(&requests.FPDFText_GetText{
		TextPage:   t.text,
		StartIndex: 0,
		Count:      maxChars,
	})
	if err != nil {
		return nil, translatePdfiumError(err)
	}
	return encodeUTF16LE(resp.Text)
}

func (t *pdfiumText) Close() error {
	_, err := t.instance.FPDFText_ClosePage(&requests.FPDFText_ClosePage{
		TextPage: t.text,
	})
	return err
}
