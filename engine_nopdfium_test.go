//go:build nopdfium

package pdfprocessor

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPdfiumEngineWithoutPdfium(t *testing.T) {
	engine, err := NewPdfiumEngine(DefaultPdfiumConfig())
	assert.ErrorIs(t, err, ErrPdfiumUnavailable)
	assert.Nil(t, engine)

	var buf bytes.Buffer
	require.NoError(t, New().ExtractFailure(&buf, err))
	assert.Equal(t,
		[]Record{FooterRecord{Error: "Failed to open PDF: built without PDFium support"}},
		decodeRecords(t, buf.Bytes()))
}
