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
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	doc := newFakeDocument(textPage("one"), textPage("two"))
	doc.pages[0].annot = &Annotation{Subtype: AnnotationLine, Color: OcrMarkerColor, HasColor: true}
	sink := newMemSink()

	p := New(WithEngine(&fakeEngine{doc: doc}), WithChunkSize(64))
	require.NoError(t, p.Split(context.Background(), "document.pdf", sink))

	assert.Equal(t, []string{
		"page-count",
		"p1.is-ocr", "p1.png", "p1.pdf", "p1.txt",
		"p2.is-ocr", "p2.png", "p2.pdf", "p2.txt",
	}, sink.order)
	assert.Equal(t, "2", string(sink.files["page-count"]))
	assert.Equal(t, "true", string(sink.files["p1.is-ocr"]))
	assert.Equal(t, "false", string(sink.files["p2.is-ocr"]))
	assert.Equal(t, "two", string(sink.files["p2.txt"]))
	assert.Equal(t, "%PDF-one", string(sink.files["p1.pdf"]))
}

func TestSplitEngineFailureEndsInErrorFile(t *testing.T) {
	engine := &fakeEngine{openErr: errors.New("file is not a valid PDF")}
	sink := newMemSink()

	require.NoError(t, New(WithEngine(engine)).Split(context.Background(), "broken.pdf", sink))
	assert.Equal(t, []string{"error.txt"}, sink.order)
	assert.Equal(t, "Failed to open PDF: file is not a valid PDF", string(sink.files["error.txt"]))
}

func TestSplitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(WithEngine(&fakeEngine{doc: newFakeDocument(textPage("one"))}))
	err := p.Split(ctx, "document.pdf", newMemSink())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSplitWithoutEngine(t *testing.T) {
	err := New().Split(context.Background(), "document.pdf", newMemSink())
	assert.ErrorIs(t, err, ErrNoEngine)
}
