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
	"errors"
	"fmt"
	"io"
)

// fakeEngine serves a single in-memory document.
type fakeEngine struct {
	doc     *fakeDocument
	openErr error
	opened  []string
	closed  bool
}

func (e *fakeEngine) OpenDocument(path string) (Document, error) {
	e.opened = append(e.opened, path)
	if e.openErr != nil {
		return nil, e.openErr
	}
	if e.doc == nil {
		return nil, errors.New("file not found or could not be opened")
	}
	return e.doc, nil
}

func (e *fakeEngine) Close() error {
	e.closed = true
	return nil
}

type fakePage struct {
	width, height float64
	sizeErr       error
	renderErr     error

	text        string
	rawText     []byte // used instead of text when set
	loadTextErr error
	textErr     error

	annot    *Annotation
	annotErr error

	export    []byte
	exportErr error
}

// fakeDocument records every call so tests can check ordering and handle
// balance.
type fakeDocument struct {
	pages     []*fakePage
	pageCount *int // overrides len(pages)
	countErr  error
	loadErr   map[int]error

	openHandles int
	loaded      []int
	rendered    []int
	textRead    []int
	exported    []int
	closed      bool
}

func newFakeDocument(pages ...*fakePage) *fakeDocument {
	return &fakeDocument{pages: pages, loadErr: map[int]error{}}
}

// textPage returns a letter-sized page with the given text.
func textPage(text string) *fakePage {
	return &fakePage{width: 612, height: 792, text: text, export: []byte("%PDF-" + text)}
}

func (d *fakeDocument) PageCount() (int, error) {
	if d.countErr != nil {
		return 0, d.countErr
	}
	if d.pageCount != nil {
		return *d.pageCount, nil
	}
	return len(d.pages), nil
}

func (d *fakeDocument) LoadPage(index int) (Page, error) {
	d.loaded = append(d.loaded, index)
	if err := d.loadErr[index]; err != nil {
		return nil, err
	}
	if index < 0 || index >= len(d.pages) {
		return nil, fmt.Errorf("page not found or content error")
	}
	d.openHandles++
	return &fakePageHandle{doc: d, index: index, page: d.pages[index]}, nil
}

func (d *fakeDocument) ExportPage(index int) ([]byte, error) {
	d.exported = append(d.exported, index)
	p := d.pages[index]
	if p.exportErr != nil {
		return nil, p.exportErr
	}
	return p.export, nil
}

func (d *fakeDocument) Close() error {
	d.closed = true
	return nil
}

type fakePageHandle struct {
	doc   *fakeDocument
	index int
	page  *fakePage
}

func (h *fakePageHandle) Size() (float64, float64, error) {
	return h.page.width, h.page.height, h.page.sizeErr
}

// Render fills the buffer with one BGRA color: blue 0x10, green 0x20,
// red 0x30 and a transparent alpha.
func (h *fakePageHandle) Render(width, height int) (*PixelBuffer, error) {
	h.doc.rendered = append(h.doc.rendered, h.index)
	if h.page.renderErr != nil {
		return nil, h.page.renderErr
	}
	stride := 4 * width
	pix := make([]byte, stride*height)
	for i := 0; i < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = 0x10, 0x20, 0x30, 0x00
	}
	return &PixelBuffer{Width: width, Height: height, Stride: stride, Pix: pix}, nil
}

func (h *fakePageHandle) LoadText() (TextLayer, error) {
	if h.page.loadTextErr != nil {
		return nil, h.page.loadTextErr
	}
	h.doc.openHandles++
	return &fakeTextLayer{handle: h}, nil
}

func (h *fakePageHandle) LastAnnotation() (*Annotation, error) {
	return h.page.annot, h.page.annotErr
}

func (h *fakePageHandle) Close() error {
	h.doc.openHandles--
	return nil
}

type fakeTextLayer struct {
	handle *fakePageHandle
}

func (t *fakeTextLayer) Text(maxChars int) ([]byte, error) {
	h := t.handle
	h.doc.textRead = append(h.doc.textRead, h.index)
	if h.page.textErr != nil {
		return nil, h.page.textErr
	}
	raw := h.page.rawText
	if raw == nil {
		var err error
		if raw, err = encodeUTF16LE(h.page.text); err != nil {
			return nil, err
		}
	}
	if len(raw) > 2*maxChars {
		raw = raw[:2*maxChars]
	}
	return append([]byte(nil), raw...), nil
}

func (t *fakeTextLayer) Close() error {
	t.handle.doc.openHandles--
	return nil
}

// memSink keeps output files in memory.
type memSink struct {
	files     map[string][]byte
	order     []string
	createErr map[string]error
	writeErr  map[string]error
}

func newMemSink() *memSink {
	return &memSink{files: map[string][]byte{}, createErr: map[string]error{}, writeErr: map[string]error{}}
}

func (s *memSink) Create(name string) (io.WriteCloser, error) {
	if err := s.createErr[name]; err != nil {
		return nil, err
	}
	s.files[name] = []byte{}
	s.order = append(s.order, name)
	return &memFile{sink: s, name: name}, nil
}

type memFile struct {
	sink *memSink
	name string
}

func (f *memFile) Write(p []byte) (int, error) {
	if err := f.sink.writeErr[f.name]; err != nil {
		return 0, err
	}
	f.sink.files[f.name] = append(f.sink.files[f.name], p...)
	return len(p), nil
}

func (f *memFile) Close() error { return nil }
