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

import "fmt"

// Tag identifies the record that follows it on the wire.
type Tag byte

const (
	TagHeader Tag = 0x1
	TagPage   Tag = 0x2
	TagFooter Tag = 0x3
)

func (t Tag) String() string {
	switch t {
	case TagHeader:
		return "HEADER"
	case TagPage:
		return "PAGE"
	case TagFooter:
		return "FOOTER"
	default:
		return fmt.Sprintf("0x%02x", byte(t))
	}
}

// Record is one unit of the wire protocol: a Header, a Page or a Footer.
type Record interface {
	Tag() Tag
	encode(w *FrameWriter) error
}

// HeaderRecord announces the number of pages. It is emitted at most once, first.
type HeaderRecord struct {
	PageCount uint32
}

// PageRecord carries the artifacts of a single page. A nil or empty Thumbnail or
// ExportedPage is encoded as a zero-length blob, meaning "absent".
type PageRecord struct {
	IsOcr        bool
	Thumbnail    []byte
	ExportedPage []byte
	Text         []byte
}

// FooterRecord terminates the stream. An empty Error means success.
type FooterRecord struct {
	Error string
}

func (HeaderRecord) Tag() Tag { return TagHeader }
func (PageRecord) Tag() Tag   { return TagPage }
func (FooterRecord) Tag() Tag { return TagFooter }

func (h HeaderRecord) encode(w *FrameWriter) error {
	return w.WriteSize(h.PageCount)
}

func (p PageRecord) encode(w *FrameWriter) error {
	if err := w.WriteBool(p.IsOcr); err != nil {
		return err
	}
	if err := w.WriteBlob(p.Thumbnail); err != nil {
		return err
	}
	if err := w.WriteBlob(p.ExportedPage); err != nil {
		return err
	}
	return w.WriteBlob(p.Text)
}

func (f FooterRecord) encode(w *FrameWriter) error {
	return w.WriteBlob([]byte(f.Error))
}
