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
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// DefaultChunkSize bounds every single read or write of blob bytes, so a
// blob of tens of megabytes never crosses a call boundary in one piece.
const DefaultChunkSize = 1024 * 1024

var errBlobTooLarge = errors.New("blob exceeds 4-byte size prefix")

// FrameWriter writes protocol primitives: single-byte tags and booleans,
// 4-byte big-endian sizes and size-prefixed blobs.
type FrameWriter struct {
	w         *bufio.Writer
	chunkSize int
	scratch   [4]byte
}

// NewFrameWriter returns a FrameWriter that buffers writes to w. Call Flush
// to push buffered bytes downstream.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return NewFrameWriterSize(w, DefaultChunkSize)
}

// NewFrameWriterSize is like NewFrameWriter with an explicit blob chunk size.
func NewFrameWriterSize(w io.Writer, chunkSize int) *FrameWriter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &FrameWriter{w: bufio.NewWriter(w), chunkSize: chunkSize}
}

func (fw *FrameWriter) WriteTag(t Tag) error {
	return fw.w.WriteByte(byte(t))
}

func (fw *FrameWriter) WriteSize(n uint32) error {
	binary.BigEndian.PutUint32(fw.scratch[:], n)
	_, err := fw.w.Write(fw.scratch[:])
	return err
}

func (fw *FrameWriter) WriteBool(b bool) error {
	if b {
		return fw.w.WriteByte(1)
	}
	return fw.w.WriteByte(0)
}

// WriteBlob writes len(b) as a size followed by the bytes of b. An empty b
// is written as size 0 and nothing else.
func (fw *FrameWriter) WriteBlob(b []byte) error {
	if uint64(len(b)) > math.MaxUint32 {
		return fmt.Errorf("%w: %d bytes", errBlobTooLarge, len(b))
	}
	if err := fw.WriteSize(uint32(len(b))); err != nil {
		return err
	}
	for len(b) > 0 {
		n := min(len(b), fw.chunkSize)
		if _, err := fw.w.Write(b[:n]); err != nil {
			return err
		}
		b = b[n:]
	}
	return nil
}

// WriteRecord writes the record's tag followed by its body.
func (fw *FrameWriter) WriteRecord(r Record) error {
	if err := fw.WriteTag(r.Tag()); err != nil {
		return err
	}
	return r.encode(fw)
}

func (fw *FrameWriter) Flush() error {
	return fw.w.Flush()
}

// FrameReader reads protocol primitives. Every malformed or truncated input
// is reported as a *StreamFormatError.
type FrameReader struct {
	r     *bufio.Reader
	chunk []byte
}

// NewFrameReader returns a FrameReader over r.
func NewFrameReader(r io.Reader) *FrameReader {
	return NewFrameReaderSize(r, DefaultChunkSize)
}

// NewFrameReaderSize is like NewFrameReader with an explicit blob chunk size.
func NewFrameReaderSize(r io.Reader, chunkSize int) *FrameReader {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &FrameReader{r: bufio.NewReader(r), chunk: make([]byte, chunkSize)}
}

// ReadTag reads one tag byte. expected names the acceptable records for
// diagnostics, e.g. "PAGE or FOOTER".
func (fr *FrameReader) ReadTag(expected string) (Tag, error) {
	b, err := fr.r.ReadByte()
	if err != nil {
		return 0, formatErrorf(ErrUnexpectedTag, "expected %s; got %s", expected, describeReadErr(err))
	}
	t := Tag(b)
	switch t {
	case TagHeader, TagPage, TagFooter:
		return t, nil
	default:
		return 0, formatErrorf(ErrUnexpectedTag, "expected %s; got %s", expected, t)
	}
}

func (fr *FrameReader) ReadSize() (uint32, error) {
	var buf [4]byte
	n, err := io.ReadFull(fr.r, buf[:])
	if err != nil {
		if n > 0 || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, formatErrorf(ErrTruncatedSize, "expected a 4-byte integer; got %d bytes", n)
		}
		return 0, formatErrorf(ErrTruncatedSize, "%v", err)
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

// ReadBool reads a single byte that must be 0 or 1. what names the field for
// diagnostics.
func (fr *FrameReader) ReadBool(what string) (bool, error) {
	b, err := fr.r.ReadByte()
	if err != nil {
		return false, formatErrorf(ErrInvalidBool, "expected %s; got %s", what, describeReadErr(err))
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, formatErrorf(ErrInvalidBool, "expected %s of 0x0 or 0x1; got 0x%02x", what, b)
	}
}

// CopyBlob streams exactly size bytes of blob body into w, at most one chunk
// at a time. A short read is a truncated-blob StreamFormatError; a write
// error is returned as is.
func (fr *FrameReader) CopyBlob(size uint32, w io.Writer) error {
	remaining := int64(size)
	for remaining > 0 {
		chunk := fr.chunk[:min(remaining, int64(len(fr.chunk)))]
		n, err := io.ReadFull(fr.r, chunk)
		if err != nil {
			return formatErrorf(ErrTruncatedBlob, "expected %d more bytes; got %d", remaining, n)
		}
		if _, err := w.Write(chunk); err != nil {
			return err
		}
		remaining -= int64(n)
	}
	return nil
}

// ReadBlob reads a size-prefixed blob into memory. Only meant for small
// blobs such as the footer's error text.
func (fr *FrameReader) ReadBlob() ([]byte, error) {
	size, err := fr.ReadSize()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := fr.CopyBlob(size, &out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// ExpectEOF succeeds only if the stream has no bytes left. A read error
// other than io.EOF is returned wrapped.
func (fr *FrameReader) ExpectEOF() error {
	b, err := fr.r.ReadByte()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read after footer: %w", err)
	}
	return formatErrorf(ErrTrailingBytes, "first extra byte is 0x%02x", b)
}

func describeReadErr(err error) string {
	if errors.Is(err, io.EOF) {
		return "end of stream"
	}
	return err.Error()
}
