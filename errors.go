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
)

// Reasons a byte stream is rejected as malformed. Every StreamFormatError
// unwraps to exactly one of these.
var (
	ErrUnexpectedTag = errors.New("unexpected tag")
	ErrTruncatedSize = errors.New("truncated size")
	ErrTruncatedBlob = errors.New("truncated blob")
	ErrInvalidBool   = errors.New("invalid boolean byte")
	ErrTrailingBytes = errors.New("extra bytes after footer")
	ErrZeroPages     = errors.New("expected non-zero number of pages")
)

// ErrTooManyPages is the cause of an EngineError when a document's page
// count does not fit the 4-byte Header field.
var ErrTooManyPages = errors.New("page count exceeds 4294967295")

// ErrOutOfMemory is the cause of an EngineError when a pixel buffer cannot be
// allocated or the raster encoder fails.
var ErrOutOfMemory = errors.New("out of memory")

// StreamFormatError is returned when the framed byte stream is malformed. It
// is fatal to the reading side.
type StreamFormatError struct {
	Reason error
	Detail string
}

func (e *StreamFormatError) Error() string {
	if e.Detail == "" {
		return e.Reason.Error()
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

func (e *StreamFormatError) Unwrap() error {
	return e.Reason
}

func formatErrorf(reason error, format string, args ...any) *StreamFormatError {
	return &StreamFormatError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// Stage names the producer step an EngineError came from.
type Stage string

const (
	StageOpen      Stage = "open"
	StagePages     Stage = "pages"
	StagePage      Stage = "page"
	StageThumbnail Stage = "thumbnail"
	StageText      Stage = "text"
	StageExport    Stage = "export"
)

var stagePrefixes = map[Stage]string{
	StageOpen:      "Failed to open PDF",
	StagePage:      "Failed to read PDF page",
	StageThumbnail: "Failed to render PDF thumbnail",
	StageText:      "Failed to read text from PDF page",
	StageExport:    "Failed to export PDF page",
}

// EngineError is a document- or page-level failure reported by the rendering
// engine. The producer converts it into a Footer; its Error() is the footer
// text.
type EngineError struct {
	Stage Stage
	Page  int // zero-based; -1 when not page-specific
	Err   error
}

func (e *EngineError) Error() string {
	prefix, ok := stagePrefixes[e.Stage]
	if !ok {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", prefix, e.Err)
}

func (e *EngineError) Unwrap() error {
	return e.Err
}

func engineError(stage Stage, page int, err error) *EngineError {
	return &EngineError{Stage: stage, Page: page, Err: err}
}

// IsStreamFormat reports whether the error is a StreamFormatError.
func IsStreamFormat(err error) bool {
	var target *StreamFormatError
	return errors.As(err, &target)
}

// IsEngine reports whether the error is an EngineError.
func IsEngine(err error) bool {
	var target *EngineError
	return errors.As(err, &target)
}
