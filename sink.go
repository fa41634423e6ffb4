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
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Output file names, relative to the output directory.
const (
	PageCountFile = "page-count"
	ErrorFile     = "error.txt"
)

// Per-page output file extensions.
const (
	ExtIsOcr     = "is-ocr"
	ExtThumbnail = "png"
	ExtExport    = "pdf"
	ExtText      = "txt"
)

// PageFile returns the output file name of one artifact of the page with the
// given 1-based number, e.g. PageFile(2, ExtText) == "p2.txt".
func PageFile(number int, ext string) string {
	return fmt.Sprintf("p%d.%s", number, ext)
}

// Sink materializes output files.
type Sink interface {
	// Create opens the named file for writing, truncating it if it exists.
	Create(name string) (io.WriteCloser, error)
}

// DirSink writes output files into a directory.
type DirSink struct {
	Dir string
}

func (s DirSink) Create(name string) (io.WriteCloser, error) {
	return os.Create(filepath.Join(s.Dir, name))
}
