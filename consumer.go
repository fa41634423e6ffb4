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
	"strconv"

	"github.com/rs/zerolog"
)

type consumerState int

const (
	awaitFirstTag consumerState = iota
	awaitPageOrFooter
	awaitFooter
	consumerDone
)

func (s consumerState) String() string {
	switch s {
	case awaitFirstTag:
		return "await-first-tag"
	case awaitPageOrFooter:
		return "await-page-or-footer"
	case awaitFooter:
		return "await-footer"
	case consumerDone:
		return "done"
	default:
		return fmt.Sprintf("consumerState(%d)", int(s))
	}
}

// consumer decodes Header? Page* Footer and writes one file per field. Files
// written before a StreamFormatError are left in place. Failures to create
// or write an output file are logged and otherwise ignored; the blob is
// still drained so the stream stays aligned.
type consumer struct {
	in     *FrameReader
	sink   Sink
	logger zerolog.Logger

	state     consumerState
	remaining uint32
	pages     int
}

func (c *consumer) run() error {
	for c.state != consumerDone {
		var err error
		switch c.state {
		case awaitFirstTag:
			err = c.firstRecord()
		case awaitPageOrFooter:
			err = c.pageOrFooter()
		case awaitFooter:
			err = c.lastRecord()
		}
		if err != nil {
			c.logger.Error().Err(err).Str("state", c.state.String()).Int("pages", c.pages).Msg("malformed input stream")
			return err
		}
	}
	c.logger.Debug().Int("pages", c.pages).Msg("stream decoded")
	return nil
}

func (c *consumer) firstRecord() error {
	const expected = "HEADER or FOOTER"
	tag, err := c.in.ReadTag(expected)
	if err != nil {
		return err
	}
	switch tag {
	case TagHeader:
		return c.header()
	case TagFooter:
		return c.footer()
	default:
		return formatErrorf(ErrUnexpectedTag, "expected %s; got %s", expected, tag)
	}
}

func (c *consumer) header() error {
	n, err := c.in.ReadSize()
	if err != nil {
		return err
	}
	if n == 0 {
		return &StreamFormatError{Reason: ErrZeroPages}
	}
	c.writeFile(PageCountFile, []byte(strconv.FormatUint(uint64(n), 10)))
	c.remaining = n
	c.state = awaitPageOrFooter
	return nil
}

func (c *consumer) pageOrFooter() error {
	const expected = "PAGE or FOOTER"
	tag, err := c.in.ReadTag(expected)
	if err != nil {
		return err
	}
	switch tag {
	case TagPage:
		if err := c.page(); err != nil {
			return err
		}
		c.remaining--
		if c.remaining == 0 {
			c.state = awaitFooter
		}
		return nil
	case TagFooter:
		c.logger.Debug().Uint32("missing", c.remaining).Msg("footer before declared page count")
		return c.footer()
	default:
		return formatErrorf(ErrUnexpectedTag, "expected %s; got %s", expected, tag)
	}
}

func (c *consumer) lastRecord() error {
	const expected = "FOOTER"
	tag, err := c.in.ReadTag(expected)
	if err != nil {
		return err
	}
	if tag != TagFooter {
		return formatErrorf(ErrUnexpectedTag, "expected %s; got %s", expected, tag)
	}
	return c.footer()
}

func (c *consumer) page() error {
	c.pages++
	n := c.pages

	isOcr, err := c.in.ReadBool("isOcr byte")
	if err != nil {
		return err
	}
	c.writeFile(PageFile(n, ExtIsOcr), []byte(strconv.FormatBool(isOcr)))

	if err := c.blob(PageFile(n, ExtThumbnail), false); err != nil {
		return err
	}
	if err := c.blob(PageFile(n, ExtExport), false); err != nil {
		return err
	}
	return c.blob(PageFile(n, ExtText), true)
}

func (c *consumer) footer() error {
	if err := c.blob(ErrorFile, false); err != nil {
		return err
	}
	if err := c.in.ExpectEOF(); err != nil {
		return err
	}
	c.state = consumerDone
	return nil
}

// blob copies one size-prefixed blob into the named file. An empty blob
// creates the file only when always is set.
func (c *consumer) blob(name string, always bool) error {
	size, err := c.in.ReadSize()
	if err != nil {
		return err
	}
	if size == 0 && !always {
		return nil
	}
	out := c.create(name)
	defer out.Close()
	return c.in.CopyBlob(size, out)
}

func (c *consumer) writeFile(name string, data []byte) {
	out := c.create(name)
	defer out.Close()
	_, _ = out.Write(data)
}

func (c *consumer) create(name string) *artifactWriter {
	w, err := c.sink.Create(name)
	if err != nil {
		c.logger.Error().Err(err).Str("file", name).Msg("failed to open output file for writing")
		return &artifactWriter{name: name, logger: c.logger}
	}
	return &artifactWriter{name: name, w: w, logger: c.logger}
}

// artifactWriter never fails. After the first write error it logs, closes
// the file and discards the rest.
type artifactWriter struct {
	name   string
	w      io.WriteCloser
	logger zerolog.Logger
}

func (a *artifactWriter) Write(p []byte) (int, error) {
	if a.w == nil {
		return len(p), nil
	}
	if _, err := a.w.Write(p); err != nil {
		a.logger.Error().Err(err).Str("file", a.name).Msg("failed to write output file")
		_ = a.w.Close()
		a.w = nil
	}
	return len(p), nil
}

func (a *artifactWriter) Close() error {
	if a.w == nil {
		return nil
	}
	err := a.w.Close()
	a.w = nil
	if err != nil {
		a.logger.Error().Err(err).Str("file", a.name).Msg("failed to close output file")
	}
	return nil
}
