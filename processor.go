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
	"os"

	"github.com/rs/zerolog"
)

// ErrNoEngine is returned by Extract and Split when the Processor was built
// without WithEngine.
var ErrNoEngine = errors.New("no rendering engine configured")

// Processor is the entry point for both halves of the pipeline: Extract
// turns a PDF into a framed stream, Dump turns a framed stream into files.
type Processor struct {
	engine      Engine
	onlyExtract bool
	extractor   *Extractor
	chunkSize   int
	logger      zerolog.Logger
}

// New creates a Processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		extractor: NewExtractor(),
		chunkSize: DefaultChunkSize,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.extractor.Logger = p.logger
	return p
}

// Extract opens the PDF at path and writes Header? Page* Footer to w,
// flushing after every record. Engine failures are reported in the Footer,
// so the returned error is non-nil only when w itself fails or no engine is
// configured.
func (p *Processor) Extract(path string, w io.Writer) error {
	if p.engine == nil {
		return ErrNoEngine
	}
	pr := &producer{
		engine:      p.engine,
		extractor:   p.extractor,
		out:         NewFrameWriterSize(w, p.chunkSize),
		onlyExtract: p.onlyExtract,
		logger:      p.logger.With().Str("path", path).Logger(),
	}
	return pr.run(path)
}

// Dump decodes a framed stream from r and writes each field through sink.
// It returns a *StreamFormatError when the stream is malformed; files
// written up to that point are kept.
func (p *Processor) Dump(r io.Reader, sink Sink) error {
	c := &consumer{
		in:     NewFrameReaderSize(r, p.chunkSize),
		sink:   sink,
		logger: p.logger,
	}
	return c.run()
}

// DumpDir is Dump into a directory, which is created if missing.
func (p *Processor) DumpDir(r io.Reader, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return p.Dump(r, DirSink{Dir: dir})
}

// ExtractFailure writes a stream that holds only a Footer reporting cause as
// a failure to open the document. The extractor uses it when the engine
// itself cannot be started.
func (p *Processor) ExtractFailure(w io.Writer, cause error) error {
	fw := NewFrameWriterSize(w, p.chunkSize)
	if err := fw.WriteRecord(FooterRecord{Error: engineError(StageOpen, -1, cause).Error()}); err != nil {
		return err
	}
	return fw.Flush()
}
