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
	"math"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
)

type producerState int

const (
	producerStart producerState = iota
	producerHeaderEmitted
	producerPageEmitted
	producerFooterEmitted
)

func (s producerState) String() string {
	switch s {
	case producerStart:
		return "start"
	case producerHeaderEmitted:
		return "header-emitted"
	case producerPageEmitted:
		return "page-emitted"
	case producerFooterEmitted:
		return "footer-emitted"
	default:
		return fmt.Sprintf("producerState(%d)", int(s))
	}
}

// producer drives one document through the Extractor and writes
// Header? Page* Footer. It stops at the first failure: the failure becomes
// the Footer and nothing follows it.
type producer struct {
	engine      Engine
	extractor   *Extractor
	out         *FrameWriter
	onlyExtract bool
	logger      zerolog.Logger

	state     producerState
	doc       Document
	pageCount int
	next      int
}

// run returns an error only when the stream itself cannot be written. Engine
// failures end up in the Footer.
func (p *producer) run(path string) error {
	defer p.closeDocument()

	for p.state != producerFooterEmitted {
		var err error
		switch p.state {
		case producerStart:
			err = p.open(path)
		case producerHeaderEmitted, producerPageEmitted:
			err = p.nextPage()
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *producer) open(path string) error {
	p.sniff(path)

	doc, err := p.engine.OpenDocument(path)
	if err != nil {
		return p.fail(engineError(StageOpen, -1, err))
	}
	p.doc = doc

	n, err := doc.PageCount()
	if err != nil {
		return p.fail(engineError(StageOpen, -1, err))
	}
	if n <= 0 {
		return p.fail(engineError(StagePages, -1, ErrZeroPages))
	}
	if uint64(n) > math.MaxUint32 {
		return p.fail(engineError(StagePages, -1, ErrTooManyPages))
	}
	p.pageCount = n
	p.logger.Debug().Int("pages", n).Msg("document opened")

	if err := p.emit(HeaderRecord{PageCount: uint32(n)}); err != nil {
		return err
	}
	p.state = producerHeaderEmitted
	return nil
}

func (p *producer) nextPage() error {
	if p.next == p.pageCount {
		return p.finish("")
	}

	rec, err := p.extractor.ExtractPage(p.doc, p.next, p.capabilities(p.next))
	if err != nil {
		return p.fail(err)
	}
	if err := p.emit(*rec); err != nil {
		return err
	}
	p.logger.Debug().Int("page", p.next+1).Int("pages", p.pageCount).Msg("page emitted")

	p.next++
	p.state = producerPageEmitted
	return nil
}

// capabilities: only-extract mode still thumbnails the first page.
func (p *producer) capabilities(index int) Capabilities {
	return Capabilities{
		Thumbnail: !p.onlyExtract || index == 0,
		Export:    !p.onlyExtract,
	}
}

func (p *producer) fail(err error) error {
	p.logger.Warn().Err(err).Int("pagesEmitted", p.next).Msg("ending stream with error footer")
	return p.finish(err.Error())
}

func (p *producer) finish(message string) error {
	p.state = producerFooterEmitted
	return p.emit(FooterRecord{Error: message})
}

func (p *producer) emit(r Record) error {
	if err := p.out.WriteRecord(r); err != nil {
		return fmt.Errorf("write %s record: %w", r.Tag(), err)
	}
	if err := p.out.Flush(); err != nil {
		return fmt.Errorf("flush %s record: %w", r.Tag(), err)
	}
	return nil
}

// sniff only warns; the engine has the final word on what it can open.
func (p *producer) sniff(path string) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		p.logger.Debug().Err(err).Str("path", path).Msg("cannot sniff input type")
		return
	}
	if !mtype.Is("application/pdf") {
		p.logger.Warn().Str("path", path).Str("mimeType", mtype.String()).Msg("input does not look like a PDF")
	}
}

func (p *producer) closeDocument() {
	if p.doc == nil {
		return
	}
	if err := p.doc.Close(); err != nil {
		p.logger.Warn().Err(err).Msg("failed to close document")
	}
	p.doc = nil
}
