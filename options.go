package pdfprocessor

import "github.com/rs/zerolog"

// Option configures a Processor.
type Option func(*Processor)

// WithEngine sets the rendering engine used by Extract and Split.
func WithEngine(e Engine) Option {
	return func(p *Processor) {
		p.engine = e
	}
}

// WithOnlyExtract limits per-page work to text plus a thumbnail of the first
// page (default: false, which thumbnails and exports every page).
func WithOnlyExtract(only bool) Option {
	return func(p *Processor) {
		p.onlyExtract = only
	}
}

// WithMaxThumbnailDimension sets the length of a thumbnail's longer side.
func WithMaxThumbnailDimension(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.extractor.MaxThumbnailDimension = n
		}
	}
}

// WithMaxTextChars bounds the UTF-16 code units of text read per page.
func WithMaxTextChars(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.extractor.MaxTextChars = n
		}
	}
}

// WithChunkSize sets the buffer size used to copy blobs through the stream.
func WithChunkSize(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.chunkSize = n
		}
	}
}

// WithLogger sets the logger (default: disabled).
func WithLogger(l zerolog.Logger) Option {
	return func(p *Processor) {
		p.logger = l
	}
}
