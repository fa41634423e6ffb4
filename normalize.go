package pdfprocessor

import (
	"golang.org/x/text/encoding/unicode"
)

// utf16le is the layout engines hand page text back in.
var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// normalizeFormFeeds replaces every form-feed code unit in UTF-16LE text with
// a space, in place. Form feed is the page separator one layer up, so it
// must never appear inside a single page's text.
func normalizeFormFeeds(text []byte) {
	for i := 0; i+1 < len(text); i += 2 {
		if text[i] == '\f' && text[i+1] == 0 {
			text[i] = ' '
		}
	}
}

// pageText turns raw UTF-16LE page text into the UTF-8 bytes sent on the
// wire:
// - form feeds become spaces (before transcoding)
// - UTF-16LE is transcoded to UTF-8
// - one trailing NUL, an artifact of the engine's text call, is dropped
//
// Only a single NUL is stripped even if the engine returned several.
func pageText(text []byte) ([]byte, error) {
	normalizeFormFeeds(text)
	out, err := utf16le.NewDecoder().Bytes(text)
	if err != nil {
		return nil, err
	}
	return stripTrailingNUL(out), nil
}

func stripTrailingNUL(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == 0 {
		return b[:n-1]
	}
	return b
}

// encodeUTF16LE is the inverse transcoding, for engines that only expose
// page text as a Go string.
func encodeUTF16LE(s string) ([]byte, error) {
	return utf16le.NewEncoder().Bytes([]byte(s))
}
