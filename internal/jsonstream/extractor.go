// Package jsonstream recovers discrete top-level JSON values from an
// unbounded, arbitrarily-chunked text stream. It is not a general JSON
// parser: it brace-matches candidate objects out of noisy model output and
// lets encoding/json decide whether each candidate is real.
package jsonstream

import (
	"bytes"
	"encoding/json"
	"iter"
)

// Extractor accumulates stream chunks and emits each complete top-level
// JSON object in the order its closing brace arrives. Chunk boundaries
// carry no meaning; feeding the same text in different splits yields the
// same objects.
//
// The scan counts brace depth without tokenizing string literals, so an
// unbalanced brace inside a quoted string can desynchronize a candidate.
// A failed parse advances the scan one character past the candidate's
// opening brace and retries, which lets the extractor re-synchronize on
// the next object. A trailing incomplete object at stream end is never
// emitted.
type Extractor struct {
	buf    []byte
	search int // offset of the next candidate scan
}

// NewExtractor creates an empty extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Feed appends a chunk and returns every object whose closing brace is now
// buffered, in completion order. Returns nil when no object completed.
func (e *Extractor) Feed(chunk string) []json.RawMessage {
	e.buf = append(e.buf, chunk...)

	var out []json.RawMessage
	for {
		rel := bytes.IndexByte(e.buf[e.search:], '{')
		if rel < 0 {
			// No candidate opener; everything buffered so far is noise,
			// but keep it in case a multi-byte sequence is split. The
			// search offset already skips it.
			e.search = len(e.buf)
			return out
		}
		start := e.search + rel

		end := matchDepth(e.buf, start, '{', '}')
		if end < 0 {
			// Object still open; wait for more chunks.
			e.search = start
			return out
		}

		candidate := e.buf[start : end+1]
		if !json.Valid(candidate) {
			// Brace counting was fooled (typically a brace inside a
			// string). Re-scan one character later without discarding.
			e.search = start + 1
			continue
		}

		obj := make(json.RawMessage, len(candidate))
		copy(obj, candidate)
		out = append(out, obj)

		rest := e.buf[end+1:]
		e.buf = append(e.buf[:0:0], rest...)
		e.search = 0
	}
}

// Objects adapts a lazy chunk sequence into a lazy object sequence using a
// fresh Extractor. The sequence ends when the chunks end; a trailing
// incomplete object is dropped silently.
func Objects(chunks iter.Seq[string]) iter.Seq[json.RawMessage] {
	return func(yield func(json.RawMessage) bool) {
		ex := NewExtractor()
		for chunk := range chunks {
			for _, obj := range ex.Feed(chunk) {
				if !yield(obj) {
					return
				}
			}
		}
	}
}

// ExtractArray locates the first balanced top-level JSON array in text and
// returns it, applying the same depth-matching and parse-or-advance rule
// the object scan uses. Reports false when no valid array is present.
func ExtractArray(text string) (json.RawMessage, bool) {
	data := []byte(text)
	search := 0
	for {
		rel := bytes.IndexByte(data[search:], '[')
		if rel < 0 {
			return nil, false
		}
		start := search + rel

		end := matchDepth(data, start, '[', ']')
		if end < 0 {
			return nil, false
		}

		candidate := data[start : end+1]
		if json.Valid(candidate) {
			out := make(json.RawMessage, len(candidate))
			copy(out, candidate)
			return out, true
		}
		search = start + 1
	}
}

// matchDepth scans from the opener at data[start], counting nesting depth,
// and returns the index of the closer that returns depth to zero, or -1 if
// the buffered data ends first.
func matchDepth(data []byte, start int, open, close byte) int {
	depth := 0
	for i := start; i < len(data); i++ {
		switch data[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
