// Package frame implements the stateful frame extractor described in spec
// §4.2: it consumes raw chunks from the streaming transport and yields
// fully-decoded JSON records, carrying any unterminated suffix forward in an
// internal buffer.
package frame

import (
	"bytes"
	"encoding/json"

	streamerrors "github.com/eternisai/socialstream/internal/errors"
)

// Extractor reassembles \r-terminated JSON records across arbitrary chunk
// boundaries. It is not safe for concurrent use — the session actor that
// owns one only ever calls it from its single mailbox goroutine.
type Extractor struct {
	buffer []byte
}

// New returns an empty extractor.
func New() *Extractor {
	return &Extractor{}
}

// Reset clears the buffer. Called when a new streaming request's headers
// arrive (spec §4.4.C: headers event resets buffer to empty).
func (e *Extractor) Reset() {
	e.buffer = nil
}

// Consume splits chunk on '\r', decodes every complete segment as JSON, and
// keeps a trailing incomplete segment buffered for the next call. It
// returns the records decoded from this call, in wire order, and any
// decode error encountered on a non-terminal segment (spec §4.2 item 4).
//
// On a decode error, already-decoded records from earlier in this same
// chunk are still returned — only the failing segment itself is dropped
// (see SPEC_FULL.md's resolution of the corresponding Open Question in
// spec.md §9).
func (e *Extractor) Consume(chunk []byte) ([]json.RawMessage, error) {
	if len(chunk) == 0 || (len(chunk) == 1 && chunk[0] == '\n') {
		return nil, nil
	}

	// Every segment but the last is bounded by a '\r' on both sides (or by
	// the start of buffered data) and is therefore complete; the last
	// segment — even if empty, even if there was no '\r' anywhere in this
	// chunk — is never assumed complete and becomes the new buffer unless
	// it happens to decode on its own (spec §4.2 item 1).
	segments := bytes.Split(chunk, []byte{'\r'})

	var records []json.RawMessage
	var decodeErr error

	for i, seg := range segments {
		last := i == len(segments)-1

		var candidate []byte
		if i == 0 {
			candidate = append(append([]byte{}, e.buffer...), seg...)
		} else {
			candidate = seg
		}

		if isSkippable(candidate) {
			if last {
				e.buffer = nil
			}
			continue
		}

		var record json.RawMessage
		if err := json.Unmarshal(candidate, &record); err != nil {
			if last {
				// The last segment lacks a trailing \r; it may simply be
				// incomplete — retain it as the new buffer rather than
				// treating it as a decode error (spec §4.2, §8: "A final
				// record lacking \r ... is retained in buffer if it does
				// not [decode]").
				e.buffer = append([]byte{}, candidate...)
				break
			}

			decodeErr = &streamerrors.InvalidJSONError{Segment: string(candidate), Cause: err}
			e.buffer = nil
			continue
		}

		records = append(records, record)
		if last {
			e.buffer = nil
		}
	}

	return records, decodeErr
}

// Append adds bytes to the buffer without attempting to decode them, used
// while accumulating a non-200 response's error body (spec §4.4.C).
func (e *Extractor) Append(chunk []byte) {
	e.buffer = append(e.buffer, chunk...)
}

// PendingBuffer returns the current unterminated suffix, used to recover
// an accumulated error body once a non-200 response ends (spec §4.4.C:
// "the entire error body is accumulated until end-of-response").
func (e *Extractor) PendingBuffer() []byte {
	return e.buffer
}

// isSkippable reports whether a segment contributes nothing (empty, or a
// lone '\n' left over from the wire) and should be silently dropped.
func isSkippable(seg []byte) bool {
	return len(seg) == 0 || (len(seg) == 1 && seg[0] == '\n')
}
