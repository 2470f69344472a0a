// Package urlbuilder translates streaming-method options into a query
// string, per spec §4.1. It is a pure function with no I/O: building the
// same options twice yields the same URL (spec §8 round-trip property).
package urlbuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// Option is one tagged (name, value) pair in the order the caller supplied
// it. Recognized names are count, delimited, follow, track and locations;
// anything else is forwarded untouched as a residual option for the
// transport layer.
type Option struct {
	Name  string
	Value interface{}
}

// Count returns a count option (spec: -150000..150000).
func Count(n int) Option { return Option{Name: "count", Value: n} }

// Delimited returns the delimited option. Its wire value is the fixed
// token "length" (spec §4.1: "delimited = length" renders as the literal
// query "delimited=length"), not a caller-supplied number.
func Delimited() Option { return Option{Name: "delimited"} }

// Follow returns a follow option (decimal user IDs).
func Follow(ids []int64) Option { return Option{Name: "follow", Value: ids} }

// Track returns a track option (comma-separated terms, unescaped).
func Track(terms []string) Option { return Option{Name: "track", Value: terms} }

// Location is one (southwest, northeast) bounding-box corner pair element.
type Location [4]float64

// Locations returns a locations option.
func Locations(boxes []Location) Option { return Option{Name: "locations", Value: boxes} }

// recognized reports whether name is a query parameter this package knows
// how to render; everything else is a residual option.
func recognized(name string) bool {
	switch name {
	case "count", "delimited", "follow", "track", "locations":
		return true
	default:
		return false
	}
}

// Build renders base + the recognized options into a query-string URL, and
// returns the options this package didn't recognize, plus any recognized
// option whose value is not of the expected Go type (forwarded to the
// transport layer unchanged, in their original order). No percent-encoding
// is applied to option values — an inherited limitation: callers passing
// non-ASCII track terms will produce a malformed URL (spec §4.1, §9).
func Build(base string, options []Option) (url string, residual []Option) {
	var b strings.Builder
	b.WriteString(base)

	first := true
	sep := func() byte {
		if first {
			first = false
			return '?'
		}
		return '&'
	}

	for _, opt := range options {
		if !recognized(opt.Name) {
			residual = append(residual, opt)
			continue
		}

		rendered, ok := render(opt)
		if !ok {
			residual = append(residual, opt)
			continue
		}

		b.WriteByte(sep())
		b.WriteString(opt.Name)
		b.WriteByte('=')
		b.WriteString(rendered)
	}

	return b.String(), residual
}

func render(opt Option) (string, bool) {
	switch opt.Name {
	case "count":
		n, ok := opt.Value.(int)
		if !ok {
			return "", false
		}
		return strconv.Itoa(n), true
	case "delimited":
		return "length", true
	case "follow":
		ids, ok := opt.Value.([]int64)
		if !ok {
			return "", false
		}
		parts := make([]string, len(ids))
		for i, id := range ids {
			parts[i] = strconv.FormatInt(id, 10)
		}
		return strings.Join(parts, ","), true
	case "track":
		terms, ok := opt.Value.([]string)
		if !ok {
			return "", false
		}
		return strings.Join(terms, ","), true
	case "locations":
		boxes, ok := opt.Value.([]Location)
		if !ok {
			return "", false
		}
		parts := make([]string, 0, len(boxes)*4)
		for _, box := range boxes {
			for _, coord := range box {
				parts = append(parts, formatCoord(coord))
			}
		}
		return strings.Join(parts, ","), true
	default:
		return "", false
	}
}

// formatCoord renders a coordinate as a 5-significant-digit general float,
// matching spec §4.1's "5-significant-digit general float" encoding.
func formatCoord(f float64) string {
	return fmt.Sprintf("%.5g", f)
}
