package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Segment is a run of text, marked when it matches the search query.
type Segment struct {
	Text  string
	Match bool
}

// Highlight splits text around case-insensitive occurrences of query. A blank
// query, or text with any character whose lower-case form has a different
// encoded width, yields text as a single unmarked segment.
func Highlight(text, query string) []Segment {
	if text == "" {
		return nil
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return []Segment{{Text: text}}
	}
	lowerText, ok := lowerSameWidth(text)
	if !ok {
		return []Segment{{Text: text}}
	}
	lowerQuery := strings.ToLower(query)

	var segments []Segment
	cursor := 0
	for cursor < len(text) {
		idx := strings.Index(lowerText[cursor:], lowerQuery)
		if idx < 0 {
			break
		}
		if idx > 0 {
			segments = append(segments, Segment{Text: text[cursor : cursor+idx]})
		}
		end := cursor + idx + len(lowerQuery)
		segments = append(segments, Segment{Text: text[cursor+idx : end], Match: true})
		cursor = end
	}
	if cursor < len(text) {
		segments = append(segments, Segment{Text: text[cursor:]})
	}
	return segments
}

// lowerSameWidth lower-cases text rune by rune. ok is false when a rune's
// lower-case form encodes to a different number of bytes, so byte offsets in
// the result would not line up with text.
func lowerSameWidth(text string) (string, bool) {
	var b strings.Builder
	b.Grow(len(text))
	for i, r := range text {
		if r == utf8.RuneError {
			if _, size := utf8.DecodeRuneInString(text[i:]); size == 1 {
				return "", false
			}
		}
		lower := unicode.ToLower(r)
		if utf8.RuneLen(lower) != utf8.RuneLen(r) {
			return "", false
		}
		b.WriteRune(lower)
	}
	return b.String(), true
}
