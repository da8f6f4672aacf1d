package core

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

var standoffID = regexp.MustCompile(`^T\d+$`)

// ParseStandoff reads text-bound annotations in brat standoff format
// ("T9\tPERS 778 783\ttoken", one per line). Lines that do not describe a
// single-span text-bound annotation are skipped.
func ParseStandoff(markup string) []Entity {
	var entities []Entity
	for _, line := range strings.Split(markup, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 4 || !standoffID.MatchString(fields[0]) {
			continue
		}
		start, err := strconv.Atoi(fields[2])
		if err != nil {
			continue
		}
		end, err := strconv.Atoi(fields[3])
		if err != nil {
			continue
		}
		span := Span{Start: start, End: end}
		if !span.Valid() {
			continue
		}
		entities = append(entities, Entity{ID: fields[0], Type: fields[1], Spans: []Span{span}})
	}
	return entities
}

// FromStandoff builds a Document from tokenized text and standoff markup.
//
// Sentences are separated by newlines and tokens by single spaces; offsets
// count characters, not bytes.
func FromStandoff(text, markup string, now time.Time) *Document {
	doc := &Document{
		Text:     text,
		Entities: ParseStandoff(markup),
		Comments: []Comment{},
	}

	if text != "" {
		idx := 0
		for _, sentence := range strings.Split(text, "\n") {
			length := utf8.RuneCountInString(sentence)
			doc.SentenceOffsets = append(doc.SentenceOffsets, Span{Start: idx, End: idx + length})

			// Leading whitespace is trimmed before splitting but offsets keep
			// counting from the start of the line.
			tokenIdx := idx
			for _, token := range strings.Split(strings.TrimSpace(sentence), " ") {
				n := utf8.RuneCountInString(token)
				doc.TokenOffsets = append(doc.TokenOffsets, Span{Start: tokenIdx, End: tokenIdx + n})
				tokenIdx += n + 1
			}
			idx += length + 1
		}
	}

	doc.Extra = documentDefaults(now)
	return doc
}

// documentDefaults are the passthrough keys a freshly converted document carries.
func documentDefaults(now time.Time) map[string]json.RawMessage {
	ts := strconv.FormatInt(now.Unix(), 10)
	return map[string]json.RawMessage{
		"modifications":  json.RawMessage(`[]`),
		"equivs":         json.RawMessage(`[]`),
		"triggers":       json.RawMessage(`[]`),
		"relations":      json.RawMessage(`[]`),
		"normalizations": json.RawMessage(`[]`),
		"attributes":     json.RawMessage(`[]`),
		"events":         json.RawMessage(`[]`),
		"messages":       json.RawMessage(`[]`),
		"source_files":   json.RawMessage(`["ann","txt"]`),
		"ctime":          json.RawMessage(ts),
		"mtime":          json.RawMessage(ts),
		"protocol":       json.RawMessage(`1`),
		"action":         json.RawMessage(`"getDocument"`),
		"document":       json.RawMessage(`""`),
		"collection":     json.RawMessage(`"/"`),
	}
}
