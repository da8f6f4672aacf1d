package core

import (
	"fmt"
	"sort"
	"strings"
)

type taggedSpan struct {
	tag   string
	start int
	end   int
}

// ToIOB renders doc as IOB lines: "<token> B-TYPE", "<token> I-TYPE" or "<token> O",
// with an empty line between sentences.
//
// Each span of a discontinuous entity is tagged as an entity of its own. Text
// between tokens that is longer than a single separator, and text after the
// last token, are emitted verbatim with the O tag. Offsets are character based.
func ToIOB(doc *Document) (string, error) {
	if doc == nil {
		return "", ErrIncompleteDocument
	}
	if len(doc.TokenOffsets) > 0 && len(doc.SentenceOffsets) == 0 {
		return "", fmt.Errorf("%w: %d tokens but no sentences", ErrIncompleteDocument, len(doc.TokenOffsets))
	}

	text := []rune(doc.Text)
	sentences := sortedSpans(doc.SentenceOffsets)
	tokens := sortedSpans(doc.TokenOffsets)

	var entities []taggedSpan
	for _, e := range doc.Entities {
		for _, s := range e.Spans {
			entities = append(entities, taggedSpan{tag: e.Type, start: s.Start, end: s.End})
		}
	}
	sort.SliceStable(entities, func(i, j int) bool { return entities[i].start < entities[j].start })

	slice := func(start, end int) (string, error) {
		if start < 0 || end > len(text) || start > end {
			return "", fmt.Errorf("%w: span [%d, %d] outside text of length %d", ErrIncompleteDocument, start, end, len(text))
		}
		return string(text[start:end]), nil
	}

	var lines []string
	sentence, entity, prev := 0, 0, 0
	for _, tok := range tokens {
		if tok.Start > prev+1 {
			between, err := slice(prev, tok.Start)
			if err != nil {
				return "", err
			}
			lines = append(lines, between+" O")
		}

		// Past the last sentence no further breaks are emitted.
		if sentence < len(sentences) && tok.Start > sentences[sentence].End {
			sentence++
			lines = append(lines, "")
		}

		tag := " O"
		if entity < len(entities) {
			e := entities[entity]
			if e.end > tok.Start && tok.Start >= e.start {
				if tok.Start == e.start {
					tag = " B-" + e.tag
				} else {
					tag = " I-" + e.tag
				}
			}
			if tok.End >= e.end {
				entity++
			}
		}

		word, err := slice(tok.Start, tok.End)
		if err != nil {
			return "", err
		}
		lines = append(lines, word+tag)
		prev = tok.End
	}

	if prev < len(text) {
		lines = append(lines, string(text[prev:])+" O")
	}
	return strings.Join(lines, "\n"), nil
}

func sortedSpans(spans []Span) []Span {
	out := append([]Span(nil), spans...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}
