package core

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	taggedSentence = regexp.MustCompile(`<S>(.*)</S>`)
	taggedWord     = regexp.MustCompile(`([^\[]*)\[([^\]]*)\]`)
)

// FromTagged builds an unannotated Document from a tagged corpus where every
// sentence is wrapped in <S>...</S> and each word is followed by a bracketed
// tag ("Київ[noun] є[verb]"). Tags are dropped.
//
// Sentences end with a newline that is part of their offsets. Spaces around a
// word are kept in the text but not in its token.
func FromTagged(name, content string, now time.Time) *Document {
	var text strings.Builder
	length := 0
	write := func(s string) {
		text.WriteString(s)
		length += utf8.RuneCountInString(s)
	}

	doc := &Document{Comments: []Comment{}, Entities: []Entity{}}
	for _, m := range taggedSentence.FindAllStringSubmatch(content, -1) {
		sentenceStart := length
		for _, w := range taggedWord.FindAllStringSubmatch(m[1], -1) {
			word := w[1]
			leading := len(word) - len(strings.TrimLeft(word, " "))
			trailing := len(word) - len(strings.TrimRight(word, " "))
			word = strings.TrimSpace(word)

			write(strings.Repeat(" ", leading))
			start := length
			write(word)
			if length > start {
				doc.TokenOffsets = append(doc.TokenOffsets, Span{Start: start, End: length})
			}
			write(strings.Repeat(" ", trailing))
		}
		write("\n")
		doc.SentenceOffsets = append(doc.SentenceOffsets, Span{Start: sentenceStart, End: length})
	}

	doc.Text = text.String()
	doc.Extra = documentDefaults(now)
	if encoded, err := json.Marshal(name); err == nil {
		doc.Extra["file_id"] = encoded
	}
	return doc
}
