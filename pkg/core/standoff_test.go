package core_test

import (
	"reflect"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/aretw0/annotate/pkg/core"
)

func slice(text string, s core.Span) string {
	runes := []rune(text)
	return string(runes[s.Start:s.End])
}

func TestFromStandoff_Empty(t *testing.T) {
	doc := core.FromStandoff("", "", time.Unix(0, 0))

	if len(doc.Entities) != 0 || len(doc.TokenOffsets) != 0 || len(doc.SentenceOffsets) != 0 {
		t.Errorf("expected an empty document, got %+v", doc)
	}
	if string(doc.Extra["action"]) != `"getDocument"` {
		t.Errorf("expected getDocument passthrough, got %s", doc.Extra["action"])
	}
}

func TestFromStandoff_SentencesAndTokens(t *testing.T) {
	text := "Речення номер 1 .\nРядок другий"
	doc := core.FromStandoff(text, "", time.Now())

	var sentences []string
	for _, s := range doc.SentenceOffsets {
		sentences = append(sentences, slice(text, s))
	}
	if !reflect.DeepEqual(sentences, []string{"Речення номер 1 .", "Рядок другий"}) {
		t.Errorf("unexpected sentences: %v", sentences)
	}

	var tokens []string
	for _, s := range doc.TokenOffsets {
		tokens = append(tokens, slice(text, s))
	}
	if !reflect.DeepEqual(tokens, []string{"Речення", "номер", "1", ".", "Рядок", "другий"}) {
		t.Errorf("unexpected tokens: %v", tokens)
	}

	// Offsets count characters, not bytes.
	if doc.SentenceOffsets[0].End != utf8.RuneCountInString("Речення номер 1 .") {
		t.Errorf("offsets must be rune based: %v", doc.SentenceOffsets[0])
	}
}

func TestFromStandoff_Entities(t *testing.T) {
	text := "Речення з Токен .\nтокен Другий"
	markup := "T1\tORG 10 15\tТокен\nT2\tMISC 24 30\tДругий\n#1\tAnnotatorNotes T1\tnote\n"

	doc := core.FromStandoff(text, markup, time.Now())

	want := []core.Entity{
		{ID: "T1", Type: "ORG", Spans: []core.Span{{Start: 10, End: 15}}},
		{ID: "T2", Type: "MISC", Spans: []core.Span{{Start: 24, End: 30}}},
	}
	if !reflect.DeepEqual(doc.Entities, want) {
		t.Fatalf("expected %v, got %v", want, doc.Entities)
	}
	if got := slice(text, doc.Entities[1].Spans[0]); got != "Другий" {
		t.Errorf("entity span covers %q", got)
	}
}

func TestParseStandoff_SkipsMalformed(t *testing.T) {
	entities := core.ParseStandoff("T1 PER x 4 foo\nT2 PER 9 3 bad\nR1 Rel Arg1:T1 Arg2:T2\nT3 LOC 0 4 Kyiv")

	if len(entities) != 1 || entities[0].ID != "T3" {
		t.Errorf("expected only T3, got %v", entities)
	}
}
