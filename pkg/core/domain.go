package core

import (
	"encoding/json"
	"fmt"
)

// CommentKind is the only comment category this system produces.
const CommentKind = "AnnotatorNotes"

// ProtocolVersion is stamped on every response envelope.
const ProtocolVersion = 1

// Span is a half-open [Start, End) range of character offsets into the document text.
type Span struct {
	Start int
	End   int
}

// Valid reports whether the span is non-negative and ordered.
func (s Span) Valid() bool {
	return s.Start >= 0 && s.Start <= s.End
}

func (s Span) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{s.Start, s.End})
}

func (s *Span) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("span must have exactly 2 offsets, got %d", len(pair))
	}
	s.Start, s.End = pair[0], pair[1]
	return nil
}

// Entity is a typed, possibly discontinuous annotation over the text.
// It serializes as [id, type, [[start,end],...]].
type Entity struct {
	ID    string
	Type  string
	Spans []Span
}

func (e Entity) MarshalJSON() ([]byte, error) {
	spans := e.Spans
	if spans == nil {
		spans = []Span{}
	}
	return json.Marshal([]any{e.ID, e.Type, spans})
}

func (e *Entity) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) < 3 {
		return fmt.Errorf("entity must have 3 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &e.ID); err != nil {
		return fmt.Errorf("entity id: %w", err)
	}
	if err := json.Unmarshal(raw[1], &e.Type); err != nil {
		return fmt.Errorf("entity %s type: %w", e.ID, err)
	}
	if err := json.Unmarshal(raw[2], &e.Spans); err != nil {
		return fmt.Errorf("entity %s spans: %w", e.ID, err)
	}
	return nil
}

// Comment is a free-text note attached to one entity.
// It serializes as [entityId, kind, text].
type Comment struct {
	EntityID string
	Kind     string
	Text     string
}

func (c Comment) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]string{c.EntityID, c.Kind, c.Text})
}

func (c *Comment) UnmarshalJSON(data []byte) error {
	var triple []string
	if err := json.Unmarshal(data, &triple); err != nil {
		return err
	}
	if len(triple) != 3 {
		return fmt.Errorf("comment must have 3 elements, got %d", len(triple))
	}
	c.EntityID, c.Kind, c.Text = triple[0], triple[1], triple[2]
	return nil
}

// Document is the unit of annotation.
// Keys other than the modeled ones (relations, events, timestamps, ...) are kept
// verbatim in Extra and written back unchanged.
type Document struct {
	Text            string
	TokenOffsets    []Span
	SentenceOffsets []Span
	Entities        []Entity
	Comments        []Comment
	Extra           map[string]json.RawMessage
}

var documentKeys = map[string]bool{
	"text":             true,
	"token_offsets":    true,
	"sentence_offsets": true,
	"entities":         true,
	"comments":         true,
}

func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.Extra)+len(documentKeys))
	for k, v := range d.Extra {
		out[k] = v
	}
	out["text"] = d.Text
	out["token_offsets"] = nonNil(d.TokenOffsets)
	out["sentence_offsets"] = nonNil(d.SentenceOffsets)
	out["entities"] = nonNil(d.Entities)
	out["comments"] = nonNil(d.Comments)
	return json.Marshal(out)
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*d = Document{Extra: make(map[string]json.RawMessage)}
	fields := []struct {
		key string
		dst any
	}{
		{"text", &d.Text},
		{"token_offsets", &d.TokenOffsets},
		{"sentence_offsets", &d.SentenceOffsets},
		{"entities", &d.Entities},
		{"comments", &d.Comments},
	}
	for _, f := range fields {
		v, ok := raw[f.key]
		if !ok || string(v) == "null" {
			continue
		}
		if err := json.Unmarshal(v, f.dst); err != nil {
			return fmt.Errorf("document %s: %w", f.key, err)
		}
	}
	for k, v := range raw {
		if !documentKeys[k] {
			d.Extra[k] = v
		}
	}
	return nil
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	c := &Document{
		Text:            d.Text,
		TokenOffsets:    append([]Span(nil), d.TokenOffsets...),
		SentenceOffsets: append([]Span(nil), d.SentenceOffsets...),
		Comments:        append([]Comment(nil), d.Comments...),
	}
	if d.Entities != nil {
		c.Entities = make([]Entity, len(d.Entities))
		for i, e := range d.Entities {
			c.Entities[i] = Entity{ID: e.ID, Type: e.Type, Spans: append([]Span(nil), e.Spans...)}
		}
	}
	if d.Extra != nil {
		c.Extra = make(map[string]json.RawMessage, len(d.Extra))
		for k, v := range d.Extra {
			c.Extra[k] = append(json.RawMessage(nil), v...)
		}
	}
	return c
}

// ListingItem is one row of a collection listing:
// ["d"|"c", parent, name, modTime?, entities?, relations?, events?].
// Directory rows ("c") usually carry only the first three cells.
type ListingItem struct {
	Kind      string
	Parent    *string
	Name      string
	Modified  *float64
	Entities  *int
	Relations *int
	Events    *int
}

// IsDocument reports whether the row names a document rather than a sub-collection.
func (l ListingItem) IsDocument() bool {
	return l.Kind == "d"
}

func (l ListingItem) MarshalJSON() ([]byte, error) {
	row := []any{l.Kind, l.Parent, l.Name}
	if l.Modified != nil || l.Entities != nil || l.Relations != nil || l.Events != nil {
		row = append(row, l.Modified, l.Entities, l.Relations, l.Events)
	}
	return json.Marshal(row)
}

func (l *ListingItem) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) < 3 {
		return fmt.Errorf("listing item must have at least 3 cells, got %d", len(raw))
	}
	*l = ListingItem{}
	targets := []any{&l.Kind, &l.Parent, &l.Name, &l.Modified, &l.Entities, &l.Relations, &l.Events}
	for i, cell := range raw {
		if i >= len(targets) {
			break
		}
		if err := json.Unmarshal(cell, targets[i]); err != nil {
			return fmt.Errorf("listing item cell %d: %w", i, err)
		}
	}
	return nil
}

// EntityType is one entry of the entity type palette.
type EntityType struct {
	Name           string       `json:"name"`
	Type           string       `json:"type"`
	BgColor        string       `json:"bgColor"`
	BorderColor    string       `json:"borderColor"`
	FgColor        string       `json:"fgColor"`
	Labels         []string     `json:"labels"`
	Attributes     []any        `json:"attributes"`
	Children       []EntityType `json:"children"`
	Normalizations []any        `json:"normalizations,omitempty"`
	Unused         bool         `json:"unused"`
}

// Column is one header cell of a collection listing: [title, kind].
type Column [2]string

// DefaultHeader is the fixed listing header.
var DefaultHeader = []Column{
	{"Document", "string"},
	{"Modified", "time"},
	{"Entities", "int"},
	{"Relations", "int"},
	{"Events", "int"},
}

// CollectionInfo describes a navigable collection and its type palette.
type CollectionInfo struct {
	EntityTypes []EntityType
	Header      []Column
	Items       []ListingItem
	Extra       map[string]json.RawMessage
}

type collectionWire struct {
	EntityTypes []EntityType  `json:"entity_types"`
	Header      []Column      `json:"header"`
	Items       []ListingItem `json:"items"`
}

func (c CollectionInfo) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Extra)+3)
	for k, v := range c.Extra {
		out[k] = v
	}
	out["entity_types"] = nonNil(c.EntityTypes)
	header := c.Header
	if header == nil {
		header = DefaultHeader
	}
	out["header"] = header
	out["items"] = nonNil(c.Items)
	return json.Marshal(out)
}

func (c *CollectionInfo) UnmarshalJSON(data []byte) error {
	var wire collectionWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = CollectionInfo{
		EntityTypes: wire.EntityTypes,
		Header:      wire.Header,
		Items:       wire.Items,
		Extra:       make(map[string]json.RawMessage),
	}
	for k, v := range raw {
		switch k {
		case "entity_types", "header", "items":
		default:
			c.Extra[k] = v
		}
	}
	return nil
}

// Message is a user-facing notice carried in an envelope: [text, severity].
type Message [2]string

// EventType represents the kind of change observed on a fixture.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event reports a change to a fixture file.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
}

// String implements lifecycle.Event.
func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
