package core

import (
	"strconv"
	"strings"
)

// Attributes are accepted on entity edits but not modeled further.
type Attributes map[string]any

// Annotations implements the entity and comment operations against a Document.
// It never stores behavior on the document itself; callers own the Document and
// serialize access to it.
type Annotations struct {
	doc *Document
}

// NewAnnotations wraps doc for editing.
func NewAnnotations(doc *Document) *Annotations {
	return &Annotations{doc: doc}
}

// Document returns the underlying document.
func (a *Annotations) Document() *Document {
	return a.doc
}

// NextID returns "T" followed by one more than the largest numeric entity id,
// or "T1" when the document has none. Ids that are not of the form T<n> are ignored.
func (a *Annotations) NextID() string {
	highest := 0
	for _, e := range a.doc.Entities {
		if n, ok := entityNumber(e.ID); ok && n > highest {
			highest = n
		}
	}
	return "T" + strconv.Itoa(highest+1)
}

func entityNumber(id string) (int, bool) {
	digits, ok := strings.CutPrefix(id, "T")
	if !ok || digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// CreateEntity appends a new entity with a freshly allocated id and attaches
// comment to it when non-empty.
func (a *Annotations) CreateEntity(typ string, spans []Span, comment string, attrs Attributes) Entity {
	return a.insert(a.NextID(), typ, spans, comment)
}

// UpdateEntity replaces the entity with the given id by a new one carrying the
// same id. The replacement is appended, so the entity moves to the end of the list.
func (a *Annotations) UpdateEntity(id, typ string, spans []Span, comment string, attrs Attributes) Entity {
	a.DeleteEntity(id)
	return a.insert(id, typ, spans, comment)
}

func (a *Annotations) insert(id, typ string, spans []Span, comment string) Entity {
	e := Entity{ID: id, Type: typ, Spans: append([]Span(nil), spans...)}
	a.doc.Entities = append(a.doc.Entities, e)
	if comment != "" {
		a.AddComment(id, comment)
	}
	return e
}

// DeleteEntity removes the entity with the given id and its comment.
// Unknown ids are ignored.
func (a *Annotations) DeleteEntity(id string) {
	for i, e := range a.doc.Entities {
		if e.ID == id {
			a.doc.Entities = append(a.doc.Entities[:i:i], a.doc.Entities[i+1:]...)
			break
		}
	}
	a.DeleteComment(id)
}

// AddComment sets the comment of entity id. Any previous comment is removed;
// an empty text leaves the entity without a comment.
func (a *Annotations) AddComment(id, text string) {
	a.DeleteComment(id)
	if text == "" {
		return
	}
	a.doc.Comments = append(a.doc.Comments, Comment{EntityID: id, Kind: CommentKind, Text: text})
}

// DeleteComment removes the comment attached to entity id, if any.
func (a *Annotations) DeleteComment(id string) {
	for i, c := range a.doc.Comments {
		if c.EntityID == id {
			a.doc.Comments = append(a.doc.Comments[:i:i], a.doc.Comments[i+1:]...)
			return
		}
	}
}

// Entity looks up an entity by id.
func (a *Annotations) Entity(id string) (Entity, bool) {
	for _, e := range a.doc.Entities {
		if e.ID == id {
			return e, true
		}
	}
	return Entity{}, false
}

// Comment looks up the comment attached to entity id.
func (a *Annotations) Comment(id string) (Comment, bool) {
	for _, c := range a.doc.Comments {
		if c.EntityID == id {
			return c, true
		}
	}
	return Comment{}, false
}
