package core

import (
	"github.com/aretw0/introspection"
)

// SessionState exposes internal state for observability.
type SessionState struct {
	ID         string `json:"id"`
	Collection string `json:"collection,omitempty"`
	Document   string `json:"document,omitempty"`
	Loaded     bool   `json:"loaded"`
	Entities   int    `json:"entities"`
	Comments   int    `json:"comments"`
	Edits      int    `json:"edits"`
	Loading    bool   `json:"loading"`
}

// State implements introspection.Introspectable.
func (s *Session) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state := SessionState{
		ID:         s.ID,
		Collection: s.collection,
		Document:   s.name,
		Loaded:     s.doc != nil,
		Edits:      s.edits,
		Loading:    s.loading,
	}
	if s.doc != nil {
		state.Entities = len(s.doc.Entities)
		state.Comments = len(s.doc.Comments)
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *Session) ComponentType() string {
	return "session"
}

var _ introspection.Introspectable = (*Session)(nil)
var _ introspection.Component = (*Session)(nil)
