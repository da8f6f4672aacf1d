package core

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Session owns the document currently open for annotation.
// Exactly one document is current at a time; loading replaces it wholesale.
type Session struct {
	ID string

	bus    *Bus
	logger *slog.Logger

	mu         sync.RWMutex
	doc        *Document
	collection string
	name       string
	loading    bool
	edits      int
}

// NewSession creates an empty session. Both bus and logger may be nil.
func NewSession(bus *Bus, logger *slog.Logger) *Session {
	return &Session{
		ID:     uuid.NewString(),
		bus:    bus,
		logger: logger,
	}
}

// Load makes doc the current document and announces it on the bus.
func (s *Session) Load(doc *Document, collection, name string) {
	s.mu.Lock()
	s.doc = doc
	s.collection = collection
	s.name = name
	s.edits = 0
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Debug("document loaded", "session", s.ID, "collection", collection, "document", name)
	}
	if s.bus != nil {
		s.bus.Post(EventCurrentDocument, doc.Clone())
	}
}

// Current returns a snapshot of the current document, or nil if none is loaded.
func (s *Session) Current() *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Loaded reports whether a document is current.
func (s *Session) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc != nil
}

// Name returns the collection and document name the current document was loaded from.
func (s *Session) Name() (collection, document string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collection, s.name
}

// Edit runs fn against the current document under the session lock and
// returns a snapshot of the document after fn completed.
func (s *Session) Edit(fn func(a *Annotations) error) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return nil, ErrNoDocument
	}
	if err := fn(NewAnnotations(s.doc)); err != nil {
		return nil, err
	}
	s.edits++
	return s.doc.Clone(), nil
}

// BeginLoad marks a fixture load as in flight. Only one load may be pending at
// a time; done must be called once the load finished, successfully or not.
func (s *Session) BeginLoad() (done func(), err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loading {
		return nil, ErrLoadInFlight
	}
	s.loading = true

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			s.loading = false
			s.mu.Unlock()
		})
	}, nil
}
