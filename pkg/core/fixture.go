package core

import "context"

// FixtureSource loads canned response payloads by relative path.
// Adhering to this interface keeps the dispatcher independent of where
// offline fixtures live (a directory, an embedded FS, a test double).
type FixtureSource interface {
	// Load returns the decoded JSON object stored at path.
	Load(ctx context.Context, path string) (map[string]any, error)
}

// Watchable defines an interface for fixture sources that can report changes.
type Watchable interface {
	Watch(ctx context.Context, pattern string) (<-chan Event, error)
}

// Lister defines an interface for fixture sources that can enumerate their files.
type Lister interface {
	List(ctx context.Context, pattern string) ([]string, error)
}
