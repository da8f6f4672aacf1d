package dispatch

import (
	"encoding/json"

	"github.com/aretw0/annotate/pkg/core"
)

// Undo tokens are opaque to this package's callers; they are handed back to
// the UI verbatim and only describe how to revert an edit.

type addToken struct {
	Action         string `json:"action"`
	Attributes     string `json:"attributes"`
	Normalizations string `json:"normalizations"`
	ID             string `json:"id"`
}

type restoreToken struct {
	Action  string `json:"action"`
	ID      string `json:"id"`
	Type    string `json:"type"`
	Offsets string `json:"offsets"`
	Comment string `json:"comment,omitempty"`
}

// createdToken reverts the creation of entity id.
func createdToken(id string, attrs core.Attributes) (string, error) {
	if attrs == nil {
		attrs = core.Attributes{}
	}
	encoded, err := json.Marshal(attrs)
	if err != nil {
		return "", err
	}
	return marshalToken(addToken{
		Action:         "add_tb",
		Attributes:     string(encoded),
		Normalizations: "[]",
		ID:             id,
	})
}

// restoredToken reverts a modification ("mod_tb") or deletion ("del_tb")
// by carrying the entity's previous state.
func restoredToken(action string, prev core.Entity, comment string) (string, error) {
	offsets, err := json.Marshal(prev.Spans)
	if err != nil {
		return "", err
	}
	return marshalToken(restoreToken{
		Action:  action,
		ID:      prev.ID,
		Type:    prev.Type,
		Offsets: string(offsets),
		Comment: comment,
	})
}

func marshalToken(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
