package core

import "encoding/json"

// Envelope is the response delivered for a dispatched action.
//
// It serializes as a single flat JSON object: the fields of Document or
// Collection (when set) and Fields are merged with the typed keys, and
// "action", "protocol" and "messages" are always present.
type Envelope struct {
	Action   string
	Protocol int
	Messages []Message

	// Edited lists the ids touched by a mutation, one single-element group each.
	Edited [][]string
	// Undo is an opaque serialized inverse operation.
	Undo string
	// Annotations is the whole document after a mutation.
	Annotations *Document

	// Document is flattened into the envelope (getDocument responses).
	Document *Document
	// Collection is flattened into the envelope (getCollectionInformation responses).
	Collection *CollectionInfo

	// Fields holds any other action-specific keys.
	Fields map[string]any
}

// NewEnvelope returns an empty envelope for action.
func NewEnvelope(action string) Envelope {
	return Envelope{Action: action, Protocol: ProtocolVersion, Messages: []Message{}}
}

// Field returns an action-specific value from Fields.
func (e Envelope) Field(key string) (any, bool) {
	v, ok := e.Fields[key]
	return v, ok
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	out := make(map[string]any)

	for _, embedded := range []json.Marshaler{docMarshaler(e.Document), collectionMarshaler(e.Collection)} {
		if embedded == nil {
			continue
		}
		data, err := embedded.MarshalJSON()
		if err != nil {
			return nil, err
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, err
		}
		for k, v := range fields {
			out[k] = v
		}
	}

	for k, v := range e.Fields {
		out[k] = v
	}
	if e.Edited != nil {
		out["edited"] = e.Edited
	}
	if e.Undo != "" {
		out["undo"] = e.Undo
	}
	if e.Annotations != nil {
		out["annotations"] = e.Annotations
	}

	out["action"] = e.Action
	out["protocol"] = e.Protocol
	out["messages"] = nonNil(e.Messages)
	return json.Marshal(out)
}

func docMarshaler(d *Document) json.Marshaler {
	if d == nil {
		return nil
	}
	return d
}

func collectionMarshaler(c *CollectionInfo) json.Marshaler {
	if c == nil {
		return nil
	}
	return c
}
