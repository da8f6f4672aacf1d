package dispatch

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/annotate/pkg/core"
)

var validate = validator.New()

type noPayload struct{}

type documentPayload struct {
	Collection string `mapstructure:"collection"`
	Document   string `mapstructure:"document"`
}

type collectionPayload struct {
	Collection string `mapstructure:"collection"`
}

type createSpanPayload struct {
	Type       string `mapstructure:"type" validate:"required"`
	Offsets    string `mapstructure:"offsets" validate:"required"`
	ID         string `mapstructure:"id"`
	Attributes string `mapstructure:"attributes"`
	Comment    string `mapstructure:"comment"`
}

type deleteSpanPayload struct {
	ID string `mapstructure:"id"`
}

// decodePayload copies request fields onto the typed payload p and validates it.
func decodePayload(fields map[string]string, p any) error {
	if len(fields) > 0 {
		if err := mapstructure.Decode(fields, p); err != nil {
			return fmt.Errorf("%w: %v", core.ErrDecode, err)
		}
	}
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", core.ErrDecode, err)
	}
	return nil
}

// parseOffsets decodes a JSON list of [start, end] pairs. An empty list yields
// a span-less entity.
func parseOffsets(raw string) ([]core.Span, error) {
	var spans []core.Span
	if err := json.Unmarshal([]byte(raw), &spans); err != nil {
		return nil, fmt.Errorf("%w: offsets: %v", core.ErrDecode, err)
	}
	if spans == nil {
		spans = []core.Span{}
	}
	for _, s := range spans {
		if !s.Valid() {
			return nil, fmt.Errorf("%w: offsets: invalid span [%d, %d]", core.ErrDecode, s.Start, s.End)
		}
	}
	return spans, nil
}

// parseAttributes decodes an optional JSON object of attribute values.
func parseAttributes(raw string) (core.Attributes, error) {
	if raw == "" {
		return nil, nil
	}
	var attrs core.Attributes
	if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
		return nil, fmt.Errorf("%w: attributes: %v", core.ErrDecode, err)
	}
	return attrs, nil
}
