package fs

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Serializer defines how to read and write a specific fixture format.
type Serializer interface {
	// Decode reads a single response payload from r.
	Decode(r io.Reader) (map[string]any, error)
	// Encode converts a payload to bytes.
	Encode(payload map[string]any) ([]byte, error)
}

// DefaultSerializers returns the standard set of serializers, keyed by extension.
func DefaultSerializers(strict bool) map[string]Serializer {
	return map[string]Serializer{
		".js":   NewScriptSerializer(strict),
		".json": NewJSONSerializer(strict),
		".yaml": NewYAMLSerializer(strict),
		".yml":  NewYAMLSerializer(strict),
	}
}

// --- JSON Serializer ---

// JSONSerializer handles plain JSON fixtures.
type JSONSerializer struct {
	// Strict enables strict number parsing (as json.Number) to avoid precision loss.
	Strict bool
}

// NewJSONSerializer creates a new JSON serializer.
func NewJSONSerializer(strict bool) *JSONSerializer {
	return &JSONSerializer{Strict: strict}
}

func (s *JSONSerializer) Decode(r io.Reader) (map[string]any, error) {
	var payload map[string]any
	decoder := json.NewDecoder(r)
	if s.Strict {
		decoder.UseNumber()
	}
	if err := decoder.Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if payload == nil {
		return nil, fmt.Errorf("invalid json: payload is not an object")
	}
	return payload, nil
}

func (s *JSONSerializer) Encode(payload map[string]any) ([]byte, error) {
	return json.MarshalIndent(payload, "", "  ")
}

// --- Script Serializer ---

// scriptAssignment matches the "jsonp = " style prefix of a fixture script.
var scriptAssignment = regexp.MustCompile(`^\s*(?:var\s+)?[A-Za-z_$][\w$.]*\s*=\s*`)

// ScriptVariable is the name fixture scripts assign their payload to.
const ScriptVariable = "jsonp"

// ScriptSerializer handles fixtures stored as a script assigning a JSON object
// to a variable, e.g. `jsonp = {...};`.
type ScriptSerializer struct {
	json *JSONSerializer
}

// NewScriptSerializer creates a new script serializer.
func NewScriptSerializer(strict bool) *ScriptSerializer {
	return &ScriptSerializer{json: NewJSONSerializer(strict)}
}

func (s *ScriptSerializer) Decode(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	body := scriptAssignment.ReplaceAll(data, nil)
	body = bytes.TrimRight(body, " \t\r\n")
	body = bytes.TrimSuffix(body, []byte(";"))

	return s.json.Decode(bytes.NewReader(body))
}

func (s *ScriptSerializer) Encode(payload map[string]any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(ScriptVariable + " = ")
	buf.Write(data)
	buf.WriteString(";\n")
	return buf.Bytes(), nil
}

// --- YAML Serializer ---

// YAMLSerializer handles hand-written YAML fixtures.
type YAMLSerializer struct {
	// Strict converts numbers to json.Number for consistency with strict JSON.
	Strict bool
}

// NewYAMLSerializer creates a new YAML serializer.
func NewYAMLSerializer(strict bool) *YAMLSerializer {
	return &YAMLSerializer{Strict: strict}
}

func (s *YAMLSerializer) Decode(r io.Reader) (map[string]any, error) {
	var payload map[string]any
	if err := yaml.NewDecoder(r).Decode(&payload); err != nil {
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}
	if payload == nil {
		return nil, fmt.Errorf("invalid yaml: payload is not a mapping")
	}
	if s.Strict {
		payload = recursiveNormalize(payload).(map[string]any)
	}
	return payload, nil
}

func (s *YAMLSerializer) Encode(payload map[string]any) ([]byte, error) {
	return yaml.Marshal(payload)
}

// recursiveNormalize traverses the map/slice and converts numeric types to json.Number.
func recursiveNormalize(val any) any {
	switch v := val.(type) {
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[k] = recursiveNormalize(val)
		}
		return m
	case []any:
		l := make([]any, len(v))
		for i, val := range v {
			l[i] = recursiveNormalize(val)
		}
		return l
	case int:
		return json.Number(fmt.Sprintf("%d", v))
	case int64:
		return json.Number(fmt.Sprintf("%d", v))
	case uint64:
		return json.Number(fmt.Sprintf("%d", v))
	case float64:
		return json.Number(fmt.Sprintf("%v", v))
	default:
		return v
	}
}
