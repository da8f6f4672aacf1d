package fs

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestScriptSerializer(t *testing.T) {
	cases := map[string]string{
		"jsonp prefix":     "jsonp = {\"action\": \"getDocument\", \"mtime\": 1409691113.0};\n",
		"var declaration":  "var jsonp={\"action\":\"getDocument\",\"mtime\":1409691113.0}",
		"dotted assigment": "window.fixtures.doc = {\"action\": \"getDocument\", \"mtime\": 1409691113.0} ;  \r\n",
		"bare object":      "{\"action\": \"getDocument\", \"mtime\": 1409691113.0}",
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			payload, err := NewScriptSerializer(false).Decode(strings.NewReader(input))
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if payload["action"] != "getDocument" {
				t.Errorf("Expected action getDocument, got %v", payload["action"])
			}
			if payload["mtime"] != 1409691113.0 {
				t.Errorf("Expected float mtime, got %T %v", payload["mtime"], payload["mtime"])
			}
		})
	}

	t.Run("Round Trip", func(t *testing.T) {
		s := NewScriptSerializer(false)
		data, err := s.Encode(map[string]any{"text": "Kyiv"})
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if !bytes.HasPrefix(data, []byte("jsonp = ")) {
			t.Errorf("Expected jsonp assignment, got %q", data)
		}
		payload, err := s.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if payload["text"] != "Kyiv" {
			t.Errorf("Unexpected payload %v", payload)
		}
	})

	t.Run("Rejects Non Object", func(t *testing.T) {
		if _, err := NewScriptSerializer(false).Decode(strings.NewReader("jsonp = [1, 2];")); err == nil {
			t.Error("Expected error for array payload")
		}
	})
}

func TestJSONSerializer_Strict(t *testing.T) {
	input := `{"big": 9007199254740993, "spans": [[0, 4]]}`

	payload, err := NewJSONSerializer(true).Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	n, ok := payload["big"].(json.Number)
	if !ok {
		t.Fatalf("Expected json.Number, got %T", payload["big"])
	}
	if n.String() != "9007199254740993" {
		t.Errorf("Precision lost: %s", n)
	}

	payload, err = NewJSONSerializer(false).Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if _, ok := payload["big"].(float64); !ok {
		t.Errorf("Expected float64 in lenient mode, got %T", payload["big"])
	}
}

func TestYAMLSerializer(t *testing.T) {
	input := `
action: getCollectionInformation
items:
  - [d, null, doc-1, 1409691113, 3, 0, 0]
entity_types:
  - type: PER
    labels: [Person]
`
	t.Run("Lenient", func(t *testing.T) {
		payload, err := NewYAMLSerializer(false).Decode(strings.NewReader(input))
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		items := payload["items"].([]any)
		row := items[0].([]any)
		if row[2] != "doc-1" || row[1] != nil {
			t.Errorf("Unexpected row %v", row)
		}
		types := payload["entity_types"].([]any)
		if types[0].(map[string]any)["type"] != "PER" {
			t.Errorf("Unexpected entity types %v", types)
		}
	})

	t.Run("Strict Normalizes Numbers", func(t *testing.T) {
		payload, err := NewYAMLSerializer(true).Decode(strings.NewReader(input))
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		row := payload["items"].([]any)[0].([]any)
		if row[3] != json.Number("1409691113") {
			t.Errorf("Expected json.Number, got %T %v", row[3], row[3])
		}
	})

	t.Run("Rejects Scalar", func(t *testing.T) {
		if _, err := NewYAMLSerializer(false).Decode(strings.NewReader("just text")); err == nil {
			t.Error("Expected error for scalar document")
		}
	})
}
