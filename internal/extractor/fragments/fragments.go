// Package fragments decodes labeled extraction fragments from JSON. Two
// shapes are accepted: the API payload {"source", "entities"} and a raw
// Document AI response {"document": {"entities"}}.
package fragments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"facturaval/internal/domain"
)

const schemaURL = "fragments.json"

const schemaJSON = `{
  "type": "object",
  "properties": {
    "source": {"type": "string"},
    "entities": {"$ref": "#/$defs/entities"},
    "document": {
      "type": "object",
      "properties": {
        "entities": {"$ref": "#/$defs/entities"}
      }
    }
  },
  "anyOf": [
    {"required": ["entities"]},
    {"required": ["document"]}
  ],
  "$defs": {
    "entities": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "type": {"type": "string"},
          "mentionText": {"type": "string"}
        },
        "required": ["type"]
      }
    }
  }
}`

var schema = mustCompile()

func mustCompile() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(schemaJSON)); err != nil {
		panic(fmt.Sprintf("add fragments schema: %v", err))
	}
	return compiler.MustCompile(schemaURL)
}

// Payload is one document's worth of fragments.
type Payload struct {
	Source   string            `json:"source"`
	Entities []domain.RawField `json:"entities"`
}

type wire struct {
	Source   string            `json:"source"`
	Entities []domain.RawField `json:"entities"`
	Document *struct {
		Entities []domain.RawField `json:"entities"`
	} `json:"document"`
}

// Decode validates data against the fragments schema and decodes it.
// Entities is never nil on success.
func Decode(data []byte) (*Payload, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidFragments, err)
	}
	if err := schema.Validate(v); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidFragments, err)
	}

	var w wire
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&w); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidFragments, err)
	}

	p := &Payload{Source: w.Source, Entities: w.Entities}
	if p.Entities == nil && w.Document != nil {
		p.Entities = w.Document.Entities
	}
	if p.Entities == nil {
		p.Entities = []domain.RawField{}
	}
	return p, nil
}

// DecodeReader reads r fully and decodes it.
func DecodeReader(r io.Reader) (*Payload, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading fragments: %w", err)
	}
	return Decode(data)
}

// ReadFile decodes a fragments file. Source defaults to the file name.
func ReadFile(path string) (*Payload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fragments file: %w", err)
	}
	p, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if p.Source == "" {
		p.Source = filepath.Base(path)
	}
	return p, nil
}
