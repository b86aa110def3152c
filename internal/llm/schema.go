package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Schema describes the JSON object a structured request must return.
// Declare schemas once as package variables: the compiled form is built
// on first use and kept.
type Schema struct {
	// Name is a kebab-case identifier, used as the schema or tool name by
	// providers that need one.
	Name        string
	Description string
	Definition  map[string]any

	once       sync.Once
	compiled   *jsonschema.Schema
	compileErr error
}

// Validate checks raw against the schema. The returned error, if any, has
// KindInvalid.
func (s *Schema) Validate(raw json.RawMessage) *Error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return invalidf(raw, "reply is not JSON: %w", err)
	}

	s.once.Do(s.compile)
	if s.compileErr != nil {
		return invalidf(raw, "schema %s: %w", s.Name, s.compileErr)
	}
	if err := s.compiled.Validate(doc); err != nil {
		return invalidf(raw, "reply does not match %s: %w", s.Name, err)
	}
	return nil
}

func (s *Schema) compile() {
	// The compiler wants the decoded form it produces itself, so
	// round-trip the Go map through JSON.
	b, err := json.Marshal(s.Definition)
	if err != nil {
		s.compileErr = err
		return
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(b))
	if err != nil {
		s.compileErr = err
		return
	}

	url := fmt.Sprintf("mem:///%s.json", s.Name)
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		s.compileErr = err
		return
	}
	s.compiled, s.compileErr = c.Compile(url)
}
