// Package scenario loads declarative test scenarios from YAML, validates
// them against the CUE schema, and compiles them into executable node trees.
//
// A scenario file is the host-facing declaration format: nested suites,
// cases, and checks. The engine never consumes YAML directly; it executes
// the compiled tree.
package scenario

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the top-level scenario document.
type File struct {
	Name   string  `yaml:"name"`
	Suites []Suite `yaml:"suites"`
}

// Suite is a named group of cases and nested suites.
type Suite struct {
	Name   string  `yaml:"name"`
	Focus  string  `yaml:"focus,omitempty"` // "", "focused", "excluded"
	Suites []Suite `yaml:"suites,omitempty"`
	Cases  []Case  `yaml:"cases,omitempty"`
}

// Case is one declared test case. The expect_error case option has no
// scenario form: checks are data, so there is no code under test whose
// raise a declarative case could capture.
type Case struct {
	Name    string  `yaml:"name"`
	Focus   string  `yaml:"focus,omitempty"`
	Pending bool    `yaml:"pending,omitempty"`
	Reason  string  `yaml:"reason,omitempty"`
	Timeout string  `yaml:"timeout,omitempty"` // Go duration string
	Checks  []Check `yaml:"checks,omitempty"`
}

// Check is one assertion inside a case body.
type Check struct {
	Kind      string  `yaml:"kind"`
	Negate    bool    `yaml:"negate,omitempty"`
	Subject   any     `yaml:"subject"`
	Expected  any     `yaml:"expected,omitempty"`
	Tolerance float64 `yaml:"tolerance,omitempty"`
	Path      string  `yaml:"path,omitempty"`
	Pattern   string  `yaml:"pattern,omitempty"`
	Low       any     `yaml:"low,omitempty"`
	High      any     `yaml:"high,omitempty"`
	Message   string  `yaml:"message,omitempty"`
}

// Load reads, schema-validates, and decodes a scenario file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes a scenario from YAML bytes. The document is validated
// against the CUE schema first, then decoded strictly so unknown fields
// surface as errors even where the schema is open.
func Parse(data []byte) (*File, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, err
	}

	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields (catches typos)
	if err := decoder.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	return &f, nil
}
