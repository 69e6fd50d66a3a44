package scenario

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// ValidateSchema checks a YAML scenario document against the embedded CUE
// schema. Structural problems (wrong kinds, missing names, unknown check
// kinds) surface here with CUE's path-qualified messages, before any
// decoding into Go types.
func ValidateSchema(data []byte) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("scenario is not valid YAML: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("scenario is empty")
	}

	ctx := cuecontext.New()

	schemaVal := ctx.CompileString(schemaCUE)
	if err := schemaVal.Err(); err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	schema := schemaVal.LookupPath(cue.ParsePath("#Scenario"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("lookup schema: %w", err)
	}

	docVal := ctx.Encode(doc)
	if err := docVal.Err(); err != nil {
		return fmt.Errorf("encode scenario: %w", err)
	}

	unified := schema.Unify(docVal)
	if err := unified.Err(); err != nil {
		return fmt.Errorf("scenario does not match schema: %w", err)
	}
	if err := unified.Validate(cue.Final()); err != nil {
		return fmt.Errorf("scenario does not match schema: %w", err)
	}
	return nil
}
