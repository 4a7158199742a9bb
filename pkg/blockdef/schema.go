package blockdef

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var definitionSchema []byte

// ValidateDefinitionJSON checks a definition document (single definition or
// array) against the definition schema before parsing. All violations are
// collected into one error.
func ValidateDefinitionJSON(data []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(definitionSchema)
	docLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("blockdef: schema validation: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var msgs []string
	for _, desc := range result.Errors() {
		msgs = append(msgs, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return fmt.Errorf("blockdef: %w: %s", ErrInvalidDefinition, strings.Join(msgs, "; "))
}
