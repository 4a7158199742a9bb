package blockdef

import (
	"fmt"
	"sort"

	"github.com/dshills/goblocks/pkg/block"
)

// Registry maps block types to their definitions and prototype blocks. New
// block instances come from deep-copying the prototype, so every instance
// starts with fresh IDs and unconnected connections.
type Registry struct {
	defs       map[string]*Definition
	prototypes map[string]*block.Block
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		defs:       make(map[string]*Definition),
		prototypes: make(map[string]*block.Block),
	}
}

// Register adds a definition, building and caching its prototype block
func (r *Registry) Register(def *Definition) error {
	if def == nil {
		return fmt.Errorf("blockdef: %w: nil definition", ErrInvalidDefinition)
	}
	if _, exists := r.defs[def.Type]; exists {
		return fmt.Errorf("blockdef: duplicate block type: %s", def.Type)
	}
	proto, err := def.Build()
	if err != nil {
		return fmt.Errorf("blockdef: build %s: %w", def.Type, err)
	}
	r.defs[def.Type] = def
	r.prototypes[def.Type] = proto
	return nil
}

// RegisterJSON validates, parses, and registers a JSON definition document
// holding one definition or an array of them
func (r *Registry) RegisterJSON(data []byte) error {
	if err := ValidateDefinitionJSON(data); err != nil {
		return err
	}
	defs, err := ParseDefinitions(data)
	if err != nil {
		return err
	}
	for _, def := range defs {
		if err := r.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// Definition returns the registered definition for a block type, or nil
func (r *Registry) Definition(blockType string) *Definition {
	return r.defs[blockType]
}

// Has reports whether the block type is registered
func (r *Registry) Has(blockType string) bool {
	_, ok := r.defs[blockType]
	return ok
}

// Types returns the registered block types in sorted order
func (r *Registry) Types() []string {
	out := make([]string, 0, len(r.defs))
	for t := range r.defs {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// ObtainBlock creates a fresh block instance of the given type from its
// prototype
func (r *Registry) ObtainBlock(blockType string) (*block.Block, error) {
	proto, ok := r.prototypes[blockType]
	if !ok {
		return nil, fmt.Errorf("blockdef: %w: %s", ErrUnknownBlockType, blockType)
	}
	return proto.Copy(), nil
}
