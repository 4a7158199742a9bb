package workspace

import (
	"errors"
	"fmt"

	"github.com/dshills/goblocks/pkg/block"
	"github.com/dshills/goblocks/pkg/validation"
)

// Common variable registry errors
var (
	// ErrVariableExists is returned when creating a duplicate variable
	ErrVariableExists = errors.New("variable already exists")
	// ErrVariableNotFound is returned for operations on an unknown variable
	ErrVariableNotFound = errors.New("variable not found")
	// ErrVariableInUse is returned when deleting a variable still referenced
	// by blocks in the workspace
	ErrVariableInUse = errors.New("variable is referenced by blocks")
)

// generatedNames are tried in order when generating a fresh loop-style
// variable name before falling back to numbered names
var generatedNames = []string{"i", "j", "k", "m", "n"}

// VariableRegistry is the workspace-scoped registry of variable names. It
// replaces any global name manager: every workspace owns its own registry,
// and change notification flows through the workspace event stream.
type VariableRegistry struct {
	ws    *Workspace
	names []string
}

func newVariableRegistry(ws *Workspace) *VariableRegistry {
	return &VariableRegistry{ws: ws}
}

// Names returns the registered variable names in creation order
func (r *VariableRegistry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Has reports whether the named variable exists
func (r *VariableRegistry) Has(name string) bool {
	for _, n := range r.names {
		if n == name {
			return true
		}
	}
	return false
}

// Create registers a new variable name
func (r *VariableRegistry) Create(name string) error {
	if name == "" {
		return errors.New("variable: empty variable name")
	}
	if !validation.IsValidVariableName(name) {
		return fmt.Errorf("variable: invalid variable name format: %s", name)
	}
	if r.Has(name) {
		return fmt.Errorf("variable: %w: %s", ErrVariableExists, name)
	}
	r.names = append(r.names, name)
	r.ws.Notify(Event{Type: EventVariableCreated, Variable: name})
	return nil
}

// Generate creates and registers a fresh variable name, preferring the
// conventional single letters before numbered fallbacks
func (r *VariableRegistry) Generate() string {
	for _, name := range generatedNames {
		if !r.Has(name) {
			r.names = append(r.names, name)
			r.ws.Notify(Event{Type: EventVariableCreated, Variable: name})
			return name
		}
	}
	for i := 2; ; i++ {
		name := fmt.Sprintf("i%d", i)
		if !r.Has(name) {
			r.names = append(r.names, name)
			r.ws.Notify(Event{Type: EventVariableCreated, Variable: name})
			return name
		}
	}
}

// Rename changes a variable's name and rewrites every variable field in the
// workspace that referenced the old name
func (r *VariableRegistry) Rename(oldName, newName string) error {
	if oldName == newName {
		return nil
	}
	if !validation.IsValidVariableName(newName) {
		return fmt.Errorf("variable: invalid variable name format: %s", newName)
	}
	if r.Has(newName) {
		return fmt.Errorf("variable: %w: %s", ErrVariableExists, newName)
	}
	idx := -1
	for i, n := range r.names {
		if n == oldName {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("variable: %w: %s", ErrVariableNotFound, oldName)
	}
	r.names[idx] = newName
	for _, f := range r.fieldsReferencing(oldName) {
		f.Text = newName
	}
	r.ws.Notify(Event{Type: EventVariableRenamed, Variable: newName, OldName: oldName})
	return nil
}

// Delete removes a variable. Deleting a variable still referenced by any
// block field fails with ErrVariableInUse.
func (r *VariableRegistry) Delete(name string) error {
	idx := -1
	for i, n := range r.names {
		if n == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("variable: %w: %s", ErrVariableNotFound, name)
	}
	if r.UsageCount(name) > 0 {
		return fmt.Errorf("variable: %w: %s", ErrVariableInUse, name)
	}
	r.names = append(r.names[:idx], r.names[idx+1:]...)
	r.ws.Notify(Event{Type: EventVariableDeleted, Variable: name})
	return nil
}

// UsageCount returns how many variable fields in the workspace reference the
// given name
func (r *VariableRegistry) UsageCount(name string) int {
	return len(r.fieldsReferencing(name))
}

func (r *VariableRegistry) fieldsReferencing(name string) []*block.Field {
	var fields []*block.Field
	for _, b := range r.ws.blocksByID {
		for _, in := range b.Inputs() {
			for _, f := range in.Fields() {
				if f.Kind == block.FieldVariable && f.Text == name {
					fields = append(fields, f)
				}
			}
		}
	}
	return fields
}
