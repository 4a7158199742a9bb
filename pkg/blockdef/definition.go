package blockdef

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/dshills/goblocks/pkg/block"
)

// Common definition errors
var (
	// ErrInvalidDefinition is returned for malformed definition documents
	ErrInvalidDefinition = errors.New("invalid block definition")
	// ErrUnknownBlockType is returned when obtaining an unregistered type
	ErrUnknownBlockType = errors.New("unknown block type")
)

// Connection layout applied when building blocks from definitions. The
// model is headless, so connection offsets come from a fixed row geometry
// rather than measured views: one row per input, value sockets on the right
// edge, statement sockets inset below their row.
const (
	rowHeight       = 26.0
	valueInputX     = 120.0
	statementInputX = 16.0
)

// ConnectionSpec describes a connection slot in a definition. A nil spec
// means the block has no such connection; an empty check list means the
// connection is untyped and accepts anything.
type ConnectionSpec struct {
	Checks []string
}

// Arg is one entry of a definition's args0 list: either a field descriptor
// or an input descriptor, discriminated by Kind
type Arg struct {
	Kind     string
	Name     string
	Check    []string
	Text     string
	Value    float64
	Checked  bool
	Options  []block.Option
	Variable string
	Colour   string
}

// Definition is a parsed block definition: the prototype description a
// factory builds concrete blocks from
type Definition struct {
	Type         string
	Message      string
	Args         []Arg
	Output       *ConnectionSpec
	Previous     *ConnectionSpec
	Next         *ConnectionSpec
	Colour       string
	InputsInline bool
	Tooltip      string
}

// ParseDefinition parses a single JSON block definition
func ParseDefinition(data []byte) (*Definition, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("blockdef: %w: not valid JSON", ErrInvalidDefinition)
	}
	return parseDefinition(gjson.ParseBytes(data))
}

// ParseDefinitions parses a JSON document holding either a single block
// definition or an array of them
func ParseDefinitions(data []byte) ([]*Definition, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("blockdef: %w: not valid JSON", ErrInvalidDefinition)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsArray() {
		def, err := parseDefinition(doc)
		if err != nil {
			return nil, err
		}
		return []*Definition{def}, nil
	}
	var defs []*Definition
	for _, item := range doc.Array() {
		def, err := parseDefinition(item)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func parseDefinition(doc gjson.Result) (*Definition, error) {
	blockType := doc.Get("type").String()
	if blockType == "" {
		return nil, fmt.Errorf("blockdef: %w: missing required field: type", ErrInvalidDefinition)
	}

	def := &Definition{
		Type:         blockType,
		Message:      doc.Get("message0").String(),
		Output:       parseConnectionSpec(doc.Get("output")),
		Previous:     parseConnectionSpec(doc.Get("previousStatement")),
		Next:         parseConnectionSpec(doc.Get("nextStatement")),
		Colour:       doc.Get("colour").String(),
		InputsInline: doc.Get("inputsInline").Bool(),
		Tooltip:      doc.Get("tooltip").String(),
	}
	if def.Output != nil && def.Previous != nil {
		return nil, fmt.Errorf("blockdef: %w: %s declares both output and previousStatement",
			ErrInvalidDefinition, blockType)
	}

	for i, raw := range doc.Get("args0").Array() {
		arg, err := parseArg(raw)
		if err != nil {
			return nil, fmt.Errorf("blockdef: %s args0[%d]: %w", blockType, i, err)
		}
		def.Args = append(def.Args, arg)
	}
	return def, nil
}

func parseArg(doc gjson.Result) (Arg, error) {
	kind := doc.Get("type").String()
	arg := Arg{
		Kind:     kind,
		Name:     doc.Get("name").String(),
		Text:     doc.Get("text").String(),
		Value:    doc.Get("value").Float(),
		Checked:  doc.Get("checked").Bool(),
		Variable: doc.Get("variable").String(),
		Colour:   doc.Get("colour").String(),
	}
	if check := doc.Get("check"); check.Exists() {
		spec := parseConnectionSpec(check)
		if spec != nil {
			arg.Check = spec.Checks
		}
	}
	for _, opt := range doc.Get("options").Array() {
		pair := opt.Array()
		if len(pair) != 2 {
			return arg, fmt.Errorf("%w: dropdown option must be a [label, value] pair", ErrInvalidDefinition)
		}
		arg.Options = append(arg.Options, block.Option{
			Label: pair[0].String(),
			Value: pair[1].String(),
		})
	}

	switch kind {
	case "input_value", "input_statement", "input_dummy":
		if kind != "input_dummy" && arg.Name == "" {
			return arg, fmt.Errorf("%w: %s requires a name", ErrInvalidDefinition, kind)
		}
	case "field_label":
	case "field_input", "field_checkbox", "field_number", "field_colour", "field_variable":
		if arg.Name == "" {
			return arg, fmt.Errorf("%w: %s requires a name", ErrInvalidDefinition, kind)
		}
	case "field_dropdown":
		if arg.Name == "" {
			return arg, fmt.Errorf("%w: field_dropdown requires a name", ErrInvalidDefinition)
		}
		if len(arg.Options) == 0 {
			return arg, fmt.Errorf("%w: field_dropdown requires options", ErrInvalidDefinition)
		}
	default:
		return arg, fmt.Errorf("%w: unknown arg type: %s", ErrInvalidDefinition, kind)
	}
	return arg, nil
}

// parseConnectionSpec interprets an output/previousStatement/nextStatement
// value: absent means no connection, null means an untyped connection, a
// string or string array is the check list
func parseConnectionSpec(res gjson.Result) *ConnectionSpec {
	if !res.Exists() {
		return nil
	}
	switch res.Type {
	case gjson.Null:
		return &ConnectionSpec{}
	case gjson.String:
		return &ConnectionSpec{Checks: []string{res.String()}}
	default:
		if res.IsArray() {
			var checks []string
			for _, item := range res.Array() {
				checks = append(checks, item.String())
			}
			return &ConnectionSpec{Checks: checks}
		}
		return &ConnectionSpec{}
	}
}

// checksOrNil converts a spec check list to the connection representation,
// where nil accepts anything
func (s *ConnectionSpec) checksOrNil() []string {
	if s == nil || len(s.Checks) == 0 {
		return nil
	}
	out := make([]string, len(s.Checks))
	copy(out, s.Checks)
	return out
}

// Build constructs a fresh block from the definition, wiring connections,
// inputs, and fields, and placing connection positions per the row layout
func (d *Definition) Build() (*block.Block, error) {
	b := block.New(d.Type)
	b.SetColour(d.Colour)
	b.SetInputsInline(d.InputsInline)

	if d.Output != nil {
		if err := b.SetOutputConnection(d.Output.checksOrNil()); err != nil {
			return nil, err
		}
	}
	if d.Previous != nil {
		if err := b.SetPreviousConnection(d.Previous.checksOrNil()); err != nil {
			return nil, err
		}
	}
	if d.Next != nil {
		if err := b.SetNextConnection(d.Next.checksOrNil()); err != nil {
			return nil, err
		}
	}

	// Fields accumulate onto the next declared input; trailing fields get
	// a dummy row, matching how definitions interleave args.
	var pending []*block.Field
	appendInput := func(in *block.Input) error {
		for _, f := range pending {
			in.AddField(f)
		}
		pending = nil
		return b.AppendInput(in)
	}

	for _, arg := range d.Args {
		switch arg.Kind {
		case "input_value":
			if err := appendInput(block.NewValueInput(arg.Name, checksFromArg(arg))); err != nil {
				return nil, err
			}
		case "input_statement":
			if err := appendInput(block.NewStatementInput(arg.Name, checksFromArg(arg))); err != nil {
				return nil, err
			}
		case "input_dummy":
			if err := appendInput(block.NewDummyInput(arg.Name)); err != nil {
				return nil, err
			}
		default:
			f, err := buildField(arg)
			if err != nil {
				return nil, err
			}
			pending = append(pending, f)
		}
	}
	if len(pending) > 0 {
		if err := appendInput(block.NewDummyInput("")); err != nil {
			return nil, err
		}
	}

	placeConnections(b)
	return b, nil
}

func checksFromArg(arg Arg) []string {
	if len(arg.Check) == 0 {
		return nil
	}
	out := make([]string, len(arg.Check))
	copy(out, arg.Check)
	return out
}

func buildField(arg Arg) (*block.Field, error) {
	switch arg.Kind {
	case "field_label":
		return block.NewLabelField(arg.Text), nil
	case "field_input":
		return block.NewTextField(arg.Name, arg.Text), nil
	case "field_checkbox":
		return block.NewCheckboxField(arg.Name, arg.Checked), nil
	case "field_dropdown":
		return block.NewDropdownField(arg.Name, arg.Options), nil
	case "field_number":
		return block.NewNumberField(arg.Name, arg.Value), nil
	case "field_colour":
		return block.NewColourField(arg.Name, arg.Colour), nil
	case "field_variable":
		return block.NewVariableField(arg.Name, arg.Variable), nil
	default:
		return nil, fmt.Errorf("blockdef: %w: unknown field kind: %s", ErrInvalidDefinition, arg.Kind)
	}
}

// placeConnections assigns block-relative connection positions from the row
// layout, with the block at the origin
func placeConnections(b *block.Block) {
	if pc := b.PreviousConnection(); pc != nil {
		pc.SetPosition(0, 0)
	}
	if oc := b.OutputConnection(); oc != nil {
		oc.SetPosition(0, 0)
	}
	rows := len(b.Inputs())
	for i, in := range b.Inputs() {
		conn := in.Connection()
		if conn == nil {
			continue
		}
		y := float64(i) * rowHeight
		switch in.Kind() {
		case block.InputKindValue:
			conn.SetPosition(valueInputX, y)
		case block.InputKindStatement:
			conn.SetPosition(statementInputX, y+rowHeight/2)
		}
	}
	if nc := b.NextConnection(); nc != nil {
		if rows == 0 {
			rows = 1
		}
		nc.SetPosition(0, float64(rows)*rowHeight)
	}
}
