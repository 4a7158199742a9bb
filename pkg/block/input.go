package block

// InputKind identifies the closed set of input variants
type InputKind int

const (
	// InputKindValue accepts a value block via an InputValue connection
	InputKindValue InputKind = iota
	// InputKindStatement accepts a statement chain via an InputValue-style
	// statement socket (NextStatement connection on the parent side)
	InputKindStatement
	// InputKindDummy carries fields only and has no connection
	InputKindDummy
)

// String returns the string representation of an InputKind
func (k InputKind) String() string {
	switch k {
	case InputKindValue:
		return "value"
	case InputKindStatement:
		return "statement"
	case InputKindDummy:
		return "dummy"
	default:
		return "unknown"
	}
}

// Input is one row of a block: an ordered list of fields plus, for value and
// statement inputs, the connection that accepts a child block
type Input struct {
	name       string
	kind       InputKind
	fields     []*Field
	connection *Connection
}

// NewValueInput creates an input that accepts a value block. A nil check
// list accepts any output type.
func NewValueInput(name string, checks []string) *Input {
	return &Input{
		name:       name,
		kind:       InputKindValue,
		connection: newConnection(InputValue, checks),
	}
}

// NewStatementInput creates an input that accepts a statement chain
func NewStatementInput(name string, checks []string) *Input {
	return &Input{
		name:       name,
		kind:       InputKindStatement,
		connection: newConnection(NextStatement, checks),
	}
}

// NewDummyInput creates a field-only input with no connection
func NewDummyInput(name string) *Input {
	return &Input{name: name, kind: InputKindDummy}
}

// Name returns the input name used to address it from serialization
func (in *Input) Name() string {
	return in.name
}

// Kind returns the input variant
func (in *Input) Kind() InputKind {
	return in.kind
}

// Connection returns the input's connection, nil for dummy inputs
func (in *Input) Connection() *Connection {
	return in.connection
}

// ConnectedBlock returns the child block attached to this input, or nil
func (in *Input) ConnectedBlock() *Block {
	if in.connection == nil {
		return nil
	}
	return in.connection.TargetBlock()
}

// AddField appends a field to the input row
func (in *Input) AddField(f *Field) {
	in.fields = append(in.fields, f)
}

// Fields returns the input's fields in display order
func (in *Input) Fields() []*Field {
	return in.fields
}

// Field returns the named field, or nil
func (in *Input) Field(name string) *Field {
	for _, f := range in.fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// copyShallow duplicates the input with a fresh unconnected connection and
// copied fields. Child blocks are handled by Block.Copy.
func (in *Input) copyShallow() *Input {
	ni := &Input{name: in.name, kind: in.kind}
	for _, f := range in.fields {
		ni.fields = append(ni.fields, f.Copy())
	}
	if in.connection != nil {
		ni.connection = newConnection(in.connection.connType, in.connection.Checks())
		ni.connection.position = in.connection.position
	}
	return ni
}
