// Package serialize persists workspaces as XML and rebuilds them, pushing
// every loaded connection through the same validation interactive edits use.
package serialize

import (
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/dshills/goblocks/pkg/block"
	"github.com/dshills/goblocks/pkg/blockdef"
	"github.com/dshills/goblocks/pkg/workspace"
)

const xmlNamespace = "https://developers.google.com/blockly/xml"

// ErrMalformedDocument is returned for documents that do not parse or do not
// describe a loadable workspace
var ErrMalformedDocument = errors.New("malformed workspace document")

// ParseError reports a load failure at a specific element
type ParseError struct {
	Element string
	Err     error
}

// Error returns the error message
func (e *ParseError) Error() string {
	return fmt.Sprintf("serialize: %s: %v", e.Element, e.Err)
}

// Unwrap returns the underlying error
func (e *ParseError) Unwrap() error {
	return e.Err
}

type xmlDoc struct {
	XMLName   xml.Name       `xml:"xml"`
	Xmlns     string         `xml:"xmlns,attr,omitempty"`
	Variables *xmlVariables  `xml:"variables"`
	Blocks    []*xmlBlock    `xml:"block"`
}

type xmlVariables struct {
	Variables []string `xml:"variable"`
}

type xmlBlock struct {
	Type       string          `xml:"type,attr"`
	ID         string          `xml:"id,attr,omitempty"`
	X          *float64        `xml:"x,attr,omitempty"`
	Y          *float64        `xml:"y,attr,omitempty"`
	Fields     []xmlField      `xml:"field"`
	Values     []xmlChildSlot  `xml:"value"`
	Statements []xmlChildSlot  `xml:"statement"`
	Next       *xmlNext        `xml:"next"`
}

type xmlField struct {
	Name  string `xml:"name,attr"`
	Value string `xml:",chardata"`
}

// xmlChildSlot is a named value or statement socket. It may hold a shadow, a
// real block, or both: both means the real block is covering a remembered
// shadow placeholder.
type xmlChildSlot struct {
	Name   string    `xml:"name,attr"`
	Shadow *xmlBlock `xml:"shadow"`
	Block  *xmlBlock `xml:"block"`
}

type xmlNext struct {
	Shadow *xmlBlock `xml:"shadow"`
	Block  *xmlBlock `xml:"block"`
}

// Serializer saves and loads workspaces against a block type registry
type Serializer struct {
	reg *blockdef.Registry
}

// NewSerializer creates a serializer resolving block types through reg
func NewSerializer(reg *blockdef.Registry) *Serializer {
	return &Serializer{reg: reg}
}

// Save renders the workspace as an XML document: variables first, then every
// root tree with its workspace position
func (s *Serializer) Save(ws *workspace.Workspace) ([]byte, error) {
	doc := &xmlDoc{Xmlns: xmlNamespace}
	if names := ws.Variables().Names(); len(names) > 0 {
		doc.Variables = &xmlVariables{Variables: names}
	}
	for _, root := range ws.RootBlocks() {
		xb := encodeBlock(root)
		x, y := root.Position().X, root.Position().Y
		xb.X, xb.Y = &x, &y
		doc.Blocks = append(doc.Blocks, xb)
	}
	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize: marshal workspace: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

func encodeBlock(b *block.Block) *xmlBlock {
	xb := &xmlBlock{Type: b.Type(), ID: b.ID().String()}
	for _, in := range b.Inputs() {
		for _, f := range in.Fields() {
			if !f.IsSerializable() {
				continue
			}
			xb.Fields = append(xb.Fields, xmlField{Name: f.Name, Value: f.SerializedValue()})
		}
		conn := in.Connection()
		if conn == nil {
			continue
		}
		slot := xmlChildSlot{Name: in.Name()}
		if sc := conn.ShadowConnection(); sc != nil {
			slot.Shadow = encodeBlock(sc.Owner())
		}
		if child := conn.TargetBlock(); child != nil {
			if child.IsShadow() {
				slot.Shadow = encodeBlock(child)
			} else {
				slot.Block = encodeBlock(child)
			}
		}
		if slot.Shadow == nil && slot.Block == nil {
			continue
		}
		switch in.Kind() {
		case block.InputKindValue:
			xb.Values = append(xb.Values, slot)
		case block.InputKindStatement:
			xb.Statements = append(xb.Statements, slot)
		}
	}
	if nc := b.NextConnection(); nc != nil {
		next := &xmlNext{}
		if sc := nc.ShadowConnection(); sc != nil {
			next.Shadow = encodeBlock(sc.Owner())
		}
		if child := nc.TargetBlock(); child != nil {
			if child.IsShadow() {
				next.Shadow = encodeBlock(child)
			} else {
				next.Block = encodeBlock(child)
			}
		}
		if next.Shadow != nil || next.Block != nil {
			xb.Next = next
		}
	}
	return xb
}

// Load parses an XML document and adds its variables and root trees to the
// workspace. Every connection in the document passes the same compatibility
// validation interactive edits go through; an incompatible pairing fails the
// load.
func (s *Serializer) Load(data []byte, ws *workspace.Workspace) error {
	var doc xmlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return &ParseError{Element: "xml", Err: fmt.Errorf("%w: %v", ErrMalformedDocument, err)}
	}
	if doc.Variables != nil {
		for _, name := range doc.Variables.Variables {
			if !ws.Variables().Has(name) {
				if err := ws.Variables().Create(name); err != nil {
					return &ParseError{Element: "variables", Err: err}
				}
			}
		}
	}
	for _, xb := range doc.Blocks {
		b, err := s.buildBlock(xb, ws)
		if err != nil {
			return err
		}
		if xb.X != nil || xb.Y != nil {
			var x, y float64
			if xb.X != nil {
				x = *xb.X
			}
			if xb.Y != nil {
				y = *xb.Y
			}
			b.MoveBy(x-b.Position().X, y-b.Position().Y)
		}
		if err := ws.AddRootBlock(b); err != nil {
			return &ParseError{Element: "block " + xb.Type, Err: err}
		}
	}
	return nil
}

// buildBlock assembles a subtree from its XML description, connecting
// children with full validation and aligning each child to its parent socket
func (s *Serializer) buildBlock(xb *xmlBlock, ws *workspace.Workspace) (*block.Block, error) {
	where := "block " + xb.Type
	b, err := s.reg.ObtainBlock(xb.Type)
	if err != nil {
		return nil, &ParseError{Element: where, Err: err}
	}
	if xb.ID != "" {
		if err := b.SetID(block.BlockID(xb.ID)); err != nil {
			return nil, &ParseError{Element: where, Err: err}
		}
	}

	for _, xf := range xb.Fields {
		f := b.Field(xf.Name)
		if f == nil {
			return nil, &ParseError{Element: where, Err: fmt.Errorf("%w: unknown field: %s", ErrMalformedDocument, xf.Name)}
		}
		if err := f.SetFromString(xf.Value); err != nil {
			return nil, &ParseError{Element: where + " field " + xf.Name, Err: err}
		}
		if f.Kind == block.FieldVariable && f.Text != "" && !ws.Variables().Has(f.Text) {
			if err := ws.Variables().Create(f.Text); err != nil {
				return nil, &ParseError{Element: where + " field " + xf.Name, Err: err}
			}
		}
	}

	for _, slot := range xb.Values {
		if err := s.attachChild(b, slot, block.InputKindValue, ws); err != nil {
			return nil, err
		}
	}
	for _, slot := range xb.Statements {
		if err := s.attachChild(b, slot, block.InputKindStatement, ws); err != nil {
			return nil, err
		}
	}

	if xb.Next != nil {
		nc := b.NextConnection()
		if nc == nil {
			return nil, &ParseError{Element: where, Err: fmt.Errorf("%w: block has no next connection", ErrMalformedDocument)}
		}
		if err := s.fillSlot(nc, xb.Next.Shadow, xb.Next.Block, where+" next", ws); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (s *Serializer) attachChild(parent *block.Block, slot xmlChildSlot, kind block.InputKind, ws *workspace.Workspace) error {
	where := fmt.Sprintf("block %s %s %s", parent.Type(), kind, slot.Name)
	in := parent.Input(slot.Name)
	if in == nil || in.Kind() != kind {
		return &ParseError{Element: where, Err: fmt.Errorf("%w: no such input", ErrMalformedDocument)}
	}
	return s.fillSlot(in.Connection(), slot.Shadow, slot.Block, where, ws)
}

// fillSlot builds and connects a socket's occupants. A shadow alongside a
// real block is not connected: it is remembered on the parent connection, the
// same state a displaced shadow is left in during editing.
func (s *Serializer) fillSlot(parentConn *block.Connection, shadow, real *xmlBlock, where string, ws *workspace.Workspace) error {
	if shadow != nil {
		sb, err := s.buildBlock(shadow, ws)
		if err != nil {
			return err
		}
		sb.SetShadow(true)
		sc := sb.ParentConnection()
		if sc == nil {
			return &ParseError{Element: where, Err: fmt.Errorf("%w: shadow block has no parent connection", ErrMalformedDocument)}
		}
		if real != nil {
			if err := parentConn.SetShadowConnection(sc); err != nil {
				return &ParseError{Element: where, Err: err}
			}
		} else {
			if err := connectChild(parentConn, sc); err != nil {
				return &ParseError{Element: where, Err: err}
			}
		}
	}
	if real != nil {
		rb, err := s.buildBlock(real, ws)
		if err != nil {
			return err
		}
		rc := rb.ParentConnection()
		if rc == nil {
			return &ParseError{Element: where, Err: fmt.Errorf("%w: block has no parent connection", ErrMalformedDocument)}
		}
		if err := connectChild(parentConn, rc); err != nil {
			return &ParseError{Element: where, Err: err}
		}
	}
	return nil
}

// connectChild validates, joins, and aligns a child connection under a parent
// connection
func connectChild(parentConn, childConn *block.Connection) error {
	if r := childConn.CanConnectWithReason(parentConn); r != block.CanConnect {
		return fmt.Errorf("%w: %s cannot connect to %s: %s",
			ErrMalformedDocument, childConn.Type(), parentConn.Type(), r)
	}
	childConn.Connect(parentConn)
	dx := parentConn.Position().X - childConn.Position().X
	dy := parentConn.Position().Y - childConn.Position().Y
	if dx != 0 || dy != 0 {
		childConn.Owner().MoveBy(dx, dy)
	}
	return nil
}
