package integration

import (
	"strings"
	"testing"
	"time"

	"github.com/dshills/goblocks/internal/testutil"
	"github.com/dshills/goblocks/pkg/blockdef"
	"github.com/dshills/goblocks/pkg/codegen"
	"github.com/dshills/goblocks/pkg/editor"
	"github.com/dshills/goblocks/pkg/serialize"
	"github.com/dshills/goblocks/pkg/workspace"
)

// TestEditorSession_DragAssembleGenerate drives a full editing session: two
// palette blocks are placed, one is dragged until it snaps beneath the other,
// and the assembled program generates code.
func TestEditorSession_DragAssembleGenerate(t *testing.T) {
	reg := blockdef.StandardRegistry()
	ws := workspace.NewWorkspace()
	ctrl := editor.NewController(ws)
	dragger := editor.NewDragger(ctrl)
	now := time.Now()

	set, err := reg.ObtainBlock("variables_set")
	if err != nil {
		t.Fatalf("Failed to obtain variables_set: %v", err)
	}
	if err := set.Field("VAR").SetFromString("x"); err != nil {
		t.Fatalf("Failed to set VAR field: %v", err)
	}
	if err := ws.Variables().Create("x"); err != nil {
		t.Fatalf("Failed to create variable: %v", err)
	}
	num, err := reg.ObtainBlock("math_number")
	if err != nil {
		t.Fatalf("Failed to obtain math_number: %v", err)
	}
	if err := num.Field("NUM").SetFromString("7"); err != nil {
		t.Fatalf("Failed to set NUM field: %v", err)
	}

	if err := ws.AddRootBlock(set); err != nil {
		t.Fatalf("Failed to add root block: %v", err)
	}
	if err := ws.AddRootBlock(num); err != nil {
		t.Fatalf("Failed to add root block: %v", err)
	}
	if err := ctrl.Connect(num.OutputConnection(), set.Input("VALUE").Connection()); err != nil {
		t.Fatalf("Failed to connect number into value input: %v", err)
	}

	// drag a print block until it snaps under the set block
	print_, err := reg.ObtainBlock("text_print")
	if err != nil {
		t.Fatalf("Failed to obtain text_print: %v", err)
	}
	get, err := reg.ObtainBlock("variables_get")
	if err != nil {
		t.Fatalf("Failed to obtain variables_get: %v", err)
	}
	if err := get.Field("VAR").SetFromString("x"); err != nil {
		t.Fatalf("Failed to set VAR field: %v", err)
	}
	print_.MoveBy(300, 300)
	if err := ws.AddRootBlock(print_); err != nil {
		t.Fatalf("Failed to add root block: %v", err)
	}
	if err := ws.AddRootBlock(get); err != nil {
		t.Fatalf("Failed to add root block: %v", err)
	}
	if err := ctrl.Connect(get.OutputConnection(), print_.Input("TEXT").Connection()); err != nil {
		t.Fatalf("Failed to connect getter: %v", err)
	}

	if err := dragger.Touch(print_, now); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}
	if err := dragger.StartDrag(now); err != nil {
		t.Fatalf("StartDrag failed: %v", err)
	}

	// the set block's next socket sits one row below its previous socket
	target := set.NextConnection().Position()
	current := print_.PreviousConnection().Position()
	preview, err := dragger.Move(target.X-current.X+3, target.Y-current.Y+4, now)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if preview == nil {
		t.Fatal("Expected a snap preview within the snap radius")
	}
	if preview.Match != set.NextConnection() {
		t.Errorf("Expected preview to target the set block's next connection")
	}

	result, err := dragger.End(now)
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}
	if result != editor.DragSnapped {
		t.Fatalf("Expected snap, got %s", result)
	}
	if set.NextBlock() != print_ {
		t.Error("Expected print block chained after set block")
	}
	if len(ws.RootBlocks()) != 1 {
		t.Errorf("Expected 1 root tree, got %d", len(ws.RootBlocks()))
	}

	code, err := codegen.NewGenerator().WorkspaceCode(ws)
	if err != nil {
		t.Fatalf("Code generation failed: %v", err)
	}
	expected := "x = 7\nprint(x)"
	if code != expected {
		t.Errorf("Expected code %q, got %q", expected, code)
	}
}

// TestEditorSession_SerializeRoundTrip loads a fixture document, saves it,
// reloads it, and checks the program survives unchanged.
func TestEditorSession_SerializeRoundTrip(t *testing.T) {
	reg := blockdef.StandardRegistry()
	ser := serialize.NewSerializer(reg)
	gen := codegen.NewGenerator()

	ws := workspace.NewWorkspace()
	if err := ser.Load([]byte(testutil.SimpleWorkspaceXML), ws); err != nil {
		t.Fatalf("Failed to load fixture workspace: %v", err)
	}

	codeBefore, err := gen.WorkspaceCode(ws)
	if err != nil {
		t.Fatalf("Code generation failed: %v", err)
	}
	if codeBefore != "x = 7\nprint(x)" {
		t.Errorf("Unexpected generated code: %q", codeBefore)
	}

	data, err := ser.Save(ws)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reloaded := workspace.NewWorkspace()
	if err := ser.Load(data, reloaded); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	codeAfter, err := gen.WorkspaceCode(reloaded)
	if err != nil {
		t.Fatalf("Code generation after reload failed: %v", err)
	}
	if codeAfter != codeBefore {
		t.Errorf("Round trip changed the program: %q vs %q", codeBefore, codeAfter)
	}
	if reloaded.BlockCount() != ws.BlockCount() {
		t.Errorf("Round trip changed block count: %d vs %d", ws.BlockCount(), reloaded.BlockCount())
	}
	if !reloaded.Variables().Has("x") {
		t.Error("Round trip lost the variable registry")
	}
}

// TestEditorSession_CustomDefinitionsAndToolbox registers custom definitions
// next to the standard set and validates a toolbox against them.
func TestEditorSession_CustomDefinitionsAndToolbox(t *testing.T) {
	reg := blockdef.NewRegistry()
	if err := reg.RegisterJSON([]byte(testutil.CounterDefinitionsJSON)); err != nil {
		t.Fatalf("Failed to register custom definitions: %v", err)
	}
	if !reg.Has("counter_start") || !reg.Has("counter_step") {
		t.Fatal("Expected both counter definitions registered")
	}

	start, err := reg.ObtainBlock("counter_start")
	if err != nil {
		t.Fatalf("Failed to obtain counter_start: %v", err)
	}
	if start.PreviousConnection() != nil {
		t.Error("counter_start should have no previous connection")
	}
	if start.NextConnection() == nil {
		t.Error("counter_start should have a next connection")
	}

	std := blockdef.StandardRegistry()
	tb, err := blockdef.ParseToolbox([]byte(testutil.StandardToolboxYAML))
	if err != nil {
		t.Fatalf("Failed to parse toolbox: %v", err)
	}
	if err := tb.Validate(std); err != nil {
		t.Errorf("Standard toolbox should validate: %v", err)
	}
	if got := len(tb.BlockTypes()); got != len(std.Types()) {
		t.Errorf("Toolbox covers %d types, registry has %d", got, len(std.Types()))
	}

	// a toolbox referencing the custom set fails against the standard registry
	custom := &blockdef.Toolbox{Categories: []*blockdef.Category{
		{Name: "Counters", Blocks: []string{"counter_start"}},
	}}
	if err := custom.Validate(std); err == nil {
		t.Error("Expected validation failure for unknown block type")
	}
	if strings.Contains(strings.Join(std.Types(), ","), "counter_start") {
		t.Error("Standard registry must not contain custom types")
	}
}
