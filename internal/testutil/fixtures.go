// Package testutil holds shared fixtures for integration tests.
package testutil

// CounterDefinitionsJSON is a small custom block set used to exercise the
// definition pipeline end to end.
const CounterDefinitionsJSON = `[
	{
		"type": "counter_start",
		"message0": "start counter at %1",
		"args0": [{"type": "input_value", "name": "FROM", "check": "Number"}],
		"nextStatement": null,
		"colour": "20"
	},
	{
		"type": "counter_step",
		"message0": "step by %1",
		"args0": [{"type": "input_value", "name": "BY", "check": "Number"}],
		"previousStatement": null,
		"nextStatement": null,
		"colour": "20"
	}
]`

// StandardToolboxYAML is a toolbox referencing standard library block types.
const StandardToolboxYAML = `
categories:
  - name: Math
    colour: "230"
    blocks: [math_number, math_arithmetic]
  - name: Logic
    colour: "210"
    blocks: [logic_boolean, logic_compare, logic_operation]
  - name: Text
    colour: "160"
    blocks: [text, text_print]
  - name: Variables
    colour: "330"
    blocks: [variables_get, variables_set]
  - name: Control
    colour: "120"
    blocks: [controls_if, controls_repeat_ext]
`

// SimpleWorkspaceXML is a hand-written workspace document: set x to 7, then
// print x.
const SimpleWorkspaceXML = `<?xml version="1.0" encoding="UTF-8"?>
<xml xmlns="https://developers.google.com/blockly/xml">
  <variables>
    <variable>x</variable>
  </variables>
  <block type="variables_set" x="0" y="0">
    <field name="VAR">x</field>
    <value name="VALUE">
      <block type="math_number">
        <field name="NUM">7</field>
      </block>
    </value>
    <next>
      <block type="text_print">
        <value name="TEXT">
          <block type="variables_get">
            <field name="VAR">x</field>
          </block>
        </value>
      </block>
    </next>
  </block>
</xml>`
