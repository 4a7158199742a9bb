package blockdef

// Standard block definitions in the same JSON format user definitions use.
// They cover enough of the usual palette for toolboxes, serialization
// round-trips, and code generation to have real material to work with.
var standardDefinitions = []string{
	`{
		"type": "math_number",
		"message0": "%1",
		"args0": [
			{"type": "field_number", "name": "NUM", "value": 0}
		],
		"output": "Number",
		"colour": "230"
	}`,
	`{
		"type": "math_arithmetic",
		"message0": "%1 %2 %3",
		"args0": [
			{"type": "input_value", "name": "A", "check": "Number"},
			{"type": "field_dropdown", "name": "OP", "options": [
				["+", "ADD"], ["-", "MINUS"], ["*", "MULTIPLY"],
				["/", "DIVIDE"], ["^", "POWER"]
			]},
			{"type": "input_value", "name": "B", "check": "Number"}
		],
		"output": "Number",
		"inputsInline": true,
		"colour": "230"
	}`,
	`{
		"type": "logic_boolean",
		"message0": "%1",
		"args0": [
			{"type": "field_dropdown", "name": "BOOL", "options": [
				["true", "TRUE"], ["false", "FALSE"]
			]}
		],
		"output": "Boolean",
		"colour": "210"
	}`,
	`{
		"type": "logic_compare",
		"message0": "%1 %2 %3",
		"args0": [
			{"type": "input_value", "name": "A"},
			{"type": "field_dropdown", "name": "OP", "options": [
				["=", "EQ"], ["≠", "NEQ"], ["<", "LT"],
				["≤", "LTE"], [">", "GT"], ["≥", "GTE"]
			]},
			{"type": "input_value", "name": "B"}
		],
		"output": "Boolean",
		"inputsInline": true,
		"colour": "210"
	}`,
	`{
		"type": "logic_operation",
		"message0": "%1 %2 %3",
		"args0": [
			{"type": "input_value", "name": "A", "check": "Boolean"},
			{"type": "field_dropdown", "name": "OP", "options": [
				["and", "AND"], ["or", "OR"]
			]},
			{"type": "input_value", "name": "B", "check": "Boolean"}
		],
		"output": "Boolean",
		"inputsInline": true,
		"colour": "210"
	}`,
	`{
		"type": "text",
		"message0": "“%1”",
		"args0": [
			{"type": "field_input", "name": "TEXT", "text": ""}
		],
		"output": "String",
		"colour": "160"
	}`,
	`{
		"type": "text_print",
		"message0": "print %1",
		"args0": [
			{"type": "input_value", "name": "TEXT"}
		],
		"previousStatement": null,
		"nextStatement": null,
		"colour": "160"
	}`,
	`{
		"type": "variables_get",
		"message0": "%1",
		"args0": [
			{"type": "field_variable", "name": "VAR", "variable": "item"}
		],
		"output": null,
		"colour": "330"
	}`,
	`{
		"type": "variables_set",
		"message0": "set %1 to %2",
		"args0": [
			{"type": "field_variable", "name": "VAR", "variable": "item"},
			{"type": "input_value", "name": "VALUE"}
		],
		"previousStatement": null,
		"nextStatement": null,
		"colour": "330"
	}`,
	`{
		"type": "controls_if",
		"message0": "if %1 do %2",
		"args0": [
			{"type": "input_value", "name": "IF0", "check": "Boolean"},
			{"type": "input_statement", "name": "DO0"}
		],
		"previousStatement": null,
		"nextStatement": null,
		"colour": "120"
	}`,
	`{
		"type": "controls_repeat_ext",
		"message0": "repeat %1 times do %2",
		"args0": [
			{"type": "input_value", "name": "TIMES", "check": "Number"},
			{"type": "input_statement", "name": "DO"}
		],
		"previousStatement": null,
		"nextStatement": null,
		"colour": "120"
	}`,
}

// StandardRegistry returns a registry pre-loaded with the standard block
// definitions. The definitions are static, so a failure to load them is a
// programming error.
func StandardRegistry() *Registry {
	reg := NewRegistry()
	for _, src := range standardDefinitions {
		if err := reg.RegisterJSON([]byte(src)); err != nil {
			panic("blockdef: standard definition failed to load: " + err.Error())
		}
	}
	return reg
}
