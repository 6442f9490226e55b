package dub

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	type test struct {
		input  string
		expect Command
	}
	tests := []test{
		{
			input: "set density 20",
			expect: Command{
				Name: "set",
				Args: []Node{Identifier("density"), Int(20)},
			},
		},
		{
			input: "set rand.pitch 0.3",
			expect: Command{
				Name: "set",
				Args: []Node{Identifier("rand.pitch"), Float(0.3)},
			},
		},
		{
			input: `load "field recording.wav"`,
			expect: Command{
				Name: "load",
				Args: []Node{String("field recording.wav")},
			},
		},
		{
			input: "rec on",
			expect: Command{
				Name: "rec",
				Args: []Node{Identifier("on")},
			},
		},
		{
			input:  "show",
			expect: Command{Name: "show"},
		},
	}

	for _, test := range tests {
		cmd, err := Parse(test.input)
		if err != nil {
			t.Errorf("%s: %s", test.input, err)
			continue
		}
		if !reflect.DeepEqual(cmd, test.expect) {
			t.Errorf("%s:\nwant: %+v\ngot:  %+v", test.input, test.expect, cmd)
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, input := range []string{
		"",
		"42 set",
		`"load" file.wav`,
	} {
		if _, err := Parse(input); err == nil {
			t.Errorf("%s: expected a parse error", input)
		}
	}
}
