package main

import (
	"fmt"

	"github.com/mrdg/grain/audio"
	"github.com/mrdg/grain/dub"
)

type command struct {
	name  string
	run   func(*env, []dub.Node) error
	arity int
}

var commands = []command{
	{"set", setCommand, 2},
	{"get", getCommand, 1},
	{"props", propsCommand, 0},
	{"load", loadCommand, 1},
	{"rec", recCommand, 1},
	{"show", showCommand, 0},
	{"help", helpCommand, 0},
}

func setCommand(env *env, args []dub.Node) error {
	var prop string
	if err := readArgs(args[:1], &prop); err != nil {
		return err
	}
	switch v := args[1].(type) {
	case dub.Int:
		return env.engine.Props().Set(prop, int(v))
	case dub.Float:
		return env.engine.Props().Set(prop, float64(v))
	case dub.String:
		return env.engine.Props().Set(prop, string(v))
	case dub.Identifier:
		return env.engine.Props().Set(prop, string(v))
	default:
		return fmt.Errorf("unsupported property type: %v", v)
	}
}

func getCommand(env *env, args []dub.Node) error {
	var prop string
	if err := readArgs(args, &prop); err != nil {
		return err
	}
	v, err := env.engine.Props().Get(prop)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "%s: %s\n", prop, formatProp(env, prop, v))
	return nil
}

func propsCommand(env *env, _ []dub.Node) error {
	props := env.engine.Props()
	for _, key := range props.Keys() {
		v, err := props.Get(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(env.out, "%-14s %s\n", key, formatProp(env, key, v))
	}
	return nil
}

// formatProp renders density and size according to the sync mode, so a
// synced engine shows bar divisions instead of raw knob values.
func formatProp(env *env, key string, v interface{}) string {
	synced := false
	if mode, err := env.engine.Props().Get("sync"); err == nil {
		synced = mode == "sync"
	}
	switch key {
	case "density":
		return audio.FormatDensity(v.(float64), synced)
	case "size":
		return audio.FormatSize(v.(float64), synced)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func loadCommand(env *env, args []dub.Node) error {
	var file string
	if err := readArgs(args, &file); err != nil {
		return err
	}
	env.engine.BeginLoad()
	samples, rate, err := audio.DecodeFile(file)
	if err != nil {
		env.engine.AbortLoad()
		return err
	}
	// dropping in a file releases the record latch, as the engine cancels
	// any armed recording on replacement
	env.engine.Props().Set("record", 0.0)
	env.engine.SetClip(samples, rate)
	fmt.Fprintf(env.out, "loaded %s: %.2fs at %d Hz\n", file,
		float64(len(samples))/float64(rate), rate)
	return nil
}

func recCommand(env *env, args []dub.Node) error {
	var mode string
	if err := readArgs(args, &mode); err != nil {
		return err
	}
	switch mode {
	case "on":
		return env.engine.Props().Set("record", 10.0)
	case "off":
		return env.engine.Props().Set("record", 0.0)
	default:
		return fmt.Errorf("rec wants on or off, got %q", mode)
	}
}

func showCommand(env *env, _ []dub.Node) error {
	renderView(env.engine.CurrentView(), env.out)
	return nil
}

func helpCommand(env *env, _ []dub.Node) error {
	fmt.Fprintln(env.out, `commands:
  set <prop> <value>   update a property (see props)
  get <prop>           read a property
  props                list all properties
  load <file>          load a wav/mp3/ogg sample
  rec on|off           toggle live input recording
  show                 draw the waveform, grains and loop window`)
	return nil
}
