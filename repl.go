package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mrdg/grain/audio"
	"github.com/mrdg/grain/dub"
)

type env struct {
	engine *audio.Engine
	out    io.Writer
}

func (e *env) eval(input string) error {
	command, err := dub.Parse(input)
	if err != nil {
		return err
	}
	name := string(command.Name)
	for _, cmd := range commands {
		if name != cmd.name {
			continue
		}
		if len(command.Args) != cmd.arity {
			return fmt.Errorf("%s: wrong number of arguments: want %v, got %v",
				cmd.name, cmd.arity, len(command.Args))
		}
		if err := cmd.run(e, command.Args); err != nil {
			return fmt.Errorf("%s error: %w", cmd.name, err)
		}
		return nil
	}
	return fmt.Errorf("unknown command: %s", name)
}

func repl(env *env) error {
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			fmt.Fprintln(env.out, err)
			continue
		}
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		if err := env.eval(line); err != nil {
			fmt.Fprintln(env.out, err)
		}
	}
}

func readArgs(args []dub.Node, slots ...interface{}) error {
	if len(args) != len(slots) {
		return errors.New("not enough arguments")
	}
	for n, arg := range args {
		dest := slots[n]
		switch p := dest.(type) {
		case *string:
			switch s := arg.(type) {
			case dub.String:
				*p = string(s)
			case dub.Identifier:
				*p = string(s)
			default:
				return fmt.Errorf("argument error: expected a string or identifier")
			}
		case *float64:
			switch n := arg.(type) {
			case dub.Float:
				*p = float64(n)
			case dub.Int:
				*p = float64(n)
			default:
				return fmt.Errorf("argument error: expected a number")
			}
		case *int:
			n, ok := arg.(dub.Int)
			if !ok {
				return fmt.Errorf("argument error: expected a number")
			}
			*p = int(n)
		default:
			panic("readArgs: unhandled destination type: " + fmt.Sprint(p))
		}
	}
	return nil
}
