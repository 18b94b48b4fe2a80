package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"zen/pkg/object"
	"zen/pkg/version"
)

const prompt = ">> "

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".zen_history")
}

func startREPL() {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	history := historyPath()
	if history != "" {
		if f, err := os.Open(history); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	fmt.Println("Zen REPL v" + version.Version)
	fmt.Println("Type expressions or statements and press Enter. Ctrl-D exits.")

	in := newInterpreter()
	red := color.New(color.FgRed)

	for {
		input, err := line.Prompt(prompt)
		if err == liner.ErrPromptAborted {
			continue
		}
		if err == io.EOF {
			fmt.Println()
			break
		}
		if err != nil {
			red.Fprintln(os.Stderr, err)
			break
		}
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		result := in.Run(input)
		if result == nil {
			continue
		}
		if result.Type() == object.ERROR_OBJ {
			red.Println(result.Inspect())
			continue
		}
		if result.Type() != object.NIL_OBJ {
			fmt.Println(result.Inspect())
		}
	}

	if history != "" {
		if f, err := os.Create(history); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}
}
