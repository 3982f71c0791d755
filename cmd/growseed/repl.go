package main

import (
	"fmt"
	"io"

	"github.com/chzyer/readline"

	"github.com/dekarrin/growseed/internal/grammar"
)

// runREPL reads one line of input at a time via a readline-backed prompt,
// parses each line against g, and prints the result, until EOF, an
// interrupt, or an empty line.
func runREPL(g grammar.Grammar, prompt string) error {
	rl, err := readline.NewEx(&readline.Config{Prompt: prompt})
	if err != nil {
		return fmt.Errorf("create readline session: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				return nil
			}
			return err
		}
		if line == "" {
			return nil
		}

		result, _ := evaluate(g, line)
		fmt.Println(result)
	}
}
