// Command dnetcli is an interactive shell over a discrimination net: add
// patterns, match ground expressions against them, and inspect the
// resulting automaton.
package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	var (
		prompt = flag.String("prompt", "dnet> ", "REPL prompt string")
		help   = flag.Bool("help", false, "Show help message")
		cmd    = flag.String("c", "", "Run a single command and exit")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	repl := NewREPL()
	repl.SetPrompt(*prompt)

	if *cmd != "" {
		if !repl.handleCommand(*cmd) {
			fmt.Fprintf(os.Stderr, "unrecognized command: %s\n", *cmd)
			os.Exit(1)
		}
		return
	}

	if err := repl.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "repl error: %v\n", err)
		os.Exit(1)
	}
}

func showHelp() {
	fmt.Println(`dnetcli - discrimination net REPL

Usage:
  dnetcli [flags]

Flags:
  -prompt string   Set the REPL prompt (default "dnet> ")
  -c command       Run one command and exit
  -help            Show this help message

Commands (once running):
  add <pattern>    Add a pattern, e.g. add f(___, a, b)
  match <expr>     Match an expression, e.g. match f(c, a, b)
  dump             Print the automaton
  help             Show in-REPL help
  quit, exit       Leave the REPL`)
}
