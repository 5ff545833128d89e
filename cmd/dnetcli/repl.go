package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/lmorg/readline/v4"
	"golang.org/x/term"

	"github.com/term-index/discrim/dnet"
)

// REPL drives one live *dnet.Net from either an interactive readline
// session or a piped stream of commands.
type REPL struct {
	net    *dnet.Net
	input  io.Reader
	output io.Writer
	prompt string
}

// NewREPL builds a REPL around a fresh, empty net.
func NewREPL() *REPL {
	start := time.Now()
	r := &REPL{
		net:    dnet.NewNet(),
		input:  os.Stdin,
		output: os.Stdout,
		prompt: "dnet> ",
	}
	log.Printf("net ready in %.3fms", 1000*time.Since(start).Seconds())
	return r
}

// NewREPLWithIO builds a REPL over custom input/output, for tests and -c.
func NewREPLWithIO(input io.Reader, output io.Writer) *REPL {
	return &REPL{
		net:    dnet.NewNet(),
		input:  input,
		output: output,
		prompt: "dnet> ",
	}
}

func (r *REPL) SetPrompt(prompt string) { r.prompt = prompt }

func (r *REPL) isInteractive() bool {
	if r.input == os.Stdin {
		return term.IsTerminal(int(os.Stdin.Fd()))
	}
	return false
}

// Run dispatches to the interactive or piped loop depending on stdin.
func (r *REPL) Run() error {
	if r.isInteractive() {
		return r.runInteractive()
	}
	scanner := bufio.NewScanner(r.input)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if r.handleCommand(line) {
			continue
		}
		r.report(fmt.Errorf("unrecognized command: %s", line))
	}
	return scanner.Err()
}

func (r *REPL) runInteractive() error {
	rl := readline.NewInstance()
	rl.SetPrompt(r.prompt)
	for {
		line, err := rl.Readline()
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch line {
		case "quit", "exit":
			fmt.Fprintln(r.output, "Goodbye!")
			return nil
		case "help":
			r.printHelp()
			continue
		}
		if r.handleCommand(line) {
			continue
		}
		r.report(fmt.Errorf("unrecognized command: %s", line))
	}
}

// handleCommand recognizes "add <pattern>", "match <expr>" and "dump".
// It returns false when line matches none of them.
func (r *REPL) handleCommand(line string) bool {
	switch {
	case line == "dump":
		r.net.Dump(r.output)
		return true
	case strings.HasPrefix(line, "add "):
		r.cmdAdd(strings.TrimSpace(line[len("add "):]))
		return true
	case strings.HasPrefix(line, "match "):
		r.cmdMatch(strings.TrimSpace(line[len("match "):]))
		return true
	default:
		return false
	}
}

func (r *REPL) cmdAdd(text string) {
	e, err := parseExpr(text)
	if err != nil {
		r.report(fmt.Errorf("parse error: %v", err))
		return
	}
	if err := r.net.Add(e, nil); err != nil {
		r.report(err)
		return
	}
	fmt.Fprintf(r.output, "added %s\n", e.String())
}

func (r *REPL) cmdMatch(text string) {
	e, err := parseExpr(text)
	if err != nil {
		r.report(fmt.Errorf("parse error: %v", err))
		return
	}
	payloads, err := r.net.Match(e, false)
	if err != nil {
		r.report(err)
		return
	}
	if len(payloads) == 0 {
		fmt.Fprintln(r.output, "(no match)")
		return
	}
	for _, p := range payloads {
		fmt.Fprintf(r.output, "%v\n", p)
	}
}

func (r *REPL) report(err error) {
	fmt.Fprintf(r.output, "Error: %v\n", err)
}

func (r *REPL) printHelp() {
	fmt.Fprint(r.output, `
Discrimination Net REPL
========================

Commands:
  add <pattern>    Add a pattern to the net (payload defaults to the pattern)
  match <expr>     Match a ground expression against the net, print payloads
  dump             Print the current DFA as a flat text graph
  help             Show this help message
  quit, exit       Exit the REPL

Syntax:
  f(a, b)          a compound term
  _                a fixed single-element wildcard
  __               an unbounded sequence wildcard requiring >=1 element
  ___              an unbounded sequence wildcard allowing 0 elements
  x_, x___         a named wildcard, bound in sequence-match substitutions
  _:Number         a symbol wildcard matching any Symbol of kind Number

Example:
  add f(___, a, b)
  match f(c, a, b)
`)
}
