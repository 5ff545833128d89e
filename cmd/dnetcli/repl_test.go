package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestREPLAddAndMatch(t *testing.T) {
	var out bytes.Buffer
	r := NewREPLWithIO(strings.NewReader(""), &out)

	r.handleCommand("add f(___, a, b)")
	r.handleCommand("match f(c, a, b)")
	r.handleCommand("match f(a, b, c)")

	got := out.String()
	if !strings.Contains(got, "added f(___") {
		t.Errorf("expected add confirmation, got %q", got)
	}
	if strings.Contains(got, "(no match)") == false {
		t.Errorf("expected a (no match) line for f(a, b, c), got %q", got)
	}
}

func TestREPLDumpOnEmptyNet(t *testing.T) {
	var out bytes.Buffer
	r := NewREPLWithIO(strings.NewReader(""), &out)
	r.handleCommand("dump")
	if !strings.Contains(out.String(), "(empty net)") {
		t.Errorf("expected empty-net dump message, got %q", out.String())
	}
}

func TestREPLUnrecognizedCommand(t *testing.T) {
	var out bytes.Buffer
	r := NewREPLWithIO(strings.NewReader(""), &out)
	if r.handleCommand("frobnicate") {
		t.Errorf("expected handleCommand to return false for an unrecognized command")
	}
}

func TestREPLRunOverPipedInput(t *testing.T) {
	var out bytes.Buffer
	input := "add f(a, b)\nmatch f(a, b)\n"
	r := NewREPLWithIO(strings.NewReader(input), &out)
	if err := r.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "added f(a, b)") {
		t.Errorf("expected add confirmation in piped run, got %q", out.String())
	}
}
