// Package parser converts button script lines into Actions.
// Intentionally dumb: one action per line, no expressions.
package parser

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nathoo/tilequest/engine/input"
)

var buttonAliases = map[string]string{
	"u":     "up",
	"n":     "up",
	"north": "up",
	"d":     "down",
	"s":     "down",
	"south": "down",
	"l":     "left",
	"w":     "left",
	"west":  "left",
	"r":     "right",
	"e":     "right",
	"east":  "right",

	"ok":     "a",
	"accept": "a",
	"back":   "b",
	"cancel": "b",

	"inv":       "start",
	"i":         "start",
	"inventory": "start",
	"menu":      "start",
}

var verbAliases = map[string]string{
	"talk":     "hold",
	"interact": "hold",
	"use":      "hold",
	"z":        "wait",
	"sleep":    "wait",
	"idle":     "wait",
}

// fillers are dropped so "talk to left" reads like "hold left a".
var fillers = map[string]bool{
	"to": true, "the": true, "with": true, "then": true,
}

// Kind is what an Action does to the gamepad.
type Kind uint8

const (
	// Press taps Buttons for one frame and releases them for the next.
	Press Kind = iota
	// Hold presses With while Buttons is down, then releases both.
	Hold
	// Wait leaves the gamepad untouched.
	Wait
)

func (k Kind) String() string {
	switch k {
	case Press:
		return "press"
	case Hold:
		return "hold"
	case Wait:
		return "wait"
	}
	return "unknown"
}

// Action is one parsed script line.
type Action struct {
	Kind    Kind
	Buttons input.Button
	With    input.Button
	Count   int
	Line    int
	Text    string
}

// Frames expands the action into the gamepad state of every frame it spans.
func (a Action) Frames() []input.Button {
	var out []input.Button
	for range a.Count {
		switch a.Kind {
		case Press:
			out = append(out, a.Buttons, 0)
		case Hold:
			out = append(out, a.Buttons|a.With, 0)
		case Wait:
			out = append(out, 0)
		}
	}
	return out
}

// SyntaxError reports a line that could not be parsed.
type SyntaxError struct {
	Line int
	Text string
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Msg, e.Text)
}

// Parse converts one script line into an Action. Blank lines and comments
// report ok=false.
func Parse(line string) (a Action, ok bool, err error) {
	a.Text = strings.TrimSpace(line)
	if i := strings.IndexByte(a.Text, '#'); i >= 0 {
		a.Text = strings.TrimSpace(a.Text[:i])
	}
	if a.Text == "" {
		return Action{}, false, nil
	}

	words := strings.Fields(strings.ToLower(a.Text))
	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}
	words = stripFillers(words)

	fail := func(format string, args ...any) (Action, bool, error) {
		return Action{}, false, &SyntaxError{Text: a.Text, Msg: fmt.Sprintf(format, args...)}
	}

	words, a.Count, err = splitCount(words)
	if err != nil {
		return fail("%v", err)
	}

	switch words[0] {
	case "wait":
		a.Kind = Wait
		if len(words) > 2 {
			return fail("wait takes one frame count")
		}
		if len(words) == 2 {
			n, err := strconv.Atoi(words[1])
			if err != nil || n < 1 {
				return fail("bad frame count %s", words[1])
			}
			a.Count *= n
		}
		return a, true, nil

	case "hold":
		a.Kind = Hold
		if len(words) < 2 || len(words) > 3 {
			return fail("hold takes a direction and a button")
		}
		dir, ok := button(words[1])
		if !ok {
			return fail("unknown button %s", words[1])
		}
		if _, isDir := dir.Dir(); !isDir {
			return fail("hold needs a direction, got %s", words[1])
		}
		a.Buttons, a.With = dir, input.A
		if len(words) == 3 {
			if a.With, ok = button(words[2]); !ok {
				return fail("unknown button %s", words[2])
			}
		}
		return a, true, nil
	}

	a.Kind = Press
	for _, w := range words {
		b, ok := button(w)
		if !ok {
			return fail("unknown button %s", w)
		}
		a.Buttons |= b
	}
	return a, true, nil
}

// ParseScript parses every line of r.
func ParseScript(r io.Reader) ([]Action, error) {
	var actions []Action
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		a, ok, err := Parse(scanner.Text())
		if err != nil {
			err.(*SyntaxError).Line = n
			return nil, err
		}
		if ok {
			a.Line = n
			actions = append(actions, a)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return actions, nil
}

func button(word string) (input.Button, bool) {
	if alias, ok := buttonAliases[word]; ok {
		word = alias
	}
	if word == "reset" {
		return 0, false
	}
	return input.Parse(word)
}

// splitCount strips a trailing repeat count written "x3" or "*3".
func splitCount(words []string) ([]string, int, error) {
	last := words[len(words)-1]
	if len(words) < 2 || len(last) < 2 || (last[0] != 'x' && last[0] != '*') {
		return words, 1, nil
	}
	n, err := strconv.Atoi(last[1:])
	if err != nil {
		return words, 1, nil
	}
	if n < 1 {
		return nil, 0, fmt.Errorf("repeat count must be positive")
	}
	return words[:len(words)-1], n, nil
}

func stripFillers(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !fillers[w] {
			result = append(result, w)
		}
	}
	if len(result) == 0 {
		return words
	}
	return result
}
