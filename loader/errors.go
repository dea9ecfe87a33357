package loader

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a ConfigError.
type ErrorKind int

const (
	TypeMismatch ErrorKind = iota
	FieldMissing
	SizeError
	UnexpectedTileKind
	UnexpectedEntityKind
	OutOfBoundsDefID
	UnknownEntityDefIDRefKind
	UnknownCollectActionKind
	UnknownHallwayKind
	DefIDOverflow
	TooManyEntityDefinitions
	NoSegmentsFound
	NoEntitiesFound
)

var errorKindNames = [...]string{
	TypeMismatch:              "type mismatch",
	FieldMissing:              "field missing",
	SizeError:                 "size error",
	UnexpectedTileKind:        "unexpected tile kind",
	UnexpectedEntityKind:      "unexpected entity kind",
	OutOfBoundsDefID:          "def id out of bounds",
	UnknownEntityDefIDRefKind: "unknown def id ref kind",
	UnknownCollectActionKind:  "unknown collect action kind",
	UnknownHallwayKind:        "unknown hallway kind",
	DefIDOverflow:             "def id overflow",
	TooManyEntityDefinitions:  "too many entity definitions",
	NoSegmentsFound:           "no segments found",
	NoEntitiesFound:           "no entities found",
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(errorKindNames) {
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
	return errorKindNames[k]
}

// ConfigError is a schema violation found while extracting a Config. Key and
// Parent locate the offending node; Parent carries an index where one applies,
// e.g. "entities[3]".
type ConfigError struct {
	Kind   ErrorKind
	Key    string
	Parent string

	// TypeMismatch
	Expected string
	Got      string

	// Index is the element index for tile and entity kind errors.
	Index int
	// Value is the offending integer, where there is one.
	Value int64

	Detail string
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.String())
	if e.Key != "" {
		fmt.Fprintf(&b, " at %s", e.location())
	}
	switch e.Kind {
	case TypeMismatch:
		fmt.Fprintf(&b, ": expected %s, got %s", e.Expected, e.Got)
	case UnexpectedTileKind, UnexpectedEntityKind:
		fmt.Fprintf(&b, ": index %d, got %#x", e.Index, e.Value)
	case OutOfBoundsDefID, DefIDOverflow, UnknownEntityDefIDRefKind,
		UnknownCollectActionKind, UnknownHallwayKind, TooManyEntityDefinitions:
		fmt.Fprintf(&b, ": got %d", e.Value)
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}
	return b.String()
}

func (e *ConfigError) location() string {
	if e.Parent == "" {
		return e.Key
	}
	return e.Parent + "." + e.Key
}

// ScriptErrorKind classifies a ScriptError.
type ScriptErrorKind int

const (
	// KindBuild is a syntax error in the program.
	KindBuild ScriptErrorKind = iota
	// KindContext means the helper modules could not be installed.
	KindContext
	// KindDiagnostics covers compile errors and errors raised while running.
	KindDiagnostics
	// KindRuntime is a bad main or a value that cannot be converted.
	KindRuntime
	// KindFromConfig carries the message main passed to Err.
	KindFromConfig
)

func (k ScriptErrorKind) String() string {
	switch k {
	case KindBuild:
		return "build"
	case KindContext:
		return "context"
	case KindDiagnostics:
		return "diagnostics"
	case KindRuntime:
		return "runtime"
	case KindFromConfig:
		return "from config"
	}
	return fmt.Sprintf("ScriptErrorKind(%d)", int(k))
}

// Diagnostic points at a source line.
type Diagnostic struct {
	Chunk   string
	Line    int
	Message string
	Snippet string
}

func (d Diagnostic) String() string {
	if d.Line <= 0 {
		return fmt.Sprintf("%s: %s", d.Chunk, d.Message)
	}
	s := fmt.Sprintf("%s:%d: %s", d.Chunk, d.Line, d.Message)
	if d.Snippet != "" {
		s += fmt.Sprintf("\n  %4d | %s", d.Line, d.Snippet)
	}
	return s
}

// ScriptError is a failure to evaluate a configuration program.
type ScriptError struct {
	Kind        ScriptErrorKind
	Message     string
	Diagnostics []Diagnostic
	Err         error
}

func (e *ScriptError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s error", e.Kind)
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	for _, d := range e.Diagnostics {
		b.WriteString("\n")
		b.WriteString(d.String())
	}
	return b.String()
}

func (e *ScriptError) Unwrap() error { return e.Err }
