package loader

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

// Result is the outcome of evaluating a configuration program.
type Result struct {
	Value    map[string]any
	Warnings []Warning
}

// Evaluate runs a configuration program in a sandboxed VM. The program must
// define a global main() returning Ok(table) or Err(message). The VM is
// discarded before Evaluate returns.
func Evaluate(name, src string) (*Result, error) {
	stmts, err := parse.Parse(strings.NewReader(src), name)
	if err != nil {
		return nil, &ScriptError{
			Kind:        KindBuild,
			Message:     "syntax error",
			Diagnostics: []Diagnostic{parseDiagnostic(name, src, err)},
			Err:         err,
		}
	}

	warnings := visibleWarnings(lint(stmts))

	proto, err := lua.Compile(stmts, name)
	if err != nil {
		d := Diagnostic{Chunk: name, Message: err.Error()}
		var ce *lua.CompileError
		if errors.As(err, &ce) {
			d.Line = ce.Line
			d.Message = ce.Message
			d.Snippet = sourceLine(src, ce.Line)
		}
		return nil, &ScriptError{Kind: KindDiagnostics, Message: "compile error", Diagnostics: []Diagnostic{d}, Err: err}
	}

	L := newSandbox()
	defer L.Close()

	if err := registerHelpers(L); err != nil {
		return nil, &ScriptError{Kind: KindContext, Message: "installing helper modules", Err: err}
	}

	L.Push(L.NewFunctionFromProto(proto))
	if err := L.PCall(0, 0, nil); err != nil {
		return nil, runtimeError(name, src, "running chunk", err)
	}

	mainFn, ok := L.GetGlobal("main").(*lua.LFunction)
	if !ok {
		return nil, &ScriptError{Kind: KindRuntime, Message: "main is not defined as a function"}
	}
	if err := L.CallByParam(lua.P{Fn: mainFn, NRet: 1, Protect: true}); err != nil {
		return nil, runtimeError(name, src, "calling main", err)
	}
	ret := L.Get(-1)
	L.Pop(1)

	ud, ok := ret.(*lua.LUserData)
	if !ok {
		return nil, &ScriptError{Kind: KindRuntime, Message: fmt.Sprintf("main returned %s, want Ok(...) or Err(...)", ret.Type())}
	}
	switch r := ud.Value.(type) {
	case errResult:
		return nil, &ScriptError{Kind: KindFromConfig, Message: r.message}
	case okResult:
		v, err := toValue(r.value, 0)
		if err != nil {
			return nil, &ScriptError{Kind: KindRuntime, Message: "converting result", Err: err}
		}
		m, ok := v.(map[string]any)
		if !ok {
			return nil, &ScriptError{Kind: KindRuntime, Message: fmt.Sprintf("main returned Ok(%s), want Ok(table)", typeName(v))}
		}
		return &Result{Value: m, Warnings: warnings}, nil
	}
	return nil, &ScriptError{Kind: KindRuntime, Message: "main returned foreign userdata"}
}

// newSandbox creates a VM with only the safe standard libraries. The package
// library stays so require() can resolve the preloaded helper modules, but
// its search paths are cleared.
func newSandbox() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	lua.OpenPackage(L)

	for _, name := range []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage",
	} {
		L.SetGlobal(name, lua.LNil)
	}
	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("randomseed", lua.LNil)
	}
	if tbl, ok := L.GetGlobal("package").(*lua.LTable); ok {
		tbl.RawSetString("path", lua.LString(""))
		tbl.RawSetString("cpath", lua.LString(""))
	}
	return L
}

func parseDiagnostic(name, src string, err error) Diagnostic {
	d := Diagnostic{Chunk: name, Message: err.Error()}
	var pe *parse.Error
	if errors.As(err, &pe) {
		d.Line = pe.Pos.Line
		d.Message = pe.Message
		if pe.Token != "" {
			d.Message += fmt.Sprintf(" near '%s'", pe.Token)
		}
		d.Snippet = sourceLine(src, pe.Pos.Line)
	}
	return d
}

var wherePrefix = regexp.MustCompile(`^([^:\n]+):(\d+):\s*`)

func runtimeError(name, src, stage string, err error) error {
	msg := err.Error()
	var ae *lua.ApiError
	if errors.As(err, &ae) && ae.Object != nil {
		msg = ae.Object.String()
	}
	d := Diagnostic{Chunk: name, Message: msg}
	if m := wherePrefix.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[2])
		d.Chunk = m[1]
		d.Line = line
		d.Message = msg[len(m[0]):]
		if m[1] == name {
			d.Snippet = sourceLine(src, line)
		}
	}
	return &ScriptError{Kind: KindDiagnostics, Message: stage, Diagnostics: []Diagnostic{d}, Err: err}
}

// sourceLine returns the 1-based line n of src, trimmed.
func sourceLine(src string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(src, "\n")
	if n > len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[n-1])
}
