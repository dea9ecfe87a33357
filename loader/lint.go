package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/gopher-lua/ast"
)

// WarningKind classifies a lint Warning.
type WarningKind int

const (
	// NotUsed is a local that is never read. Importing a helper module
	// and using only part of it is common, so these are not reported.
	NotUsed WarningKind = iota
	// ShadowsHelper is a local named after a helper module that holds
	// something other than that module.
	ShadowsHelper
)

func (k WarningKind) String() string {
	switch k {
	case NotUsed:
		return "NotUsed"
	case ShadowsHelper:
		return "ShadowsHelper"
	}
	return fmt.Sprintf("WarningKind(%d)", int(k))
}

// Warning is a non-fatal finding about the user program.
type Warning struct {
	Kind WarningKind
	Name string
	Line int
}

func (w Warning) String() string {
	return fmt.Sprintf("line %d: {kind: %s, name: %q}", w.Line, w.Kind, w.Name)
}

// visibleWarnings drops every warning whose debug form mentions NotUsed.
func visibleWarnings(ws []Warning) []Warning {
	var out []Warning
	for _, w := range ws {
		if strings.Contains(w.String(), "kind: NotUsed") {
			continue
		}
		out = append(out, w)
	}
	return out
}

type local struct {
	name  string
	line  int
	used  bool
	quiet bool // parameters and loop variables
}

type linter struct {
	scopes   [][]*local
	helpers  map[string]bool
	warnings []Warning
}

// lint walks a parsed chunk looking for unused and shadowing locals.
func lint(chunk []ast.Stmt) []Warning {
	l := &linter{helpers: map[string]bool{}}
	for _, name := range helperModuleNames() {
		l.helpers[name] = true
	}
	l.push()
	l.block(chunk)
	l.pop()
	sort.SliceStable(l.warnings, func(i, j int) bool { return l.warnings[i].Line < l.warnings[j].Line })
	return l.warnings
}

func (l *linter) push() { l.scopes = append(l.scopes, nil) }

func (l *linter) pop() {
	top := l.scopes[len(l.scopes)-1]
	l.scopes = l.scopes[:len(l.scopes)-1]
	for _, v := range top {
		if !v.used && !v.quiet && !strings.HasPrefix(v.name, "_") {
			l.warnings = append(l.warnings, Warning{Kind: NotUsed, Name: v.name, Line: v.line})
		}
	}
}

func (l *linter) declare(name string, line int, quiet bool) {
	top := len(l.scopes) - 1
	l.scopes[top] = append(l.scopes[top], &local{name: name, line: line, quiet: quiet})
}

func (l *linter) use(name string) {
	for i := len(l.scopes) - 1; i >= 0; i-- {
		s := l.scopes[i]
		for j := len(s) - 1; j >= 0; j-- {
			if s[j].name == name {
				s[j].used = true
				return
			}
		}
	}
}

func (l *linter) block(stmts []ast.Stmt) {
	for _, s := range stmts {
		l.stmt(s)
	}
}

func (l *linter) scoped(stmts []ast.Stmt) {
	l.push()
	l.block(stmts)
	l.pop()
}

func (l *linter) stmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.LocalAssignStmt:
		// local function f() is parsed as a single function assignment and
		// may refer to itself.
		recursive := len(st.Names) == 1 && len(st.Exprs) == 1 && isFunction(st.Exprs[0])
		if recursive {
			l.declare(st.Names[0], st.Line(), false)
		}
		l.exprs(st.Exprs)
		for i, name := range st.Names {
			if l.helpers[name] && !requires(st.Exprs, i, name) {
				l.warnings = append(l.warnings, Warning{Kind: ShadowsHelper, Name: name, Line: st.Line()})
			}
			if !recursive {
				l.declare(name, st.Line(), false)
			}
		}
	case *ast.AssignStmt:
		for _, lhs := range st.Lhs {
			if _, ok := lhs.(*ast.IdentExpr); ok {
				continue
			}
			l.expr(lhs)
		}
		l.exprs(st.Rhs)
	case *ast.FuncCallStmt:
		l.expr(st.Expr)
	case *ast.DoBlockStmt:
		l.scoped(st.Stmts)
	case *ast.WhileStmt:
		l.expr(st.Condition)
		l.scoped(st.Stmts)
	case *ast.RepeatStmt:
		// The condition sees the body's locals.
		l.push()
		l.block(st.Stmts)
		l.expr(st.Condition)
		l.pop()
	case *ast.IfStmt:
		l.expr(st.Condition)
		l.scoped(st.Then)
		l.scoped(st.Else)
	case *ast.NumberForStmt:
		l.expr(st.Init)
		l.expr(st.Limit)
		l.expr(st.Step)
		l.push()
		l.declare(st.Name, st.Line(), true)
		l.block(st.Stmts)
		l.pop()
	case *ast.GenericForStmt:
		l.exprs(st.Exprs)
		l.push()
		for _, name := range st.Names {
			l.declare(name, st.Line(), true)
		}
		l.block(st.Stmts)
		l.pop()
	case *ast.FuncDefStmt:
		if st.Name != nil {
			if _, ok := st.Name.Func.(*ast.IdentExpr); !ok {
				l.expr(st.Name.Func)
			}
			l.expr(st.Name.Receiver)
		}
		l.function(st.Func, st.Name != nil && st.Name.Method != "")
	case *ast.ReturnStmt:
		l.exprs(st.Exprs)
	}
}

func (l *linter) exprs(es []ast.Expr) {
	for _, e := range es {
		l.expr(e)
	}
}

func (l *linter) expr(e ast.Expr) {
	switch ex := e.(type) {
	case nil:
	case *ast.IdentExpr:
		l.use(ex.Value)
	case *ast.AttrGetExpr:
		l.expr(ex.Object)
		l.expr(ex.Key)
	case *ast.TableExpr:
		for _, f := range ex.Fields {
			l.expr(f.Key)
			l.expr(f.Value)
		}
	case *ast.FuncCallExpr:
		l.expr(ex.Func)
		l.expr(ex.Receiver)
		l.exprs(ex.Args)
	case *ast.LogicalOpExpr:
		l.expr(ex.Lhs)
		l.expr(ex.Rhs)
	case *ast.RelationalOpExpr:
		l.expr(ex.Lhs)
		l.expr(ex.Rhs)
	case *ast.StringConcatOpExpr:
		l.expr(ex.Lhs)
		l.expr(ex.Rhs)
	case *ast.ArithmeticOpExpr:
		l.expr(ex.Lhs)
		l.expr(ex.Rhs)
	case *ast.UnaryMinusOpExpr:
		l.expr(ex.Expr)
	case *ast.UnaryNotOpExpr:
		l.expr(ex.Expr)
	case *ast.UnaryLenOpExpr:
		l.expr(ex.Expr)
	case *ast.FunctionExpr:
		l.function(ex, false)
	}
}

func (l *linter) function(fn *ast.FunctionExpr, method bool) {
	if fn == nil {
		return
	}
	l.push()
	if method {
		l.declare("self", fn.Line(), true)
	}
	if fn.ParList != nil {
		for _, p := range fn.ParList.Names {
			l.declare(p, fn.Line(), true)
		}
	}
	l.block(fn.Stmts)
	l.pop()
}

func isFunction(e ast.Expr) bool {
	_, ok := e.(*ast.FunctionExpr)
	return ok
}

// requires reports whether exprs[i] is require("name").
func requires(exprs []ast.Expr, i int, name string) bool {
	if i >= len(exprs) {
		return false
	}
	call, ok := exprs[i].(*ast.FuncCallExpr)
	if !ok || call.Receiver != nil || len(call.Args) != 1 {
		return false
	}
	fn, ok := call.Func.(*ast.IdentExpr)
	if !ok || fn.Value != "require" {
		return false
	}
	arg, ok := call.Args[0].(*ast.StringExpr)
	return ok && arg.Value == name
}
