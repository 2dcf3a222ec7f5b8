// Package compiler turns a syntax tree into an executable Program.
//
// Compilation checks every function call against the declared parameters
// of the called function. All errors found in a program are reported
// together; a program with errors is never returned.
package compiler

import (
	"fmt"
	"regexp"
	"time"

	"github.com/influxdata/remap"
	"github.com/influxdata/remap/ast"
	"github.com/influxdata/remap/expression"
	"github.com/influxdata/remap/functions"
	"github.com/influxdata/remap/kit/errors"
	"github.com/influxdata/remap/value"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Compile compiles the tree rooted at root.
func Compile(root ast.Node, opts ...Option) (*Program, error) {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = functions.Registry()
	}

	c := &compiler{
		registry: o.registry,
		state:    remap.NewCompilerState(),
		log:      o.log,
		defined:  make(map[string]bool),
		assigned: make(map[string]bool),
	}
	expr := c.compile(root)

	var td remap.TypeDef
	if c.errs == nil {
		td = expr.TypeDef(c.state)
		if o.accepts != nil {
			c.checkAccepts(td, *o.accepts)
		}
	}
	if c.errs != nil {
		o.log.Debug("Program rejected", zap.Int("errors", len(multierr.Errors(c.errs))))
		return nil, &errors.Error{
			Code: errors.ECompile,
			Msg:  "failed compiling program",
			Err:  c.errs,
		}
	}

	o.log.Debug("Program compiled", zap.Stringer("type_def", td))
	return &Program{expr: expr, state: c.state, typeDef: td}, nil
}

// Errors returns the individual errors of a failed compilation.
func Errors(err error) []error {
	if e, ok := err.(*errors.Error); ok && e.Code == errors.ECompile && e.Err != nil {
		return multierr.Errors(e.Err)
	}
	return multierr.Errors(err)
}

type compiler struct {
	registry *remap.Registry
	state    *remap.CompilerState
	log      *zap.Logger
	errs     error

	// defined holds every variable assigned so far in source order.
	// assigned holds the variables assigned in the current branch.
	defined  map[string]bool
	assigned map[string]bool
}

// unset is the type of a variable read before it is assigned.
var unset = remap.TypeDef{Optional: true, Kind: value.KindNull}

func (c *compiler) fail(err error) remap.Expression {
	c.errs = multierr.Append(c.errs, err)
	return expression.Noop{}
}

func (c *compiler) checkAccepts(td, accepts remap.TypeDef) {
	if td.Fallible && !accepts.Fallible {
		c.fail(errors.Compilef("program may fail at runtime, but must be infallible"))
	}
	if !td.Kind.IsSubsetOf(accepts.Kind) {
		c.fail(errors.Compilef("program may resolve to %s, but only %s is accepted", td.Kind, accepts.Kind))
	}
}

func (c *compiler) compileAll(nodes []ast.Node) []remap.Expression {
	exprs := make([]remap.Expression, len(nodes))
	for i, n := range nodes {
		exprs[i] = c.compile(n)
	}
	return exprs
}

func (c *compiler) compile(n ast.Node) remap.Expression {
	switch n := n.(type) {
	case nil:
		return expression.Noop{}
	case *ast.Noop:
		return expression.Noop{}
	case *ast.Literal:
		return expression.NewLiteral(n.Value)
	case *ast.Regex:
		re, err := regexp.Compile(n.Pattern)
		if err != nil {
			return c.fail(errors.Compilef("invalid regex %q: %v", n.Pattern, err))
		}
		return expression.NewLiteral(value.Regex(re))
	case *ast.Timestamp:
		ts, err := time.Parse(time.RFC3339Nano, n.Value)
		if err != nil {
			return c.fail(errors.Compilef("invalid timestamp %q: %v", n.Value, err))
		}
		return expression.NewLiteral(value.Timestamp(ts))
	case *ast.Array:
		return expression.NewArray(c.compileAll(n.Items)...)
	case *ast.Map:
		fields := make(map[string]remap.Expression, len(n.Fields))
		for k, f := range n.Fields {
			fields[k] = c.compile(f)
		}
		return expression.NewMap(fields)
	case *ast.Path:
		p, err := remap.ParsePath(n.Path)
		if err != nil {
			return c.fail(err)
		}
		return expression.NewPath(p)
	case *ast.Variable:
		if !c.defined[n.Name] {
			c.state.SetVariableTypeDef(n.Name, unset)
		}
		return expression.NewVariable(n.Name)
	case *ast.Assignment:
		return c.compileAssignment(n)
	case *ast.Block:
		return expression.NewBlock(c.compileAll(n.Exprs)...)
	case *ast.If:
		return c.compileIf(n)
	case *ast.Not:
		return expression.NewNot(c.compile(n.Expr))
	case *ast.Binary:
		lhs, rhs := c.compile(n.LHS), c.compile(n.RHS)
		op, err := expression.ParseOperator(n.Op)
		if err != nil {
			return c.fail(err)
		}
		return expression.NewArithmetic(op, lhs, rhs)
	case *ast.Call:
		return c.compileCall(n)
	}
	return c.fail(errors.Compilef("unknown syntax node of type %T", n))
}

func (c *compiler) compileAssignment(n *ast.Assignment) remap.Expression {
	v := c.compile(n.Value)
	switch target := n.Target.(type) {
	case *ast.Variable:
		c.state.SetVariableTypeDef(target.Name, v.TypeDef(c.state))
		c.defined[target.Name] = true
		c.assigned[target.Name] = true
		return expression.NewAssignment(expression.Target{Variable: target.Name}, v)
	case *ast.Path:
		p, err := remap.ParsePath(target.Path)
		if err != nil {
			return c.fail(err)
		}
		return expression.NewAssignment(expression.Target{Path: p}, v)
	}
	return c.fail(errors.Compilef("cannot assign to %T", n.Target))
}

// compileIf compiles a conditional. A variable first assigned in only
// one branch may still be unset after the statement, so its type
// includes null.
func (c *compiler) compileIf(n *ast.If) remap.Expression {
	cond := c.compile(n.Cond)

	before := copySet(c.defined)
	outer := c.assigned

	c.assigned = make(map[string]bool)
	then := c.compile(n.Then)
	inThen := c.assigned

	// the else branch does not see assignments made by the then branch
	c.defined = copySet(before)
	c.assigned = make(map[string]bool)
	var orElse remap.Expression
	if n.Else != nil {
		orElse = c.compile(n.Else)
	}
	inElse := c.assigned
	c.assigned = outer

	for _, branch := range []map[string]bool{inThen, inElse} {
		for name := range branch {
			outer[name] = true
			c.defined[name] = true
			if before[name] || (inThen[name] && inElse[name]) {
				continue
			}
			c.state.SetVariableTypeDef(name, unset)
		}
	}
	return expression.NewIfStatement(cond, then, orElse)
}

func copySet(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k := range m {
		out[k] = true
	}
	return out
}

func (c *compiler) compileCall(n *ast.Call) remap.Expression {
	fn, ok := c.registry.Get(n.Function)
	if !ok {
		for _, a := range n.Args {
			c.compile(a.Value)
		}
		return c.fail(errors.Compilef("undefined function %q", n.Function))
	}

	params := fn.Parameters()
	args := remap.NewArgumentList(params)
	supplied := make(map[string]bool, len(n.Args))
	failed := false
	callErr := func(format string, a ...interface{}) {
		failed = true
		c.fail(errors.Compilef("%s: %s", n.Function, fmt.Sprintf(format, a...)))
	}

	keywords := false
	for i, a := range n.Args {
		expr := c.compile(a.Value)

		kw := a.Keyword
		if kw == "" {
			if keywords {
				callErr("positional argument %d follows keyword arguments", i+1)
				continue
			}
			if i >= len(params) {
				callErr("too many arguments: expected at most %d, got %d", len(params), len(n.Args))
				continue
			}
			kw = params[i].Keyword
		} else {
			keywords = true
		}

		for _, p := range params {
			if p.Keyword != kw {
				continue
			}
			if k := expr.TypeDef(c.state).Kind; !p.AcceptsKind(k) {
				callErr("invalid argument type for %q: expected %s, got %s", kw, p.Kind, k)
			}
		}
		if err := args.Insert(kw, expr); err != nil {
			failed = true
			c.fail(errors.Compilef("%s: %v", n.Function, err))
			continue
		}
		supplied[kw] = true
	}

	for _, p := range params {
		if p.Required && !supplied[p.Keyword] {
			callErr("missing required argument %q", p.Keyword)
		}
	}
	if failed {
		return expression.Noop{}
	}

	c.log.Debug("Binding function call",
		zap.String("function", n.Function),
		zap.Strings("arguments", args.Keywords()))

	expr, err := fn.Compile(args)
	if err != nil {
		return c.fail(errors.Compilef("%s: %v", n.Function, err))
	}
	return expression.NewFunctionCall(n.Function, expr)
}
