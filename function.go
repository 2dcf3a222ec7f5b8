package remap

import (
	"fmt"

	"github.com/influxdata/remap/kit/errors"
	"github.com/influxdata/remap/value"
)

// Function is a built-in function of the language. Functions are
// stateless descriptors: Compile turns the arguments bound at a call site
// into the expression that executes the call.
type Function interface {
	// Identifier is the name the function is called by.
	Identifier() string

	// Parameters declares the accepted arguments, in positional order.
	Parameters() []Parameter

	// Compile builds the call expression. It consumes args.
	Compile(args *ArgumentList) (Expression, error)
}

// Parameter declares one argument of a Function.
type Parameter struct {
	// Keyword is the name the argument is supplied under.
	Keyword string
	// Kind is the set of variants the argument accepts.
	Kind value.Kind
	// Required reports whether the argument must be supplied.
	Required bool
}

// Accepts reports whether v may be passed for p.
func (p Parameter) Accepts(v value.Value) bool {
	return p.Kind.Contains(v.Kind())
}

// AcceptsKind reports whether an expression of static kind k could
// produce a value p accepts.
func (p Parameter) AcceptsKind(k value.Kind) bool {
	return p.Kind.Intersects(k)
}

// Argument is an expression bound to a Parameter. At run time the
// evaluated value is checked against the parameter before it reaches the
// function.
type Argument struct {
	expr  Expression
	param Parameter
}

// NewArgument binds expr to param.
func NewArgument(expr Expression, param Parameter) *Argument {
	return &Argument{expr: expr, param: param}
}

// Expression returns the bound expression.
func (a *Argument) Expression() Expression { return a.expr }

// Parameter returns the parameter the argument is bound to.
func (a *Argument) Parameter() Parameter { return a.param }

func (a *Argument) Execute(state *ProgramState, obj Object) (value.Value, error) {
	v, err := a.expr.Execute(state, obj)
	if err != nil {
		return value.Null, err
	}
	if !a.param.Accepts(v) {
		return value.Null, &errors.Error{
			Code: errors.ETypeMismatch,
			Msg:  fmt.Sprintf("invalid argument type for %q", a.param.Keyword),
			Err: &errors.TypeMismatchError{
				Expected: a.param.Kind.String(),
				Got:      v.Kind().String(),
			},
		}
	}
	return v, nil
}

func (a *Argument) TypeDef(state *CompilerState) TypeDef {
	return a.expr.TypeDef(state).FallibleUnless(a.param.Kind)
}

func (a *Argument) Clone() Expression {
	return &Argument{expr: a.expr.Clone(), param: a.param}
}

// ArgumentList holds the arguments bound at one call site, keyed by
// parameter keyword. Each argument can be taken once.
type ArgumentList struct {
	params []Parameter
	args   map[string]Expression
}

// NewArgumentList returns an empty list for a function with params.
func NewArgumentList(params []Parameter) *ArgumentList {
	return &ArgumentList{
		params: params,
		args:   make(map[string]Expression, len(params)),
	}
}

// Insert binds expr to the parameter keyword. The expression is wrapped
// in an Argument that checks its runtime value.
func (l *ArgumentList) Insert(keyword string, expr Expression) error {
	p, ok := l.parameter(keyword)
	if !ok {
		return errors.Compilef("unknown keyword %q", keyword)
	}
	if _, dup := l.args[keyword]; dup {
		return errors.Compilef("duplicate argument %q", keyword)
	}
	l.args[keyword] = NewArgument(expr, p)
	return nil
}

// Keywords returns the keywords of the arguments not taken yet, in
// parameter order.
func (l *ArgumentList) Keywords() []string {
	var kws []string
	for _, p := range l.params {
		if _, ok := l.args[p.Keyword]; ok {
			kws = append(kws, p.Keyword)
		}
	}
	return kws
}

func (l *ArgumentList) parameter(keyword string) (Parameter, bool) {
	for _, p := range l.params {
		if p.Keyword == keyword {
			return p, true
		}
	}
	return Parameter{}, false
}

func (l *ArgumentList) take(keyword string) (Expression, bool) {
	e, ok := l.args[keyword]
	if ok {
		delete(l.args, keyword)
	}
	return e, ok
}

// Required takes the argument bound to keyword. A missing argument is a
// compile error naming the keyword.
func (l *ArgumentList) Required(keyword string) (Expression, error) {
	e, ok := l.take(keyword)
	if !ok {
		return nil, errors.Compilef("missing required argument %q", keyword)
	}
	return e, nil
}

// Optional takes the argument bound to keyword, or returns nil.
func (l *ArgumentList) Optional(keyword string) Expression {
	e, _ := l.take(keyword)
	return e
}

// OptionalLiteral takes the argument bound to keyword and resolves it to
// its compile-time value. The boolean is false when no argument was
// supplied. Non-literal arguments, and literals the parameter does not
// accept, are compile errors.
func (l *ArgumentList) OptionalLiteral(keyword string) (value.Value, bool, error) {
	e, ok := l.take(keyword)
	if !ok {
		return value.Null, false, nil
	}
	v, err := l.literal(keyword, e)
	if err != nil {
		return value.Null, false, err
	}
	return v, true, nil
}

// RequiredLiteral is like OptionalLiteral, but a missing argument is a
// compile error.
func (l *ArgumentList) RequiredLiteral(keyword string) (value.Value, error) {
	e, ok := l.take(keyword)
	if !ok {
		return value.Null, errors.Compilef("missing required argument %q", keyword)
	}
	return l.literal(keyword, e)
}

func (l *ArgumentList) literal(keyword string, e Expression) (value.Value, error) {
	p, _ := l.parameter(keyword)
	if a, ok := e.(*Argument); ok {
		e = a.Expression()
	}
	v, ok := AsLiteral(e)
	if !ok {
		return value.Null, errors.Compilef("argument %q must be a literal", keyword)
	}
	if !p.Accepts(v) {
		return value.Null, errors.Compilef("invalid argument type for %q: expected %s, got %s",
			keyword, p.Kind, v.Kind())
	}
	return v, nil
}
