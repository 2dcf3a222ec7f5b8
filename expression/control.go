package expression

import (
	"github.com/influxdata/remap"
	"github.com/influxdata/remap/kit/errors"
	"github.com/influxdata/remap/value"
)

// Block evaluates its expressions in order and evaluates to the last
// result. An empty block evaluates to null.
type Block struct {
	exprs []remap.Expression
}

// NewBlock returns a block of exprs.
func NewBlock(exprs ...remap.Expression) *Block {
	return &Block{exprs: exprs}
}

func (e *Block) Execute(state *remap.ProgramState, obj remap.Object) (value.Value, error) {
	v := value.Null
	for _, expr := range e.exprs {
		var err error
		if v, err = expr.Execute(state, obj); err != nil {
			return value.Null, err
		}
	}
	return v, nil
}

func (e *Block) TypeDef(state *remap.CompilerState) remap.TypeDef {
	if len(e.exprs) == 0 {
		return Noop{}.TypeDef(state)
	}
	var td remap.TypeDef
	fallible := false
	for _, expr := range e.exprs {
		td = expr.TypeDef(state)
		fallible = fallible || td.Fallible
	}
	return td.IntoFallible(fallible)
}

func (e *Block) Clone() remap.Expression {
	return &Block{exprs: cloneAll(e.exprs)}
}

// IfStatement evaluates one of two branches depending on a boolean
// condition. A missing else branch evaluates to null.
type IfStatement struct {
	cond   remap.Expression
	then   remap.Expression
	orElse remap.Expression
}

// NewIfStatement returns a conditional. orElse may be nil.
func NewIfStatement(cond, then, orElse remap.Expression) *IfStatement {
	if orElse == nil {
		orElse = Noop{}
	}
	return &IfStatement{cond: cond, then: then, orElse: orElse}
}

func (e *IfStatement) Execute(state *remap.ProgramState, obj remap.Object) (value.Value, error) {
	v, err := e.cond.Execute(state, obj)
	if err != nil {
		return value.Null, err
	}
	ok, err := v.TryBoolean()
	if err != nil {
		return value.Null, &errors.Error{
			Code: errors.ETypeMismatch,
			Msg:  "if condition must be a boolean",
			Err:  err,
		}
	}
	if ok {
		return e.then.Execute(state, obj)
	}
	return e.orElse.Execute(state, obj)
}

func (e *IfStatement) TypeDef(state *remap.CompilerState) remap.TypeDef {
	cond := e.cond.TypeDef(state).FallibleUnless(value.KindBoolean)
	td := e.then.TypeDef(state).Merge(e.orElse.TypeDef(state))
	return td.IntoFallible(td.Fallible || cond.Fallible)
}

func (e *IfStatement) Clone() remap.Expression {
	return &IfStatement{
		cond:   e.cond.Clone(),
		then:   e.then.Clone(),
		orElse: e.orElse.Clone(),
	}
}

// Not negates a boolean.
type Not struct {
	expr remap.Expression
}

// NewNot returns the negation of expr.
func NewNot(expr remap.Expression) *Not {
	return &Not{expr: expr}
}

func (e *Not) Execute(state *remap.ProgramState, obj remap.Object) (value.Value, error) {
	v, err := e.expr.Execute(state, obj)
	if err != nil {
		return value.Null, err
	}
	b, err := v.TryBoolean()
	if err != nil {
		return value.Null, err
	}
	return value.Boolean(!b), nil
}

func (e *Not) TypeDef(state *remap.CompilerState) remap.TypeDef {
	return e.expr.TypeDef(state).
		FallibleUnless(value.KindBoolean).
		IntoOptional(false).
		WithConstraint(value.KindBoolean)
}

func (e *Not) Clone() remap.Expression {
	return &Not{expr: e.expr.Clone()}
}
