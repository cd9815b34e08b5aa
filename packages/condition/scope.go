package condition

import "fmt"

// Variable is the resolved value of a left operand. When the reference
// cannot be resolved, Value holds the operand text and FailureMessage
// explains why.
type Variable struct {
	Name           string
	Value          *string
	FailureMessage string
	Resolved       bool
}

func unresolved(name, raw string) Variable {
	text := raw
	return Variable{
		Name:           name,
		Value:          &text,
		FailureMessage: fmt.Sprintf("variable %s is not defined", name),
	}
}

// Scope holds the outcome of the resolution phase: parsed conditions keyed
// by their source text and variables keyed by operand text. A Scope is not
// modified after Resolve returns.
type Scope struct {
	Conditions map[string]*Expression
	Variables  map[string]Variable
}

func newScope() *Scope {
	return &Scope{
		Conditions: make(map[string]*Expression),
		Variables:  make(map[string]Variable),
	}
}

// Expression returns the parsed form of source. The expression is nil when
// source is malformed; ok is false when source was never registered.
func (s *Scope) Expression(source string) (expr *Expression, ok bool) {
	expr, ok = s.Conditions[source]
	return expr, ok
}

// Value returns the variable backing a left operand. Literals resolve to
// their own text.
func (s *Scope) Value(op Operand) Variable {
	if !op.IsVariable() {
		text := op.Path
		return Variable{Name: op.Raw, Value: &text, Resolved: true}
	}
	if v, ok := s.Variables[op.Raw]; ok {
		return v
	}
	return unresolved(op.Path, op.Raw)
}
