package casso

import "github.com/google/uuid"

// Variable is a user-visible, externally owned real-valued unknown. It
// carries a stable monotonic id (its identity and sort order), an
// optional name, a mutable Context for caller bookkeeping, and the
// last value published into it by Solver.UpdateVariables. The solver
// never owns a Variable; it refers to one by identity from its own
// registries (spec.md §9's "No circular ownership").
type Variable struct {
	id      uint64
	name    string
	label   string // diagnostic-only; never part of identity or equality
	Context interface{}
	value   float64
}

// VariableOption configures a Variable at construction time.
type VariableOption func(*Variable)

// WithContext attaches caller-defined bookkeeping to a Variable.
func WithContext(ctx interface{}) VariableOption {
	return func(v *Variable) { v.Context = ctx }
}

// NewVariable allocates a fresh Variable. When name is empty, a short
// uuid-derived label is stamped on it purely so Logger output can tell
// anonymous variables apart in traces; the label plays no part in the
// variable's identity, which remains its monotonic id.
func NewVariable(name string, opts ...VariableOption) *Variable {
	v := &Variable{id: variableIDs.allocate(), name: name}
	for _, opt := range opts {
		opt(v)
	}
	if v.name == "" {
		v.label = "v-" + uuid.NewString()[:8]
	}
	return v
}

// ID returns the variable's stable, monotonic identity.
func (v *Variable) ID() uint64 { return v.id }

// Name returns the name the variable was created with, or "".
func (v *Variable) Name() string { return v.name }

func (v *Variable) displayName() string {
	if v.name != "" {
		return v.name
	}
	return v.label
}

// Value returns the value last published by Solver.UpdateVariables
// (zero until then).
func (v *Variable) Value() float64 { return v.value }

func (v *Variable) String() string { return v.displayName() }

// Plus, Minus, Times and Divide build fresh Expressions; they never
// mutate v.

func (v *Variable) Plus(other interface{}) (Expression, error) {
	return NewExpression(v, other)
}

func (v *Variable) Minus(other interface{}) (Expression, error) {
	return NewExpression(v, Scaled(-1, other))
}

func (v *Variable) Times(coeff float64) Expression {
	e, _ := NewExpression(Scaled(coeff, v))
	return e
}

func (v *Variable) Divide(coeff float64) (Expression, error) {
	if isZero(coeff) {
		return Expression{}, MalformedExpressionError{Value: coeff}
	}
	return v.Times(1 / coeff), nil
}

// EQ, GTE and LTE build a required Constraint of the form v <op> rhs.
// Use NewConstraint with WithStrength for a non-required version.

func (v *Variable) EQ(rhs interface{}) (Constraint, error) {
	return NewConstraint(v, Equal, WithRHS(rhs))
}

func (v *Variable) GTE(rhs interface{}) (Constraint, error) {
	return NewConstraint(v, GreaterThanOrEqual, WithRHS(rhs))
}

func (v *Variable) LTE(rhs interface{}) (Constraint, error) {
	return NewConstraint(v, LessThanOrEqual, WithRHS(rhs))
}
