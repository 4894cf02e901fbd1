package casso

import (
	"fmt"
	"sort"
	"strings"
)

// expressionTerm is one term of an Expression: a coefficient on a
// variable. Kept sorted by variable id for deterministic String()
// output and stable term-map equality tests (spec.md §8, property 7).
type expressionTerm struct {
	variable *Variable
	coeff    float64
}

// Expression is an immutable linear combination of variables plus a
// constant: constant + sum(coeff_i * variable_i). Term keys (variable
// ids) are unique; a zero coefficient is representable but ignored by
// the solver wherever it reads terms.
type Expression struct {
	constant float64
	terms    []expressionTerm
}

// ScaledTerm is the pair form NewExpression accepts: a (coefficient,
// variable|expression) input, modeling spec.md §4.1's "(scalar,
// variable|expression) pairs" without resorting to untyped tuples.
type ScaledTerm struct {
	coeff float64
	value interface{}
}

// Scaled builds a ScaledTerm for use as a NewExpression argument.
func Scaled(coeff float64, value interface{}) ScaledTerm {
	return ScaledTerm{coeff: coeff, value: value}
}

// NewExpression builds an Expression from a variadic mix of scalars
// (float64, int), *Variable, Expression, and ScaledTerm pairs, summing
// scalars into the constant and merging coefficients of repeated
// variables. Any other input shape fails with MalformedExpressionError.
func NewExpression(items ...interface{}) (Expression, error) {
	var e Expression
	for _, item := range items {
		switch v := item.(type) {
		case float64:
			e.constant += v
		case int:
			e.constant += float64(v)
		case *Variable:
			e.addVariable(1, v)
		case Expression:
			e.addExpression(1, v)
		case ScaledTerm:
			switch sv := v.value.(type) {
			case *Variable:
				e.addVariable(v.coeff, sv)
			case Expression:
				e.addExpression(v.coeff, sv)
			default:
				return Expression{}, MalformedExpressionError{Value: v}
			}
		default:
			return Expression{}, MalformedExpressionError{Value: item}
		}
	}
	return e, nil
}

func (e *Expression) addVariable(coeff float64, v *Variable) {
	i := sort.Search(len(e.terms), func(i int) bool { return e.terms[i].variable.id >= v.id })
	if i < len(e.terms) && e.terms[i].variable.id == v.id {
		e.terms[i].coeff += coeff
		return
	}
	e.terms = append(e.terms, expressionTerm{})
	copy(e.terms[i+1:], e.terms[i:])
	e.terms[i] = expressionTerm{variable: v, coeff: coeff}
}

func (e *Expression) addExpression(coeff float64, other Expression) {
	e.constant += coeff * other.constant
	for _, t := range other.terms {
		e.addVariable(coeff*t.coeff, t.variable)
	}
}

// Plus returns a fresh Expression equal to e + other.
func (e Expression) Plus(other interface{}) (Expression, error) {
	return NewExpression(e, other)
}

// Minus returns a fresh Expression equal to e - other.
func (e Expression) Minus(other interface{}) (Expression, error) {
	return NewExpression(e, Scaled(-1, other))
}

// Times returns a fresh Expression scaled by coeff.
func (e Expression) Times(coeff float64) Expression {
	terms := make([]expressionTerm, len(e.terms))
	for i, t := range e.terms {
		terms[i] = expressionTerm{variable: t.variable, coeff: t.coeff * coeff}
	}
	return Expression{constant: e.constant * coeff, terms: terms}
}

// Divide returns a fresh Expression divided by coeff.
func (e Expression) Divide(coeff float64) (Expression, error) {
	if isZero(coeff) {
		return Expression{}, MalformedExpressionError{Value: coeff}
	}
	return e.Times(1 / coeff), nil
}

// IsConstant reports whether every term's coefficient is (numerically)
// zero, i.e. the expression reduces to its constant.
func (e Expression) IsConstant() bool {
	for _, t := range e.terms {
		if !isZero(t.coeff) {
			return false
		}
	}
	return true
}

// Value evaluates the expression using the current values of its
// variables (as last published by Solver.UpdateVariables).
func (e Expression) Value() float64 {
	v := e.constant
	for _, t := range e.terms {
		v += t.coeff * t.variable.Value()
	}
	return v
}

func (e Expression) String() string {
	var b strings.Builder
	first := true
	for _, t := range e.terms {
		if isZero(t.coeff) {
			continue
		}
		if !first {
			b.WriteString(" + ")
		}
		first = false
		fmt.Fprintf(&b, "%g*%s", t.coeff, t.variable.displayName())
	}
	if !isZero(e.constant) || first {
		if !first {
			b.WriteString(" + ")
		}
		fmt.Fprintf(&b, "%g", e.constant)
	}
	return b.String()
}
