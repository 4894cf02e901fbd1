package casso

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewExpressionMergesRepeatedVariables(t *testing.T) {
	x := NewVariable("x")

	e, err := NewExpression(Scaled(2, x), 3, Scaled(5, x))
	require.NoError(t, err)
	require.Len(t, e.terms, 1)
	require.EqualValues(t, 7, e.terms[0].coeff)
	require.EqualValues(t, 3, e.constant)
}

func TestNewExpressionRejectsMalformedTerm(t *testing.T) {
	_, err := NewExpression("nonsense")
	require.Error(t, err)
	require.IsType(t, MalformedExpressionError{}, err)
}

func TestExpressionPlusMinus(t *testing.T) {
	x := NewVariable("x")
	y := NewVariable("y")

	e, err := x.Plus(y)
	require.NoError(t, err)
	require.Len(t, e.terms, 2)

	e, err = e.Minus(y)
	require.NoError(t, err)
	require.Len(t, e.terms, 2)
	require.EqualValues(t, 0, e.terms[1].coeff)
}

func TestExpressionTimesDivide(t *testing.T) {
	x := NewVariable("x")

	e := x.Times(4)
	require.EqualValues(t, 4, e.terms[0].coeff)

	e, err := e.Divide(2)
	require.NoError(t, err)
	require.EqualValues(t, 2, e.terms[0].coeff)

	_, err = e.Divide(0)
	require.Error(t, err)
}

func TestExpressionIsConstant(t *testing.T) {
	x := NewVariable("x")

	e, err := NewExpression(5)
	require.NoError(t, err)
	require.True(t, e.IsConstant())

	e, err = NewExpression(5, x)
	require.NoError(t, err)
	require.False(t, e.IsConstant())
}
