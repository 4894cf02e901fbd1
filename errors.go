package casso

import (
	"fmt"

	"github.com/pkg/errors"
)

// DuplicateConstraintError is returned by (*Solver).AddConstraint when
// the same Constraint (by id) has already been admitted.
type DuplicateConstraintError struct {
	Constraint Constraint
}

func (e DuplicateConstraintError) Error() string {
	return fmt.Sprintf("casso: constraint %d already added: %s", e.Constraint.id, e.Constraint)
}

// UnknownConstraintError is returned by (*Solver).RemoveConstraint for
// a constraint that was never added, or already removed.
type UnknownConstraintError struct {
	Constraint Constraint
}

func (e UnknownConstraintError) Error() string {
	return fmt.Sprintf("casso: unknown constraint %d: %s", e.Constraint.id, e.Constraint)
}

// UnsatisfiableConstraintError is returned when a required constraint
// conflicts with the current system.
type UnsatisfiableConstraintError struct {
	Constraint Constraint
}

func (e UnsatisfiableConstraintError) Error() string {
	return fmt.Sprintf("casso: unsatisfiable constraint: %s", e.Constraint)
}

// DuplicateEditVariableError is returned by (*Solver).AddEditVariable
// for a variable that is already registered as editable.
type DuplicateEditVariableError struct {
	Variable *Variable
}

func (e DuplicateEditVariableError) Error() string {
	return fmt.Sprintf("casso: variable %q is already an edit variable", e.Variable.displayName())
}

// UnknownEditVariableError is returned by (*Solver).RemoveEditVariable
// or SuggestValue for a variable that is not registered as editable.
type UnknownEditVariableError struct {
	Variable *Variable
}

func (e UnknownEditVariableError) Error() string {
	return fmt.Sprintf("casso: variable %q is not an edit variable", e.Variable.displayName())
}

// BadRequiredStrengthError is returned by (*Solver).AddEditVariable
// when asked to create an edit variable at Required strength.
type BadRequiredStrengthError struct {
	Variable *Variable
}

func (e BadRequiredStrengthError) Error() string {
	return fmt.Sprintf("casso: edit variable %q cannot be added at Required strength", e.Variable.displayName())
}

// MalformedExpressionError is returned by NewExpression and the
// arithmetic helpers that build on it when given an input of the
// wrong shape or type.
type MalformedExpressionError struct {
	Value interface{}
}

func (e MalformedExpressionError) Error() string {
	return fmt.Sprintf("casso: malformed expression term: %#v", e.Value)
}

// InternalSolverError wraps a failure that indicates an invariant
// breach inside the solver itself, never a user error: an unbounded
// objective during optimize, a missing leaving row during
// RemoveConstraint, or a dual-optimize pass with no entering symbol.
// Cause carries a stack trace captured with github.com/pkg/errors at
// the point of failure, for post-mortem diagnosis.
type InternalSolverError struct {
	Op    string
	Cause error
}

func (e InternalSolverError) Error() string {
	return fmt.Sprintf("casso: internal error in %s: %v", e.Op, e.Cause)
}

func (e InternalSolverError) Unwrap() error { return e.Cause }

// Sentinel causes. errUnboundedObjective, errNoEnteringSymbol and
// errNoLeavingRow are wrapped into InternalSolverError at the failure
// site with errors.WithStack so the stack reflects where they actually
// occurred, not where they were declared. errUnsatisfiableDummy and
// errArtificialNotDummy are returned unwrapped from constraint
// admission, and AddConstraint reports them as
// UnsatisfiableConstraintError.
var (
	errUnsatisfiableDummy  = errors.New("non-zero dummy row: constraint is unsatisfiable")
	errUnboundedObjective  = errors.New("objective is unbounded")
	errNoEnteringSymbol    = errors.New("dual optimize found no entering symbol")
	errNoLeavingRow        = errors.New("no leaving row found for marker removal")
	errArtificialNotDummy  = errors.New("artificial variable could not be pivoted out")
)
