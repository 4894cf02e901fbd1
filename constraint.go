package casso

import "fmt"

// Relation is the comparison operator of a Constraint, which always
// asserts expr <relation> 0.
type Relation uint8

const (
	LessThanOrEqual Relation = iota
	GreaterThanOrEqual
	Equal
)

var relationSymbols = [...]string{
	LessThanOrEqual:    "<=",
	GreaterThanOrEqual: ">=",
	Equal:              "=",
}

func (r Relation) String() string { return relationSymbols[r] }

// Constraint is an immutable tuple (expression, relation, strength)
// asserting expression <relation> 0, with a stable monotonic id used
// for identity, ordering, and registry lookups.
type Constraint struct {
	id       uint64
	expr     Expression
	relation Relation
	strength Strength
}

// ConstraintOption supplies the optional parts of NewConstraint: a
// right-hand side and a strength (defaulting to Required).
type ConstraintOption func(*constraintBuildOpts)

type constraintBuildOpts struct {
	rhs      interface{}
	hasRHS   bool
	strength *Strength
}

// WithRHS folds rhs into the constraint's expression by subtraction,
// per spec.md §3. Without it, lhs is treated as the already-normalized
// left-hand side.
func WithRHS(rhs interface{}) ConstraintOption {
	return func(o *constraintBuildOpts) { o.rhs, o.hasRHS = rhs, true }
}

// WithStrength sets the constraint's strength. Strength defaults to
// Required when omitted.
func WithStrength(s Strength) ConstraintOption {
	return func(o *constraintBuildOpts) { o.strength = &s }
}

func (o *constraintBuildOpts) resolveStrength() Strength {
	if o.strength == nil {
		return Required
	}
	return *o.strength
}

// NewConstraint builds a Constraint from an expression-or-variable
// left-hand side, a relation, and the options above.
func NewConstraint(lhs interface{}, relation Relation, opts ...ConstraintOption) (Constraint, error) {
	build := constraintBuildOpts{}
	for _, opt := range opts {
		opt(&build)
	}

	expr, err := asExpression(lhs)
	if err != nil {
		return Constraint{}, err
	}

	if build.hasRHS {
		rhsExpr, err := asExpression(build.rhs)
		if err != nil {
			return Constraint{}, err
		}
		expr, err = NewExpression(expr, Scaled(-1, rhsExpr))
		if err != nil {
			return Constraint{}, err
		}
	}

	return Constraint{
		id:       constraintIDs.allocate(),
		expr:     expr,
		relation: relation,
		strength: ClipStrength(build.resolveStrength()),
	}, nil
}

func asExpression(v interface{}) (Expression, error) {
	switch x := v.(type) {
	case Expression:
		return x, nil
	case *Variable, float64, int:
		return NewExpression(x)
	default:
		return Expression{}, MalformedExpressionError{Value: v}
	}
}

// ID returns the constraint's stable, monotonic identity.
func (c Constraint) ID() uint64 { return c.id }

// Expr returns the constraint's normalized expression (expr <relation> 0).
func (c Constraint) Expr() Expression { return c.expr }

// Relation returns the constraint's comparison operator.
func (c Constraint) Relation() Relation { return c.relation }

// Strength returns the constraint's strength.
func (c Constraint) Strength() Strength { return c.strength }

func (c Constraint) String() string {
	label := fmt.Sprintf("%g", float64(c.strength))
	switch c.strength {
	case Required:
		label = "required"
	case Strong:
		label = "strong"
	case Medium:
		label = "medium"
	case Weak:
		label = "weak"
	}
	return fmt.Sprintf("%s %s 0 (%s)", c.expr, c.relation, label)
}
