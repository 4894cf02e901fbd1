package casso_test

import (
	"testing"

	"github.com/cassowary-go/casso"
	"github.com/stretchr/testify/require"
)

func mustExpr(t *testing.T, items ...interface{}) casso.Expression {
	t.Helper()
	e, err := casso.NewExpression(items...)
	require.NoError(t, err)
	return e
}

func mustConstraint(t *testing.T, lhs interface{}, rel casso.Relation, opts ...casso.ConstraintOption) casso.Constraint {
	t.Helper()
	c, err := casso.NewConstraint(lhs, rel, opts...)
	require.NoError(t, err)
	return c
}

// S1 Simple equality.
func TestSimpleEquality(t *testing.T) {
	s := casso.NewSolver()
	x := casso.NewVariable("x")

	require.NoError(t, s.AddConstraint(mustConstraint(t, x, casso.Equal, casso.WithRHS(20.0))))
	s.UpdateVariables()

	require.EqualValues(t, 20, x.Value())
}

// S2 Chained inequalities.
func TestChainedInequalities(t *testing.T) {
	s := casso.NewSolver()
	x := casso.NewVariable("x")

	require.NoError(t, s.AddConstraint(mustConstraint(t, x, casso.GreaterThanOrEqual, casso.WithRHS(10.0))))
	require.NoError(t, s.AddConstraint(mustConstraint(t, x, casso.LessThanOrEqual, casso.WithRHS(20.0))))
	require.NoError(t, s.AddConstraint(mustConstraint(t, x, casso.Equal, casso.WithRHS(15.0), casso.WithStrength(casso.Strong))))
	s.UpdateVariables()

	require.EqualValues(t, 15, x.Value())
}

// S3 Conflict: a second required constraint that contradicts the
// first is rejected, and the solver's existing state is untouched.
func TestConflictingRequiredConstraints(t *testing.T) {
	s := casso.NewSolver()
	x := casso.NewVariable("x")

	c1 := mustConstraint(t, x, casso.Equal, casso.WithRHS(10.0))
	require.NoError(t, s.AddConstraint(c1))
	s.UpdateVariables()
	require.EqualValues(t, 10, x.Value())

	c2 := mustConstraint(t, x, casso.Equal, casso.WithRHS(20.0))
	err := s.AddConstraint(c2)
	require.Error(t, err)
	require.IsType(t, casso.UnsatisfiableConstraintError{}, err)

	s.UpdateVariables()
	require.EqualValues(t, 10, x.Value())
}

// S4 Weighted compromise: two equal weak pulls split evenly.
func TestWeightedCompromise(t *testing.T) {
	s := casso.NewSolver()
	x := casso.NewVariable("x")
	y := casso.NewVariable("y")

	sum := mustExpr(t, x, y)
	require.NoError(t, s.AddConstraint(mustConstraint(t, sum, casso.Equal, casso.WithRHS(20.0))))
	require.NoError(t, s.AddConstraint(mustConstraint(t, x, casso.Equal, casso.WithRHS(0.0), casso.WithStrength(casso.Weak))))
	require.NoError(t, s.AddConstraint(mustConstraint(t, y, casso.Equal, casso.WithRHS(0.0), casso.WithStrength(casso.Weak))))
	s.UpdateVariables()

	require.EqualValues(t, 10, x.Value())
	require.EqualValues(t, 10, y.Value())
}

// S5 Edit variable: a suggested value is honored until it would break
// a required bound, at which point the bound wins.
func TestEditVariableRespectsBound(t *testing.T) {
	s := casso.NewSolver()
	x := casso.NewVariable("x")

	require.NoError(t, s.AddConstraint(mustConstraint(t, x, casso.GreaterThanOrEqual, casso.WithRHS(0.0))))
	require.NoError(t, s.AddEditVariable(x, casso.Strong))
	require.NoError(t, s.SuggestValue(x, 42))
	s.UpdateVariables()
	require.EqualValues(t, 42, x.Value())

	require.NoError(t, s.SuggestValue(x, -5))
	s.UpdateVariables()
	require.EqualValues(t, 0, x.Value())
}

// S6 Strength hierarchy: the stronger of two conflicting constraints
// wins, and removing it hands control back to the weaker one.
func TestStrengthHierarchy(t *testing.T) {
	s := casso.NewSolver()
	x := casso.NewVariable("x")

	medium := mustConstraint(t, x, casso.Equal, casso.WithRHS(100.0), casso.WithStrength(casso.Medium))
	weak := mustConstraint(t, x, casso.Equal, casso.WithRHS(0.0), casso.WithStrength(casso.Weak))

	require.NoError(t, s.AddConstraint(medium))
	require.NoError(t, s.AddConstraint(weak))
	s.UpdateVariables()
	require.EqualValues(t, 100, x.Value())

	require.NoError(t, s.RemoveConstraint(medium))
	s.UpdateVariables()
	require.EqualValues(t, 0, x.Value())
}

func TestAddConstraintRequiringArtificialVariable(t *testing.T) {
	s := casso.NewSolver()

	p1 := casso.NewVariable("p1")
	p2 := casso.NewVariable("p2")
	p3 := casso.NewVariable("p3")
	container := casso.NewVariable("container")

	require.NoError(t, s.AddEditVariable(container, casso.Strong))
	require.NoError(t, s.SuggestValue(container, 100))

	c1 := mustConstraint(t, p1, casso.GreaterThanOrEqual, casso.WithRHS(30.0), casso.WithStrength(casso.Strong))
	c2expr := mustExpr(t, casso.Scaled(1, p1), casso.Scaled(-1, p3))
	c2 := mustConstraint(t, c2expr, casso.Equal, casso.WithStrength(casso.Medium))
	c3expr := mustExpr(t, casso.Scaled(1, p2), casso.Scaled(-2, p1))
	c3 := mustConstraint(t, c3expr, casso.Equal)
	c4expr := mustExpr(t, container, casso.Scaled(-1, p1), casso.Scaled(-1, p2), casso.Scaled(-1, p3))
	c4 := mustConstraint(t, c4expr, casso.Equal)

	require.NoError(t, s.AddConstraint(c1))
	require.NoError(t, s.AddConstraint(c2))
	require.NoError(t, s.AddConstraint(c3))
	require.NoError(t, s.AddConstraint(c4))
	s.UpdateVariables()

	require.EqualValues(t, 30, p1.Value())
	require.EqualValues(t, 60, p2.Value())
	require.EqualValues(t, 10, p3.Value())
	require.EqualValues(t, 100, container.Value())
}

func TestPaddingLayout(t *testing.T) {
	s := casso.NewSolver()

	sw := casso.NewVariable("screen_width")
	sh := casso.NewVariable("screen_height")
	padding := casso.NewVariable("padding")

	require.NoError(t, s.AddEditVariable(sw, casso.Strong))
	require.NoError(t, s.AddEditVariable(sh, casso.Strong))
	require.NoError(t, s.AddEditVariable(padding, casso.Strong))

	require.NoError(t, s.SuggestValue(sw, 800))
	require.NoError(t, s.SuggestValue(sh, 600))
	require.NoError(t, s.SuggestValue(padding, 30))

	x := casso.NewVariable("x")
	y := casso.NewVariable("y")
	w := casso.NewVariable("w")
	h := casso.NewVariable("h")

	// x >= padding
	c1expr := mustExpr(t, x, casso.Scaled(-1, padding))
	require.NoError(t, s.AddConstraint(mustConstraint(t, c1expr, casso.GreaterThanOrEqual)))

	// x + w + padding <= screen_width - 1, i.e. x+w+padding-screen_width+1 <= 0
	c2expr := mustExpr(t, x, w, padding, casso.Scaled(-1, sw))
	require.NoError(t, s.AddConstraint(mustConstraint(t, c2expr, casso.LessThanOrEqual, casso.WithRHS(-1.0))))

	// y >= padding
	c3expr := mustExpr(t, y, casso.Scaled(-1, padding))
	require.NoError(t, s.AddConstraint(mustConstraint(t, c3expr, casso.GreaterThanOrEqual)))

	// y + h + padding <= screen_height - 1
	c4expr := mustExpr(t, y, h, padding, casso.Scaled(-1, sh))
	require.NoError(t, s.AddConstraint(mustConstraint(t, c4expr, casso.LessThanOrEqual, casso.WithRHS(-1.0))))

	s.UpdateVariables()

	require.EqualValues(t, 30, x.Value())
	require.EqualValues(t, 30, y.Value())
	require.EqualValues(t, 739, w.Value())
	require.EqualValues(t, 539, h.Value())

	require.NoError(t, s.SuggestValue(padding, 50))
	s.UpdateVariables()

	require.EqualValues(t, 50, x.Value())
	require.EqualValues(t, 50, y.Value())
	require.EqualValues(t, 699, w.Value())
	require.EqualValues(t, 499, h.Value())
}

func TestAddStayPinsCurrentValue(t *testing.T) {
	s := casso.NewSolver()
	x := casso.NewVariable("x")

	// nothing constrains x yet, so it stays at its zero value.
	require.NoError(t, s.AddStay(x, casso.Strong))
	s.UpdateVariables()
	require.EqualValues(t, 0, x.Value())
}

func TestRemoveUnknownConstraint(t *testing.T) {
	s := casso.NewSolver()
	x := casso.NewVariable("x")

	c := mustConstraint(t, x, casso.Equal, casso.WithRHS(1.0))
	err := s.RemoveConstraint(c)
	require.Error(t, err)
	require.IsType(t, casso.UnknownConstraintError{}, err)
}

func TestDuplicateConstraintRejected(t *testing.T) {
	s := casso.NewSolver()
	x := casso.NewVariable("x")

	c := mustConstraint(t, x, casso.Equal, casso.WithRHS(1.0))
	require.NoError(t, s.AddConstraint(c))

	err := s.AddConstraint(c)
	require.Error(t, err)
	require.IsType(t, casso.DuplicateConstraintError{}, err)
}

func TestEditVariableCannotBeRequired(t *testing.T) {
	s := casso.NewSolver()
	x := casso.NewVariable("x")

	err := s.AddEditVariable(x, casso.Required)
	require.Error(t, err)
	require.IsType(t, casso.BadRequiredStrengthError{}, err)
}

func TestCheckInvariantsCleanAfterSolving(t *testing.T) {
	s := casso.NewSolver()
	x := casso.NewVariable("x")
	y := casso.NewVariable("y")

	sum := mustExpr(t, x, y)
	require.NoError(t, s.AddConstraint(mustConstraint(t, sum, casso.Equal, casso.WithRHS(20.0))))
	require.NoError(t, s.AddConstraint(mustConstraint(t, x, casso.Equal, casso.WithRHS(0.0), casso.WithStrength(casso.Weak))))
	require.NoError(t, s.AddConstraint(mustConstraint(t, y, casso.Equal, casso.WithRHS(0.0), casso.WithStrength(casso.Weak))))

	require.NoError(t, s.CheckInvariants())
}

func TestSuggestValuesBatch(t *testing.T) {
	s := casso.NewSolver()
	x := casso.NewVariable("x")
	y := casso.NewVariable("y")

	require.NoError(t, s.AddEditVariable(x, casso.Strong))
	require.NoError(t, s.AddEditVariable(y, casso.Strong))

	require.NoError(t, s.SuggestValues(map[*casso.Variable]float64{x: 3, y: 4}))
	s.UpdateVariables()

	require.EqualValues(t, 3, x.Value())
	require.EqualValues(t, 4, y.Value())
}

func BenchmarkAddConstraint(b *testing.B) {
	for i := 0; i < b.N; i++ {
		s := casso.NewSolver()
		l := casso.NewVariable("l")
		m := casso.NewVariable("m")
		r := casso.NewVariable("r")

		expr, _ := casso.NewExpression(l, r, casso.Scaled(-2, m))
		a, _ := casso.NewConstraint(expr, casso.Equal)
		bExpr, _ := casso.NewExpression(r, casso.Scaled(-1, l))
		bc, _ := casso.NewConstraint(bExpr, casso.GreaterThanOrEqual, casso.WithRHS(-10.0))

		_ = s.AddConstraint(a)
		_ = s.AddConstraint(bc)
	}
}
