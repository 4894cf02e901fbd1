package casso

import (
	"fmt"
	"math"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// tag records, for each admitted constraint, the one or two symbols
// that identify it in the tableau for later removal (spec.md §3).
type tag struct {
	marker symbol
	other  symbol
}

// editInfo is the per-edit-variable bookkeeping of spec.md §3: its
// tag, the constraint that realizes it, and the last suggested value.
type editInfo struct {
	tag        tag
	constraint Constraint
	constant   float64
}

type constraintEntry struct {
	constraint Constraint
	tag        tag
}

// Solver owns a tableau, a symbol generator, the constraint and edit
// registries, and the objective row. It is strictly single-threaded:
// no method suspends, blocks, or is safe for concurrent use.
type Solver struct {
	logger Logger
	config Config

	nextSymbolID int64

	vars   map[uint64]*Variable // variable id -> variable
	varSym map[uint64]symbol    // variable id -> external symbol

	constraints map[uint64]constraintEntry // constraint id -> (constraint, tag)

	rows map[symbol]*row // basic symbol -> row; represents the current basis

	edits map[uint64]*editInfo // variable id -> edit info

	infeasible []symbol // pending rows whose constants have just gone negative

	objective  *row
	artificial *row // non-nil only during artificial-variable admission
}

// NewSolver constructs an empty Solver. By default it logs nothing and
// uses DefaultConfig; see WithLogger and WithConfig.
func NewSolver(opts ...Option) *Solver {
	s := &Solver{
		logger:      noopLogger{},
		config:      DefaultConfig(),
		vars:        make(map[uint64]*Variable),
		varSym:      make(map[uint64]symbol),
		constraints: make(map[uint64]constraintEntry),
		rows:        make(map[symbol]*row),
		edits:       make(map[uint64]*editInfo),
		objective:   newRow(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Solver) nextSymbol(kind symbolKind) symbol {
	id := s.nextSymbolID
	s.nextSymbolID++
	return symbol{id: id, kind: kind}
}

// externalSymbol returns v's external symbol, allocating one (and
// registering v) on first reference. A symbol allocated here for a
// variable that a later term in the same addConstraint call fails on
// is not rolled back: spec.md §9's Open Question documents this as
// intentional, so a later constraint referencing the same variable
// reuses the symbol instead of paying to allocate a fresh one.
func (s *Solver) externalSymbol(v *Variable) symbol {
	if sym, ok := s.varSym[v.id]; ok {
		return sym
	}
	sym := s.nextSymbol(externalKind)
	s.varSym[v.id] = sym
	s.vars[v.id] = v
	return sym
}

func sortedRowSymbols(rows map[symbol]*row) []symbol {
	syms := make([]symbol, 0, len(rows))
	for sym := range rows {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i].id < syms[j].id })
	return syms
}

func sortedConstraintIDs(constraints map[uint64]constraintEntry) []uint64 {
	ids := make([]uint64, 0, len(constraints))
	for id := range constraints {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sortedVarIDs(vars map[uint64]*Variable) []uint64 {
	ids := make([]uint64, 0, len(vars))
	for id := range vars {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// HasConstraint reports whether c is currently admitted.
func (s *Solver) HasConstraint(c Constraint) bool {
	_, ok := s.constraints[c.id]
	return ok
}

// CreateConstraint builds a Constraint via NewConstraint, for callers
// that prefer reaching it through the Solver they'll immediately admit
// it into (spec.md §6 lists createConstraint alongside addConstraint
// on the same handle).
func (s *Solver) CreateConstraint(lhs interface{}, relation Relation, opts ...ConstraintOption) (Constraint, error) {
	return NewConstraint(lhs, relation, opts...)
}

// AddConstraint admits c into the tableau, per spec.md §4.3, and
// re-optimizes the objective to restore optimality before returning.
func (s *Solver) AddConstraint(c Constraint) error {
	if s.HasConstraint(c) {
		return DuplicateConstraintError{Constraint: c}
	}

	r, tg := s.buildRow(c)

	subject, ok, err := s.chooseSubject(r, tg)
	if err != nil {
		return UnsatisfiableConstraintError{Constraint: c}
	}

	if ok {
		r.solveFor(subject)
		s.substitute(subject, r)
		s.rows[subject] = r
	} else if err := s.admitArtificial(r); err != nil {
		if _, ok := err.(InternalSolverError); ok {
			return err
		}
		return UnsatisfiableConstraintError{Constraint: c}
	}

	s.constraints[c.id] = constraintEntry{constraint: c, tag: tg}

	if err := s.optimize(s.objective); err != nil {
		return err
	}

	s.logger.Debugf("casso: admitted constraint %d (%s)", c.id, c)
	return nil
}

// buildRow converts c into augmented simplex form, per spec.md §4.3
// steps 1-4: substitute already-known basics, append the relation's
// slack/error/dummy symbols, and normalize to a non-negative constant.
func (s *Solver) buildRow(c Constraint) (*row, tag) {
	r := newRow(c.expr.constant)

	for _, t := range c.expr.terms {
		if isZero(t.coeff) {
			continue
		}
		sym := s.externalSymbol(t.variable)
		if basic, ok := s.rows[sym]; ok {
			r.insertRow(basic, t.coeff)
		} else {
			r.insertSymbol(sym, t.coeff)
		}
	}

	tg := tag{marker: invalidSymbol, other: invalidSymbol}

	switch c.relation {
	case LessThanOrEqual, GreaterThanOrEqual:
		coeff := 1.0
		if c.relation == GreaterThanOrEqual {
			coeff = -1.0
		}
		tg.marker = s.nextSymbol(slackKind)
		r.insertSymbol(tg.marker, coeff)

		if c.strength < Required {
			tg.other = s.nextSymbol(errorKind)
			r.insertSymbol(tg.other, -coeff)
			s.objective.insertSymbol(tg.other, float64(c.strength))
		}
	case Equal:
		if c.strength < Required {
			errPlus := s.nextSymbol(errorKind)
			errMinus := s.nextSymbol(errorKind)
			tg.marker, tg.other = errPlus, errMinus

			r.insertSymbol(errPlus, -1)
			r.insertSymbol(errMinus, 1)

			s.objective.insertSymbol(errPlus, float64(c.strength))
			s.objective.insertSymbol(errMinus, float64(c.strength))
		} else {
			tg.marker = s.nextSymbol(dummyKind)
			r.insertSymbol(tg.marker, 1)
		}
	}

	if r.constant < 0 {
		r.reverseSign()
	}

	return r, tg
}

// chooseSubject implements spec.md §4.3's four-tier pivot-subject
// search. ok=false with err=nil means no natural subject exists and
// artificial-variable admission (§4.4) must be attempted; a non-nil
// err means the constraint is immediately unsatisfiable (an all-dummy
// row with a non-zero constant).
func (s *Solver) chooseSubject(r *row, tg tag) (sym symbol, ok bool, err error) {
	for _, t := range r.cells {
		if t.sym.external() {
			return t.sym, true, nil
		}
	}

	if tg.marker.restricted() && r.coefficientFor(tg.marker) < 0 {
		return tg.marker, true, nil
	}
	if tg.other.restricted() && r.coefficientFor(tg.other) < 0 {
		return tg.other, true, nil
	}

	if r.allDummies() {
		if !isZero(r.constant) {
			return invalidSymbol, false, errUnsatisfiableDummy
		}
		return tg.marker, true, nil
	}

	return invalidSymbol, false, nil
}

// admitArtificial implements spec.md §4.4: pivot a row with no natural
// subject into the basis via a transient artificial variable.
func (s *Solver) admitArtificial(r *row) error {
	art := s.nextSymbol(slackKind)
	s.logger.Debugf("casso: admitting artificial variable %s", art)

	s.rows[art] = r
	s.artificial = r.clone()

	if err := s.optimize(s.artificial); err != nil {
		return err
	}

	success := isZero(s.artificial.constant)
	s.artificial = nil

	if artRow, ok := s.rows[art]; ok {
		delete(s.rows, art)

		if len(artRow.cells) != 0 {
			entering := invalidSymbol
			for _, t := range artRow.cells {
				if t.sym.restricted() {
					entering = t.sym
					break
				}
			}
			if !entering.valid() {
				return errArtificialNotDummy
			}

			artRow.solveForPair(art, entering)
			s.substitute(entering, artRow)
			s.rows[entering] = artRow
		}
	}

	for _, sym := range sortedRowSymbols(s.rows) {
		s.rows[sym].remove(art)
	}
	s.objective.remove(art)

	if !success {
		return errUnsatisfiableDummy
	}
	return nil
}

// substitute implements spec.md §4.7: walk every basic row applying
// row-level substitution, queuing any row whose constant goes negative
// for later dual-optimization, then substitute in the objective and,
// if live, the transient artificial row.
func (s *Solver) substitute(sym symbol, r *row) {
	for basic, br := range s.rows {
		br.substitute(sym, r)
		if !basic.external() && br.constant < 0 {
			s.infeasible = append(s.infeasible, basic)
		}
	}
	s.objective.substitute(sym, r)
	if s.artificial != nil {
		s.artificial.substitute(sym, r)
	}
}

// optimize runs primal simplex on target (spec.md §4.5) until no
// negative, non-dummy coefficient remains.
func (s *Solver) optimize(target *row) error {
	for {
		entering := invalidSymbol
		for _, t := range target.cells {
			if t.sym.dummy() || t.coeff >= 0 {
				continue
			}
			entering = t.sym
			break
		}
		if !entering.valid() {
			return nil
		}

		leaving := invalidSymbol
		ratio := math.MaxFloat64
		for _, basic := range sortedRowSymbols(s.rows) {
			if basic.external() {
				continue
			}
			r := s.rows[basic]
			ce := r.coefficientFor(entering)
			if !r.has(entering) || ce >= 0 {
				continue
			}
			candidate := -r.constant / ce
			if candidate < ratio {
				ratio, leaving = candidate, basic
			}
		}

		if !leaving.valid() {
			return InternalSolverError{Op: "optimize", Cause: errors.WithStack(errUnboundedObjective)}
		}

		r := s.rows[leaving]
		delete(s.rows, leaving)

		r.solveForPair(leaving, entering)
		s.substitute(entering, r)
		s.rows[entering] = r

		s.logger.Debugf("casso: pivot %s out, %s in", leaving, entering)
	}
}

// dualOptimize drains s.infeasible, per spec.md §4.6, restoring
// feasibility after an edit suggestion or constraint removal perturbs
// the tableau.
func (s *Solver) dualOptimize() error {
	for len(s.infeasible) > 0 {
		leaving := s.infeasible[len(s.infeasible)-1]
		s.infeasible = s.infeasible[:len(s.infeasible)-1]

		r, ok := s.rows[leaving]
		if !ok || r.constant >= 0 {
			continue
		}

		entering := invalidSymbol
		ratio := math.MaxFloat64
		for _, t := range r.cells {
			if t.coeff <= 0 || t.sym.dummy() {
				continue
			}
			candidate := s.objective.coefficientFor(t.sym) / t.coeff
			if candidate < ratio {
				ratio, entering = candidate, t.sym
			}
		}

		if !entering.valid() {
			return InternalSolverError{Op: "dualOptimize", Cause: errors.WithStack(errNoEnteringSymbol)}
		}

		delete(s.rows, leaving)
		r.solveForPair(leaving, entering)
		s.substitute(entering, r)
		s.rows[entering] = r

		s.logger.Debugf("casso: drained infeasible row %s, %s entering", leaving, entering)
	}
	return nil
}

// RemoveConstraint implements spec.md §4.8: undo c's contribution to
// the objective, drop its marker from the basis (pivoting it out via
// the three-tier leaving-row search if it is not already basic), and
// re-optimize.
func (s *Solver) RemoveConstraint(c Constraint) error {
	entry, ok := s.constraints[c.id]
	if !ok {
		return UnknownConstraintError{Constraint: c}
	}
	delete(s.constraints, c.id)

	tg := entry.tag
	if tg.marker.errSym() {
		s.removeErrorContribution(tg.marker, entry.constraint.strength)
	}
	if tg.other.errSym() {
		s.removeErrorContribution(tg.other, entry.constraint.strength)
	}

	if _, ok := s.rows[tg.marker]; ok {
		delete(s.rows, tg.marker)
	} else {
		leaving, err := s.findMarkerLeavingRow(tg.marker)
		if err != nil {
			return err
		}

		lr := s.rows[leaving]
		delete(s.rows, leaving)

		lr.solveForPair(leaving, tg.marker)
		s.substitute(tg.marker, lr)
	}

	if err := s.optimize(s.objective); err != nil {
		return err
	}

	s.logger.Debugf("casso: removed constraint %d", c.id)
	return nil
}

func (s *Solver) removeErrorContribution(sym symbol, strength Strength) {
	if r, ok := s.rows[sym]; ok {
		s.objective.insertRow(r, -float64(strength))
	} else {
		s.objective.insertSymbol(sym, -float64(strength))
	}
}

// findMarkerLeavingRow implements spec.md §4.8's three-tier leaving-
// row search for a marker that is not itself basic.
func (s *Solver) findMarkerLeavingRow(marker symbol) (symbol, error) {
	first, firstRatio := invalidSymbol, math.MaxFloat64
	second, secondRatio := invalidSymbol, math.MaxFloat64
	third := invalidSymbol

	for _, basic := range sortedRowSymbols(s.rows) {
		r := s.rows[basic]
		if !r.has(marker) {
			continue
		}
		c := r.coefficientFor(marker)

		if basic.external() {
			third = basic
			continue
		}

		if c < 0 {
			if ratio := -r.constant / c; ratio < firstRatio {
				firstRatio, first = ratio, basic
			}
		} else if ratio := math.Abs(r.constant) / c; ratio < secondRatio {
			secondRatio, second = ratio, basic
		}
	}

	switch {
	case first.valid():
		return first, nil
	case second.valid():
		return second, nil
	case third.valid():
		return third, nil
	default:
		return invalidSymbol, InternalSolverError{Op: "removeConstraint", Cause: errors.WithStack(errNoLeavingRow)}
	}
}

// HasEditVariable reports whether v is currently an edit variable.
func (s *Solver) HasEditVariable(v *Variable) bool {
	_, ok := s.edits[v.id]
	return ok
}

// AddEditVariable registers v as editable at the given non-required
// strength, per spec.md §4.9: an equality constraint "v = 0" is
// admitted at strength, and its tag recorded for SuggestValue.
func (s *Solver) AddEditVariable(v *Variable, strength Strength) error {
	if s.HasEditVariable(v) {
		return DuplicateEditVariableError{Variable: v}
	}
	if strength.IsRequired() {
		return BadRequiredStrengthError{Variable: v}
	}

	expr, err := NewExpression(v)
	if err != nil {
		return err
	}
	c, err := NewConstraint(expr, Equal, WithStrength(strength))
	if err != nil {
		return err
	}
	if err := s.AddConstraint(c); err != nil {
		return err
	}

	s.edits[v.id] = &editInfo{
		tag:        s.constraints[c.id].tag,
		constraint: c,
		constant:   0,
	}
	return nil
}

// RemoveEditVariable un-registers v, removing its underlying equality
// constraint.
func (s *Solver) RemoveEditVariable(v *Variable) error {
	info, ok := s.edits[v.id]
	if !ok {
		return UnknownEditVariableError{Variable: v}
	}
	if err := s.RemoveConstraint(info.constraint); err != nil {
		return err
	}
	delete(s.edits, v.id)
	return nil
}

// applyEditDelta implements spec.md §4.9 step 2-4: push delta into
// whichever row currently carries v's edit marker/other, queuing any
// row that goes negative for dual-optimization.
func (s *Solver) applyEditDelta(info *editInfo, delta float64) {
	if r, ok := s.rows[info.tag.marker]; ok {
		r.constant -= delta
		if r.constant < 0 {
			s.infeasible = append(s.infeasible, info.tag.marker)
		}
		return
	}
	if r, ok := s.rows[info.tag.other]; ok {
		r.constant += delta
		if r.constant < 0 {
			s.infeasible = append(s.infeasible, info.tag.other)
		}
		return
	}
	for _, basic := range sortedRowSymbols(s.rows) {
		r := s.rows[basic]
		c := r.coefficientFor(info.tag.marker)
		if c == 0 {
			continue
		}
		r.constant += delta * c
		if r.constant < 0 && !basic.external() {
			s.infeasible = append(s.infeasible, basic)
		}
	}
}

// SuggestValue implements spec.md §4.9: suggest a new value for edit
// variable v and dual-optimize to restore feasibility.
func (s *Solver) SuggestValue(v *Variable, value float64) error {
	info, ok := s.edits[v.id]
	if !ok {
		return UnknownEditVariableError{Variable: v}
	}
	delta := value - info.constant
	info.constant = value
	s.applyEditDelta(info, delta)
	return s.dualOptimize()
}

// SuggestValues applies every suggestion in values before draining
// infeasibility once, rather than once per variable — this is how
// interactive layout callers actually drive the solver, since many
// edit variables move together on every frame.
func (s *Solver) SuggestValues(values map[*Variable]float64) error {
	ids := make([]uint64, 0, len(values))
	byID := make(map[uint64]*Variable, len(values))
	newValues := make(map[uint64]float64, len(values))
	for v, val := range values {
		ids = append(ids, v.id)
		byID[v.id] = v
		newValues[v.id] = val
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		v := byID[id]
		info, ok := s.edits[id]
		if !ok {
			return UnknownEditVariableError{Variable: v}
		}
		delta := newValues[id] - info.constant
		info.constant = newValues[id]
		s.applyEditDelta(info, delta)
	}
	return s.dualOptimize()
}

// AddStay pins v at its current value, via an edit variable
// immediately suggested at v.Value(). It is sugar over AddEditVariable
// + SuggestValue, matching the "stay constraint" concept from the
// wider Cassowary lineage. A zero strength (the Strength zero value)
// means "use this solver's configured default", per Config's
// DefaultStayStrength.
func (s *Solver) AddStay(v *Variable, strength Strength) error {
	if strength == 0 {
		strength = s.config.DefaultStayStrength
	}
	if err := s.AddEditVariable(v, strength); err != nil {
		return err
	}
	return s.SuggestValue(v, v.Value())
}

// UpdateVariables implements spec.md §4.10: publish the current basic
// value of every registered variable (0 if it is not currently basic).
func (s *Solver) UpdateVariables() {
	for _, id := range sortedVarIDs(s.vars) {
		v := s.vars[id]
		sym := s.varSym[id]
		if r, ok := s.rows[sym]; ok {
			v.value = r.constant
		} else {
			v.value = 0
		}
	}
}

// Value reads v's current external-symbol row constant directly,
// without requiring a prior UpdateVariables call.
func (s *Solver) Value(v *Variable) float64 {
	sym, ok := s.varSym[v.id]
	if !ok {
		return 0
	}
	if r, ok := s.rows[sym]; ok {
		return r.constant
	}
	return 0
}

// Constraints returns the currently admitted constraints, ordered by
// id.
func (s *Solver) Constraints() []Constraint {
	ids := sortedConstraintIDs(s.constraints)
	out := make([]Constraint, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.constraints[id].constraint)
	}
	return out
}

// Variables returns the variables currently registered with the
// solver, ordered by id.
func (s *Solver) Variables() []*Variable {
	ids := sortedVarIDs(s.vars)
	out := make([]*Variable, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.vars[id])
	}
	return out
}

// CheckInvariants re-derives the standing invariants of spec.md §3 over
// the current tableau: no row references its own basic symbol, every
// non-external row constant is non-negative and no non-dummy objective
// coefficient is negative (both within InvariantTolerance), and the
// infeasible worklist and artificial row are empty. It is diagnostic
// only: the solver never calls it internally.
func (s *Solver) CheckInvariants() error {
	var errs error

	for _, basic := range sortedRowSymbols(s.rows) {
		r := s.rows[basic]

		if r.has(basic) {
			errs = multierr.Append(errs, fmt.Errorf("row %s references its own basic symbol", basic))
		}
		if !basic.external() && r.constant < -s.config.InvariantTolerance {
			errs = multierr.Append(errs, fmt.Errorf("row %s has negative constant %g", basic, r.constant))
		}
	}

	for _, t := range s.objective.cells {
		if !t.sym.dummy() && t.coeff < -s.config.InvariantTolerance {
			errs = multierr.Append(errs, fmt.Errorf("objective has negative coefficient %g on %s", t.coeff, t.sym))
		}
	}

	if len(s.infeasible) != 0 {
		errs = multierr.Append(errs, fmt.Errorf("%d rows still pending in the infeasible worklist", len(s.infeasible)))
	}
	if s.artificial != nil {
		errs = multierr.Append(errs, fmt.Errorf("artificial row still live outside admission"))
	}

	return errs
}
