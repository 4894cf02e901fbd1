package casso

import "sort"

// epsilon is the single zero tolerance used throughout row algebra and
// the solver, per spec.md §9: cell erasure, constraint redundancy, and
// artificial-variable admission success all test against it.
const epsilon = 1e-8

func isZero(v float64) bool {
	if v < 0 {
		v = -v
	}
	return v < epsilon
}

// term is one cell of a row: a coefficient on a tableau symbol.
type term struct {
	sym   symbol
	coeff float64
}

// row is a mutable linear combination "constant + sum(coeff*sym)".
// Cells are kept sorted by symbol id so every scan over a row (entering-
// symbol selection, marker-removal, dummy checks) is deterministic and
// reproducible, per spec.md §5 and the Design Notes' caution against
// hash-order containers.
type row struct {
	constant float64
	cells    []term
}

func newRow(constant float64) *row {
	return &row{constant: constant}
}

// clone returns an independent copy; used only for artificial-variable
// admission (spec.md §4.4 keeps two independent copies of the built
// row, one basic in the tableau and one tracked as the transient
// artificial objective).
func (r *row) clone() *row {
	cells := make([]term, len(r.cells))
	copy(cells, r.cells)
	return &row{constant: r.constant, cells: cells}
}

func (r *row) find(s symbol) int {
	i := sort.Search(len(r.cells), func(i int) bool { return r.cells[i].sym.id >= s.id })
	if i < len(r.cells) && r.cells[i].sym.id == s.id {
		return i
	}
	return -1
}

func (r *row) has(s symbol) bool { return r.find(s) != -1 }

// coefficientFor returns 0 if s is absent from the row.
func (r *row) coefficientFor(s symbol) float64 {
	if i := r.find(s); i != -1 {
		return r.cells[i].coeff
	}
	return 0
}

func (r *row) remove(s symbol) {
	if i := r.find(s); i != -1 {
		r.cells = append(r.cells[:i], r.cells[i+1:]...)
	}
}

// insertSymbol adds coeff to the coefficient of s, inserting a fresh
// cell in sorted position if s is not yet present. A cell whose
// coefficient falls below epsilon in absolute value is erased.
func (r *row) insertSymbol(s symbol, coeff float64) {
	i := sort.Search(len(r.cells), func(i int) bool { return r.cells[i].sym.id >= s.id })
	if i < len(r.cells) && r.cells[i].sym.id == s.id {
		r.cells[i].coeff += coeff
		if isZero(r.cells[i].coeff) {
			r.cells = append(r.cells[:i], r.cells[i+1:]...)
		}
		return
	}
	if isZero(coeff) {
		return
	}
	r.cells = append(r.cells, term{})
	copy(r.cells[i+1:], r.cells[i:])
	r.cells[i] = term{sym: s, coeff: coeff}
}

// insertRow adds m*other to the receiver.
func (r *row) insertRow(other *row, m float64) {
	r.constant += m * other.constant
	for _, t := range other.cells {
		r.insertSymbol(t.sym, m*t.coeff)
	}
}

func (r *row) reverseSign() {
	r.constant = -r.constant
	for i := range r.cells {
		r.cells[i].coeff = -r.cells[i].coeff
	}
}

// solveFor rearranges "... + k*s + ... + constant = 0" (k = row[s])
// into "s = ...". Precondition: s is present in the row.
func (r *row) solveFor(s symbol) {
	i := r.find(s)
	if i == -1 {
		return
	}
	k := r.cells[i].coeff
	r.cells = append(r.cells[:i], r.cells[i+1:]...)

	coeff := -1.0 / k
	if coeff == 1.0 {
		return
	}
	r.constant *= coeff
	for j := range r.cells {
		r.cells[j].coeff *= coeff
	}
}

// solveForPair rewrites a row currently basic in lhs to be basic in
// rhs instead: used when repivoting an existing basic row onto a
// different basis symbol.
func (r *row) solveForPair(lhs, rhs symbol) {
	r.insertSymbol(lhs, -1)
	r.solveFor(rhs)
}

// substitute replaces s, if present, with coeff*other where coeff is
// s's coefficient in the receiver.
func (r *row) substitute(s symbol, other *row) {
	i := r.find(s)
	if i == -1 {
		return
	}
	coeff := r.cells[i].coeff
	r.cells = append(r.cells[:i], r.cells[i+1:]...)
	r.insertRow(other, coeff)
}

func (r *row) allDummies() bool {
	for _, t := range r.cells {
		if !t.sym.dummy() {
			return false
		}
	}
	return true
}
