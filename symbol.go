package casso

import "fmt"

// symbolKind tags a tableau symbol with its role, per spec.md §3's
// five kinds. invalidKind exists only for the INVALID sentinel; the
// solver itself only ever allocates the other four.
type symbolKind uint8

const (
	invalidKind symbolKind = iota
	externalKind
	slackKind
	errorKind
	dummyKind
)

var symbolKindNames = [...]string{
	invalidKind:  "Invalid",
	externalKind: "External",
	slackKind:    "Slack",
	errorKind:    "Error",
	dummyKind:    "Dummy",
}

func (k symbolKind) String() string { return symbolKindNames[k] }

// symbol is an internal tableau identifier: a monotonic id tagged with
// a kind. It is comparable and used directly as a map key throughout
// the solver (rows, tags).
type symbol struct {
	id   int64
	kind symbolKind
}

// invalidSymbol is the single process-wide INVALID sentinel of
// spec.md §3, carrying id -1 so it can never collide with a real,
// allocated symbol id.
var invalidSymbol = symbol{id: -1, kind: invalidKind}

func (s symbol) valid() bool      { return s.id >= 0 }
func (s symbol) external() bool   { return s.valid() && s.kind == externalKind }
func (s symbol) restricted() bool { return s.valid() && (s.kind == slackKind || s.kind == errorKind) }
func (s symbol) dummy() bool      { return s.valid() && s.kind == dummyKind }
func (s symbol) errSym() bool     { return s.valid() && s.kind == errorKind }

func (s symbol) String() string {
	if !s.valid() {
		return "INVALID"
	}
	return fmt.Sprintf("%s#%d", s.kind, s.id)
}
