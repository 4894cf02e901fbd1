package casso

import (
	"github.com/fxamacker/cbor/v2"
)

// SnapshotRow is the diagnostic encoding of one basic row: its symbol,
// constant, and cell list, sorted the way row.cells already is.
type SnapshotRow struct {
	Basic    string         `cbor:"basic"`
	Constant float64        `cbor:"constant"`
	Cells    []SnapshotCell `cbor:"cells"`
}

// SnapshotCell is one term of a SnapshotRow.
type SnapshotCell struct {
	Symbol string  `cbor:"symbol"`
	Coeff  float64 `cbor:"coeff"`
}

// SnapshotVariable is the diagnostic encoding of one registered
// variable's current published value.
type SnapshotVariable struct {
	ID    uint64  `cbor:"id"`
	Name  string  `cbor:"name"`
	Value float64 `cbor:"value"`
}

// Snapshot is a point-in-time, order-stable dump of a Solver's
// tableau, meant for post-mortem diagnosis (attach to a bug report,
// diff between two runs) rather than for persistence or resumption:
// symbol ids are solver-local and not stable across solver instances.
type Snapshot struct {
	Rows         []SnapshotRow      `cbor:"rows"`
	ObjectiveRow SnapshotRow        `cbor:"objective"`
	Variables    []SnapshotVariable `cbor:"variables"`
}

func snapshotRow(name string, r *row) SnapshotRow {
	cells := make([]SnapshotCell, 0, len(r.cells))
	for _, t := range r.cells {
		cells = append(cells, SnapshotCell{Symbol: t.sym.String(), Coeff: t.coeff})
	}
	return SnapshotRow{Basic: name, Constant: r.constant, Cells: cells}
}

// Snapshot captures the solver's current tableau and published
// variable values.
func (s *Solver) Snapshot() Snapshot {
	snap := Snapshot{
		Rows:         make([]SnapshotRow, 0, len(s.rows)),
		ObjectiveRow: snapshotRow("objective", s.objective),
		Variables:    make([]SnapshotVariable, 0, len(s.vars)),
	}
	for _, sym := range sortedRowSymbols(s.rows) {
		snap.Rows = append(snap.Rows, snapshotRow(sym.String(), s.rows[sym]))
	}
	for _, id := range sortedVarIDs(s.vars) {
		v := s.vars[id]
		snap.Variables = append(snap.Variables, SnapshotVariable{
			ID:    v.id,
			Name:  v.displayName(),
			Value: s.Value(v),
		})
	}
	return snap
}

// MarshalCBOR encodes the snapshot compactly. The local alias strips
// Snapshot's method set so cbor.Marshal does not recurse back into
// this method through the Marshaler interface.
func (snap Snapshot) MarshalCBOR() ([]byte, error) {
	type alias Snapshot
	return cbor.Marshal(alias(snap))
}
