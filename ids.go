package casso

import "sync/atomic"

// idAllocator hands out monotonic, process-scoped ids. It backs
// Variable and Constraint identity, which is module-scoped rather than
// per-Solver: user code is expected to create variables and
// constraints before deciding which Solver(s) will reference them
// (spec.md §9's design note calls for "a small module-scoped allocator
// for variables/constraints"). Symbol identity, by contrast, is scoped
// per-Solver — see (*Solver).nextSymbol — since independent solvers
// must not need to coordinate with each other to stay non-overlapping.
type idAllocator struct {
	next uint64
}

func (a *idAllocator) allocate() uint64 {
	return atomic.AddUint64(&a.next, 1) - 1
}

var (
	variableIDs   idAllocator
	constraintIDs idAllocator
)
