//go:build !glpk

package mip

// NewEngine selects a solver by name. Without the glpk build tag every
// name maps to the built-in branch and bound engine.
func NewEngine(name string, nodeBudget int) Solver {
	_ = name
	bb := NewBranchBound()
	bb.NodeBudget = nodeBudget
	return bb
}
