//go:build glpk

package mip

// NewEngine selects a solver by name. With the glpk build tag the
// "glpk" engine binds to the GLPK MIP solver via cgo.
func NewEngine(name string, nodeBudget int) Solver {
	if name == "glpk" {
		return NewGLPK()
	}
	bb := NewBranchBound()
	bb.NodeBudget = nodeBudget
	return bb
}
