package mip

import (
	"context"
	"fmt"
	"math"
)

const (
	feasEps       = 1e-6
	ctxCheckEvery = 1024
)

// BranchBound is an exact in-process engine for models made of binary
// decision variables plus integer variables linked to the binaries
// through linear constraints (at most one integer variable per
// constraint). It enumerates the binary space depth-first with
// constraint and bound pruning, which is fast enough for rosters of a
// few hundred people; larger models should use the GLPK backend.
type BranchBound struct {
	// NodeBudget caps explored search nodes; zero means unlimited.
	NodeBudget int
}

// NewBranchBound returns an engine with no node budget.
func NewBranchBound() *BranchBound {
	return &BranchBound{}
}

type bbConstraint struct {
	binTerms []Term // terms over binary variables
	intTerm  *Term  // at most one integer-variable term
	sense    Sense
	rhs      float64 // RHS minus the expression constant

	fixed  float64 // contribution of assigned binaries
	minRem float64 // min possible contribution of unassigned binaries
	maxRem float64 // max possible contribution of unassigned binaries
}

type bbState struct {
	model    *Model
	binVars  []Var
	intVars  []Var
	cons     []bbConstraint
	byVar    map[Var][]int // constraint indices touching each binary var
	intCons  map[Var][]int // constraint indices touching each integer var
	objCoef  []float64
	objConst float64
	maximize bool

	values    []float64
	depth     int // binaries in binVars[:depth] are assigned
	nodes     int
	bestFound bool
	bestObj   float64
	bestVals  []float64
	unbounded bool
	stopped   bool
}

// Solve runs the search. A definite status is always returned on a nil
// error: optimal, infeasible, or other (timeout, unbounded, budget).
func (b *BranchBound) Solve(ctx context.Context, m *Model) (*Solution, error) {
	st, err := newBBState(m)
	if err != nil {
		return nil, err
	}

	if ctx.Err() != nil {
		return &Solution{Status: StatusOther, Message: "context cancelled before solve"}, nil
	}
	st.search(ctx, b.NodeBudget)

	switch {
	case st.unbounded:
		return &Solution{Status: StatusOther, Message: "model is unbounded"}, nil
	case st.stopped:
		return &Solution{Status: StatusOther, Message: "search aborted before completion"}, nil
	case !st.bestFound:
		return &Solution{Status: StatusInfeasible, Message: "no feasible assignment"}, nil
	}
	return &Solution{Status: StatusOptimal, Objective: st.bestObj, values: st.bestVals}, nil
}

func newBBState(m *Model) (*bbState, error) {
	st := &bbState{
		model:    m,
		byVar:    make(map[Var][]int),
		intCons:  make(map[Var][]int),
		objCoef:  make([]float64, len(m.vars)),
		maximize: m.maximize,
		values:   make([]float64, len(m.vars)),
	}
	for i, def := range m.vars {
		if def.kind == Binary {
			st.binVars = append(st.binVars, Var(i))
		} else {
			st.intVars = append(st.intVars, Var(i))
		}
	}
	for _, t := range m.objective.Terms {
		if int(t.Var) < 0 || int(t.Var) >= len(m.vars) {
			return nil, fmt.Errorf("mip: objective references unknown variable %d", t.Var)
		}
		st.objCoef[t.Var] += t.Coef
	}
	st.objConst = m.objective.Const

	for _, c := range m.constraints {
		bc := bbConstraint{sense: c.Sense, rhs: c.RHS - c.Expr.Const}
		for _, t := range c.Expr.Terms {
			if int(t.Var) < 0 || int(t.Var) >= len(m.vars) {
				return nil, fmt.Errorf("mip: constraint %q references unknown variable %d", c.Name, t.Var)
			}
			if m.vars[t.Var].kind == Binary {
				bc.binTerms = append(bc.binTerms, t)
				continue
			}
			if bc.intTerm != nil {
				return nil, fmt.Errorf("mip: constraint %q couples two integer variables; not supported by the branch-and-bound engine", c.Name)
			}
			term := t
			bc.intTerm = &term
		}
		for _, t := range bc.binTerms {
			if t.Coef >= 0 {
				bc.maxRem += t.Coef
			} else {
				bc.minRem += t.Coef
			}
		}
		idx := len(st.cons)
		st.cons = append(st.cons, bc)
		for _, t := range bc.binTerms {
			st.byVar[t.Var] = append(st.byVar[t.Var], idx)
		}
		if bc.intTerm != nil {
			st.intCons[bc.intTerm.Var] = append(st.intCons[bc.intTerm.Var], idx)
		}
	}
	return st, nil
}

func (st *bbState) search(ctx context.Context, budget int) {
	if st.unbounded || st.stopped {
		return
	}
	st.nodes++
	if budget > 0 && st.nodes > budget {
		st.stopped = true
		return
	}
	if st.nodes%ctxCheckEvery == 0 && ctx.Err() != nil {
		st.stopped = true
		return
	}
	if st.pruned() {
		return
	}
	if st.depth == len(st.binVars) {
		st.evaluateLeaf()
		return
	}

	v := st.binVars[st.depth]
	for _, val := range [2]float64{1, 0} {
		st.assign(v, val)
		st.search(ctx, budget)
		st.unassign(v, val)
		if st.unbounded || st.stopped {
			return
		}
	}
}

func (st *bbState) assign(v Var, val float64) {
	st.values[v] = val
	st.depth++
	for _, ci := range st.byVar[v] {
		c := &st.cons[ci]
		for _, t := range c.binTerms {
			if t.Var != v {
				continue
			}
			c.fixed += t.Coef * val
			if t.Coef >= 0 {
				c.maxRem -= t.Coef
			} else {
				c.minRem -= t.Coef
			}
		}
	}
}

func (st *bbState) unassign(v Var, val float64) {
	st.depth--
	for _, ci := range st.byVar[v] {
		c := &st.cons[ci]
		for _, t := range c.binTerms {
			if t.Var != v {
				continue
			}
			c.fixed -= t.Coef * val
			if t.Coef >= 0 {
				c.maxRem += t.Coef
			} else {
				c.minRem += t.Coef
			}
		}
	}
}

// pruned reports whether the current partial assignment can be cut:
// either a constraint is already violated in the best case, or the
// optimistic objective cannot beat the incumbent.
func (st *bbState) pruned() bool {
	for i := range st.cons {
		c := &st.cons[i]
		if c.intTerm != nil {
			continue // integer-linked rows are settled at the leaf
		}
		switch c.sense {
		case LE:
			if c.fixed+c.minRem > c.rhs+feasEps {
				return true
			}
		case GE:
			if c.fixed+c.maxRem < c.rhs-feasEps {
				return true
			}
		case EQ:
			if c.fixed+c.minRem > c.rhs+feasEps || c.fixed+c.maxRem < c.rhs-feasEps {
				return true
			}
		}
	}
	if !st.bestFound {
		return false
	}
	bound, ok := st.optimisticObjective()
	if !ok {
		return false
	}
	if st.maximize {
		return bound <= st.bestObj+feasEps
	}
	return bound >= st.bestObj-feasEps
}

// optimisticObjective returns an upper bound (maximize) or lower bound
// (minimize) on any completion of the current partial assignment. It
// only bounds integer variables in the floor shape (positive objective
// weight, upper-bounded by LE rows when maximizing); for anything else
// it declines and no objective pruning happens.
func (st *bbState) optimisticObjective() (float64, bool) {
	bound := st.objConst
	for i, v := range st.binVars {
		coef := st.objCoef[v]
		if i < st.depth {
			bound += coef * st.values[v]
			continue
		}
		if st.maximize && coef > 0 {
			bound += coef
		} else if !st.maximize && coef < 0 {
			bound += coef
		}
	}
	for _, v := range st.intVars {
		coef := st.objCoef[v]
		if coef == 0 {
			continue
		}
		if !st.maximize || coef < 0 {
			return 0, false
		}
		ub := math.Inf(1)
		for _, ci := range st.intCons[v] {
			c := &st.cons[ci]
			a := c.intTerm.Coef
			if c.sense != LE || a <= 0 {
				continue
			}
			// loosest residual over all completions
			residual := c.rhs - c.fixed - c.minRem
			ub = math.Min(ub, math.Floor(residual/a+feasEps))
		}
		if math.IsInf(ub, 1) {
			return 0, false
		}
		bound += coef * ub
	}
	return bound, true
}

func (st *bbState) evaluateLeaf() {
	obj := st.objConst
	for _, v := range st.binVars {
		obj += st.objCoef[v] * st.values[v]
	}

	// Settle integer variables against their linking rows.
	for _, v := range st.intVars {
		def := st.model.vars[v]
		lb := math.Inf(-1)
		ub := math.Inf(1)
		if def.lower != nil {
			lb = *def.lower
		}
		for _, ci := range st.intCons[v] {
			c := &st.cons[ci]
			a := c.intTerm.Coef
			residual := c.rhs - c.fixed
			switch c.sense {
			case LE: // a*v <= residual
				if a > 0 {
					ub = math.Min(ub, math.Floor(residual/a+feasEps))
				} else if a < 0 {
					lb = math.Max(lb, math.Ceil(residual/a-feasEps))
				}
			case GE:
				if a > 0 {
					lb = math.Max(lb, math.Ceil(residual/a-feasEps))
				} else if a < 0 {
					ub = math.Min(ub, math.Floor(residual/a+feasEps))
				}
			case EQ:
				val := residual / a
				lb = math.Max(lb, math.Ceil(val-feasEps))
				ub = math.Min(ub, math.Floor(val+feasEps))
			}
		}
		if lb > ub+feasEps {
			return // no integer value satisfies the linking rows
		}
		coef := st.objCoef[v]
		wantHigh := (st.maximize && coef > 0) || (!st.maximize && coef < 0)
		wantLow := (st.maximize && coef < 0) || (!st.maximize && coef > 0)
		var val float64
		switch {
		case wantHigh:
			if math.IsInf(ub, 1) {
				st.unbounded = true
				return
			}
			val = ub
		case wantLow:
			if math.IsInf(lb, -1) {
				st.unbounded = true
				return
			}
			val = lb
		default:
			switch {
			case !math.IsInf(ub, 1):
				val = ub
			case !math.IsInf(lb, -1):
				val = lb
			default:
				val = 0
			}
		}
		st.values[v] = val
		obj += coef * val
	}

	if st.bestFound {
		if st.maximize && obj <= st.bestObj+feasEps {
			return
		}
		if !st.maximize && obj >= st.bestObj-feasEps {
			return
		}
	}
	st.bestFound = true
	st.bestObj = obj
	st.bestVals = append([]float64(nil), st.values...)
}
