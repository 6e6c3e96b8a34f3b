//go:build glpk

package mip

import (
	"context"
	"fmt"

	"github.com/lukpank/go-glpk/glpk"
)

// GLPK solves models through the GNU Linear Programming Kit. Needs cgo
// and the system libglpk; build with the "glpk" tag to enable it.
type GLPK struct{}

// NewGLPK returns a GLPK-backed engine.
func NewGLPK() *GLPK {
	return &GLPK{}
}

// Solve translates the model into GLPK columns and rows, runs the
// simplex and integer optimizers, and maps the MIP status back.
func (g *GLPK) Solve(ctx context.Context, m *Model) (*Solution, error) {
	if err := ctx.Err(); err != nil {
		return &Solution{Status: StatusOther, Message: "context cancelled before solve"}, nil
	}

	lp := glpk.New()
	defer lp.Delete()
	lp.SetProbName(m.name)
	if m.maximize {
		lp.SetObjDir(glpk.MAX)
	} else {
		lp.SetObjDir(glpk.MIN)
	}

	if n := len(m.vars); n > 0 {
		lp.AddCols(n)
	}
	for i, def := range m.vars {
		col := i + 1
		lp.SetColName(col, def.name)
		switch def.kind {
		case Binary:
			lp.SetColKind(col, glpk.BV)
		case Integer:
			lp.SetColKind(col, glpk.IV)
			if def.lower != nil {
				lp.SetColBnds(col, glpk.LO, *def.lower, 0)
			} else {
				lp.SetColBnds(col, glpk.FR, 0, 0)
			}
		}
	}
	for _, t := range m.objective.Terms {
		lp.SetObjCoef(int(t.Var)+1, t.Coef)
	}
	lp.SetObjCoef(0, m.objective.Const)

	if n := len(m.constraints); n > 0 {
		lp.AddRows(n)
	}
	for i, c := range m.constraints {
		row := i + 1
		lp.SetRowName(row, c.Name)
		rhs := c.RHS - c.Expr.Const
		switch c.Sense {
		case LE:
			lp.SetRowBnds(row, glpk.UP, 0, rhs)
		case GE:
			lp.SetRowBnds(row, glpk.LO, rhs, 0)
		case EQ:
			lp.SetRowBnds(row, glpk.FX, rhs, rhs)
		}
		indices := make([]int32, len(c.Expr.Terms))
		coefs := make([]float64, len(c.Expr.Terms))
		for j, t := range c.Expr.Terms {
			indices[j] = int32(t.Var) + 1
			coefs[j] = t.Coef
		}
		lp.SetMatRow(row, indices, coefs)
	}

	smcp := glpk.NewSmcp()
	smcp.SetMsgLev(glpk.MSG_ERR)
	if err := lp.Simplex(smcp); err != nil {
		return nil, fmt.Errorf("mip: glpk simplex: %w", err)
	}

	iocp := glpk.NewIocp()
	iocp.SetPresolve(true)
	iocp.SetMsgLev(glpk.MSG_ERR)
	if err := lp.Intopt(iocp); err != nil {
		return nil, fmt.Errorf("mip: glpk intopt: %w", err)
	}

	switch status := lp.MipStatus(); status {
	case glpk.OPT:
	case glpk.NOFEAS:
		return &Solution{Status: StatusInfeasible, Message: "glpk: no feasible integer solution"}, nil
	default:
		return &Solution{Status: StatusOther, Message: fmt.Sprintf("glpk: terminated with status %v", status)}, nil
	}

	values := make([]float64, len(m.vars))
	for i := range m.vars {
		values[i] = lp.MipColVal(i + 1)
	}
	return &Solution{Status: StatusOptimal, Objective: lp.MipObjVal(), values: values}, nil
}
