package mip

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBranchBoundMaximizeWithCapacity(t *testing.T) {
	m := NewModel("knapsack")
	x := m.AddBinary("x")
	y := m.AddBinary("y")
	m.AddConstraint("cap", Expr{}.Add(1, x).Add(1, y), LE, 1)
	m.Maximize(Expr{}.Add(3, x).Add(2, y))

	sol, err := NewBranchBound().Solve(context.Background(), m)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)
	assert.InDelta(t, 3.0, sol.Objective, 1e-9)
	assert.InDelta(t, 1.0, sol.Value(x), 1e-9)
	assert.InDelta(t, 0.0, sol.Value(y), 1e-9)
}

func TestBranchBoundEqualityConstraint(t *testing.T) {
	m := NewModel("eq")
	x := m.AddBinary("x")
	y := m.AddBinary("y")
	m.AddConstraint("pick-one", Expr{}.Add(1, x).Add(1, y), EQ, 1)
	m.Maximize(Expr{}.Add(1, x).Add(5, y))

	sol, err := NewBranchBound().Solve(context.Background(), m)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)
	assert.InDelta(t, 5.0, sol.Objective, 1e-9)
	assert.InDelta(t, 1.0, sol.Value(y), 1e-9)
}

func TestBranchBoundInfeasible(t *testing.T) {
	m := NewModel("infeasible")
	x := m.AddBinary("x")
	m.AddConstraint("lo", Expr{}.Add(1, x), GE, 1)
	m.AddConstraint("hi", Expr{}.Add(1, x), LE, 0)
	m.Maximize(Expr{}.Add(1, x))

	sol, err := NewBranchBound().Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, sol.Status)
}

func TestBranchBoundFloorVariable(t *testing.T) {
	// s is a free integer bounded above by each binary; maximizing a
	// heavily weighted s makes it the minimum of the two.
	m := NewModel("floor")
	x1 := m.AddBinary("x1")
	x2 := m.AddBinary("x2")
	s := m.AddInt("s", nil)
	m.AddConstraint("link-1", Expr{}.Add(1, s).Add(-1, x1), LE, 0)
	m.AddConstraint("link-2", Expr{}.Add(1, s).Add(-1, x2), LE, 0)
	m.Maximize(Expr{}.Add(10, s).Add(1, x1).Add(1, x2))

	sol, err := NewBranchBound().Solve(context.Background(), m)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol.Status)
	assert.InDelta(t, 12.0, sol.Objective, 1e-9)
	assert.InDelta(t, 1.0, sol.Value(s), 1e-9)

	// With capacity one of the binaries drops and the floor follows.
	m2 := NewModel("floor-capped")
	y1 := m2.AddBinary("y1")
	y2 := m2.AddBinary("y2")
	s2 := m2.AddInt("s", nil)
	m2.AddConstraint("link-1", Expr{}.Add(1, s2).Add(-1, y1), LE, 0)
	m2.AddConstraint("link-2", Expr{}.Add(1, s2).Add(-1, y2), LE, 0)
	m2.AddConstraint("cap", Expr{}.Add(1, y1).Add(1, y2), LE, 1)
	m2.Maximize(Expr{}.Add(10, s2).Add(1, y1).Add(1, y2))

	sol2, err := NewBranchBound().Solve(context.Background(), m2)
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, sol2.Status)
	assert.InDelta(t, 1.0, sol2.Objective, 1e-9)
	assert.InDelta(t, 0.0, sol2.Value(s2), 1e-9)
}

func TestBranchBoundUnbounded(t *testing.T) {
	m := NewModel("unbounded")
	m.AddBinary("x")
	s := m.AddInt("s", nil)
	m.Maximize(Expr{}.Add(1, s))

	sol, err := NewBranchBound().Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, StatusOther, sol.Status)
	assert.Contains(t, sol.Message, "unbounded")
}

func TestBranchBoundCancelledContext(t *testing.T) {
	m := NewModel("wide")
	x := m.AddBinary("x")
	m.Maximize(Expr{}.Add(1, x))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sol, err := NewBranchBound().Solve(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, StatusOther, sol.Status)
}

func TestBranchBoundNodeBudget(t *testing.T) {
	m := NewModel("budget")
	m.AddBinary("x")
	m.Maximize(Expr{})

	engine := &BranchBound{NodeBudget: 1}
	sol, err := engine.Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, StatusOther, sol.Status)
}

func TestBranchBoundRejectsCoupledIntegers(t *testing.T) {
	m := NewModel("coupled")
	a := m.AddInt("a", nil)
	b := m.AddInt("b", nil)
	m.AddConstraint("bad", Expr{}.Add(1, a).Add(1, b), LE, 1)

	_, err := NewBranchBound().Solve(context.Background(), m)
	require.Error(t, err)
}
