// Package mip provides a small modeling layer for linear integer programs
// and pluggable solving engines. Callers declare variables, linear
// constraints and an objective, then hand the model to a Solver; engine
// internals (search, relaxations) stay behind the Solver interface.
package mip

import "context"

// Var is an opaque handle to a declared variable.
type Var int

// VarKind distinguishes binary from general integer variables.
type VarKind int

const (
	// Binary variables take values in {0,1}.
	Binary VarKind = iota
	// Integer variables take integer values, optionally bounded below.
	Integer
)

// Sense is the relation of a linear constraint.
type Sense int

const (
	LE Sense = iota
	GE
	EQ
)

// Status is the terminal state reported by an engine.
type Status string

const (
	StatusOptimal    Status = "optimal"
	StatusInfeasible Status = "infeasible"
	// StatusOther covers timeouts, unbounded models and numerical
	// failures; the Solution message carries the detail.
	StatusOther Status = "other"
)

// Term is a single coefficient-variable product.
type Term struct {
	Coef float64
	Var  Var
}

// Expr is a linear expression sum(Coef_i * Var_i) + Const.
type Expr struct {
	Terms []Term
	Const float64
}

// Add appends a term and returns the expression for chaining.
func (e Expr) Add(coef float64, v Var) Expr {
	e.Terms = append(e.Terms, Term{Coef: coef, Var: v})
	return e
}

// Constraint is a bounded linear expression.
type Constraint struct {
	Name  string
	Expr  Expr
	Sense Sense
	RHS   float64
}

type varDef struct {
	name  string
	kind  VarKind
	lower *float64 // nil means unbounded below (Integer only)
}

// Model is an integer program under construction. It is not safe for
// concurrent mutation; build it fully before solving.
type Model struct {
	name        string
	vars        []varDef
	constraints []Constraint
	objective   Expr
	maximize    bool
}

// NewModel creates an empty model.
func NewModel(name string) *Model {
	return &Model{name: name}
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// AddBinary declares a {0,1} variable and returns its handle.
func (m *Model) AddBinary(name string) Var {
	m.vars = append(m.vars, varDef{name: name, kind: Binary})
	return Var(len(m.vars) - 1)
}

// AddInt declares an integer variable. A nil lower bound leaves the
// variable unbounded below.
func (m *Model) AddInt(name string, lower *float64) Var {
	m.vars = append(m.vars, varDef{name: name, kind: Integer, lower: lower})
	return Var(len(m.vars) - 1)
}

// AddConstraint registers expr (sense) rhs.
func (m *Model) AddConstraint(name string, expr Expr, sense Sense, rhs float64) {
	m.constraints = append(m.constraints, Constraint{Name: name, Expr: expr, Sense: sense, RHS: rhs})
}

// Maximize sets the objective direction and expression.
func (m *Model) Maximize(expr Expr) {
	m.objective = expr
	m.maximize = true
}

// Minimize sets the objective direction and expression.
func (m *Model) Minimize(expr Expr) {
	m.objective = expr
	m.maximize = false
}

// NumVars reports the number of declared variables.
func (m *Model) NumVars() int { return len(m.vars) }

// NumConstraints reports the number of registered constraints.
func (m *Model) NumConstraints() int { return len(m.constraints) }

// Solution carries the engine verdict and, when optimal, variable values.
type Solution struct {
	Status    Status
	Objective float64
	Message   string
	values    []float64
}

// NewSolution builds a Solution from raw variable values, indexed by
// Var handle. Engines outside this package use it to report results.
func NewSolution(status Status, objective float64, values []float64) *Solution {
	return &Solution{Status: status, Objective: objective, values: values}
}

// Value reads a solved variable. Only meaningful when Status is optimal.
func (s *Solution) Value(v Var) float64 {
	if s == nil || int(v) < 0 || int(v) >= len(s.values) {
		return 0
	}
	return s.values[int(v)]
}

// Solver is the engine boundary. Implementations must return a definite
// status even when the context deadline expires mid-search.
type Solver interface {
	Solve(ctx context.Context, m *Model) (*Solution, error)
}
