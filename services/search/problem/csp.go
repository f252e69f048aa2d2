// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package problem

import (
	"fmt"
	"slices"
	"strings"
)

// -----------------------------------------------------------------------------
// Variables and Values
// -----------------------------------------------------------------------------

// Variable names a CSP variable.
type Variable string

// Value is a candidate value from a variable's domain.
//
// Multi-part values, such as a (time slot, room) pair, are built with Tuple
// and read back with Field.
type Value string

const tupleSeparator = "|"

// Tuple joins parts into a single Value.
func Tuple(parts ...string) Value {
	return Value(strings.Join(parts, tupleSeparator))
}

// Fields splits a Tuple value into its parts.
func (v Value) Fields() []string {
	return strings.Split(string(v), tupleSeparator)
}

// Field returns part i of a Tuple value, or "" if there is no such part.
func (v Value) Field(i int) string {
	parts := v.Fields()
	if i < 0 || i >= len(parts) {
		return ""
	}
	return parts[i]
}

// -----------------------------------------------------------------------------
// Assignment
// -----------------------------------------------------------------------------

// Assignment maps variables to values and remembers assignment order.
//
// Thread Safety: NOT safe for concurrent use.
type Assignment struct {
	order  []Variable
	values map[Variable]Value
}

// NewAssignment creates an empty assignment.
func NewAssignment() *Assignment {
	return &Assignment{values: make(map[Variable]Value)}
}

// Assign binds v to val. v must not already be bound.
func (a *Assignment) Assign(v Variable, val Value) error {
	if _, ok := a.values[v]; ok {
		return fmt.Errorf("variable %s already assigned", v)
	}
	a.order = append(a.order, v)
	a.values[v] = val
	return nil
}

// Unassign removes v. Unknown variables are ignored.
func (a *Assignment) Unassign(v Variable) {
	if _, ok := a.values[v]; !ok {
		return
	}
	delete(a.values, v)
	if i := slices.Index(a.order, v); i >= 0 {
		a.order = slices.Delete(a.order, i, i+1)
	}
}

// Get returns the value bound to v.
func (a *Assignment) Get(v Variable) (Value, bool) {
	val, ok := a.values[v]
	return val, ok
}

// Has reports whether v is bound.
func (a *Assignment) Has(v Variable) bool {
	_, ok := a.values[v]
	return ok
}

// Len returns the number of bound variables.
func (a *Assignment) Len() int {
	return len(a.order)
}

// Variables returns the bound variables in assignment order.
func (a *Assignment) Variables() []Variable {
	return slices.Clone(a.order)
}

// Map returns a copy of the bindings.
func (a *Assignment) Map() map[Variable]Value {
	out := make(map[Variable]Value, len(a.values))
	for k, v := range a.values {
		out[k] = v
	}
	return out
}

// Clone returns an independent copy.
func (a *Assignment) Clone() *Assignment {
	return &Assignment{order: slices.Clone(a.order), values: a.Map()}
}

// String renders the bindings in assignment order, e.g. "AI=Mon 9AM|Room 101, OS=...".
func (a *Assignment) String() string {
	parts := make([]string, 0, len(a.order))
	for _, v := range a.order {
		parts = append(parts, string(v)+"="+string(a.values[v]))
	}
	return strings.Join(parts, ", ")
}

// -----------------------------------------------------------------------------
// Constraints
// -----------------------------------------------------------------------------

// Verdict is the result of evaluating a constraint on a partial assignment.
type Verdict int

const (
	// Undetermined means at least one variable in scope is unassigned.
	Undetermined Verdict = iota

	// Satisfied means the predicate holds.
	Satisfied

	// Violated means the predicate fails.
	Violated
)

// String returns the verdict name.
func (v Verdict) String() string {
	switch v {
	case Undetermined:
		return "undetermined"
	case Satisfied:
		return "satisfied"
	case Violated:
		return "violated"
	default:
		return "unknown"
	}
}

// Predicate checks a constraint. It is only called when every variable of
// the constraint's scope is assigned.
type Predicate func(a *Assignment) bool

// Constraint is a named predicate over a fixed scope of variables.
type Constraint struct {
	Name  string
	Scope []Variable
	check Predicate
}

// NewConstraint creates a constraint over scope.
func NewConstraint(name string, check Predicate, scope ...Variable) Constraint {
	return Constraint{Name: name, Scope: scope, check: check}
}

// Evaluate returns Undetermined until every scope variable is assigned, then
// Satisfied or Violated.
func (c Constraint) Evaluate(a *Assignment) Verdict {
	for _, v := range c.Scope {
		if !a.Has(v) {
			return Undetermined
		}
	}
	if c.check(a) {
		return Satisfied
	}
	return Violated
}

// Involves reports whether v is in the constraint's scope.
func (c Constraint) Involves(v Variable) bool {
	return slices.Contains(c.Scope, v)
}

// Distinct requires x and y to take different values.
func Distinct(name string, x, y Variable) Constraint {
	return NewConstraint(name, func(a *Assignment) bool {
		vx, _ := a.Get(x)
		vy, _ := a.Get(y)
		return vx != vy
	}, x, y)
}

// DistinctField requires the Tuple values of x and y to differ in part field.
func DistinctField(name string, field int, x, y Variable) Constraint {
	return NewConstraint(name, func(a *Assignment) bool {
		vx, _ := a.Get(x)
		vy, _ := a.Get(y)
		return vx.Field(field) != vy.Field(field)
	}, x, y)
}

// -----------------------------------------------------------------------------
// CSP
// -----------------------------------------------------------------------------

// CSP is an immutable constraint satisfaction problem.
//
// Thread Safety: Safe for concurrent use (read-only after Build).
type CSP struct {
	variables   []Variable
	domains     map[Variable][]Value
	constraints []Constraint
	byVariable  map[Variable][]int
}

// Variables returns the variables in declaration order.
func (p *CSP) Variables() []Variable {
	return slices.Clone(p.variables)
}

// Domain returns v's values in declaration order.
func (p *CSP) Domain(v Variable) []Value {
	return slices.Clone(p.domains[v])
}

// Constraints returns all constraints in declaration order.
func (p *CSP) Constraints() []Constraint {
	return slices.Clone(p.constraints)
}

// ConstraintsOn returns the constraints whose scope contains v, in
// declaration order.
func (p *CSP) ConstraintsOn(v Variable) []Constraint {
	idx := p.byVariable[v]
	out := make([]Constraint, 0, len(idx))
	for _, i := range idx {
		out = append(out, p.constraints[i])
	}
	return out
}

// Check evaluates every determined constraint against a.
//
// Outputs:
//
//	*Constraint - The first violated constraint in declaration order, or nil.
func (p *CSP) Check(a *Assignment) *Constraint {
	for i := range p.constraints {
		if p.constraints[i].Evaluate(a) == Violated {
			c := p.constraints[i]
			return &c
		}
	}
	return nil
}

// CSPBuilder declares a CSP.
//
// Thread Safety: NOT safe for concurrent use.
type CSPBuilder struct {
	variables   []Variable
	domains     map[Variable][]Value
	constraints []Constraint
	names       map[string]struct{}
	built       bool
}

// NewCSPBuilder creates an empty builder.
func NewCSPBuilder() *CSPBuilder {
	return &CSPBuilder{
		domains: make(map[Variable][]Value),
		names:   make(map[string]struct{}),
	}
}

// AddVariable declares v with an ordered, non-empty domain of distinct values.
func (b *CSPBuilder) AddVariable(v Variable, domain ...Value) error {
	if b.built {
		return ErrBuilderSealed
	}
	if v == "" {
		return fmt.Errorf("%w: empty variable name", ErrMalformedProblem)
	}
	if _, ok := b.domains[v]; ok {
		return fmt.Errorf("%w: variable %s declared twice", ErrMalformedProblem, v)
	}
	if len(domain) == 0 {
		return fmt.Errorf("%w: variable %s has an empty domain", ErrMalformedProblem, v)
	}
	seen := make(map[Value]struct{}, len(domain))
	for _, val := range domain {
		if _, dup := seen[val]; dup {
			return fmt.Errorf("%w: variable %s lists value %q twice", ErrMalformedProblem, v, val)
		}
		seen[val] = struct{}{}
	}
	b.variables = append(b.variables, v)
	b.domains[v] = slices.Clone(domain)
	return nil
}

// AddConstraint declares c. Every variable of its scope must already be declared.
func (b *CSPBuilder) AddConstraint(c Constraint) error {
	if b.built {
		return ErrBuilderSealed
	}
	if c.Name == "" {
		return fmt.Errorf("%w: constraint without a name", ErrMalformedProblem)
	}
	if _, dup := b.names[c.Name]; dup {
		return fmt.Errorf("%w: constraint %s declared twice", ErrMalformedProblem, c.Name)
	}
	if c.check == nil {
		return fmt.Errorf("%w: constraint %s has no predicate", ErrMalformedProblem, c.Name)
	}
	if len(c.Scope) == 0 {
		return fmt.Errorf("%w: constraint %s has an empty scope", ErrMalformedProblem, c.Name)
	}
	for _, v := range c.Scope {
		if _, ok := b.domains[v]; !ok {
			return fmt.Errorf("%w: constraint %s references undeclared variable %s", ErrMalformedProblem, c.Name, v)
		}
	}
	c.Scope = slices.Clone(c.Scope)
	b.names[c.Name] = struct{}{}
	b.constraints = append(b.constraints, c)
	return nil
}

// Build returns the immutable CSP.
func (b *CSPBuilder) Build() (*CSP, error) {
	if b.built {
		return nil, ErrBuilderSealed
	}
	if len(b.variables) == 0 {
		return nil, fmt.Errorf("%w: CSP has no variables", ErrMalformedProblem)
	}

	p := &CSP{
		variables:   b.variables,
		domains:     b.domains,
		constraints: b.constraints,
		byVariable:  make(map[Variable][]int, len(b.variables)),
	}
	for i, c := range p.constraints {
		for _, v := range c.Scope {
			if idx := p.byVariable[v]; len(idx) > 0 && idx[len(idx)-1] == i {
				continue
			}
			p.byVariable[v] = append(p.byVariable[v], i)
		}
	}

	b.built = true
	return p, nil
}
