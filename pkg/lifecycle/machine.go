// Package lifecycle holds the status transition tables used by list resources.
package lifecycle

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidTransition is returned when a status change is not in the table.
var ErrInvalidTransition = errors.New("invalid status transition")

// TransitionError describes a rejected status change.
type TransitionError struct {
	Machine string
	From    string
	To      string
}

func (e *TransitionError) Error() string {
	if e.From == "" {
		return fmt.Sprintf("%s: unknown status %q", e.Machine, e.To)
	}
	return fmt.Sprintf("%s: cannot move from %q to %q", e.Machine, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// Machine is an immutable transition table over a closed set of statuses.
type Machine struct {
	name        string
	initial     string
	transitions map[string]map[string]struct{}
	terminal    map[string]struct{}
}

// Transitions lists, for each status, the statuses it may move to.
type Transitions map[string][]string

// New builds a machine. Every status named as a target is registered even if
// it has no outgoing edges.
func New(name, initial string, edges Transitions, terminal ...string) *Machine {
	m := &Machine{
		name:        name,
		initial:     initial,
		transitions: make(map[string]map[string]struct{}),
		terminal:    make(map[string]struct{}, len(terminal)),
	}

	m.register(initial)
	for from, targets := range edges {
		m.register(from)
		for _, to := range targets {
			m.register(to)
			m.transitions[from][to] = struct{}{}
		}
	}
	for _, s := range terminal {
		m.register(s)
		m.terminal[s] = struct{}{}
	}

	return m
}

func (m *Machine) register(status string) {
	if _, ok := m.transitions[status]; !ok {
		m.transitions[status] = make(map[string]struct{})
	}
}

func (m *Machine) Name() string    { return m.name }
func (m *Machine) Initial() string { return m.initial }

// Known reports whether status belongs to the machine.
func (m *Machine) Known(status string) bool {
	_, ok := m.transitions[status]
	return ok
}

// Can reports whether from may move to to. Staying put is always allowed.
func (m *Machine) Can(from, to string) bool {
	if !m.Known(from) || !m.Known(to) {
		return false
	}
	if from == to {
		return true
	}
	_, ok := m.transitions[from][to]
	return ok
}

// Validate returns a *TransitionError when the move is not allowed.
func (m *Machine) Validate(from, to string) error {
	if !m.Known(to) {
		return &TransitionError{Machine: m.name, To: to}
	}
	if !m.Can(from, to) {
		return &TransitionError{Machine: m.name, From: from, To: to}
	}
	return nil
}

func (m *Machine) IsTerminal(status string) bool {
	_, ok := m.terminal[status]
	return ok
}

// States returns every registered status in sorted order.
func (m *Machine) States() []string {
	states := make([]string, 0, len(m.transitions))
	for s := range m.transitions {
		states = append(states, s)
	}
	sort.Strings(states)
	return states
}

// Next returns the statuses reachable from status in one step, sorted.
func (m *Machine) Next(status string) []string {
	next := make([]string, 0, len(m.transitions[status]))
	for s := range m.transitions[status] {
		next = append(next, s)
	}
	sort.Strings(next)
	return next
}
