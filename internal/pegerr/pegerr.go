// Package pegerr defines the error taxonomy shared by the grammar, engine,
// action, meta, and bootstrap packages. Every error is a concrete type
// rather than a sentinel value, so callers branch with errors.As and still
// get the position and expectation detail; the types that wrap another
// error (CommittedFailure, ActionError, BootstrapDivergence,
// GrammarMalformed) expose it through Unwrap.
package pegerr

import "fmt"

// Expectation is a single clause description the engine was hoping to match
// at a given farthest position. It is a plain description, not a clause
// value, so that pegerr never has to import the clause package.
type Expectation struct {
	// Rule is the enclosing rule name the expectation was raised within, if
	// any.
	Rule string

	// Desc is a human-readable description of what was expected, e.g.
	// `"a"` or `[0-9]` or `end of input`.
	Desc string
}

// MatchFailed reports that a parse did not consume the entire input, or that
// some clause failed without a surrounding alternative to recover.
type MatchFailed struct {
	Pos       int
	Expected  []Expectation
	Committed bool
}

func (e *MatchFailed) Error() string {
	if e.Committed {
		return fmt.Sprintf("match failed (committed) at position %d: %s", e.Pos, e.expectedList())
	}
	return fmt.Sprintf("match failed at position %d: %s", e.Pos, e.expectedList())
}

func (e *MatchFailed) expectedList() string {
	if len(e.Expected) == 0 {
		return "no further input expected"
	}
	out := "expected "
	for i, exp := range e.Expected {
		if i > 0 {
			out += ", "
		}
		out += exp.Desc
	}
	return out
}

// CommittedFailure reports that an Entail clause's own child failed, or that
// an Entail succeeded but a later clause in its enclosing Sequence failed;
// either way the parse aborts without trying sibling Choice alternatives.
type CommittedFailure struct {
	*MatchFailed
}

func NewCommittedFailure(pos int, expected []Expectation) *CommittedFailure {
	return &CommittedFailure{MatchFailed: &MatchFailed{Pos: pos, Expected: expected, Committed: true}}
}

func (e *CommittedFailure) Error() string {
	return "committed failure: " + e.MatchFailed.Error()
}

func (e *CommittedFailure) Unwrap() error {
	return e.MatchFailed
}

// UnknownRule reports that a Reference clause could not be resolved against
// a Grammar's rule table.
type UnknownRule struct {
	Name string
}

func (e *UnknownRule) Error() string {
	return fmt.Sprintf("unknown rule %q", e.Name)
}

// CaptureArity reports that a non-variadic Capture produced a number of
// action results other than exactly one.
type CaptureArity struct {
	Name  string
	Count int
}

func (e *CaptureArity) Error() string {
	return fmt.Sprintf("capture %q: expected exactly one value, got %d", e.Name, e.Count)
}

// ActionError wraps a failure raised by a user-supplied transform action.
type ActionError struct {
	Rule string
	Wrap error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("action error in rule %q: %s", e.Rule, e.Wrap.Error())
}

func (e *ActionError) Unwrap() error {
	return e.Wrap
}

func WrapAction(rule string, err error) error {
	if err == nil {
		return nil
	}
	return &ActionError{Rule: rule, Wrap: err}
}

// BootstrapDivergence reports that fixed-point iteration of the bootstrap
// driver did not converge within its iteration budget.
type BootstrapDivergence struct {
	Iterations int
	Wrap       error
}

func (e *BootstrapDivergence) Error() string {
	if e.Wrap != nil {
		return fmt.Sprintf("bootstrap did not converge after %d iterations: %s", e.Iterations, e.Wrap.Error())
	}
	return fmt.Sprintf("bootstrap did not converge after %d iterations", e.Iterations)
}

func (e *BootstrapDivergence) Unwrap() error {
	return e.Wrap
}

// GrammarMalformed reports a problem detected at Grammar-build time:
// duplicate rule names or an unresolved reference.
type GrammarMalformed struct {
	Reason string
	Wrap   error
}

func (e *GrammarMalformed) Error() string {
	if e.Wrap != nil {
		return fmt.Sprintf("grammar malformed: %s: %s", e.Reason, e.Wrap.Error())
	}
	return fmt.Sprintf("grammar malformed: %s", e.Reason)
}

func (e *GrammarMalformed) Unwrap() error {
	return e.Wrap
}

func WrapGrammarMalformed(reason string, err error) error {
	return &GrammarMalformed{Reason: reason, Wrap: err}
}
