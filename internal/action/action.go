// Package action implements the binding contract between the parsing engine
// (internal/match) and a caller-supplied action host: it turns a Match tree
// into a user value by evaluating Transform actions bottom-up, resolving
// named Capture bindings into an ordered Scope along the way. The engine
// never interprets an action's body text; that is the Eval function's job.
package action

import (
	"github.com/dekarrin/growseed/internal/clause"
	"github.com/dekarrin/growseed/internal/match"
	"github.com/dekarrin/growseed/internal/pegerr"
)

// Scope is the set of named capture bindings visible to a single Transform's
// action: one entry per Capture directly inside the Transform's subtree,
// outside any nested Transform, plus the reserved name "*" bound to the
// Transform's own raw input text.
type Scope map[string]interface{}

type discardType struct{}

// Discard is the sentinel value an Eval function returns to mean its
// Transform contributes nothing to the parent scope; whitespace and
// comment rules return it.
var Discard interface{} = discardType{}

// Eval computes the value of a Transform's action body given the bindings
// visible to it. Returning Discard drops the value from the parent scope
// entirely.
type Eval func(body string, scope Scope) (interface{}, error)

// Host walks Match trees against a fixed input, using eval to resolve
// Transform actions.
type Host struct {
	input []rune
	eval  Eval
}

// NewHost returns a Host bound to input and the given action evaluator.
func NewHost(input []rune, eval Eval) *Host {
	return &Host{input: input, eval: eval}
}

// Evaluate computes the user value of m, evaluating every Transform found
// within it bottom-up. It returns nil if m's subtree carries no Transform
// and therefore no computed value beyond its own raw text.
func (h *Host) Evaluate(m match.Match) (interface{}, error) {
	vals, err := h.valuesOf(m)
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, nil
	}
	return vals[0], nil
}

// valuesOf returns the ordered list of action values m's subtree produces:
// zero if its nearest Transform returned Discard (or the subtree carries no
// Transform at all), one in the ordinary case, and more than one only when
// m is a Repeat or Sequence whose several Transform'd parts were never
// aggregated by an enclosing Transform (the shape that a non-variadic
// Capture around it would reject with CaptureArity).
//
// Pure input (a subtree with no Transform anywhere) contributes no values
// here; buildScope falls back to the raw input slice for a capture over
// such a subtree.
func (h *Host) valuesOf(m match.Match) ([]interface{}, error) {
	if m.Action != nil {
		scope, err := h.buildScope(m)
		if err != nil {
			return nil, err
		}
		val, err := h.eval(m.Action.Body, scope)
		if err != nil {
			return nil, pegerr.WrapAction(describe(m.Clause), err)
		}
		if val == Discard {
			return nil, nil
		}
		return []interface{}{val}, nil
	}

	switch m.Clause.Tag() {
	case clause.TagRepeat, clause.TagSeq:
		var out []interface{}
		for _, child := range m.Children {
			vs, err := h.valuesOf(child)
			if err != nil {
				return nil, err
			}
			out = append(out, vs...)
		}
		return out, nil

	case clause.TagChoice, clause.TagCapture, clause.TagRule, clause.TagEntail, clause.TagAnd:
		if len(m.Children) == 0 {
			return nil, nil
		}
		return h.valuesOf(m.Children[0])

	default:
		// Not, Empty, and plain consuming leaves (Value, Any, Range): no
		// Transform means no value of their own.
		return nil, nil
	}
}

// hasAction reports whether any Transform was applied within m's subtree.
func hasAction(m match.Match) bool {
	if m.Action != nil {
		return true
	}
	for _, child := range m.Children {
		if hasAction(child) {
			return true
		}
	}
	return false
}

// buildScope resolves every capture directly bound within m (one of a
// Transform's own Captures) into a named Scope entry, enforcing the
// CaptureArity rule along the way: a non-variadic Capture must resolve to
// exactly one value.
func (h *Host) buildScope(m match.Match) (Scope, error) {
	scope := make(Scope, len(m.Captures)+1)
	scope["*"] = string(h.input[m.Start:m.End])

	for _, cap := range m.Captures {
		vals, err := h.valuesOf(cap.Match)
		if err != nil {
			return nil, err
		}
		if cap.Variadic {
			scope[cap.Name] = vals
			continue
		}
		if len(vals) == 0 && !hasAction(cap.Match) {
			// Capture over pure input matching: the value is the slice the
			// capture spans.
			scope[cap.Name] = string(h.input[cap.Match.Start:cap.Match.End])
			continue
		}
		if len(vals) != 1 {
			return nil, &pegerr.CaptureArity{Name: cap.Name, Count: len(vals)}
		}
		scope[cap.Name] = vals[0]
	}
	return scope, nil
}

func describe(c clause.Clause) string {
	return c.Tag().String()
}
