package grammar

import (
	"github.com/dekarrin/growseed/internal/clause"
	"github.com/dekarrin/growseed/internal/util"
)

// computeNullable computes the least fixed point of rule-name nullability:
// Empty, Not, And are nullable; Value/Any/Range are not (with the
// degenerate exception of an empty Value literal, which is); Sequence is
// nullable iff all children are; Choice iff any child is; Repeat iff its
// child is; Reference resolves through the table being built.
func computeNullable(rules map[string]clause.Clause) util.StringSet {
	nb := util.StringSet{}
	for changed := true; changed; {
		changed = false
		for name, body := range rules {
			if nb.Has(name) {
				continue
			}
			if isNullable(body, nb) {
				nb.Add(name)
				changed = true
			}
		}
	}
	return nb
}

func isNullable(c clause.Clause, nb util.StringSet) bool {
	switch c.Tag() {
	case clause.TagEmpty, clause.TagNot, clause.TagAnd:
		return true
	case clause.TagAny:
		return false
	case clause.TagValue:
		return len(c.Literal()) == 0
	case clause.TagRange:
		return false
	case clause.TagRef:
		return nb.Has(c.Name())
	case clause.TagSeq:
		for _, k := range c.Children() {
			if !isNullable(k, nb) {
				return false
			}
		}
		return true
	case clause.TagChoice:
		for _, k := range c.Children() {
			if isNullable(k, nb) {
				return true
			}
		}
		return false
	case clause.TagRepeat:
		return isNullable(c.Child(), nb)
	case clause.TagEntail, clause.TagCapture, clause.TagTransform, clause.TagRule:
		return isNullable(c.Child(), nb)
	default:
		return false
	}
}

// computeLeftRecursive computes, for every rule name, whether it is
// reachable from itself via a chain of leftmost, possibly-nullable
// positions. The engine (internal/engine) consults this to decide whether a
// Reference to a given rule needs the grow-the-seed protocol.
func computeLeftRecursive(rules map[string]clause.Clause) util.StringSet {
	nb := computeNullable(rules)
	lr := util.StringSet{}
	for name := range rules {
		if reachesSelfLeftmost(name, rules, nb) {
			lr.Add(name)
		}
	}
	return lr
}

func reachesSelfLeftmost(startName string, rules map[string]clause.Clause, nb util.StringSet) bool {
	visited := util.NewStringSet()
	var walk func(name string) bool
	walk = func(name string) bool {
		if visited.Has(name) {
			return false
		}
		visited.Add(name)
		body, ok := rules[name]
		if !ok {
			return false
		}
		for _, ref := range leftmostReferences(body, nb) {
			if ref == startName {
				return true
			}
			if walk(ref) {
				return true
			}
		}
		return false
	}
	return walk(startName)
}

// leftmostReferences returns the rule names directly reachable from c in
// leftmost position: for a Sequence, the first child, plus any subsequent
// child as long as every child before it is nullable (so it too can start at
// the sequence's starting position); for a Choice, every child (each
// alternative starts at the same position); for Repeat/Not/And/Entail/
// Capture/Transform/Rule, the single child; Reference itself is the leaf
// whose name reachesSelfLeftmost then follows.
func leftmostReferences(c clause.Clause, nb util.StringSet) []string {
	var out []string
	switch c.Tag() {
	case clause.TagRef:
		out = append(out, c.Name())
	case clause.TagSeq:
		for _, k := range c.Children() {
			out = append(out, leftmostReferences(k, nb)...)
			if !isNullable(k, nb) {
				break
			}
		}
	case clause.TagChoice:
		for _, k := range c.Children() {
			out = append(out, leftmostReferences(k, nb)...)
		}
	case clause.TagRepeat, clause.TagNot, clause.TagAnd, clause.TagEntail,
		clause.TagCapture, clause.TagTransform, clause.TagRule:
		out = append(out, leftmostReferences(c.Child(), nb)...)
	}
	return out
}
