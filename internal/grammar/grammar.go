// Package grammar wires a collection of named Clause bodies (internal/clause)
// into a coherent, frozen namespace: it validates that every Reference
// resolves, rejects duplicate rule names, and computes the nullability and
// left-recursion ("seeds") properties the engine needs, once, at build time
// rather than on every parse.
package grammar

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/growseed/internal/clause"
	"github.com/dekarrin/growseed/internal/pegerr"
	"github.com/dekarrin/growseed/internal/util"
)

// unparseLineWidth is the column a rule's unparsed body is folded at once it
// grows past one screen-width line. A rule body reads like prose rather than
// a dense table cell, so it gets the wider of the two wrap widths this
// module uses for rosed.Edit(...).Wrap output.
const unparseLineWidth = 76

// DefaultEntry is the conventional name of a Grammar's top-level rule.
const DefaultEntry = "top"

// Grammar is an immutable mapping from rule name to body Clause, plus the
// derived nullability and left-recursion tables the engine consults. A new
// Grammar is produced by each bootstrap iteration (internal/bootstrap);
// Grammars are never mutated after Build.
type Grammar struct {
	rules    map[string]clause.Clause
	order    []string
	entry    string
	nullable util.StringSet
	leftRec  util.StringSet
}

// Resolve returns the Clause bound to name, or UnknownRule.
func (g Grammar) Resolve(name string) (clause.Clause, error) {
	c, ok := g.rules[name]
	if !ok {
		return clause.Clause{}, &pegerr.UnknownRule{Name: name}
	}
	return c, nil
}

// MustResolve is Resolve but panics on failure; useful when the caller has
// already validated the reference exists (e.g. the entry rule after Build).
func (g Grammar) MustResolve(name string) clause.Clause {
	c, err := g.Resolve(name)
	if err != nil {
		panic(err)
	}
	return c
}

// Entry returns the designated top-level Clause.
func (g Grammar) Entry() clause.Clause {
	return g.MustResolve(g.entry)
}

// EntryName returns the designated top-level rule's name.
func (g Grammar) EntryName() string { return g.entry }

// RuleNames returns all rule names in declaration order.
func (g Grammar) RuleNames() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Nullable reports whether c may match the empty input, resolving any
// Reference against this Grammar's precomputed nullability table (a least
// fixed point over the whole rule set, computed once in Build).
func (g Grammar) Nullable(c clause.Clause) bool {
	return isNullable(c, g.nullable)
}

// NullableRule reports whether the named rule is nullable.
func (g Grammar) NullableRule(name string) bool {
	return g.nullable.Has(name)
}

// Seeds reports whether the named rule is left-recursive: reachable from
// itself via a chain of leftmost, possibly-nullable positions. The parsing
// engine uses this to decide whether a Reference to this rule needs the
// grow-the-seed protocol or can use a plain single-pass memo.
func (g Grammar) Seeds(name string) bool {
	return g.leftRec.Has(name)
}

// EqualTo is structural Grammar equality: same entry name, same rule names,
// and Clause.Equal bodies for each. Used to detect the bootstrap fixed
// point (internal/bootstrap): Sₙ.EqualTo(Sₙ₊₁).
func (g Grammar) EqualTo(o Grammar) bool {
	if g.entry != o.entry {
		return false
	}
	if len(g.rules) != len(o.rules) {
		return false
	}
	for name, body := range g.rules {
		obody, ok := o.rules[name]
		if !ok {
			return false
		}
		if !body.Equal(obody) {
			return false
		}
	}
	return true
}

// Unparse renders the Grammar back to canonical-dialect text, one rule per
// line in declaration order, so that parsing the output again reproduces an
// equal Grammar. A rule body longer than unparseLineWidth is folded onto
// continuation lines indented under its header, using rosed.Edit(...).Wrap
// rather than letting a single dense line run off the page.
func (g Grammar) Unparse() string {
	var sb strings.Builder
	for _, name := range g.order {
		header := name + " <- "
		body := g.rules[name].String()
		if len(header)+len(body) <= unparseLineWidth {
			sb.WriteString(header)
			sb.WriteString(body)
			sb.WriteString("\n")
			continue
		}
		wrapped := rosed.Edit(body).Wrap(unparseLineWidth - len(header)).String()
		lines := strings.Split(wrapped, "\n")
		sb.WriteString(header)
		sb.WriteString(lines[0])
		sb.WriteString("\n")
		indent := strings.Repeat(" ", len(header))
		for _, l := range lines[1:] {
			sb.WriteString(indent)
			sb.WriteString(l)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Builder accumulates rules before freezing them into a Grammar. Grammars
// cannot be mutated after Build; there is deliberately no AddRule on
// Grammar itself.
type Builder struct {
	rules map[string]clause.Clause
	order []string
	entry string
	err   error
}

// NewBuilder returns an empty Builder with DefaultEntry as its tentative
// entry rule name.
func NewBuilder() *Builder {
	return &Builder{
		rules: make(map[string]clause.Clause),
		entry: DefaultEntry,
	}
}

// AddRule registers a named rule body. A duplicate name is recorded as a
// build-time error and surfaced from Build.
func (b *Builder) AddRule(name string, body clause.Clause) *Builder {
	if _, exists := b.rules[name]; exists {
		if b.err == nil {
			b.err = pegerr.WrapGrammarMalformed("duplicate rule", &duplicateRuleError{Name: name})
		}
		return b
	}
	b.rules[name] = body
	b.order = append(b.order, name)
	return b
}

// SetEntry overrides the designated entry rule name (default DefaultEntry).
func (b *Builder) SetEntry(name string) *Builder {
	b.entry = name
	return b
}

type duplicateRuleError struct{ Name string }

func (e *duplicateRuleError) Error() string { return fmt.Sprintf("rule %q already defined", e.Name) }

// Build validates completeness (every Reference resolves, the entry rule
// exists) and, if valid, computes the derived nullability and left-recursion
// tables and returns a frozen Grammar.
func (b *Builder) Build() (Grammar, error) {
	if b.err != nil {
		return Grammar{}, b.err
	}

	if _, ok := b.rules[b.entry]; !ok {
		return Grammar{}, pegerr.WrapGrammarMalformed("missing entry rule", &pegerr.UnknownRule{Name: b.entry})
	}

	unresolved := util.NewStringSet()
	for _, name := range b.order {
		for _, ref := range collectReferences(b.rules[name]) {
			if _, ok := b.rules[ref]; !ok {
				unresolved.Add(ref)
			}
		}
	}
	if unresolved.Len() > 0 {
		missing := unresolved.Sorted()
		return Grammar{}, pegerr.WrapGrammarMalformed("unresolved reference(s) "+util.MakeTextList(quoteAll(missing)), &pegerr.UnknownRule{Name: missing[0]})
	}

	g := Grammar{
		rules: b.rules,
		order: append([]string(nil), b.order...),
		entry: b.entry,
	}
	g.nullable = computeNullable(g.rules)
	g.leftRec = computeLeftRecursive(g.rules)
	return g, nil
}

func quoteAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = "\"" + s + "\""
	}
	return out
}

func collectReferences(c clause.Clause) []string {
	var out []string
	var walk func(clause.Clause)
	walk = func(c clause.Clause) {
		switch c.Tag() {
		case clause.TagRef:
			out = append(out, c.Name())
		case clause.TagSeq, clause.TagChoice:
			for _, k := range c.Children() {
				walk(k)
			}
		case clause.TagRepeat, clause.TagNot, clause.TagAnd, clause.TagEntail,
			clause.TagCapture, clause.TagTransform, clause.TagRule:
			walk(c.Child())
		}
	}
	walk(c)
	return out
}
