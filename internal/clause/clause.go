// Package clause implements the tagged-variant intermediate representation
// of PEG grammars: a closed set of
// operators (Empty, Any, Value, Range, Reference, Sequence, Choice, Repeat,
// Not, And, Entail, Capture, Transform, Rule), each immutable once
// constructed, each with a stable ordering of children.
//
// Cycles in a real grammar are expressed only through Reference nodes,
// resolved by name against a Grammar; the Clause tree itself is always
// acyclic, which is what lets Equal and the canonical renderer in this
// package walk it with plain recursion.
package clause

import "sync/atomic"

// Tag identifies which of the closed set of PEG operators a Clause is. The
// set is closed: adding a variant means updating the engine's dispatch, so
// Tag is a small enum rather than an open interface hierarchy.
type Tag uint8

const (
	TagEmpty Tag = iota
	TagAny
	TagValue
	TagRange
	TagRef
	TagSeq
	TagChoice
	TagRepeat
	TagNot
	TagAnd
	TagEntail
	TagCapture
	TagTransform
	TagRule
)

func (t Tag) String() string {
	switch t {
	case TagEmpty:
		return "Empty"
	case TagAny:
		return "Any"
	case TagValue:
		return "Value"
	case TagRange:
		return "Range"
	case TagRef:
		return "Reference"
	case TagSeq:
		return "Sequence"
	case TagChoice:
		return "Choice"
	case TagRepeat:
		return "Repeat"
	case TagNot:
		return "Not"
	case TagAnd:
		return "And"
	case TagEntail:
		return "Entail"
	case TagCapture:
		return "Capture"
	case TagTransform:
		return "Transform"
	case TagRule:
		return "Rule"
	default:
		return "?"
	}
}

// Action is the opaque token attached to a Transform clause. The core never
// interprets Body; it is handed verbatim to whatever action host the caller
// plugs in (see internal/action).
type Action struct {
	Body string
}

var nextID uint64

// Clause is a single immutable PEG operator node. Its zero value is not a
// valid Clause; always construct one of the variant constructors below.
//
// Clause is deliberately a value type (not an interface with N
// implementations) so that the engine's dispatch in internal/engine can
// switch on Tag directly rather than doing a type switch per call, and so
// that Equal and the canonical renderer are simple recursive walks with no
// boxing.
type Clause struct {
	id  uint64
	tag Tag

	n int // Any

	lit []rune // Value

	lo, hi rune // Range

	name string // Reference

	kids []Clause // Sequence, Choice

	child *Clause // Repeat, Not, And, Entail, Capture, Transform, Rule

	capName  string // Capture
	variadic bool   // Capture

	action Action // Transform

	ruleName string // Rule
}

// ID is a stable identity for this exact constructed node, unique for the
// lifetime of the process. It is assigned once at construction and carried
// along in the (small, copied by value) Clause struct. Equal ignores it, and
// the parsing engine's memoization table is keyed by (rule name, position),
// not by ID.
func (c Clause) ID() uint64 { return c.id }

// Tag reports which PEG operator this Clause is.
func (c Clause) Tag() Tag { return c.tag }

func newID() uint64 {
	return atomic.AddUint64(&nextID, 1)
}

// Empty is the zero-width success clause.
func Empty() Clause {
	return Clause{id: newID(), tag: TagEmpty}
}

// Any consumes exactly n input items, regardless of value. n must be
// positive.
func Any(n int) Clause {
	if n <= 0 {
		panic("clause.Any: n must be positive")
	}
	return Clause{id: newID(), tag: TagAny, n: n}
}

// Value matches iff the input at the current position matches s exactly,
// consuming len(s) items.
func Value(s []rune) Clause {
	lit := make([]rune, len(s))
	copy(lit, s)
	return Clause{id: newID(), tag: TagValue, lit: lit}
}

// ValueString is a convenience wrapper over Value for Go string literals.
func ValueString(s string) Clause {
	return Value([]rune(s))
}

// Range matches a single input item x with a <= x <= b.
func Range(a, b rune) Clause {
	if a > b {
		panic("clause.Range: a must be <= b")
	}
	return Clause{id: newID(), tag: TagRange, lo: a, hi: b}
}

// Reference is an indirect lookup of a named rule in the Grammar the Clause
// is ultimately matched against. It is not a direct edge to another Clause;
// resolving it is the Grammar's job, which is also how cycles (recursion,
// including left recursion) are represented without a cyclic Clause graph.
func Reference(name string) Clause {
	return Clause{id: newID(), tag: TagRef, name: name}
}

// Sequence matches all children in order, succeeding only if every child
// matches starting where the previous one left off. Requires at least one
// child.
func Sequence(children ...Clause) Clause {
	if len(children) == 0 {
		panic("clause.Sequence: requires at least one child")
	}
	kids := make([]Clause, len(children))
	copy(kids, children)
	return Clause{id: newID(), tag: TagSeq, kids: kids}
}

// Choice tries each child in order, committing to the first that succeeds.
// Requires at least one child.
func Choice(children ...Clause) Clause {
	if len(children) == 0 {
		panic("clause.Choice: requires at least one child")
	}
	kids := make([]Clause, len(children))
	copy(kids, children)
	return Clause{id: newID(), tag: TagChoice, kids: kids}
}

// Repeat is greedy one-or-more repetition of its child.
func Repeat(child Clause) Clause {
	c := child
	return Clause{id: newID(), tag: TagRepeat, child: &c}
}

// Not is a zero-width predicate: succeeds iff child fails.
func Not(child Clause) Clause {
	c := child
	return Clause{id: newID(), tag: TagNot, child: &c}
}

// And is a zero-width predicate: succeeds iff child succeeds.
func And(child Clause) Clause {
	c := child
	return Clause{id: newID(), tag: TagAnd, child: &c}
}

// Entail ("cut") behaves like child but commits the surrounding Sequence: a
// later sibling's failure propagates as a committed failure that cannot be
// erased by a surrounding Choice.
func Entail(child Clause) Clause {
	c := child
	return Clause{id: newID(), tag: TagEntail, child: &c}
}

// Capture binds child's result to name in the enclosing action scope. If
// variadic is false, the child must produce exactly one action value;
// if true, zero or more values are collected in order.
func Capture(child Clause, name string, variadic bool) Clause {
	c := child
	return Clause{id: newID(), tag: TagCapture, child: &c, capName: name, variadic: variadic}
}

// Transform attaches an opaque action to child. The action is evaluated only
// if the enclosing parse succeeds, bottom-up, once the whole parse finishes.
func Transform(child Clause, action Action) Clause {
	c := child
	return Clause{id: newID(), tag: TagTransform, child: &c, action: action}
}

// Rule names a top-level entry: the unit Grammar construction wires into its
// namespace.
func Rule(name string, body Clause) Clause {
	c := body
	return Clause{id: newID(), tag: TagRule, child: &c, ruleName: name}
}

// Desugaring helpers. The surface syntaxes' `e*`, `e?`, and `[e]` are all
// expressed in terms of the closed clause set at construction time rather
// than being first-class variants.

// ZeroOrMore desugars `e*` to Choice(Repeat(e), Empty).
func ZeroOrMore(child Clause) Clause {
	return Choice(Repeat(child), Empty())
}

// Optional desugars `e?` / `[e]` to Choice(e, Empty).
func Optional(child Clause) Clause {
	return Choice(child, Empty())
}

// --- accessors ---

// N returns the Any clause's item count.
func (c Clause) N() int { return c.n }

// Literal returns the Value clause's matched sequence.
func (c Clause) Literal() []rune { return c.lit }

// Bounds returns the Range clause's inclusive bounds.
func (c Clause) Bounds() (lo, hi rune) { return c.lo, c.hi }

// Name returns the Reference clause's target rule name.
func (c Clause) Name() string { return c.name }

// Children returns the ordered children of a Sequence or Choice clause.
func (c Clause) Children() []Clause { return c.kids }

// Child returns the single child of Repeat, Not, And, Entail, Capture,
// Transform, or Rule. Panics if c has no single child (Empty, Any, Value,
// Range, Reference, Sequence, Choice).
func (c Clause) Child() Clause {
	if c.child == nil {
		panic("clause.Child: " + c.tag.String() + " has no single child")
	}
	return *c.child
}

// CaptureName returns the bound name of a Capture clause.
func (c Clause) CaptureName() string { return c.capName }

// Variadic returns whether a Capture clause is variadic.
func (c Clause) Variadic() bool { return c.variadic }

// ActionToken returns the opaque action of a Transform clause.
func (c Clause) ActionToken() Action { return c.action }

// RuleName returns the name of a Rule clause.
func (c Clause) RuleName() string { return c.ruleName }
