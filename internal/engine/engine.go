// Package engine implements the position-indexed, memoized PEG matcher. It
// walks a grammar.Grammar's Clause IR against an input sequence, producing a
// match.Match or a match.Failure, handling ordered choice, zero-width
// predicates, cut (Entail) commitment, and left recursion via the
// grow-the-seed protocol: a rule invocation in progress at a given position
// yields a seed result to any recursive re-entry at that same position, and
// the seed is grown by re-evaluating the rule body until the end position
// stops advancing.
package engine

import (
	"fmt"

	"github.com/dekarrin/growseed/internal/clause"
	"github.com/dekarrin/growseed/internal/grammar"
	"github.com/dekarrin/growseed/internal/match"
	"github.com/dekarrin/growseed/internal/pegerr"
)

// Engine binds a single Grammar for repeated parsing. It holds no
// per-parse state; each Parse call builds its own scratch memo table and
// discards it on return.
type Engine struct {
	g grammar.Grammar
}

// New returns an Engine bound to g.
func New(g grammar.Grammar) *Engine {
	return &Engine{g: g}
}

// Parse runs the engine's Grammar against input from position 0 and
// requires the entire input be consumed. On success it returns the Match
// for the entry rule; on failure it returns a *pegerr.MatchFailed (or, if
// the entry rule's failure was committed by an Entail, a
// *pegerr.CommittedFailure) carrying the farthest position reached and what
// was expected there.
func (e *Engine) Parse(input []rune) (match.Match, error) {
	st := newState(e.g, input)

	// Enter through the rule table rather than the entry clause directly, so
	// an entry rule that is itself left-recursive gets the grow-the-seed
	// protocol like any other rule would.
	m, ok, committed := st.matchRule(e.g.EntryName(), 0)
	if ok && m.End != len(input) {
		st.recordFailure(m.End, []match.Expectation{{Desc: "end of input"}}, false)
		ok = false
	}
	if !ok {
		return match.Match{}, st.failureError(committed)
	}
	return m, nil
}

const (
	statusInProgress = iota
	statusDone
)

type cacheKey struct {
	name string
	pos  int
}

type cacheEntry struct {
	status    int
	ok        bool
	committed bool
	m         match.Match
}

type state struct {
	g        grammar.Grammar
	input    []rune
	cache    map[cacheKey]*cacheEntry
	farthest match.Failure
	curRule  string
}

func newState(g grammar.Grammar, input []rune) *state {
	return &state{
		g:     g,
		input: input,
		cache: make(map[cacheKey]*cacheEntry),
	}
}

func (st *state) recordFailure(pos int, expected []match.Expectation, committed bool) {
	st.farthest = st.farthest.Merge(match.Failure{Pos: pos, Expected: expected, Committed: committed})
}

func (st *state) failureError(committed bool) error {
	expected := make([]pegerr.Expectation, len(st.farthest.Expected))
	for i, e := range st.farthest.Expected {
		expected[i] = pegerr.Expectation{Rule: e.Rule, Desc: e.Desc}
	}
	if st.farthest.Committed || committed {
		return pegerr.NewCommittedFailure(st.farthest.Pos, expected)
	}
	return &pegerr.MatchFailed{Pos: st.farthest.Pos, Expected: expected}
}

func (st *state) expect(c clause.Clause, pos int) {
	st.recordFailure(pos, []match.Expectation{{Rule: st.curRule, Desc: c.String()}}, false)
}

// matchClause dispatches on c's tag and returns the resulting Match, whether
// it succeeded, and, when it did not, whether the failure was committed by
// an Entail.
func (st *state) matchClause(c clause.Clause, pos int) (match.Match, bool, bool) {
	switch c.Tag() {
	case clause.TagEmpty:
		return match.Match{Clause: c, Start: pos, End: pos}, true, false

	case clause.TagAny:
		n := c.N()
		if pos+n <= len(st.input) {
			return match.Match{Clause: c, Start: pos, End: pos + n}, true, false
		}
		st.expect(c, pos)
		return match.Match{}, false, false

	case clause.TagValue:
		lit := c.Literal()
		end := pos + len(lit)
		if end <= len(st.input) && runesEqual(st.input[pos:end], lit) {
			return match.Match{Clause: c, Start: pos, End: end}, true, false
		}
		st.expect(c, pos)
		return match.Match{}, false, false

	case clause.TagRange:
		if pos < len(st.input) {
			lo, hi := c.Bounds()
			if r := st.input[pos]; r >= lo && r <= hi {
				return match.Match{Clause: c, Start: pos, End: pos + 1}, true, false
			}
		}
		st.expect(c, pos)
		return match.Match{}, false, false

	case clause.TagRef:
		return st.matchRule(c.Name(), pos)

	case clause.TagSeq:
		return st.matchSeq(c, pos)

	case clause.TagChoice:
		return st.matchChoice(c, pos)

	case clause.TagRepeat:
		return st.matchRepeat(c, pos)

	case clause.TagNot:
		_, ok, _ := st.matchClause(c.Child(), pos)
		if ok {
			st.expect(c, pos)
			return match.Match{}, false, false
		}
		return match.Match{Clause: c, Start: pos, End: pos}, true, false

	case clause.TagAnd:
		m, ok, committed := st.matchClause(c.Child(), pos)
		if !ok {
			return match.Match{}, false, committed
		}
		return match.Match{Clause: c, Start: pos, End: pos, Captures: collectDirectCaptures(c.Child(), m)}, true, false

	case clause.TagEntail:
		m, ok, _ := st.matchClause(c.Child(), pos)
		if !ok {
			return match.Match{}, false, true
		}
		return match.Match{Clause: c, Start: m.Start, End: m.End, Children: []match.Match{m}, Captures: collectDirectCaptures(c.Child(), m)}, true, false

	case clause.TagCapture:
		m, ok, committed := st.matchClause(c.Child(), pos)
		if !ok {
			return match.Match{}, false, committed
		}
		return match.Match{Clause: c, Start: m.Start, End: m.End, Children: []match.Match{m}}, true, false

	case clause.TagTransform:
		m, ok, committed := st.matchClause(c.Child(), pos)
		if !ok {
			return match.Match{}, false, committed
		}
		action := c.ActionToken()
		return match.Match{
			Clause:   c,
			Start:    m.Start,
			End:      m.End,
			Children: []match.Match{m},
			Captures: collectDirectCaptures(c.Child(), m),
			Action:   &action,
		}, true, false

	case clause.TagRule:
		m, ok, committed := st.matchClause(c.Child(), pos)
		if !ok {
			return match.Match{}, false, committed
		}
		return match.Match{
			Clause:   c,
			Start:    m.Start,
			End:      m.End,
			Children: []match.Match{m},
			Captures: collectDirectCaptures(c.Child(), m),
		}, true, false

	default:
		panic(fmt.Sprintf("engine: unhandled clause tag %s", c.Tag()))
	}
}

func (st *state) matchSeq(c clause.Clause, pos int) (match.Match, bool, bool) {
	cur := pos
	seqCommitted := false
	var children []match.Match
	var captures []match.Capture

	for _, k := range c.Children() {
		m, ok, committed := st.matchClause(k, cur)
		if !ok {
			return match.Match{}, false, seqCommitted || committed
		}
		children = append(children, m)
		captures = append(captures, collectDirectCaptures(k, m)...)
		cur = m.End
		if k.Tag() == clause.TagEntail {
			seqCommitted = true
		}
	}

	return match.Match{Clause: c, Start: pos, End: cur, Children: children, Captures: captures}, true, false
}

func (st *state) matchChoice(c clause.Clause, pos int) (match.Match, bool, bool) {
	for _, k := range c.Children() {
		m, ok, committed := st.matchClause(k, pos)
		if ok {
			return match.Match{
				Clause:   c,
				Start:    m.Start,
				End:      m.End,
				Children: []match.Match{m},
				Captures: collectDirectCaptures(k, m),
			}, true, false
		}
		if committed {
			return match.Match{}, false, true
		}
	}
	return match.Match{}, false, false
}

func (st *state) matchRepeat(c clause.Clause, pos int) (match.Match, bool, bool) {
	cur := pos
	var children []match.Match
	var captures []match.Capture

	for {
		m, ok, committed := st.matchClause(c.Child(), cur)
		if !ok {
			if committed {
				return match.Match{}, false, true
			}
			break
		}
		children = append(children, m)
		captures = append(captures, collectDirectCaptures(c.Child(), m)...)
		advanced := m.End > cur
		cur = m.End
		if !advanced {
			break
		}
	}

	if len(children) == 0 {
		return match.Match{}, false, false
	}

	return match.Match{Clause: c, Start: pos, End: cur, Children: children, Captures: captures}, true, false
}

// matchRule resolves a Reference by rule name, memoizing per (name,
// position). Left-recursive rules (per Grammar.Seeds) use the grow-the-seed
// protocol; all others are evaluated once and cached directly.
func (st *state) matchRule(name string, pos int) (match.Match, bool, bool) {
	key := cacheKey{name: name, pos: pos}

	if e, ok := st.cache[key]; ok {
		return e.m, e.ok, e.committed
	}

	body, err := st.g.Resolve(name)
	if err != nil {
		st.recordFailure(pos, []match.Expectation{{Desc: name}}, false)
		return match.Match{}, false, false
	}

	prevRule := st.curRule
	st.curRule = name
	defer func() { st.curRule = prevRule }()

	if !st.g.Seeds(name) {
		entry := &cacheEntry{status: statusInProgress}
		st.cache[key] = entry

		m, ok, committed := st.matchClause(body, pos)
		entry.status = statusDone
		entry.ok = ok
		entry.committed = committed
		entry.m = m
		return m, ok, committed
	}

	entry := &cacheEntry{status: statusInProgress, m: match.Match{Start: pos, End: pos}}
	st.cache[key] = entry

	lastEnd := pos
	for {
		m, ok, _ := st.matchClause(body, pos)
		if !ok || m.End <= lastEnd {
			break
		}
		entry.ok = true
		entry.m = m
		lastEnd = m.End
	}

	entry.status = statusDone
	return entry.m, entry.ok, false
}

// collectDirectCaptures reports the capture bindings a parent scope (a
// Sequence element, a Transform's child, or the chosen Choice alternative)
// should see for a clause k that just produced match m: if k is itself a
// Capture, a single binding naming it; otherwise whatever m already
// accumulated (nil for plain leaves, the bubbled set for Sequence/Choice/
// Repeat/predicate/Entail/Rule clauses). A Transform or Capture boundary
// stops the bubbling: a nested Transform's captures belong to that
// Transform's own scope, never the enclosing one. The Transform check is on
// the match rather than on k, so it also catches a Reference whose resolved
// rule body is a Transform.
func collectDirectCaptures(k clause.Clause, m match.Match) []match.Capture {
	if k.Tag() == clause.TagCapture {
		return []match.Capture{{Name: k.CaptureName(), Variadic: k.Variadic(), Match: m}}
	}
	if m.Action != nil {
		return nil
	}
	return m.Captures
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
