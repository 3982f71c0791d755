// Package match defines the immutable result objects the parsing engine
// (internal/engine) produces: a Match tree records what matched, where, and
// with what captured bindings; a Failure records the farthest position a
// parse reached and what was expected there. Neither type is ever mutated
// after construction; the engine builds them bottom-up as it returns from
// recursive descent.
package match

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"

	"github.com/dekarrin/growseed/internal/clause"
)

// Capture is a single name -> bound submatch entry contributed to an
// enclosing action scope. The engine records only the structural binding
// (which Match a name refers to); resolving that Match to an actual value
// (the input slice it spans, or the result of a nested Transform) is the
// action binding's job (internal/action), not the engine's.
type Capture struct {
	Name     string
	Variadic bool
	Match    Match
}

// Match is an immutable record of a successful clause application: the
// clause that matched, the half-open span [Start, End) of input it consumed,
// its ordered child Matches, and the captures contributed directly under it
// (not those belonging to a nested Transform, which resolves its own).
type Match struct {
	Clause   clause.Clause
	Start    int
	End      int
	Children []Match
	Captures []Capture

	// Action, if non-nil, is the opaque action token attached by a Transform
	// clause wrapping this match. The engine sets this only on the Match
	// produced for a TagTransform clause; internal/action evaluates it.
	Action *clause.Action
}

// Len reports the number of input items this match consumed.
func (m Match) Len() int { return m.End - m.Start }

// Capture looks up a named capture contributed directly under m, reporting
// whether it was found. It does not search nested Transform subtrees, which
// own their own scope.
func (m Match) Capture(name string) (Capture, bool) {
	for _, c := range m.Captures {
		if c.Name == name {
			return c, true
		}
	}
	return Capture{}, false
}

// Expectation names a clause that was tried and failed at a given position,
// for diagnostic reporting in Failure.
type Expectation struct {
	Rule string // enclosing rule name, if known
	Desc string // canonical text of the clause that was expected
}

// Failure is the structured record of a parse that did not succeed: the
// farthest position any clause failed at, what was expected there, and
// whether that failure was committed by an Entail.
type Failure struct {
	Pos       int
	Expected  []Expectation
	Committed bool
}

// reportWidth is the column Report wraps its prose at via rosed.Edit(...).Wrap,
// a comfortable terminal line length for a one-paragraph diagnostic.
const reportWidth = 60

// Report renders a human-readable diagnostic for f against the original
// input: the farthest position reached, a line/column locator, what was
// expected there, and whether the failure was committed. Long expectation
// lists are word-wrapped rather than left to run off the terminal.
func (f Failure) Report(input []rune) string {
	line, col := lineCol(input, f.Pos)

	var sb strings.Builder
	if f.Committed {
		fmt.Fprintf(&sb, "committed failure at line %d, column %d (offset %d)", line, col, f.Pos)
	} else {
		fmt.Fprintf(&sb, "parse failed at line %d, column %d (offset %d)", line, col, f.Pos)
	}

	if len(f.Expected) == 0 {
		return sb.String()
	}

	seen := make(map[string]bool, len(f.Expected))
	var parts []string
	for _, e := range f.Expected {
		key := e.Desc
		if seen[key] {
			continue
		}
		seen[key] = true
		if e.Rule != "" {
			parts = append(parts, fmt.Sprintf("%s (in %s)", e.Desc, e.Rule))
		} else {
			parts = append(parts, e.Desc)
		}
	}

	sb.WriteString(": expected one of ")
	sb.WriteString(strings.Join(parts, ", "))

	return rosed.Edit(sb.String()).Wrap(reportWidth).String()
}

func lineCol(input []rune, pos int) (line, col int) {
	line, col = 1, 1
	for i := 0; i < pos && i < len(input); i++ {
		if input[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// Merge folds o into f, keeping whichever failure reached farther and
// combining expectations when they tie at the same position (the
// engine carries a single farthest-failure cursor across the whole parse).
func (f Failure) Merge(o Failure) Failure {
	switch {
	case o.Pos > f.Pos:
		return o
	case o.Pos < f.Pos:
		return f
	default:
		merged := f
		merged.Committed = f.Committed || o.Committed
		merged.Expected = append(append([]Expectation(nil), f.Expected...), o.Expected...)
		return merged
	}
}
