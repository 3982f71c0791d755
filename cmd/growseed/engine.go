package main

import (
	"errors"

	"github.com/dekarrin/growseed/internal/engine"
	"github.com/dekarrin/growseed/internal/grammar"
	"github.com/dekarrin/growseed/internal/match"
	"github.com/dekarrin/growseed/internal/pegerr"
)

func newEngine(g grammar.Grammar) *engine.Engine {
	return engine.New(g)
}

// failureOf translates one of the pegerr error types a Parse can return back
// into a match.Failure so it can be rendered with match.Failure.Report,
// rather than duplicating that diagnostic formatting here.
func failureOf(err error) match.Failure {
	var cf *pegerr.CommittedFailure
	if errors.As(err, &cf) {
		return match.Failure{Pos: cf.Pos, Expected: toMatchExpectations(cf.Expected), Committed: true}
	}
	var mf *pegerr.MatchFailed
	if errors.As(err, &mf) {
		return match.Failure{Pos: mf.Pos, Expected: toMatchExpectations(mf.Expected), Committed: mf.Committed}
	}
	return match.Failure{}
}

func toMatchExpectations(es []pegerr.Expectation) []match.Expectation {
	out := make([]match.Expectation, len(es))
	for i, e := range es {
		out[i] = match.Expectation{Rule: e.Rule, Desc: e.Desc}
	}
	return out
}
