// Package meta parses the textual PEG grammar dialects described by the
// external interface surface into Clause IR: a canonical dialect using
// `<-`, `/`, and bracketed character classes, and an indentation-free bpeg
// dialect using `name:` headers and leading `|` alternatives. Both dialects
// are parsed by grammars expressed in the same Clause IR they produce
// (internal/clause, internal/grammar), using the same engine and action
// binding machinery (internal/engine, internal/action) that end users'
// grammars run on; this closure over its own representation is what makes
// the bootstrap fixed point in internal/bootstrap possible.
package meta

import (
	"github.com/dekarrin/growseed/internal/action"
	"github.com/dekarrin/growseed/internal/clause"
	"github.com/dekarrin/growseed/internal/engine"
	"github.com/dekarrin/growseed/internal/grammar"
	"github.com/dekarrin/growseed/internal/pegerr"
)

// Parse runs g (expected to be a dialect grammar produced by SeedGrammar,
// BpegSeedGrammar, or a prior bootstrap iteration) against text and
// assembles the resulting Rule-tagged clauses into a Grammar.
func Parse(g grammar.Grammar, text string) (grammar.Grammar, error) {
	input := []rune(text)

	m, err := engine.New(g).Parse(input)
	if err != nil {
		return grammar.Grammar{}, err
	}

	host := action.NewHost(input, Eval)
	val, err := host.Evaluate(m)
	if err != nil {
		return grammar.Grammar{}, err
	}

	rules, ok := val.([]clause.Clause)
	if !ok {
		return grammar.Grammar{}, pegerr.WrapGrammarMalformed("meta-parse did not yield a rule list", nil)
	}

	b := grammar.NewBuilder()
	hasTop := false
	for _, rc := range rules {
		b.AddRule(rc.RuleName(), rc.Child())
		if rc.RuleName() == grammar.DefaultEntry {
			hasTop = true
		}
	}
	// A rule literally named "top" (what every dialect's own
	// self-description uses) wins; otherwise the first rule declared in the
	// text is the start symbol, so that a single-rule snippet like
	// `integer <- [0-9]+ { int(*) }` doesn't have to be named "top" to be
	// parseable.
	if !hasTop && len(rules) > 0 {
		b.SetEntry(rules[0].RuleName())
	}
	return b.Build()
}
