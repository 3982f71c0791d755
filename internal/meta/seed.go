package meta

import "github.com/dekarrin/growseed/internal/grammar"

// buildSeed assembles a hand-built dialect grammar: it starts every seed
// from the term-level productions every dialect shares (terms.go), lets
// addDialect layer on that dialect's own header/separator/primary rules,
// then freezes the result the same way a Grammar produced by meta.Parse
// would be frozen (grammar.Builder.Build, with entry rule "top"). The two
// concrete instantiations are SeedGrammar (canonical.go) and
// BpegSeedGrammar (bpeg.go).
func buildSeed(addDialect func(*ruleAdder)) (grammar.Grammar, error) {
	ra := newRuleAdder()
	sharedTerms(ra)
	addDialect(ra)

	b := grammar.NewBuilder().SetEntry("top")
	for _, name := range ra.order {
		b.AddRule(name, ra.rules[name])
	}
	return b.Build()
}
