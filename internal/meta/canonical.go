package meta

import "github.com/dekarrin/growseed/internal/grammar"

// canonicalTerms adds the canonical dialect's rule-header and choice-
// separator productions on top of sharedTerms: `name <- expr` assignment,
// `/`-separated alternatives, and a `primary` that does not include bpeg's
// delimited-match form.
func canonicalTerms(b *ruleAdder) {
	// refguard: what follows a name iff that name is the next rule's header.
	b.add("refguard", seqOf(ref("ws"), lit("<-")))
	b.add("primary", choiceOf(ref("group"), ref("literal"), ref("charclass"), ref("anyitem"), ref("refitem")))

	b.add("alttail", act(seqOf(lit("/"), ref("ws"), capture(ref("seqWithAction"), "e")), "group"))
	b.add("alt", act(seqOf(capture(ref("seqWithAction"), "first"), vcapture(star(ref("alttail")), "rest")), "choicelist"))

	b.add("rule", act(seqOf(capture(ref("name"), "name"), ref("ws"), lit("<-"), ref("ws"), capture(ref("alt"), "e")), "rule"))
	b.add("ruleItem", act(seqOf(capture(ref("rule"), "e"), ref("ws")), "group"))
	b.add("rules", act(vcapture(plusc(ref("ruleItem")), "rules"), "rules"))
	b.add("top", act(seqOf(ref("ws"), capture(ref("rules"), "e")), "passthrough"))
}

// SeedGrammar hand-builds, directly in Clause IR (no text is parsed to
// produce it), a Grammar for the canonical PEG dialect: `name <- expr`
// assignment, `/` choice, space-separated sequence, `e* e+ e?`
// quantifiers, `&e`/`!e` predicates, `~ e` cut, `( e )` grouping, `"..."`/
// `'...'` literals with the documented escapes, `[...]` character classes,
// `.` any-item, `name=e`/`*name=e` captures, and `{ body }` actions. This
// is S0 in the bootstrap driver (internal/bootstrap): the hand-built seed
// sufficient to parse CanonicalGrammarText into a Grammar (S1) that
// implements the identical dialect, which is then used to re-parse the same
// text to check for the bootstrap fixed point.
func SeedGrammar() (grammar.Grammar, error) {
	return buildSeed(canonicalTerms)
}
