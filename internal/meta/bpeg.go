package meta

import "github.com/dekarrin/growseed/internal/grammar"

// bpegTerms adds the indentation-free bpeg dialect's rule-header and
// choice-separator productions on top of sharedTerms: a `name:` header, a
// mandatory `|` before the first case, `|` between all further
// alternatives (a case on its own line and an inline choice within a case
// read identically, since inter-token whitespace includes newlines), `[ e ]`
// option (layered on top of the shared `opt` desugaring the same way the
// canonical dialect's trailing `?` is), and `open :: close` delimited
// literal matching.
//
// Indentation itself is not tracked by depth here: a case line's leading
// whitespace is consumed the same way any other inter-token whitespace is,
// rather than being measured against the enclosing rule header's column.
// A real indentation-sensitive implementation would thread a minimum-
// column constraint through these rules; this seed accepts the simpler
// "whitespace then a pipe" shape, which is sufficient to parse well-formed
// bpeg source and is recorded as an Open Question resolution in DESIGN.md.
func bpegTerms(b *ruleAdder) {
	// refguard: a name immediately followed by ":" is the next rule's
	// header, not a reference. ("::" cannot follow a bare name; the
	// delimited-match operator joins two quoted strings.)
	b.add("refguard", lit(":"))

	b.add("rawstring", act(choiceOf(
		seqOf(lit(`"`), star(ref("dqchar")), lit(`"`)),
		seqOf(lit("'"), star(ref("sqchar")), lit("'")),
	), "rawstring"))
	b.add("delimmatch", act(seqOf(
		capture(ref("rawstring"), "open"), ref("ws"), lit("::"), ref("ws"), capture(ref("rawstring"), "close"),
	), "delimmatch"))

	b.add("bracketopt", act(seqOf(lit("["), ref("ws"), capture(ref("alt"), "e"), ref("ws"), lit("]")), "opt"))

	b.add("primary", choiceOf(
		ref("group"), ref("bracketopt"), ref("delimmatch"), ref("literal"),
		ref("charclass"), ref("anyitem"), ref("refitem"),
	))

	// alt carries no leading "|" of its own so that group and bracketopt
	// contents read `( a | b )`, not `( | a | b )`; the rule production
	// supplies the mandatory pipe before the first case.
	b.add("alttail", act(seqOf(lit("|"), ref("ws"), capture(ref("seqWithAction"), "e")), "group"))
	b.add("alt", act(seqOf(capture(ref("seqWithAction"), "first"), vcapture(star(ref("alttail")), "rest")), "choicelist"))

	b.add("rule", act(seqOf(
		capture(ref("name"), "name"), lit(":"), ref("ws"), lit("|"), ref("ws"), capture(ref("alt"), "e"),
	), "rule"))
	b.add("ruleItem", act(seqOf(capture(ref("rule"), "e"), ref("ws")), "group"))
	b.add("rules", act(vcapture(plusc(ref("ruleItem")), "rules"), "rules"))
	b.add("top", act(seqOf(ref("ws"), capture(ref("rules"), "e")), "passthrough"))
}

// BpegSeedGrammar hand-builds the bpeg dialect's seed grammar the same way
// SeedGrammar builds the canonical one: directly in Clause IR, sufficient
// to parse BpegGrammarText (internal/bootstrap) and reach the bpeg
// bootstrap fixed point independently of the canonical one.
func BpegSeedGrammar() (grammar.Grammar, error) {
	return buildSeed(bpegTerms)
}
