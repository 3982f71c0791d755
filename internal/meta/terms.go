package meta

import (
	"github.com/dekarrin/growseed/internal/clause"
)

// Hand-built Clause IR building blocks shared by the canonical and bpeg
// seed grammars (seed.go). Every rule defined here mirrors a production
// both dialects need identically (whitespace, escapes, literals, character
// classes, identifiers, predicates, captures, cut, postfix quantifiers,
// grouping, and the trailing action block): the two dialects differ only
// in how a rule is headed and how its alternatives are separated on the
// page ("/" vs "|"), not in what a single term looks like.
//
// None of these bodies carry an Action of their own except where a seed
// dialect needs one (literal, charclass, postfix, predicatex, capturex,
// cutx, group, seqWithAction are leaves or near-leaves the meta-grammar's
// Eval op-codes build Clause IR from); plain structural rules (ws, name,
// escape, ...) are deliberately left bare so that capturing them elsewhere
// falls back to the "no Transform means raw input slice" rule rather than
// the per-iteration Repeat aggregation action.Host.valuesOf performs when
// a Transform is present.

func ref(name string) clause.Clause       { return clause.Reference(name) }
func lit(s string) clause.Clause          { return clause.ValueString(s) }
func rng(a, b rune) clause.Clause         { return clause.Range(a, b) }
func ch(r rune) clause.Clause             { return clause.Range(r, r) }
func star(c clause.Clause) clause.Clause  { return clause.ZeroOrMore(c) }
func plusc(c clause.Clause) clause.Clause { return clause.Repeat(c) }
func opt(c clause.Clause) clause.Clause   { return clause.Optional(c) }
func notc(c clause.Clause) clause.Clause  { return clause.Not(c) }

func act(c clause.Clause, body string) clause.Clause {
	return clause.Transform(c, clause.Action{Body: body})
}
func capture(c clause.Clause, name string) clause.Clause {
	return clause.Capture(c, name, false)
}
func vcapture(c clause.Clause, name string) clause.Clause {
	return clause.Capture(c, name, true)
}

func seqOf(cs ...clause.Clause) clause.Clause {
	if len(cs) == 1 {
		return cs[0]
	}
	return clause.Sequence(cs...)
}

func choiceOf(cs ...clause.Clause) clause.Clause {
	if len(cs) == 1 {
		return cs[0]
	}
	return clause.Choice(cs...)
}

// ruleAdder accumulates named Clause bodies for a hand-built seed grammar
// before they are registered with a grammar.Builder (seed.go). It exists
// only so sharedTerms can be called against either dialect's in-progress
// rule set without importing grammar.Builder here and creating an import
// cycle concern between the two files; seed.go drains it into a real
// Builder once both shared and dialect-specific rules are added.
type ruleAdder struct {
	rules map[string]clause.Clause
	order []string
}

func newRuleAdder() *ruleAdder {
	return &ruleAdder{rules: make(map[string]clause.Clause)}
}

func (b *ruleAdder) add(name string, body clause.Clause) {
	if _, exists := b.rules[name]; exists {
		panic("meta: duplicate seed rule " + name)
	}
	b.rules[name] = body
	b.order = append(b.order, name)
}

// sharedTerms adds every rule common to both dialect seeds to b. Dialects
// add their own "rule"/"rules"/"top" (header syntax differs), "alt" (choice
// separator differs: "/" vs "|"), and "primary" (bpeg adds the `open ::
// close` delimited-match alternative canonical doesn't have).
func sharedTerms(b *ruleAdder) {
	b.add("sp", choiceOf(ch(' '), ch('\t'), ch('\r'), ch('\n')))
	b.add("comment", seqOf(lit("#"), star(seqOf(notc(lit("\n")), clause.Any(1)))))
	b.add("ws", star(choiceOf(ref("sp"), ref("comment"))))

	b.add("idstart", choiceOf(rng('a', 'z'), rng('A', 'Z'), ch('_')))
	b.add("idchar", choiceOf(rng('a', 'z'), rng('A', 'Z'), rng('0', '9'), ch('_')))
	b.add("name", seqOf(ref("idstart"), star(ref("idchar"))))

	b.add("hexdigit", choiceOf(rng('0', '9'), rng('a', 'f'), rng('A', 'F')))
	b.add("octdigit", rng('0', '7'))
	b.add("escape", seqOf(lit(`\`), choiceOf(
		ch('n'), ch('r'), ch('t'), ch('\\'), ch('\''), ch('"'), ch('['), ch(']'),
		seqOf(lit("u"), ref("hexdigit"), ref("hexdigit"), ref("hexdigit"), ref("hexdigit")),
		seqOf(lit("U"), ref("hexdigit"), ref("hexdigit"), ref("hexdigit"), ref("hexdigit"),
			ref("hexdigit"), ref("hexdigit"), ref("hexdigit"), ref("hexdigit")),
		seqOf(ref("octdigit"), opt(ref("octdigit")), opt(ref("octdigit"))),
	)))

	// Quoted literals: the whole quoted span (including delimiters) is
	// captured as this rule's own Transform raw text ("*"); Eval's "lit"
	// op-code strips the delimiters and unescapes the interior. No named
	// Capture ever wraps the repeated dqchar/sqchar body directly, which
	// sidesteps Repeat's per-iteration aggregation that would otherwise
	// shatter a multi-character literal into one value per character.
	b.add("dqchar", choiceOf(ref("escape"), seqOf(notc(lit(`"`)), notc(lit(`\`)), clause.Any(1))))
	b.add("sqchar", choiceOf(ref("escape"), seqOf(notc(lit(`'`)), notc(lit(`\`)), clause.Any(1))))
	b.add("emptylit", act(choiceOf(lit(`""`), lit(`''`)), "empty"))
	b.add("literal", choiceOf(
		ref("emptylit"),
		act(seqOf(lit(`"`), star(ref("dqchar")), lit(`"`)), "lit"),
		act(seqOf(lit(`'`), star(ref("sqchar")), lit(`'`)), "lit"),
	))

	b.add("classchar", choiceOf(ref("escape"), seqOf(notc(lit("]")), notc(lit(`\`)), clause.Any(1))))
	b.add("classitem", choiceOf(
		act(seqOf(capture(ref("classchar"), "c1"), lit("-"), capture(ref("classchar"), "c2")), "rangeitem"),
		act(capture(ref("classchar"), "c"), "charitem"),
	))
	b.add("charclass", act(seqOf(lit("["), vcapture(star(ref("classitem")), "items"), lit("]")), "charclass"))

	b.add("anyitem", act(lit("."), "any"))
	// A name in expression position is only a reference if it is not
	// actually the next rule's header: without the refguard lookahead, the
	// greedy sequence of the previous rule's last alternative would eat the
	// header name before the rule production ever saw it. Each dialect
	// defines refguard as its own header-introducer shape.
	b.add("refitem", act(seqOf(capture(ref("name"), "name"), notc(ref("refguard"))), "ref"))
	b.add("group", act(seqOf(lit("("), ref("ws"), capture(ref("alt"), "e"), ref("ws"), lit(")")), "group"))

	// Postfix quantifiers bind tightest, directly to primary.
	b.add("postfix", choiceOf(
		act(seqOf(capture(ref("primary"), "e"), lit("*")), "star"),
		act(seqOf(capture(ref("primary"), "e"), lit("+")), "plus"),
		act(seqOf(capture(ref("primary"), "e"), lit("?")), "opt"),
		ref("primary"),
	))

	// Predicates (&, !) wrap a postfix-level term.
	b.add("predicatex", choiceOf(
		act(seqOf(lit("!"), ref("ws"), capture(ref("postfix"), "e")), "not"),
		act(seqOf(lit("&"), ref("ws"), capture(ref("postfix"), "e")), "and"),
		ref("postfix"),
	))

	// Captures (name=, *name=) wrap a predicate-level term; tried in an
	// order where the variadic form is attempted first so a leading "*"
	// is never mistaken for anything else.
	b.add("capturex", choiceOf(
		act(seqOf(lit("*"), capture(ref("name"), "name"), ref("ws"), lit("="), ref("ws"), capture(ref("predicatex"), "e")), "captureVariadic"),
		act(seqOf(capture(ref("name"), "name"), ref("ws"), lit("="), ref("ws"), capture(ref("predicatex"), "e")), "capture"),
		ref("predicatex"),
	))

	// Cut ("~") binds tighter than sequence but looser than capture: it
	// commits a single term, not the remainder of the enclosing sequence
	// (see DESIGN.md for the rationale).
	b.add("cutx", choiceOf(
		act(seqOf(lit("~"), ref("ws"), capture(ref("capturex"), "e")), "cut"),
		ref("capturex"),
	))

	b.add("seqitem", act(seqOf(capture(ref("cutx"), "e"), ref("ws")), "group"))
	b.add("seq", act(vcapture(plusc(ref("seqitem")), "items"), "seq"))

	// actionbody carries its own Transform (raw trimmed text) rather than
	// being captured as a bare Repeat, for the same reason literal content
	// does: so a multi-character action body comes back as one string, not
	// one list element per character.
	b.add("actionbody", act(star(seqOf(notc(lit("}")), clause.Any(1))), "rawtext"))
	// actionsuffix forwards actionbody's plain string via "passthrough", not
	// "group": "group" type-asserts its "e" capture as a clause.Clause, but
	// actionbody's own Transform ("rawtext") already evaluates to a string.
	b.add("actionsuffix", act(seqOf(lit("{"), ref("ws"), capture(ref("actionbody"), "e"), ref("ws"), lit("}")), "passthrough"))
	b.add("seqWithAction", act(seqOf(capture(ref("seq"), "e"), ref("ws"), opt(capture(ref("actionsuffix"), "body")), ref("ws")), "seqalt"))
}
