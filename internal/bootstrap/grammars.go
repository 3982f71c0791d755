// Package bootstrap runs the self-hosting fixed point: each dialect's
// hand-built seed (internal/meta.SeedGrammar,
// internal/meta.BpegSeedGrammar) parses that dialect's own self-describing
// source text into a Grammar; the resulting Grammar parses the same text
// again; convergence is reached once an iteration's output is structurally
// equal to the previous one.
package bootstrap

// CanonicalGrammarText is the canonical PEG dialect described entirely in
// itself: every production terms.go and canonical.go hand-build in Clause
// IR has a line here using the same rule names and the same Eval op-codes
// (internal/meta/metaeval.go), so that meta.SeedGrammar()'s parse of this
// text and the resulting Grammar's re-parse of it describe the identical
// dialect and converge on the first iteration.
const CanonicalGrammarText = `
# Whitespace and comments.
sp <- " " / "\t" / "\r" / "\n"
comment <- "#" (!"\n" .)*
ws <- (sp / comment)*

# Identifiers.
idstart <- [a-zA-Z_]
idchar <- [a-zA-Z0-9_]
name <- idstart idchar*

# Escapes shared by double- and single-quoted literals and character
# classes: \n \r \t \\ \' \" \[ \], \uhhhh, \Uhhhhhhhh, and \ooo (one to
# three octal digits).
hexdigit <- [0-9a-fA-F]
octdigit <- [0-7]
escape <- "\\" ("n" / "r" / "t" / "\\" / "'" / "\"" / "[" / "]"
	/ ("u" hexdigit hexdigit hexdigit hexdigit)
	/ ("U" hexdigit hexdigit hexdigit hexdigit hexdigit hexdigit hexdigit hexdigit)
	/ (octdigit octdigit? octdigit?))

# Quoted literals. The whole quoted span is this rule's own raw text; "lit"
# strips the delimiters and unescapes the interior itself.
dqchar <- escape / (!"\"" !"\\" .)
sqchar <- escape / (!"'" !"\\" .)
emptylit <- ("\"\"" / "''") { empty }
literal <- emptylit
	/ ("\"" dqchar* "\"") { lit }
	/ ("'" sqchar* "'") { lit }

# Character classes.
classchar <- escape / (!"]" !"\\" .)
classitem <- (c1=classchar "-" c2=classchar) { rangeitem }
	/ (c=classchar) { charitem }
charclass <- ("[" *items=classitem* "]") { charclass }

anyitem <- "." { any }

# A name is only a reference when it is not the next rule's header.
refguard <- ws "<-"
refitem <- (name=name !refguard) { ref }

group <- ("(" ws e=alt ws ")") { group }

primary <- group / literal / charclass / anyitem / refitem

# Postfix quantifiers bind tightest, directly to primary.
postfix <- (e=primary "*") { star }
	/ (e=primary "+") { plus }
	/ (e=primary "?") { opt }
	/ primary

# Predicates (&, !) wrap a postfix-level term.
predicatex <- ("!" ws e=postfix) { not }
	/ ("&" ws e=postfix) { and }
	/ postfix

# Captures (name=, *name=) wrap a predicate-level term.
capturex <- ("*" name=name ws "=" ws e=predicatex) { captureVariadic }
	/ (name=name ws "=" ws e=predicatex) { capture }
	/ predicatex

# Cut ("~") commits a single following term.
cutx <- ("~" ws e=capturex) { cut }
	/ capturex

seqitem <- (e=cutx ws) { group }
seq <- (*items=seqitem+) { seq }

actionbody <- (!"}" .)* { rawtext }
actionsuffix <- ("{" ws e=actionbody ws "}") { passthrough }
seqWithAction <- (e=seq ws (body=actionsuffix)? ws) { seqalt }

alttail <- ("/" ws e=seqWithAction) { group }
alt <- (first=seqWithAction *rest=alttail*) { choicelist }

rule <- (name=name ws "<-" ws e=alt) { rule }
ruleItem <- (e=rule ws) { group }
rules <- (*rules=ruleItem+) { rules }
top <- (ws e=rules) { passthrough }
`

// BpegGrammarText is the bpeg dialect described in itself, written in the
// bpeg surface syntax, mirroring bpeg.go's hand-built productions the same
// way CanonicalGrammarText mirrors canonical.go's. Character classes here
// all contain a "-" range, which is what keeps them from being read as the
// dialect's "[ e ]" option form (option is tried first and fails on the
// dash).
const BpegGrammarText = `
sp:
	| " "
	| "\t"
	| "\r"
	| "\n"

comment:
	| "#" (!"\n" .)*

ws:
	| (sp | comment)*

idstart:
	| [a-zA-Z_]

idchar:
	| [a-zA-Z0-9_]

name:
	| idstart idchar*

hexdigit:
	| [0-9a-fA-F]

octdigit:
	| [0-7]

escape:
	| "\\" ("n" | "r" | "t" | "\\" | "'" | "\"" | "[" | "]"
		| ("u" hexdigit hexdigit hexdigit hexdigit)
		| ("U" hexdigit hexdigit hexdigit hexdigit hexdigit hexdigit hexdigit hexdigit)
		| (octdigit [octdigit] [octdigit]))

dqchar:
	| escape
	| (!"\"" !"\\" .)

sqchar:
	| escape
	| (!"'" !"\\" .)

emptylit:
	| ("\"\"" | "''") { empty }

literal:
	| emptylit
	| ("\"" dqchar* "\"") { lit }
	| ("'" sqchar* "'") { lit }

classchar:
	| escape
	| (!"]" !"\\" .)

classitem:
	| (c1=classchar "-" c2=classchar) { rangeitem }
	| (c=classchar) { charitem }

charclass:
	| ("[" *items=classitem* "]") { charclass }

anyitem:
	| "." { any }

refguard:
	| ":"

refitem:
	| (name=name !refguard) { ref }

group:
	| ("(" ws e=alt ws ")") { group }

rawstring:
	| ("\"" dqchar* "\"") { rawstring }
	| ("'" sqchar* "'") { rawstring }

delimmatch:
	| (open=rawstring ws "::" ws close=rawstring) { delimmatch }

bracketopt:
	| ("[" ws e=alt ws "]") { opt }

primary:
	| group
	| bracketopt
	| delimmatch
	| literal
	| charclass
	| anyitem
	| refitem

postfix:
	| (e=primary "*") { star }
	| (e=primary "+") { plus }
	| (e=primary "?") { opt }
	| primary

predicatex:
	| ("!" ws e=postfix) { not }
	| ("&" ws e=postfix) { and }
	| postfix

capturex:
	| ("*" name=name ws "=" ws e=predicatex) { captureVariadic }
	| (name=name ws "=" ws e=predicatex) { capture }
	| predicatex

cutx:
	| ("~" ws e=capturex) { cut }
	| capturex

seqitem:
	| (e=cutx ws) { group }

seq:
	| (*items=seqitem+) { seq }

actionbody:
	| (!"}" .)* { rawtext }

actionsuffix:
	| ("{" ws e=actionbody ws "}") { passthrough }

seqWithAction:
	| (e=seq ws (body=actionsuffix)? ws) { seqalt }

alttail:
	| ("|" ws e=seqWithAction) { group }

alt:
	| (first=seqWithAction *rest=alttail*) { choicelist }

rule:
	| (name=name ":" ws "|" ws e=alt) { rule }

ruleItem:
	| (e=rule ws) { group }

rules:
	| (*rules=ruleItem+) { rules }

top:
	| (ws e=rules) { passthrough }
`
