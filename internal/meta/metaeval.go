package meta

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/dekarrin/growseed/internal/action"
	"github.com/dekarrin/growseed/internal/clause"
)

// stripDelims drops the first and last rune of a quoted or delimited raw
// capture (the opening and closing quote characters), leaving the interior
// text for unescape to process. It operates on the Transform's own raw "*"
// text rather than a named Capture around the quoted content itself, so
// that a multi-character literal body isn't shattered into one value per
// character by Repeat aggregation (see terms.go's literal production).
func stripDelims(raw string) string {
	rs := []rune(raw)
	if len(rs) < 2 {
		return ""
	}
	return string(rs[1 : len(rs)-1])
}

// normalizeLiteral applies NFC normalization to a parsed literal's runes
// before it becomes a Value clause, so that two literals spelled with
// differently composed Unicode sequences (a precomposed é vs. e + combining
// acute) compare equal under Clause.Equal, which the bootstrap fixed
// point depends on when dialect source text isn't normalized consistently.
func normalizeLiteral(rs []rune) []rune {
	return []rune(norm.NFC.String(string(rs)))
}

// Eval is the action evaluator every dialect grammar in this package is
// built against: every Transform's body names one of a small fixed set of
// IR-construction operations, and its captures hold already-constructed
// clause.Clause values (or, for leaf productions with no Transform of their
// own, the raw matched text that the action host's raw-slice fallback
// supplies). Unlike internal/action.DefaultEval, which evaluates an
// arithmetic mini-language over ints, this Eval builds Clause IR values:
// the closure over the IR that a self-hosted meta-parser requires.
func Eval(body string, scope action.Scope) (interface{}, error) {
	switch body {
	case "any":
		return clause.Any(1), nil

	case "empty":
		return clause.Empty(), nil

	case "lit":
		raw, err := scopeString(scope, "*")
		if err != nil {
			return nil, err
		}
		return clause.Value(normalizeLiteral(unescape(stripDelims(raw)))), nil

	// rawtext trims what it matched: actionbody's repeat runs all the way
	// to the closing "}", so the raw span carries the padding that visually
	// separates the body from its braces. The trimmed text is what Eval's
	// own op-code dispatch compares against, so the trim is also what keeps
	// a bootstrapped grammar's op-codes identical to the seed's.
	case "rawtext":
		raw, err := scopeString(scope, "*")
		if err != nil {
			return nil, err
		}
		return strings.TrimSpace(raw), nil

	case "rawstring":
		raw, err := scopeString(scope, "*")
		if err != nil {
			return nil, err
		}
		return string(unescape(stripDelims(raw))), nil

	case "delimmatch":
		open, err := scopeString(scope, "open")
		if err != nil {
			return nil, err
		}
		closeStr, err := scopeString(scope, "close")
		if err != nil {
			return nil, err
		}
		openLit := clause.ValueString(open)
		closeLit := clause.ValueString(closeStr)
		return clause.Sequence(openLit, clause.ZeroOrMore(clause.Sequence(clause.Not(closeLit), clause.Any(1))), closeLit), nil

	case "rangeitem":
		c1, err := scopeRune(scope, "c1")
		if err != nil {
			return nil, err
		}
		c2, err := scopeRune(scope, "c2")
		if err != nil {
			return nil, err
		}
		return clause.Range(c1, c2), nil

	case "charitem":
		c, err := scopeRune(scope, "c")
		if err != nil {
			return nil, err
		}
		return clause.Range(c, c), nil

	case "charclass":
		items, err := scopeClauses(scope, "items")
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, fmt.Errorf("meta: empty character class")
		}
		return choiceOrSingle(items), nil

	case "ref":
		name, err := scopeString(scope, "name")
		if err != nil {
			return nil, err
		}
		return clause.Reference(name), nil

	case "group":
		return scopeClause(scope, "e")

	// passthrough forwards whatever value capture "e" holds verbatim,
	// without requiring it to be a single clause.Clause. Used only by the
	// "top" rule, whose "e" capture is the already-assembled []clause.Clause
	// produced by the "rules" op-code, not a single clause.
	case "passthrough":
		v, ok := scope["e"]
		if !ok {
			return nil, fmt.Errorf("meta: missing capture \"e\"")
		}
		return v, nil

	case "star":
		e, err := scopeClause(scope, "e")
		if err != nil {
			return nil, err
		}
		return clause.ZeroOrMore(e), nil

	case "plus":
		e, err := scopeClause(scope, "e")
		if err != nil {
			return nil, err
		}
		return clause.Repeat(e), nil

	case "opt":
		e, err := scopeClause(scope, "e")
		if err != nil {
			return nil, err
		}
		return clause.Optional(e), nil

	case "not":
		e, err := scopeClause(scope, "e")
		if err != nil {
			return nil, err
		}
		return clause.Not(e), nil

	case "and":
		e, err := scopeClause(scope, "e")
		if err != nil {
			return nil, err
		}
		return clause.And(e), nil

	case "cut":
		e, err := scopeClause(scope, "e")
		if err != nil {
			return nil, err
		}
		return clause.Entail(e), nil

	case "capture":
		e, err := scopeClause(scope, "e")
		if err != nil {
			return nil, err
		}
		name, err := scopeString(scope, "name")
		if err != nil {
			return nil, err
		}
		return clause.Capture(e, name, false), nil

	case "captureVariadic":
		e, err := scopeClause(scope, "e")
		if err != nil {
			return nil, err
		}
		name, err := scopeString(scope, "name")
		if err != nil {
			return nil, err
		}
		return clause.Capture(e, name, true), nil

	case "seq":
		items, err := scopeClauses(scope, "items")
		if err != nil {
			return nil, err
		}
		return seqOrSingle(items), nil

	case "seqalt":
		e, err := scopeClause(scope, "e")
		if err != nil {
			return nil, err
		}
		if raw, ok := scope["body"]; ok {
			bodyText, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("meta: capture \"body\" is %T, not a string", raw)
			}
			return clause.Transform(e, clause.Action{Body: bodyText}), nil
		}
		return e, nil

	case "choicelist":
		first, err := scopeClause(scope, "first")
		if err != nil {
			return nil, err
		}
		rest, err := scopeClauses(scope, "rest")
		if err != nil {
			return nil, err
		}
		all := append([]clause.Clause{first}, rest...)
		return choiceOrSingle(all), nil

	case "rule":
		name, err := scopeString(scope, "name")
		if err != nil {
			return nil, err
		}
		e, err := scopeClause(scope, "e")
		if err != nil {
			return nil, err
		}
		return clause.Rule(name, e), nil

	case "rules":
		return scopeClauses(scope, "rules")

	default:
		return nil, fmt.Errorf("meta: unknown action op-code %q", body)
	}
}

func seqOrSingle(items []clause.Clause) clause.Clause {
	if len(items) == 1 {
		return items[0]
	}
	return clause.Sequence(items...)
}

func choiceOrSingle(items []clause.Clause) clause.Clause {
	if len(items) == 1 {
		return items[0]
	}
	return clause.Choice(items...)
}

func scopeString(scope action.Scope, name string) (string, error) {
	v, ok := scope[name]
	if !ok {
		return "", fmt.Errorf("meta: missing capture %q", name)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("meta: capture %q is %T, not a string", name, v)
	}
	return s, nil
}

// scopeRune resolves a captured classchar to a single rune. The raw capture
// may be a literal character or an escape sequence (\n, \141, é, ...),
// so it is run through unescape before the single-rune check, rather than
// being checked for length 1 in its still-escaped form.
func scopeRune(scope action.Scope, name string) (rune, error) {
	s, err := scopeString(scope, name)
	if err != nil {
		return 0, err
	}
	rs := unescape(s)
	if len(rs) != 1 {
		return 0, fmt.Errorf("meta: capture %q is not a single rune (%q)", name, s)
	}
	return rs[0], nil
}

func scopeClause(scope action.Scope, name string) (clause.Clause, error) {
	v, ok := scope[name]
	if !ok {
		return clause.Clause{}, fmt.Errorf("meta: missing capture %q", name)
	}
	c, ok := v.(clause.Clause)
	if !ok {
		return clause.Clause{}, fmt.Errorf("meta: capture %q is %T, not a clause", name, v)
	}
	return c, nil
}

func scopeClauses(scope action.Scope, name string) ([]clause.Clause, error) {
	v, ok := scope[name]
	if !ok {
		return nil, nil
	}
	raw, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("meta: capture %q is %T, not a list", name, v)
	}
	out := make([]clause.Clause, len(raw))
	for i, item := range raw {
		c, ok := item.(clause.Clause)
		if !ok {
			return nil, fmt.Errorf("meta: capture %q element %d is %T, not a clause", name, i, item)
		}
		out[i] = c
	}
	return out, nil
}

// unescape processes the canonical dialect's literal escape sequences: \n
// \r \t \\, literal-character escapes \' \" \[ \], octal \ooo (one to three
// digits), and \uhhhh / \Uhhhhhhhh.
func unescape(s string) []rune {
	var out []rune
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if r != '\\' || i+1 >= len(rs) {
			out = append(out, r)
			continue
		}
		i++
		switch rs[i] {
		case 'n':
			out = append(out, '\n')
		case 'r':
			out = append(out, '\r')
		case 't':
			out = append(out, '\t')
		case '\\':
			out = append(out, '\\')
		case '\'':
			out = append(out, '\'')
		case '"':
			out = append(out, '"')
		case '[':
			out = append(out, '[')
		case ']':
			out = append(out, ']')
		case 'u':
			if i+4 < len(rs) {
				if n, err := strconv.ParseInt(string(rs[i+1:i+5]), 16, 32); err == nil {
					out = append(out, rune(n))
					i += 4
					continue
				}
			}
			out = append(out, 'u')
		case 'U':
			if i+8 < len(rs) {
				if n, err := strconv.ParseInt(string(rs[i+1:i+9]), 16, 32); err == nil {
					out = append(out, rune(n))
					i += 8
					continue
				}
			}
			out = append(out, 'U')
		default:
			if rs[i] >= '0' && rs[i] <= '7' {
				j := i
				for j < len(rs) && j < i+3 && rs[j] >= '0' && rs[j] <= '7' {
					j++
				}
				if n, err := strconv.ParseInt(string(rs[i:j]), 8, 32); err == nil {
					out = append(out, rune(n))
					i = j - 1
					continue
				}
			}
			out = append(out, rs[i])
		}
	}
	return out
}
