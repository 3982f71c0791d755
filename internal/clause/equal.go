package clause

// Equal reports whether c and o are structurally identical: same tag, same
// payload, same children in the same order. It does not compare ID (two
// independently constructed but identical clauses are Equal); this is what
// lets Grammar.EqualTo detect the bootstrap fixed point across separately
// derived Grammars.
func (c Clause) Equal(o Clause) bool {
	if c.tag != o.tag {
		return false
	}

	switch c.tag {
	case TagEmpty:
		return true
	case TagAny:
		return c.n == o.n
	case TagValue:
		return runesEqual(c.lit, o.lit)
	case TagRange:
		return c.lo == o.lo && c.hi == o.hi
	case TagRef:
		return c.name == o.name
	case TagSeq, TagChoice:
		return clausesEqual(c.kids, o.kids)
	case TagRepeat, TagNot, TagAnd, TagEntail:
		return c.Child().Equal(o.Child())
	case TagCapture:
		return c.capName == o.capName && c.variadic == o.variadic && c.Child().Equal(o.Child())
	case TagTransform:
		return c.action == o.action && c.Child().Equal(o.Child())
	case TagRule:
		return c.ruleName == o.ruleName && c.Child().Equal(o.Child())
	default:
		return false
	}
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

func clausesEqual(a, b []Clause) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
