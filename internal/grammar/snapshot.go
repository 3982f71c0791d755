package grammar

import (
	"encoding/binary"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dekarrin/rezi"

	"github.com/dekarrin/growseed/internal/clause"
	"github.com/dekarrin/growseed/internal/pegerr"
)

// wireClause is a flat, fully-exported mirror of clause.Clause. clause.Clause
// itself keeps its fields unexported (internal/clause's whole point is that
// a Clause is only ever built through its variant constructors), so this is
// the shape the snapshot codec actually walks; toWire and fromWire are the
// only places that translate between the two.
type wireClause struct {
	Tag      uint8
	N        int
	Lit      []rune
	Lo, Hi   rune
	Name     string
	Kids     []wireClause
	Child    *wireClause
	CapName  string
	Variadic bool
	Action   string
	RuleName string
}

// MarshalBinary encodes every field in declaration order. Unused fields for
// a given tag encode as their zero values; the few extra bytes are not
// worth a per-tag format.
func (w wireClause) MarshalBinary() ([]byte, error) {
	data := encSnapInt(int(w.Tag))
	data = append(data, encSnapInt(w.N)...)
	data = append(data, encSnapString(string(w.Lit))...)
	data = append(data, encSnapInt(int(w.Lo))...)
	data = append(data, encSnapInt(int(w.Hi))...)
	data = append(data, encSnapString(w.Name)...)

	data = append(data, encSnapInt(len(w.Kids))...)
	for _, k := range w.Kids {
		kData, err := k.MarshalBinary()
		if err != nil {
			return nil, err
		}
		data = append(data, encSnapInt(len(kData))...)
		data = append(data, kData...)
	}

	if w.Child != nil {
		data = append(data, encSnapBool(true)...)
		cData, err := w.Child.MarshalBinary()
		if err != nil {
			return nil, err
		}
		data = append(data, encSnapInt(len(cData))...)
		data = append(data, cData...)
	} else {
		data = append(data, encSnapBool(false)...)
	}

	data = append(data, encSnapString(w.CapName)...)
	data = append(data, encSnapBool(w.Variadic)...)
	data = append(data, encSnapString(w.Action)...)
	data = append(data, encSnapString(w.RuleName)...)
	return data, nil
}

func (w *wireClause) UnmarshalBinary(data []byte) error {
	d := &snapDecoder{data: data}

	w.Tag = uint8(d.readInt())
	w.N = d.readInt()
	w.Lit = []rune(d.readString())
	w.Lo = rune(d.readInt())
	w.Hi = rune(d.readInt())
	w.Name = d.readString()

	kidCount := d.readInt()
	if d.err == nil && (kidCount < 0 || kidCount > len(d.data)) {
		d.err = fmt.Errorf("snapshot clause child count out of range: %d", kidCount)
	}
	if kidCount > 0 && d.err == nil {
		w.Kids = make([]wireClause, kidCount)
		for i := 0; i < kidCount && d.err == nil; i++ {
			d.readSub(&w.Kids[i])
		}
	}

	if d.readBool() && d.err == nil {
		w.Child = &wireClause{}
		d.readSub(w.Child)
	}

	w.CapName = d.readString()
	w.Variadic = d.readBool()
	w.Action = d.readString()
	w.RuleName = d.readString()
	return d.err
}

// wireGrammar is the flat shape a Grammar snapshot round-trips through.
// Rules are stored in declaration order rather than as a map, so equal
// Grammars whose rules were declared in the same order encode to equal
// bytes.
type wireGrammar struct {
	Entry string
	Names []string
	Rules []wireClause
}

func (w wireGrammar) MarshalBinary() ([]byte, error) {
	data := encSnapString(w.Entry)
	data = append(data, encSnapInt(len(w.Names))...)
	for i, name := range w.Names {
		data = append(data, encSnapString(name)...)
		rData, err := w.Rules[i].MarshalBinary()
		if err != nil {
			return nil, err
		}
		data = append(data, encSnapInt(len(rData))...)
		data = append(data, rData...)
	}
	return data, nil
}

func (w *wireGrammar) UnmarshalBinary(data []byte) error {
	d := &snapDecoder{data: data}

	w.Entry = d.readString()
	count := d.readInt()
	if d.err == nil && (count < 0 || count > len(d.data)) {
		d.err = fmt.Errorf("snapshot rule count out of range: %d", count)
	}
	if d.err != nil {
		return d.err
	}

	w.Names = make([]string, 0, count)
	w.Rules = make([]wireClause, count)
	for i := 0; i < count && d.err == nil; i++ {
		w.Names = append(w.Names, d.readString())
		d.readSub(&w.Rules[i])
	}
	return d.err
}

func toWire(c clause.Clause) wireClause {
	w := wireClause{Tag: uint8(c.Tag())}
	switch c.Tag() {
	case clause.TagAny:
		w.N = c.N()
	case clause.TagValue:
		w.Lit = c.Literal()
	case clause.TagRange:
		w.Lo, w.Hi = c.Bounds()
	case clause.TagRef:
		w.Name = c.Name()
	case clause.TagSeq, clause.TagChoice:
		kids := c.Children()
		w.Kids = make([]wireClause, len(kids))
		for i, k := range kids {
			w.Kids[i] = toWire(k)
		}
	case clause.TagRepeat, clause.TagNot, clause.TagAnd, clause.TagEntail:
		child := toWire(c.Child())
		w.Child = &child
	case clause.TagCapture:
		child := toWire(c.Child())
		w.Child = &child
		w.CapName = c.CaptureName()
		w.Variadic = c.Variadic()
	case clause.TagTransform:
		child := toWire(c.Child())
		w.Child = &child
		w.Action = c.ActionToken().Body
	case clause.TagRule:
		child := toWire(c.Child())
		w.Child = &child
		w.RuleName = c.RuleName()
	}
	return w
}

func fromWire(w wireClause) clause.Clause {
	switch clause.Tag(w.Tag) {
	case clause.TagEmpty:
		return clause.Empty()
	case clause.TagAny:
		return clause.Any(w.N)
	case clause.TagValue:
		return clause.Value(w.Lit)
	case clause.TagRange:
		return clause.Range(w.Lo, w.Hi)
	case clause.TagRef:
		return clause.Reference(w.Name)
	case clause.TagSeq:
		return clause.Sequence(fromWireAll(w.Kids)...)
	case clause.TagChoice:
		return clause.Choice(fromWireAll(w.Kids)...)
	case clause.TagRepeat:
		return clause.Repeat(fromWire(*w.Child))
	case clause.TagNot:
		return clause.Not(fromWire(*w.Child))
	case clause.TagAnd:
		return clause.And(fromWire(*w.Child))
	case clause.TagEntail:
		return clause.Entail(fromWire(*w.Child))
	case clause.TagCapture:
		return clause.Capture(fromWire(*w.Child), w.CapName, w.Variadic)
	case clause.TagTransform:
		return clause.Transform(fromWire(*w.Child), clause.Action{Body: w.Action})
	case clause.TagRule:
		return clause.Rule(w.RuleName, fromWire(*w.Child))
	default:
		return clause.Empty()
	}
}

func fromWireAll(ws []wireClause) []clause.Clause {
	out := make([]clause.Clause, len(ws))
	for i, w := range ws {
		out[i] = fromWire(w)
	}
	return out
}

// Snapshot binary-encodes g via rezi, rules in declaration order.
// FromSnapshot decodes the result back into an equal Grammar.
func (g Grammar) Snapshot() []byte {
	wg := wireGrammar{Entry: g.entry}
	for _, name := range g.order {
		wg.Names = append(wg.Names, name)
		wg.Rules = append(wg.Rules, toWire(g.rules[name]))
	}
	return rezi.EncBinary(wg)
}

// FromSnapshot rebuilds a Grammar from bytes produced by Snapshot, re-running
// Build so the restored Grammar's derived nullability and left-recursion
// tables match what a freshly-parsed Grammar would compute, rather than
// trusting the blob to carry them.
func FromSnapshot(data []byte) (Grammar, error) {
	var wg wireGrammar
	if _, err := rezi.DecBinary(data, &wg); err != nil {
		return Grammar{}, pegerr.WrapGrammarMalformed("snapshot decode", err)
	}

	b := NewBuilder().SetEntry(wg.Entry)
	for i, name := range wg.Names {
		b.AddRule(name, fromWire(wg.Rules[i]))
	}
	return b.Build()
}

// Snapshot wire primitives: 8-byte big-endian ints, rune-counted UTF-8
// strings, single-byte bools.

func encSnapInt(i int) []byte {
	enc := make([]byte, 8)
	binary.BigEndian.PutUint64(enc, uint64(int64(i)))
	return enc
}

func encSnapString(s string) []byte {
	enc := encSnapInt(utf8.RuneCountInString(s))
	return append(enc, s...)
}

func encSnapBool(b bool) []byte {
	if b {
		return []byte{1}
	}
	return []byte{0}
}

// snapDecoder consumes the primitives in order, latching the first error so
// each Unmarshal can read a full field list without per-field checks.
type snapDecoder struct {
	data []byte
	err  error
}

func (d *snapDecoder) readInt() int {
	if d.err != nil {
		return 0
	}
	if len(d.data) < 8 {
		d.err = fmt.Errorf("snapshot truncated: want 8 bytes for int, have %d", len(d.data))
		return 0
	}
	v := int64(binary.BigEndian.Uint64(d.data[:8]))
	d.data = d.data[8:]
	return int(v)
}

func (d *snapDecoder) readString() string {
	runeCount := d.readInt()
	if d.err != nil {
		return ""
	}
	if runeCount < 0 {
		d.err = fmt.Errorf("snapshot string rune count < 0")
		return ""
	}

	var sb strings.Builder
	for i := 0; i < runeCount; i++ {
		ch, n := utf8.DecodeRune(d.data)
		if ch == utf8.RuneError && n < 2 {
			d.err = fmt.Errorf("snapshot string is not valid UTF-8")
			return ""
		}
		sb.WriteRune(ch)
		d.data = d.data[n:]
	}
	return sb.String()
}

func (d *snapDecoder) readBool() bool {
	if d.err != nil {
		return false
	}
	if len(d.data) < 1 {
		d.err = fmt.Errorf("snapshot truncated: want 1 byte for bool")
		return false
	}
	v := d.data[0]
	d.data = d.data[1:]
	if v != 0 && v != 1 {
		d.err = fmt.Errorf("snapshot bool byte is %d", v)
		return false
	}
	return v == 1
}

// readSub decodes a length-prefixed nested wireClause.
func (d *snapDecoder) readSub(into *wireClause) {
	byteLen := d.readInt()
	if d.err != nil {
		return
	}
	if byteLen < 0 || byteLen > len(d.data) {
		d.err = fmt.Errorf("snapshot truncated: nested clause wants %d bytes, have %d", byteLen, len(d.data))
		return
	}
	if err := into.UnmarshalBinary(d.data[:byteLen]); err != nil {
		d.err = err
		return
	}
	d.data = d.data[byteLen:]
}
