package engine

import (
	"testing"

	"github.com/dekarrin/growseed/internal/clause"
	"github.com/dekarrin/growseed/internal/grammar"
	"github.com/dekarrin/growseed/internal/pegerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func build(t *testing.T, entry string, rules map[string]clause.Clause) grammar.Grammar {
	t.Helper()
	b := grammar.NewBuilder().SetEntry(entry)
	for name, body := range rules {
		b.AddRule(name, body)
	}
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func Test_Parse_literalValue(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g := build(t, "top", map[string]clause.Clause{
		"top": clause.ValueString("hello"),
	})

	m, err := New(g).Parse([]rune("hello"))
	require.NoError(err)
	assert.Equal(0, m.Start)
	assert.Equal(5, m.End)
}

func Test_Parse_choiceOrderDoesNotPreferLongestMatch(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g := build(t, "top", map[string]clause.Clause{
		"top": clause.Choice(clause.ValueString("a"), clause.ValueString("ab")),
	})

	_, err := New(g).Parse([]rune("ab"))
	require.Error(err)

	var mf *pegerr.MatchFailed
	require.ErrorAs(err, &mf)
	assert.Equal(1, mf.Pos)
}

func Test_Parse_leftRecursiveAs(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g := build(t, "as", map[string]clause.Clause{
		"as": clause.Choice(
			clause.Sequence(clause.Reference("as"), clause.Reference("as")),
			clause.ValueString("a"),
		),
	})

	m, err := New(g).Parse([]rune("aaaa"))
	require.NoError(err)
	assert.Equal(0, m.Start)
	assert.Equal(4, m.End)
}

func Test_Parse_cutFailsCommitted(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g := build(t, "r", map[string]clause.Clause{
		"r": clause.Choice(
			clause.Sequence(
				clause.ValueString("("),
				clause.Entail(clause.Reference("e")),
				clause.ValueString(")"),
			),
			clause.Reference("e"),
		),
		"e": clause.ValueString("x"),
	})

	_, err := New(g).Parse([]rune("(x"))
	require.Error(err)

	var cf *pegerr.CommittedFailure
	assert.ErrorAs(err, &cf)
}

func Test_Parse_greedyRepeatTerminatesOnNullableBody(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g := build(t, "top", map[string]clause.Clause{
		"top": clause.Repeat(clause.Empty()),
	})

	m, err := New(g).Parse(nil)
	require.NoError(err)
	assert.Equal(0, m.End)
	assert.Len(m.Children, 1)
}

func Test_Parse_capturesBubbleThroughSequenceAndChoice(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g := build(t, "top", map[string]clause.Clause{
		"top": clause.Sequence(
			clause.Capture(clause.ValueString("a"), "first", false),
			clause.Choice(clause.Capture(clause.ValueString("b"), "second", false)),
		),
	})

	m, err := New(g).Parse([]rune("ab"))
	require.NoError(err)

	first, ok := m.Capture("first")
	require.True(ok)
	assert.Equal(0, first.Match.Start)
	assert.Equal(1, first.Match.End)

	second, ok := m.Capture("second")
	require.True(ok)
	assert.Equal(1, second.Match.Start)
	assert.Equal(2, second.Match.End)
}

func Test_Parse_nestedTransformOwnsItsCaptures(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g := build(t, "top", map[string]clause.Clause{
		"top": clause.Sequence(
			clause.Capture(clause.ValueString("a"), "outer", false),
			clause.Transform(
				clause.Capture(clause.ValueString("b"), "inner", false),
				clause.Action{Body: "x"},
			),
		),
	})

	m, err := New(g).Parse([]rune("ab"))
	require.NoError(err)

	_, ok := m.Capture("outer")
	assert.True(ok)

	_, ok = m.Capture("inner")
	assert.False(ok, "a nested Transform's captures must not leak into the enclosing scope")
}

func Test_Parse_notPredicateDiscardsCaptures(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g := build(t, "top", map[string]clause.Clause{
		"top": clause.Sequence(
			clause.Not(clause.Capture(clause.ValueString("x"), "never", false)),
			clause.ValueString("a"),
		),
	})

	m, err := New(g).Parse([]rune("a"))
	require.NoError(err)

	_, ok := m.Capture("never")
	assert.False(ok)
}

func Test_Parse_andPredicatePreservesCapturesButNotPosition(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g := build(t, "top", map[string]clause.Clause{
		"top": clause.Sequence(
			clause.And(clause.Capture(clause.ValueString("a"), "peek", false)),
			clause.ValueString("a"),
		),
	})

	m, err := New(g).Parse([]rune("a"))
	require.NoError(err)

	peek, ok := m.Capture("peek")
	require.True(ok)
	assert.Equal(0, peek.Match.Start)
	assert.Equal(1, peek.Match.End)
}

func Test_Parse_incompleteConsumptionFails(t *testing.T) {
	require := require.New(t)

	g := build(t, "top", map[string]clause.Clause{
		"top": clause.ValueString("a"),
	})

	_, err := New(g).Parse([]rune("ab"))
	require.Error(err)
}

func Test_Parse_emptyChoiceAlternativeMatchesZeroWidth(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g := build(t, "top", map[string]clause.Clause{
		"top": clause.Optional(clause.ValueString("a")),
	})

	m, err := New(g).Parse(nil)
	require.NoError(err)
	assert.Equal(0, m.Start)
	assert.Equal(0, m.End)
}

func Test_Parse_isDeterministic(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	g := build(t, "as", map[string]clause.Clause{
		"as": clause.Choice(
			clause.Sequence(clause.Reference("as"), clause.Reference("as")),
			clause.ValueString("a"),
		),
	})

	eng := New(g)
	m1, err1 := eng.Parse([]rune("aaaa"))
	require.NoError(err1)
	m2, err2 := eng.Parse([]rune("aaaa"))
	require.NoError(err2)

	assert.Equal(m1, m2)
}
