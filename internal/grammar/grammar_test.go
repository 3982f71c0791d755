package grammar

import (
	"testing"

	"github.com/dekarrin/growseed/internal/clause"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Builder_Build_missingEntry(t *testing.T) {
	assert := assert.New(t)

	_, err := NewBuilder().AddRule("other", clause.Empty()).Build()

	assert.Error(err)
}

func Test_Builder_Build_duplicateRule(t *testing.T) {
	assert := assert.New(t)

	b := NewBuilder()
	b.AddRule("top", clause.Empty())
	b.AddRule("top", clause.Any(1))

	_, err := b.Build()

	assert.Error(err)
}

func Test_Builder_Build_unresolvedReference(t *testing.T) {
	assert := assert.New(t)

	b := NewBuilder()
	b.AddRule("top", clause.Reference("missing"))

	_, err := b.Build()

	assert.Error(err)
}

func Test_Builder_Build_ok(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	b := NewBuilder()
	b.AddRule("top", clause.Sequence(clause.ValueString("a"), clause.Reference("rest")))
	b.AddRule("rest", clause.Empty())

	g, err := b.Build()
	require.NoError(err)

	assert.ElementsMatch([]string{"top", "rest"}, g.RuleNames())
	assert.Equal("top", g.EntryName())

	body, err := g.Resolve("rest")
	require.NoError(err)
	assert.Equal(clause.TagEmpty, body.Tag())

	_, err = g.Resolve("nope")
	assert.Error(err)
}

func Test_Grammar_Nullable(t *testing.T) {
	testCases := []struct {
		name   string
		rules  map[string]clause.Clause
		entry  string
		expect map[string]bool
	}{
		{
			name: "empty rule is nullable",
			rules: map[string]clause.Clause{
				"top": clause.Empty(),
			},
			entry:  "top",
			expect: map[string]bool{"top": true},
		},
		{
			name: "value rule is not nullable",
			rules: map[string]clause.Clause{
				"top": clause.ValueString("a"),
			},
			entry:  "top",
			expect: map[string]bool{"top": false},
		},
		{
			name: "sequence nullable iff all children nullable",
			rules: map[string]clause.Clause{
				"top": clause.Sequence(clause.Reference("a"), clause.Reference("b")),
				"a":   clause.Empty(),
				"b":   clause.ValueString("x"),
			},
			entry:  "top",
			expect: map[string]bool{"top": false, "a": true, "b": false},
		},
		{
			name: "choice nullable if any child nullable",
			rules: map[string]clause.Clause{
				"top": clause.Choice(clause.ValueString("x"), clause.Reference("a")),
				"a":   clause.Empty(),
			},
			entry:  "top",
			expect: map[string]bool{"top": true, "a": true},
		},
		{
			name: "repeat nullable iff child nullable",
			rules: map[string]clause.Clause{
				"top": clause.Repeat(clause.Reference("a")),
				"a":   clause.Empty(),
			},
			entry:  "top",
			expect: map[string]bool{"top": true},
		},
		{
			name: "not and and are always nullable",
			rules: map[string]clause.Clause{
				"top": clause.Sequence(clause.Not(clause.ValueString("x")), clause.And(clause.ValueString("y"))),
			},
			entry:  "top",
			expect: map[string]bool{"top": true},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require := require.New(t)
			assert := assert.New(t)

			b := NewBuilder().SetEntry(tc.entry)
			for name, body := range tc.rules {
				b.AddRule(name, body)
			}
			g, err := b.Build()
			require.NoError(err)

			for name, want := range tc.expect {
				assert.Equalf(want, g.NullableRule(name), "rule %q", name)
			}
		})
	}
}

func Test_Grammar_Seeds(t *testing.T) {
	testCases := []struct {
		name   string
		rules  map[string]clause.Clause
		entry  string
		expect map[string]bool
	}{
		{
			name: "direct left recursion",
			rules: map[string]clause.Clause{
				"top": clause.Choice(
					clause.Sequence(clause.Reference("top"), clause.ValueString("+"), clause.ValueString("n")),
					clause.ValueString("n"),
				),
			},
			entry:  "top",
			expect: map[string]bool{"top": true},
		},
		{
			name: "no left recursion",
			rules: map[string]clause.Clause{
				"top": clause.Sequence(clause.ValueString("n"), clause.Reference("tail")),
				"tail": clause.ZeroOrMore(
					clause.Sequence(clause.ValueString("+"), clause.ValueString("n")),
				),
			},
			entry:  "top",
			expect: map[string]bool{"top": false, "tail": false},
		},
		{
			name: "left recursion through a nullable prefix",
			rules: map[string]clause.Clause{
				"top": clause.Sequence(clause.Reference("maybe"), clause.Reference("top")),
				"maybe": clause.Empty(),
			},
			entry:  "top",
			expect: map[string]bool{"top": true},
		},
		{
			name: "non-nullable prefix blocks left recursion",
			rules: map[string]clause.Clause{
				"top": clause.Sequence(clause.ValueString("x"), clause.Reference("top")),
			},
			entry:  "top",
			expect: map[string]bool{"top": false},
		},
		{
			name: "indirect left recursion",
			rules: map[string]clause.Clause{
				"a": clause.Reference("b"),
				"b": clause.Reference("a"),
			},
			entry:  "a",
			expect: map[string]bool{"a": true, "b": true},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require := require.New(t)
			assert := assert.New(t)

			b := NewBuilder().SetEntry(tc.entry)
			for name, body := range tc.rules {
				b.AddRule(name, body)
			}
			g, err := b.Build()
			require.NoError(err)

			for name, want := range tc.expect {
				assert.Equalf(want, g.Seeds(name), "rule %q", name)
			}
		})
	}
}

func Test_Grammar_EqualTo(t *testing.T) {
	assert := assert.New(t)

	build := func() Grammar {
		b := NewBuilder()
		b.AddRule("top", clause.Sequence(clause.ValueString("a"), clause.Reference("rest")))
		b.AddRule("rest", clause.Empty())
		g, err := b.Build()
		require.NoError(t, err)
		return g
	}

	g1 := build()
	g2 := build()

	assert.True(g1.EqualTo(g2))

	b3 := NewBuilder()
	b3.AddRule("top", clause.Sequence(clause.ValueString("b"), clause.Reference("rest")))
	b3.AddRule("rest", clause.Empty())
	g3, err := b3.Build()
	require.NoError(t, err)

	assert.False(g1.EqualTo(g3))
}

func Test_Grammar_Unparse(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	b := NewBuilder()
	b.AddRule("top", clause.ZeroOrMore(clause.ValueString("a")))
	g, err := b.Build()
	require.NoError(err)

	out := g.Unparse()

	assert.Contains(out, "top <-")
	assert.Contains(out, `"a"*`)
}

func Test_Grammar_Snapshot_roundTrips(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	b := NewBuilder().SetEntry("top")
	b.AddRule("top", clause.Sequence(
		clause.Capture(clause.Reference("digits"), "d", false),
		clause.Not(clause.ValueString("x")),
	))
	b.AddRule("digits", clause.Transform(
		clause.Repeat(clause.Range('0', '9')),
		clause.Action{Body: "int(*)"},
	))
	want, err := b.Build()
	require.NoError(err)

	data := want.Snapshot()
	got, err := FromSnapshot(data)
	require.NoError(err)

	assert.True(want.EqualTo(got))
	assert.Equal(want.EntryName(), got.EntryName())
	assert.Equal(want.Seeds("digits"), got.Seeds("digits"))
}
