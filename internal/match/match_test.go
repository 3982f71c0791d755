package match

import (
	"testing"

	"github.com/dekarrin/growseed/internal/clause"
	"github.com/stretchr/testify/assert"
)

func Test_Match_Len(t *testing.T) {
	assert := assert.New(t)

	m := Match{Start: 3, End: 7}

	assert.Equal(4, m.Len())
}

func Test_Match_Capture(t *testing.T) {
	assert := assert.New(t)

	inner1 := Match{Clause: clause.ValueString("1"), Start: 0, End: 1}
	inner2 := Match{Clause: clause.ValueString("2"), Start: 1, End: 2}
	m := Match{
		Clause: clause.ValueString("a"),
		Captures: []Capture{
			{Name: "x", Match: inner1},
			{Name: "y", Match: inner2},
		},
	}

	c, ok := m.Capture("y")
	assert.True(ok)
	assert.Equal(inner2, c.Match)

	_, ok = m.Capture("z")
	assert.False(ok)
}

func Test_Failure_Merge(t *testing.T) {
	testCases := []struct {
		name       string
		a          Failure
		b          Failure
		expectPos  int
		expectCnt  int
		expectCmt  bool
	}{
		{
			name:      "farther failure wins",
			a:         Failure{Pos: 3, Expected: []Expectation{{Desc: "a"}}},
			b:         Failure{Pos: 5, Expected: []Expectation{{Desc: "b"}}},
			expectPos: 5,
			expectCnt: 1,
		},
		{
			name:      "nearer failure loses regardless of order",
			a:         Failure{Pos: 5, Expected: []Expectation{{Desc: "a"}}},
			b:         Failure{Pos: 3, Expected: []Expectation{{Desc: "b"}}},
			expectPos: 5,
			expectCnt: 1,
		},
		{
			name:      "ties merge expectations",
			a:         Failure{Pos: 4, Expected: []Expectation{{Desc: "a"}}},
			b:         Failure{Pos: 4, Expected: []Expectation{{Desc: "b"}}},
			expectPos: 4,
			expectCnt: 2,
		},
		{
			name:      "tie preserves committed flag from either side",
			a:         Failure{Pos: 4, Committed: true},
			b:         Failure{Pos: 4, Committed: false},
			expectPos: 4,
			expectCmt: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)

			merged := tc.a.Merge(tc.b)

			assert.Equal(tc.expectPos, merged.Pos)
			if tc.expectCnt > 0 {
				assert.Len(merged.Expected, tc.expectCnt)
			}
			assert.Equal(tc.expectCmt, merged.Committed)
		})
	}
}

func Test_Failure_Report(t *testing.T) {
	assert := assert.New(t)

	input := []rune("abc\ndef")
	f := Failure{
		Pos: 5,
		Expected: []Expectation{
			{Rule: "r", Desc: `"e"`},
			{Rule: "r", Desc: `"e"`},
			{Desc: `"x"`},
		},
	}

	out := f.Report(input)

	assert.Contains(out, "line 2")
	assert.Contains(out, `"e" (in r)`)
	assert.Contains(out, `"x"`)
}

func Test_Failure_Report_committed(t *testing.T) {
	assert := assert.New(t)

	f := Failure{Pos: 0, Committed: true}

	out := f.Report(nil)

	assert.Contains(out, "committed failure")
}
