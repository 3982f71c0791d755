package clause

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Clause_ID_unique(t *testing.T) {
	assert := assert.New(t)

	a := Empty()
	b := Empty()

	assert.NotEqual(a.ID(), b.ID())
}

func Test_Any_panicsOnNonPositive(t *testing.T) {
	assert := assert.New(t)

	assert.Panics(func() { Any(0) })
	assert.Panics(func() { Any(-1) })
}

func Test_Range_panicsWhenLoGreaterThanHi(t *testing.T) {
	assert := assert.New(t)

	assert.Panics(func() { Range('z', 'a') })
}

func Test_Sequence_panicsOnEmpty(t *testing.T) {
	assert := assert.New(t)

	assert.Panics(func() { Sequence() })
}

func Test_Choice_panicsOnEmpty(t *testing.T) {
	assert := assert.New(t)

	assert.Panics(func() { Choice() })
}

func Test_Child_panicsOnLeaf(t *testing.T) {
	assert := assert.New(t)

	assert.Panics(func() { Empty().Child() })
	assert.Panics(func() { ValueString("x").Child() })
	assert.Panics(func() { Reference("x").Child() })
}

func Test_ZeroOrMore_desugars(t *testing.T) {
	assert := assert.New(t)

	c := ZeroOrMore(ValueString("a"))

	assert.Equal(TagChoice, c.Tag())
	kids := c.Children()
	assert.Len(kids, 2)
	assert.Equal(TagRepeat, kids[0].Tag())
	assert.Equal(TagEmpty, kids[1].Tag())
	assert.Equal("a", string(kids[0].Child().Literal()))
}

func Test_Optional_desugars(t *testing.T) {
	assert := assert.New(t)

	c := Optional(ValueString("a"))

	assert.Equal(TagChoice, c.Tag())
	kids := c.Children()
	assert.Len(kids, 2)
	assert.Equal(TagValue, kids[0].Tag())
	assert.Equal(TagEmpty, kids[1].Tag())
}

func Test_Clause_Equal(t *testing.T) {
	testCases := []struct {
		name   string
		a      Clause
		b      Clause
		expect bool
	}{
		{
			name:   "two distinct Empty are equal",
			a:      Empty(),
			b:      Empty(),
			expect: true,
		},
		{
			name:   "different tags are not equal",
			a:      Empty(),
			b:      Any(1),
			expect: false,
		},
		{
			name:   "same literal value is equal",
			a:      ValueString("abc"),
			b:      ValueString("abc"),
			expect: true,
		},
		{
			name:   "different literal value is not equal",
			a:      ValueString("abc"),
			b:      ValueString("abd"),
			expect: false,
		},
		{
			name:   "same range is equal",
			a:      Range('a', 'z'),
			b:      Range('a', 'z'),
			expect: true,
		},
		{
			name:   "same reference name is equal",
			a:      Reference("x"),
			b:      Reference("x"),
			expect: true,
		},
		{
			name:   "sequences compare children in order",
			a:      Sequence(ValueString("a"), ValueString("b")),
			b:      Sequence(ValueString("a"), ValueString("b")),
			expect: true,
		},
		{
			name:   "sequences with different order are not equal",
			a:      Sequence(ValueString("a"), ValueString("b")),
			b:      Sequence(ValueString("b"), ValueString("a")),
			expect: false,
		},
		{
			name:   "captures compare name and variadic",
			a:      Capture(ValueString("a"), "x", false),
			b:      Capture(ValueString("a"), "x", false),
			expect: true,
		},
		{
			name:   "captures with different variadic are not equal",
			a:      Capture(ValueString("a"), "x", false),
			b:      Capture(ValueString("a"), "x", true),
			expect: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tc.expect, tc.a.Equal(tc.b))
		})
	}
}

func Test_Clause_String(t *testing.T) {
	testCases := []struct {
		name   string
		c      Clause
		expect string
	}{
		{
			name:   "empty",
			c:      Empty(),
			expect: `""`,
		},
		{
			name:   "any",
			c:      Any(1),
			expect: ".",
		},
		{
			name:   "value",
			c:      ValueString("abc"),
			expect: `"abc"`,
		},
		{
			name:   "range",
			c:      Range('a', 'z'),
			expect: "[a-z]",
		},
		{
			name:   "reference",
			c:      Reference("foo"),
			expect: "foo",
		},
		{
			name:   "zero or more resugars",
			c:      ZeroOrMore(ValueString("a")),
			expect: `"a"*`,
		},
		{
			name:   "optional resugars",
			c:      Optional(ValueString("a")),
			expect: `"a"?`,
		},
		{
			name:   "not",
			c:      Not(ValueString("a")),
			expect: `!"a"`,
		},
		{
			name:   "and",
			c:      And(ValueString("a")),
			expect: `&"a"`,
		},
		{
			name:   "sequence needs no parens around unary children",
			c:      Sequence(ValueString("a"), ValueString("b")),
			expect: `"a" "b"`,
		},
		{
			name:   "choice children need no parens around sequences (sequence binds tighter)",
			c:      Choice(Sequence(ValueString("a"), ValueString("b")), ValueString("c")),
			expect: `"a" "b" / "c"`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Equal(tc.expect, tc.c.String())
		})
	}
}
