package bootstrap

import (
	"testing"

	"github.com/dekarrin/growseed/internal/meta"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_CanonicalGrammar_convergesAndSelfHosts(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	result, err := CanonicalGrammar()
	require.NoError(err)
	require.LessOrEqual(len(result.Iterations), MaxIterations)
	assert.Equal("top", result.Grammar.EntryName())

	for _, name := range []string{"rule", "alt", "literal", "charclass", "capturex", "cutx"} {
		_, err := result.Grammar.Resolve(name)
		assert.NoError(err, "expected converged grammar to define rule %q", name)
	}
}

func Test_BpegGrammar_convergesAndSelfHosts(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	result, err := BpegGrammar()
	require.NoError(err)
	require.LessOrEqual(len(result.Iterations), MaxIterations)
	assert.Equal("top", result.Grammar.EntryName())

	for _, name := range []string{"rule", "alt", "alttail", "delimmatch", "bracketopt", "refguard"} {
		_, err := result.Grammar.Resolve(name)
		assert.NoError(err, "expected converged grammar to define rule %q", name)
	}
}

func Test_Converge_returnsErrorOnUnparsableText(t *testing.T) {
	require := require.New(t)

	seed, err := meta.SeedGrammar()
	require.NoError(err)

	// Text that the seed's own grammar cannot match at all: Converge must
	// surface the underlying meta.Parse error as a value, not diverge or
	// panic.
	_, err = Converge(seed, "{{{ not a grammar at all")
	require.Error(err)
}
