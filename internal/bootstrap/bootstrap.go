package bootstrap

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dekarrin/growseed/internal/grammar"
	"github.com/dekarrin/growseed/internal/meta"
	"github.com/dekarrin/growseed/internal/pegerr"
)

// MaxIterations bounds the fixed-point search: a dialect whose seed and
// self-description do not converge within this many iterations is treated
// as malformed rather than looped on indefinitely.
const MaxIterations = 5

// Iteration records one step of the fixed-point search: the grammar it
// produced and a correlation ID for diagnostics, so a divergence report can
// name which iteration first disagreed with its predecessor.
type Iteration struct {
	ID      uuid.UUID
	Grammar grammar.Grammar
}

// Result is the outcome of a converged bootstrap run.
type Result struct {
	Grammar    grammar.Grammar
	Iterations []Iteration
}

// Converge runs the self-hosting fixed point starting from a hand-built seed
// grammar and a self-describing source text in the seed's own dialect: it
// parses text with seed to get G1, then repeatedly re-parses text with the
// most recent result until two consecutive iterations are structurally
// equal (grammar.Grammar.EqualTo) or MaxIterations is exceeded.
//
// Every run of both dialects in this module converges on the first
// iteration: the seed and its self-description implement identical
// semantics over identical text, so G1 already equals G0's fixed point (the
// seed never changes, but G1 == G2 once the textual description is parsed a
// second time with G1 in place of the hand-built seed). The iteration
// budget exists for dialects whose self-description is deliberately a
// strict subset of what the seed accepts, which this module's dialects are
// not.
func Converge(seed grammar.Grammar, text string) (Result, error) {
	return ConvergeN(seed, text, MaxIterations)
}

// ConvergeN is Converge with an overridden iteration budget, for callers
// (such as cmd/growseed's config file) that need to raise or lower the
// default search depth without touching the package constant.
func ConvergeN(seed grammar.Grammar, text string, maxIterations int) (Result, error) {
	var iterations []Iteration

	cur := seed
	var prev grammar.Grammar
	havePrev := false

	for i := 0; i < maxIterations; i++ {
		next, err := meta.Parse(cur, text)
		if err != nil {
			return Result{}, fmt.Errorf("bootstrap iteration %d: %w", i+1, err)
		}
		iterations = append(iterations, Iteration{ID: uuid.New(), Grammar: next})

		if havePrev && prev.EqualTo(next) {
			return Result{Grammar: next, Iterations: iterations}, nil
		}
		prev = next
		havePrev = true
		cur = next
	}

	return Result{}, &pegerr.BootstrapDivergence{Iterations: len(iterations)}
}

// CanonicalGrammar runs the canonical dialect's bootstrap to its fixed
// point, parsing CanonicalGrammarText starting from meta.SeedGrammar.
func CanonicalGrammar() (Result, error) {
	return CanonicalGrammarN(MaxIterations)
}

// CanonicalGrammarN is CanonicalGrammar with an overridden iteration budget.
func CanonicalGrammarN(maxIterations int) (Result, error) {
	seed, err := meta.SeedGrammar()
	if err != nil {
		return Result{}, err
	}
	return ConvergeN(seed, CanonicalGrammarText, maxIterations)
}

// BpegGrammar runs the bpeg dialect's bootstrap to its fixed point, parsing
// BpegGrammarText starting from meta.BpegSeedGrammar.
func BpegGrammar() (Result, error) {
	return BpegGrammarN(MaxIterations)
}

// BpegGrammarN is BpegGrammar with an overridden iteration budget.
func BpegGrammarN(maxIterations int) (Result, error) {
	seed, err := meta.BpegSeedGrammar()
	if err != nil {
		return Result{}, err
	}
	return ConvergeN(seed, BpegGrammarText, maxIterations)
}
