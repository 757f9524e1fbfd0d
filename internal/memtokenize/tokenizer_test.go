package memtokenize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_BasicIndexingScenario(t *testing.T) {
	tokens := Tokenize("Glicko-2 rating system for ChessRT leaderboard")

	for _, want := range []string{"glicko", "rating", "system", "chessrt", "leaderboard"} {
		_, ok := tokens[want]
		assert.Truef(t, ok, "expected token %q", want)
	}
	_, has2 := tokens["2"]
	assert.False(t, has2, "single-digit token must be dropped (length < 3)")
}

func TestTokenize_DropsStopwordsAndShortTokens(t *testing.T) {
	tokens := Tokenize("the a an is at we")
	assert.Empty(t, tokens)
}

func TestTokenize_EmptyQueryYieldsEmptySet(t *testing.T) {
	tokens := Tokenize("")
	assert.Empty(t, tokens)
}

func TestSplitCompound_KebabAndSnakeCase(t *testing.T) {
	require.Equal(t, []string{"rate", "limit", "policy"}, SplitCompound("rate-limit-policy"))
	require.Equal(t, []string{"rate", "limit", "policy"}, SplitCompound("rate_limit_policy"))
}

func TestSplitCompound_CamelCase(t *testing.T) {
	assert.Equal(t, []string{"Read", "Message", "Item"}, SplitCompound("ReadMessageItem"))
}

func TestSplitCompound_AcronymBoundary(t *testing.T) {
	assert.Equal(t, []string{"ABC", "Def"}, SplitCompound("ABCDef"))
}

func TestTokenize_CompoundWordsSplit(t *testing.T) {
	tokens := Tokenize("ReadMessageItem")
	for _, want := range []string{"read", "message", "item"} {
		_, ok := tokens[want]
		assert.Truef(t, ok, "expected %q from compound split", want)
	}
}

func TestTokenize_ParityBetweenIndexAndQuery(t *testing.T) {
	text := "Discussed containerd runtime for wlxc"
	a := Tokenize(text)
	b := Tokenize(text)
	assert.Equal(t, a, b)
}

func TestTokenize_MalformedUTF8Skipped(t *testing.T) {
	text := "valid\xffmore text here"
	// Must not panic; the invalid byte breaks up the span but valid runs
	// still tokenize.
	tokens := Tokenize(text)
	assert.NotEmpty(t, tokens)
}
