package bm25

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	tokens := Tokenize("Hello, World! A  validateUserSession fn.")
	assert.Equal(t, []string{"hello", "world", "validateusersession", "fn"}, tokens)
}

func TestSearchEmptyQueryReturnsNoResults(t *testing.T) {
	idx := New()
	idx.AddDocument("a", "the quick brown fox")
	assert.Nil(t, idx.Search("", 10))
	assert.Nil(t, idx.Search("   ", 10))
}

func TestSearchRanksMoreRelevantDocumentHigher(t *testing.T) {
	idx := New()
	idx.AddDocument("auth", "function authenticateUser validates the login credentials for a user")
	idx.AddDocument("docs", "this document briefly mentions authentication in passing")

	results := idx.Search("authenticateUser", 10)
	require.NotEmpty(t, results)
	assert.Equal(t, "auth", results[0].DocID)
}

func TestAddDocumentReplacesPriorContribution(t *testing.T) {
	idx := New()
	idx.AddDocument("a", "alpha beta")
	idx.AddDocument("a", "gamma delta")

	assert.Equal(t, 1, idx.DocCount())
	results := idx.Search("alpha", 10)
	assert.Empty(t, results)
	results = idx.Search("gamma", 10)
	require.Len(t, results, 1)
}

func TestRemoveDocument(t *testing.T) {
	idx := New()
	idx.AddDocument("a", "alpha beta")
	idx.AddDocument("b", "alpha gamma")
	idx.RemoveDocument("a")

	assert.Equal(t, 1, idx.DocCount())
	results := idx.Search("alpha", 10)
	require.Len(t, results, 1)
	assert.Equal(t, "b", results[0].DocID)
}

func TestRoundTripSerialization(t *testing.T) {
	idx := New()
	idx.AddDocument("a", "the quick brown fox jumps")
	idx.AddDocument("b", "a lazy dog sleeps all day")
	idx.AddDocument("c", "the fox and the dog are friends")

	data, err := json.Marshal(idx)
	require.NoError(t, err)

	reloaded := New()
	require.NoError(t, json.Unmarshal(data, reloaded))

	want := idx.Search("fox dog", 10)
	got := reloaded.Search("fox dog", 10)
	assert.Equal(t, want, got)
}

func TestNormalizeBounded(t *testing.T) {
	v := NormalizeChunk(10)
	assert.Greater(t, v, 0.0)
	assert.Less(t, v, 1.0)

	v0 := NormalizeChunk(0)
	assert.Greater(t, v0, 0.0)
	assert.Less(t, v0, 1.0)
}

func TestSearchIsDeterministic(t *testing.T) {
	idx := New()
	idx.AddDocument("a", "validate user session token expiry")
	idx.AddDocument("b", "session cookies and user tokens")
	idx.AddDocument("c", "unrelated content about rendering")

	first := idx.Search("user session", 10)
	second := idx.Search("user session", 10)
	assert.Equal(t, first, second)
}
