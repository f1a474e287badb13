package literal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefinitionRanksAboveReferenceAtEqualConfidence(t *testing.T) {
	idx := New()
	idx.Add("hashPassword", Occurrence{ChunkID: "def", FilePath: "a.go", Kind: Definition, Confidence: 1, Line: 10})
	idx.Add("hashPassword", Occurrence{ChunkID: "ref", FilePath: "b.go", Kind: Reference, Confidence: 1, Line: 20})

	occs := idx.Lookup("hashPassword")
	require.Len(t, occs, 2)
	assert.Equal(t, Definition, occs[0].Kind)
	assert.Equal(t, Reference, occs[1].Kind)
}

func TestBuildMatchMap(t *testing.T) {
	idx := New()
	idx.Add("authenticateUser", Occurrence{ChunkID: "chunk1", FilePath: "login.ts", Kind: Definition, Confidence: 1, Line: 5})

	matches := idx.BuildMatchMap([]string{"authenticateUser"})
	require.Contains(t, matches, "chunk1")
	assert.Len(t, matches["chunk1"], 1)
}

func TestRemoveFile(t *testing.T) {
	idx := New()
	idx.Add("foo", Occurrence{ChunkID: "c1", FilePath: "a.go", Kind: Definition, Confidence: 1})
	idx.Add("foo", Occurrence{ChunkID: "c2", FilePath: "b.go", Kind: Reference, Confidence: 1})

	idx.RemoveFile("a.go")
	occs := idx.Lookup("foo")
	require.Len(t, occs, 1)
	assert.Equal(t, "b.go", occs[0].FilePath)
}

func TestContributionDefinitionOutweighsReference(t *testing.T) {
	def := []Match{{Occurrence: Occurrence{Kind: Definition, Confidence: 1}}}
	ref := []Match{{Occurrence: Occurrence{Kind: Reference, Confidence: 1}}}

	assert.Greater(t, Contribution(def, true), Contribution(ref, true))
}

func TestContributionHigherWithoutOtherSignal(t *testing.T) {
	matches := []Match{{Occurrence: Occurrence{Kind: Definition, Confidence: 1}}}
	assert.Greater(t, Contribution(matches, false), Contribution(matches, true))
}

func TestContributionCompoundsSubLinearly(t *testing.T) {
	one := []Match{{Occurrence: Occurrence{Kind: Definition, Confidence: 1}}}
	two := []Match{
		{Occurrence: Occurrence{Kind: Definition, Confidence: 1}},
		{Occurrence: Occurrence{Kind: Definition, Confidence: 1}},
	}

	c1 := Contribution(one, true)
	c2 := Contribution(two, true)
	assert.Greater(t, c2, c1)
	assert.Less(t, c2, 2*c1)
}

func TestParseQueryExplicitBacktickLiteral(t *testing.T) {
	pq := ParseQuery("what does `hashPassword` do")
	assert.Equal(t, []string{"hashPassword"}, pq.Literals)
	assert.NotContains(t, pq.Residual, "hashPassword")
}

func TestParseQueryImplicitCamelCase(t *testing.T) {
	pq := ParseQuery("where is validateUserSession called")
	assert.Contains(t, pq.Literals, "validateUserSession")
}

func TestParseQueryScreamingSnakeCase(t *testing.T) {
	pq := ParseQuery("find AUTH_SERVICE_GRPC_URL in env files")
	assert.Contains(t, pq.Literals, "AUTH_SERVICE_GRPC_URL")
}

func TestParseQueryNoLiterals(t *testing.T) {
	pq := ParseQuery("how do i configure logging")
	assert.Empty(t, pq.Literals)
	assert.Equal(t, "how do i configure logging", pq.Residual)
}

func TestRoundTripSerialization(t *testing.T) {
	idx := New()
	idx.Add("foo", Occurrence{ChunkID: "c1", FilePath: "a.go", Kind: Definition, Confidence: 1, Line: 3})

	data, err := json.Marshal(idx)
	require.NoError(t, err)

	reloaded := New()
	require.NoError(t, json.Unmarshal(data, reloaded))

	assert.Equal(t, idx.BuildMatchMap([]string{"foo"}), reloaded.BuildMatchMap([]string{"foo"}))
}
