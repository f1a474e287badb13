package module

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Scenario 5 (spec.md ยง8): a query in plain English must overlap with a
// camelCase identifier's constituent words after stemming.
func TestVocabularyOverlapSplitsCamelCase(t *testing.T) {
	overlap := vocabularyOverlap(
		"where is the user session validated",
		"func validateUserSession(ctx context.Context) error {",
	)
	assert.Greater(t, overlap, 0.0)
}

func TestStemmedSetSplitsCamelAndSnakeCase(t *testing.T) {
	set := stemmedSet("validateUserSession and check_auth_token")
	assert.True(t, set["user"])
	assert.True(t, set["session"])
	assert.True(t, set["auth"])
	assert.True(t, set["token"])
}
