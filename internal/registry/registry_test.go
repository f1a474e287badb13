package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsFirstWriteWins(t *testing.T) {
	r := New()
	r.Register("core", func() any { return "first" })
	r.Register("core", func() any { return "second" })

	v, ok := r.New("core")
	require.True(t, ok)
	assert.Equal(t, "first", v)
}

func TestIDsPreservesRegistrationOrder(t *testing.T) {
	r := New()
	r.Register("core", func() any { return nil })
	r.Register("data/json", func() any { return nil })
	r.Register("docs/markdown", func() any { return nil })

	assert.Equal(t, []string{"core", "data/json", "docs/markdown"}, r.IDs())
}

func TestResolveOrdersAndFiltersToRegistered(t *testing.T) {
	r := New()
	r.Register("core", func() any { return nil })
	r.Register("docs/markdown", func() any { return nil })

	resolved, err := r.Resolve([]string{"docs/markdown", "core"})
	require.NoError(t, err)
	assert.Equal(t, []string{"docs/markdown", "core"}, resolved)
}

func TestResolveErrorsOnUnknownID(t *testing.T) {
	r := New()
	r.Register("core", func() any { return nil })

	_, err := r.Resolve([]string{"core", "nonexistent"})
	assert.Error(t, err)
}
