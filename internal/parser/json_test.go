package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractDotPaths(t *testing.T) {
	paths := ExtractDotPaths([]byte(`{"database":{"host":"x","port":5432},"servers":[{"name":"a"}]}`))
	assert.Contains(t, paths, "database")
	assert.Contains(t, paths, "database.host")
	assert.Contains(t, paths, "database.port")
	assert.Contains(t, paths, "servers")
	assert.Contains(t, paths, "servers.0")
	assert.Contains(t, paths, "servers.0.name")
}

func TestExtractDotPathsMalformedReturnsEmpty(t *testing.T) {
	paths := ExtractDotPaths([]byte(`{not valid json`))
	assert.Empty(t, paths)
}
