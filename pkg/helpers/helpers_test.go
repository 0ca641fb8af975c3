package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("abcdef")
	require.NoError(t, err)
	assert.NotEqual(t, "abcdef", hash)
	assert.True(t, CompareHashAndPassword(hash, "abcdef"))
	assert.False(t, CompareHashAndPassword(hash, "abcdeg"))

	again, err := HashPassword("abcdef")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "salt must differ per hash")
}

func TestGravatarURL(t *testing.T) {
	want := "https://www.gravatar.com/avatar/743173788aa9166801df2e18f0e7ff24?s=200&r=pg&d=mm"
	assert.Equal(t, want, GravatarURL("a@x.com"))
	assert.Equal(t, want, GravatarURL("  A@X.com "))
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"  ", ""},
		{"example.com", "https://example.com"},
		{"http://example.com/a", "http://example.com/a"},
		{"HTTPS://Example.com", "HTTPS://Example.com"},
		{"twitter.com/bob", "https://twitter.com/bob"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeURL(tt.in), tt.in)
	}
}
