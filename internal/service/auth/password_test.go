package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	t.Parallel()

	hasher := NewBcryptHasher()

	hash, err := hasher.Hash("correct horse battery")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.NoError(t, hasher.Compare(hash, "correct horse battery"))
	assert.Error(t, hasher.Compare(hash, "wrong password"))
}
