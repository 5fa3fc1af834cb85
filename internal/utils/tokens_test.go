package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomHex(t *testing.T) {
	a, err := RandomHex(0)
	require.NoError(t, err)
	assert.Len(t, a, 64)

	b, err := RandomHex(8)
	require.NoError(t, err)
	assert.Len(t, b, 16)
	assert.NotEqual(t, a[:16], b)
}
