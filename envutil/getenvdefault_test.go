package envutil

import (
	"os"
	"testing"

	"github.com/kiteco/streamal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setenv(t *testing.T, key, value string) {
	require.NoError(t, os.Setenv(key, value))
	t.Cleanup(func() { os.Unsetenv(key) })
}

func TestGetenvDefault(t *testing.T) {
	assert.Equal(t, "fallback", GetenvDefault("STREAMAL_TEST_UNSET", "fallback"))
	setenv(t, "STREAMAL_TEST_STR", "set")
	assert.Equal(t, "set", GetenvDefault("STREAMAL_TEST_STR", "fallback"))
}

func TestGetenvDefaultInt(t *testing.T) {
	v, err := GetenvDefaultInt("STREAMAL_TEST_UNSET", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, v)

	setenv(t, "STREAMAL_TEST_INT", "8")
	v, err = GetenvDefaultInt("STREAMAL_TEST_INT", 4)
	require.NoError(t, err)
	assert.Equal(t, 8, v)

	setenv(t, "STREAMAL_TEST_BAD", "eight")
	_, err = GetenvDefaultInt("STREAMAL_TEST_BAD", 4)
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
}

func TestGetenvDefaultFloat(t *testing.T) {
	setenv(t, "STREAMAL_TEST_FLOAT", "0.25")
	v, err := GetenvDefaultFloat("STREAMAL_TEST_FLOAT", 1)
	require.NoError(t, err)
	assert.Equal(t, 0.25, v)

	setenv(t, "STREAMAL_TEST_FLOAT", "lots")
	_, err = GetenvDefaultFloat("STREAMAL_TEST_FLOAT", 1)
	assert.Error(t, err)
}
