package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateRandomString(t *testing.T) {
	t.Run("length and charset", func(t *testing.T) {
		value, err := generateRandomString(codeGenerationLength)
		require.NoError(t, err)
		require.Len(t, value, codeGenerationLength)
		for _, r := range value {
			require.True(t, strings.ContainsRune(alphanumerics, r), "unexpected character %q", r)
		}
	})

	t.Run("no repeats across generations", func(t *testing.T) {
		seen := make(map[string]struct{})
		for i := 0; i < 200; i++ {
			value, err := generateRandomString(codeGenerationLength)
			require.NoError(t, err)
			_, dup := seen[value]
			require.False(t, dup, "duplicate random value %q", value)
			seen[value] = struct{}{}
		}
	})
}
