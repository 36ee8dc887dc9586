package identifier

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewShape(t *testing.T) {
	for i := 0; i < 200; i++ {
		id, err := New("ABCD")
		require.NoError(t, err)
		require.Len(t, id, Length)
		require.True(t, strings.HasPrefix(id, "ABCD"))
		for _, r := range id {
			require.Contains(t, Charset, string(r))
		}
	}
}

func TestNewWithoutPrefix(t *testing.T) {
	id, err := New("")
	require.NoError(t, err)
	require.Len(t, id, Length)
}

func TestNewIsRandom(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id, err := New("ABCD")
		require.NoError(t, err)
		seen[id] = struct{}{}
	}
	// 36^6 suffixes; 100 draws colliding more than once is practically impossible.
	require.Greater(t, len(seen), 98)
}

func TestNewRejectsLongPrefix(t *testing.T) {
	_, err := New("ABCDEFGHIJ")
	require.Error(t, err)
}
