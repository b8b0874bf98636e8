package secmem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRelease_WipesBuffer(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	// mlock may be refused in constrained environments; the wipe must happen regardless.
	_ = Lock(b)
	_ = Release(b)
	require.Equal(t, []byte{0, 0, 0, 0}, b)
}

func TestLock_EmptyIsNoop(t *testing.T) {
	require.NoError(t, Lock(nil))
	require.NoError(t, Release(nil))
}
