package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnstampedBuildFallbacks(t *testing.T) {
	require.Equal(t, "devel", Version())
	require.Equal(t, "unknown", Commit())
}
