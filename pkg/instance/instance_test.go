package instance

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetIDPrefersExplicitID(t *testing.T) {
	t.Setenv("POTIONSHOP_INSTANCE_ID", "api-7")
	t.Setenv("DYNO", "web.1")
	require.Equal(t, "api-7", GetID())
}

func TestGetIDFallsBackToDyno(t *testing.T) {
	t.Setenv("POTIONSHOP_INSTANCE_ID", "")
	t.Setenv("DYNO", "web.1")
	require.Equal(t, "web.1", GetID())
}

func TestGetIDNeverEmpty(t *testing.T) {
	t.Setenv("POTIONSHOP_INSTANCE_ID", "")
	t.Setenv("DYNO", "")
	require.NotEmpty(t, GetID())
}
