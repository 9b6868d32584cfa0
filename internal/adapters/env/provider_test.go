package env_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lode/internal/adapters/env"
)

func TestSnapshot_HostAttributesPresent(t *testing.T) {
	snapshot, err := env.New(nil).Snapshot()
	require.NoError(t, err)

	assert.NotEmpty(t, snapshot.Attr("os_name"))
	assert.NotEmpty(t, snapshot.Attr("sys_platform"))
	assert.NotEmpty(t, snapshot.Attr("platform_machine"))
}

func TestSnapshot_OverridesWin(t *testing.T) {
	provider := env.New(map[string]string{
		"sys_platform":   "win32",
		"python_version": "3.12",
	})

	snapshot, err := provider.Snapshot()
	require.NoError(t, err)

	assert.Equal(t, "win32", snapshot.Attr("sys_platform"))
	assert.Equal(t, "3.12", snapshot.Attr("python_version"))
}
