package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_HasSubcommands(t *testing.T) {
	root := newRootCmd()

	serve, _, err := root.Find([]string{"serve"})
	require.NoError(t, err)
	assert.Equal(t, "serve", serve.Name())
	assert.NotNil(t, serve.Flags().Lookup("addr"))

	migrate, _, err := root.Find([]string{"migrate"})
	require.NoError(t, err)
	assert.Equal(t, "migrate", migrate.Name())
}

func TestMigrateCmd_RejectsMemoryDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "memory")
	root := newRootCmd()
	root.SetArgs([]string{"migrate", "--env-file", filepath.Join(t.TempDir(), "missing.env")})

	err := root.Execute()
	assert.ErrorContains(t, err, "nothing to migrate")
}

func TestServeCmd_InvalidConfig(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	root := newRootCmd()
	root.SetArgs([]string{"serve", "--env-file", filepath.Join(t.TempDir(), "missing.env")})

	err := root.Execute()
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")
}
