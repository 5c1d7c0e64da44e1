package main

import (
	"bytes"
	"testing"

	"minimarket/config"
	"minimarket/db"
	"minimarket/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestConfigCheckStatic(t *testing.T) {
	out := execute(t, "config", "check")
	assert.Contains(t, out, "origen: static")
	assert.Contains(t, out, "OK")
}

func TestModulesCommand(t *testing.T) {
	out := execute(t, "modules")
	assert.Contains(t, out, "MODULE")
	assert.Regexp(t, `categorias\s+create,delete,list,update\s+categorias`, out)
	assert.Regexp(t, `ventas\s+list\s+`, out)
}

func TestRegistrySelection(t *testing.T) {
	conn, err := db.Connect(config.Configuration{Database: "sqlite3", DbPath: ":memory:"}, logger.Nop())
	require.NoError(t, err)
	defer conn.Close()
	store := db.NewStore(conn, logger.Nop())

	assert.Equal(t, "procedures", registry(config.Configuration{Statements: "procedures"}, store).Name())
	assert.Equal(t, "portable", registry(config.Configuration{Statements: "portable"}, store).Name())
}
