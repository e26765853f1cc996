package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheCmd_HasSubcommands(t *testing.T) {
	commands := cacheCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "stats")
	assert.Contains(t, commandNames, "clear")
	assert.Contains(t, commandNames, "cleanup")
}

func TestCacheStatsCmd_PrintsCounters(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	resultCache.Set("search", "k", "v", 0)
	resultCache.Get("search", "k")
	resultCache.Get("search", "missing")

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"cache", "stats"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "entries:  1")
	assert.Contains(t, buf.String(), "hits:     1")
	assert.Contains(t, buf.String(), "misses:   1")
	assert.Contains(t, buf.String(), "hit rate: 50.0%")
}

func TestCacheClearCmd_ReportsRemovedCount(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	resultCache.Set("search", "a", 1, 0)
	resultCache.Set("search", "b", 2, 0)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"cache", "clear"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "removed 2 entries")
}

func TestCacheCleanupCmd_ReportsSweptCount(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"cache", "cleanup"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "removed 0 expired entries")
}
