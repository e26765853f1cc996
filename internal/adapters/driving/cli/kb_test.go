package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/scour/internal/core/domain"
)

func TestKBCmd_HasSubcommands(t *testing.T) {
	commands := kbCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "count")
	assert.Contains(t, commandNames, "preview")
}

func TestKBCountCmd_PrintsStoredCount(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := knowledgeStore.Upsert(context.Background(), []domain.UpsertRow{
		{ContentHash: "abc", Content: "body", Title: "t"},
	})
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"kb", "count"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err = rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "1 documents stored")
}

func TestKBPreviewCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"kb", "preview"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestKBPreviewCmd_ReportsWithoutWriting(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"kb", "preview", "goroutine leak"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "[dry run] would upsert 1 documents")
	assert.Contains(t, buf.String(), "How to test things")

	n, err := knowledgeStore.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n, "preview must not write")
}
