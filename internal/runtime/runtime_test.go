package runtime

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stillpoint/breathe/internal/output"
)

// =============================================================================
// Context Tests
// =============================================================================

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	assert.NotEmpty(t, opts.DBPath)
	assert.False(t, opts.InMemory)
	assert.Equal(t, output.FormatCLI, opts.Format)
	assert.Equal(t, output.ColorAuto, opts.ColorMode)
	assert.False(t, opts.Debug)
}

func TestNew(t *testing.T) {
	ctx, err := New(Options{InMemory: true})
	require.NoError(t, err)
	defer ctx.Close()

	assert.NotNil(t, ctx.DB)
	assert.NotNil(t, ctx.Formatter)
	assert.NotNil(t, ctx.PatternRepo)
	assert.NotNil(t, ctx.SessionRepo)
	assert.NotNil(t, ctx.StatsRepo)
	assert.NotNil(t, ctx.AchievementRepo)
	assert.NotNil(t, ctx.ReminderRepo)
	assert.NotNil(t, ctx.WebhookRepo)
	assert.NotNil(t, ctx.ConfigRepo)
}

func TestNewWithOptions(t *testing.T) {
	ctx, err := New(Options{
		InMemory:  true,
		Format:    output.FormatJSON,
		ColorMode: output.ColorNever,
		Debug:     true,
	})
	require.NoError(t, err)
	defer ctx.Close()

	assert.Equal(t, output.FormatJSON, ctx.Formatter.Format)
	assert.Equal(t, output.ColorNever, ctx.Formatter.ColorMode)
	assert.True(t, ctx.Debug)
}

func TestNewWithEnvVariable(t *testing.T) {
	os.Setenv("BREATHE_DATABASE", ":memory:")
	defer os.Unsetenv("BREATHE_DATABASE")

	ctx, err := New(Options{})
	require.NoError(t, err)
	defer ctx.Close()

	assert.NotNil(t, ctx.DB)
}

func TestNewWithEnvVariablePath(t *testing.T) {
	dbPath := t.TempDir() + "/breathe-test.db"

	os.Setenv("BREATHE_DATABASE", dbPath)
	defer os.Unsetenv("BREATHE_DATABASE")

	ctx, err := New(Options{})
	require.NoError(t, err)
	defer ctx.Close()

	assert.NotNil(t, ctx.DB)
	assert.Equal(t, dbPath, ctx.DB.Path())
}

func TestContextClose(t *testing.T) {
	ctx, err := New(Options{InMemory: true})
	require.NoError(t, err)

	err = ctx.Close()
	assert.NoError(t, err)

	// Closing nil DB should be safe
	nilCtx := &Context{}
	err = nilCtx.Close()
	assert.NoError(t, err)
}

func TestContextUserKey(t *testing.T) {
	ctx, err := New(Options{InMemory: true})
	require.NoError(t, err)
	defer ctx.Close()

	key, err := ctx.UserKey()
	require.NoError(t, err)
	assert.NotEmpty(t, key)

	// Stable across calls
	again, err := ctx.UserKey()
	require.NoError(t, err)
	assert.Equal(t, key, again)
}

func TestContextFormatters(t *testing.T) {
	ctx, err := New(Options{InMemory: true})
	require.NoError(t, err)
	defer ctx.Close()

	assert.NotNil(t, ctx.CLIFormatter())
	assert.NotNil(t, ctx.JSONFormatter())
}

func TestContextIsJSON(t *testing.T) {
	t.Run("json_format", func(t *testing.T) {
		ctx, err := New(Options{InMemory: true, Format: output.FormatJSON})
		require.NoError(t, err)
		defer ctx.Close()

		assert.True(t, ctx.IsJSON())
		assert.False(t, ctx.IsCLI())
	})

	t.Run("cli_format", func(t *testing.T) {
		ctx, err := New(Options{InMemory: true, Format: output.FormatCLI})
		require.NoError(t, err)
		defer ctx.Close()

		assert.False(t, ctx.IsJSON())
		assert.True(t, ctx.IsCLI())
	})
}

func TestContextDebugf(t *testing.T) {
	t.Run("debug_enabled", func(t *testing.T) {
		var buf bytes.Buffer
		ctx, err := New(Options{InMemory: true, Debug: true})
		require.NoError(t, err)
		defer ctx.Close()

		ctx.Formatter.Writer = &buf
		ctx.Debugf("test message %s", "arg1")

		assert.Contains(t, buf.String(), "[DEBUG]")
		assert.Contains(t, buf.String(), "test message arg1")
	})

	t.Run("debug_disabled", func(t *testing.T) {
		var buf bytes.Buffer
		ctx, err := New(Options{InMemory: true, Debug: false})
		require.NoError(t, err)
		defer ctx.Close()

		ctx.Formatter.Writer = &buf
		ctx.Debugf("test message")

		assert.Empty(t, buf.String())
	})
}
