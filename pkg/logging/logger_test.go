package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixWriter_PrefixesCompleteLines(t *testing.T) {
	var out bytes.Buffer
	pw := NewPrefixWriter("> ", &out)

	n, err := pw.Write([]byte("first\nsec"))
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	assert.Equal(t, "> first\n", out.String())

	_, err = pw.Write([]byte("ond\n"))
	require.NoError(t, err)
	assert.Equal(t, "> first\n> second\n", out.String())
}

func TestNewLogger_WritesPrefixedLines(t *testing.T) {
	t.Setenv("GEN3SAVE_JSON_LOG", "")
	var out bytes.Buffer
	logger := NewLogger("gen3save-test", "debug", &out)
	logger.Info("loaded save", "slot", "A")

	line := out.String()
	assert.True(t, strings.HasPrefix(line, "💾 "), "missing prefix: %q", line)
	assert.Contains(t, line, "loaded save")
	assert.Contains(t, line, "slot=A")
}

func TestGetLogLevel_Default(t *testing.T) {
	t.Setenv("GEN3SAVE_LOG_LEVEL", "")
	assert.Equal(t, "warn", GetLogLevel())

	t.Setenv("GEN3SAVE_LOG_LEVEL", "trace")
	assert.Equal(t, "trace", GetLogLevel())
}

func TestOrNull(t *testing.T) {
	assert.NotNil(t, OrNull(nil))
}

func TestPrefixWriter_Flush(t *testing.T) {
	var out bytes.Buffer
	pw := NewPrefixWriter("# ", &out)
	_, err := pw.Write([]byte("no newline"))
	require.NoError(t, err)
	assert.Empty(t, out.String())

	require.NoError(t, pw.Flush())
	assert.Equal(t, "# no newline", out.String())
	require.NoError(t, pw.Flush())
	assert.Equal(t, "# no newline", out.String())
}

func TestNewLogger_Defaults(t *testing.T) {
	t.Setenv("GEN3SAVE_JSON_LOG", "")
	var out bytes.Buffer
	logger := NewLogger("", "loud", &out)
	assert.Equal(t, DefaultName, logger.Name())
	assert.True(t, logger.IsWarn(), "unknown levels fall back to warn")
	assert.False(t, logger.IsInfo())
}

func TestValidLevel(t *testing.T) {
	for _, level := range Levels {
		assert.True(t, ValidLevel(level), level)
	}
	assert.True(t, ValidLevel(" DEBUG "))
	assert.False(t, ValidLevel("verbose"))
	assert.False(t, ValidLevel(""))
}

func TestFor(t *testing.T) {
	var out bytes.Buffer
	parent := NewLogger("", "info", &out)
	assert.Equal(t, "gen3save.backup", For(parent, "backup").Name())
	assert.Equal(t, "gen3save", For(parent, "").Name())

	quiet := For(nil, "savemgr")
	require.NotNil(t, quiet)
	quiet.Error("dropped")
	assert.Empty(t, out.String())
}
