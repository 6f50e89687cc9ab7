package cmdutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marmos91/defrag/internal/cli/output"
	"github.com/marmos91/defrag/pkg/disk"
)

func withFlags(t *testing.T, f GlobalFlags) {
	t.Helper()
	saved := *Flags
	*Flags = f
	t.Cleanup(func() { *Flags = saved })
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func TestInputName(t *testing.T) {
	assert.Equal(t, StdinName, InputName(nil))
	assert.Equal(t, StdinName, InputName([]string{"-"}))
	assert.Equal(t, "map.txt", InputName([]string{"map.txt"}))
}

func TestReadDisk(t *testing.T) {
	t.Run("Stdin", func(t *testing.T) {
		d, err := ReadDisk(strings.NewReader("12345\n"), nil)
		require.NoError(t, err)
		assert.Equal(t, int64(15), d.Size())
	})

	t.Run("File", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "map.txt")
		require.NoError(t, os.WriteFile(path, []byte("2333133121414131402"), 0644))

		d, err := ReadDisk(strings.NewReader("ignored"), []string{path})
		require.NoError(t, err)
		assert.Equal(t, 10, d.Files())
	})

	t.Run("MalformedNamesInput", func(t *testing.T) {
		_, err := ReadDisk(strings.NewReader("1a"), []string{"-"})
		require.ErrorIs(t, err, disk.ErrMalformedInput)
		assert.True(t, strings.HasPrefix(err.Error(), "stdin: "))
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := ReadDisk(nil, []string{filepath.Join(t.TempDir(), "nope")})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		withFlags(t, GlobalFlags{})
		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "INFO", cfg.Logging.Level)
		assert.Equal(t, "table", cfg.Output.Format)
	})

	t.Run("FlagsWin", func(t *testing.T) {
		withFlags(t, GlobalFlags{LogLevel: "warning", Output: "yml"})
		t.Setenv("DEFRAG_LOGGING_LEVEL", "DEBUG")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "WARN", cfg.Logging.Level)
		assert.Equal(t, "yaml", cfg.Output.Format)
	})

	t.Run("BadFlags", func(t *testing.T) {
		withFlags(t, GlobalFlags{LogLevel: "chatty"})
		_, err := LoadConfig()
		assert.ErrorContains(t, err, "invalid --log-level")

		withFlags(t, GlobalFlags{Output: "xml"})
		_, err = LoadConfig()
		assert.ErrorContains(t, err, "invalid output format")
	})
}

func TestNewPrinter(t *testing.T) {
	withFlags(t, GlobalFlags{Output: "json"})
	cfg, err := LoadConfig()
	require.NoError(t, err)

	var buf bytes.Buffer
	p, err := NewPrinter(&buf, cfg)
	require.NoError(t, err)
	assert.Equal(t, output.FormatJSON, p.Format())
	assert.False(t, p.ColorEnabled(), "buffers are never colored")
}
