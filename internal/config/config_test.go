package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TAGFILE_DB_PATH", "")
	t.Setenv("TAGFILE_DELIMITER", "")
	t.Setenv("TAGFILE_WORKERS", "")
	t.Setenv("TAGFILE_EXTENSIONS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.DBPath)
	assert.Equal(t, '\n', cfg.Delimiter)
	assert.Equal(t, 0, cfg.Workers)
	assert.Equal(t, []string{".tags"}, cfg.Extensions)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TAGFILE_DB_PATH", "/tmp/indices")
	t.Setenv("TAGFILE_DELIMITER", ";")
	t.Setenv("TAGFILE_WORKERS", "4")
	t.Setenv("TAGFILE_EXTENSIONS", ".tags,.taglist")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/indices", cfg.DBPath)
	assert.Equal(t, ';', cfg.Delimiter)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, []string{".tags", ".taglist"}, cfg.Extensions)
}

func TestLoadInvalidDelimiter(t *testing.T) {
	t.Setenv("TAGFILE_DELIMITER", "::")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single character")
}

func TestLoadUnicodeDelimiter(t *testing.T) {
	t.Setenv("TAGFILE_DELIMITER", "§")
	t.Setenv("TAGFILE_WORKERS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, '§', cfg.Delimiter)
}

func TestLoadInvalidWorkers(t *testing.T) {
	t.Setenv("TAGFILE_DELIMITER", "")
	t.Setenv("TAGFILE_WORKERS", "abc")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TAGFILE_WORKERS")
}

func TestLoadNegativeWorkers(t *testing.T) {
	t.Setenv("TAGFILE_DELIMITER", "")
	t.Setenv("TAGFILE_WORKERS", "-2")

	_, err := Load()
	require.Error(t, err)
}

func TestParseExtensions(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"single", ".tags", []string{".tags"}},
		{"multiple", ".tags,.taglist", []string{".tags", ".taglist"}},
		{"missing dot added", "tags,txt", []string{".tags", ".txt"}},
		{"blanks dropped", ".tags, ,.txt,", []string{".tags", ".txt"}},
		{"whitespace trimmed", " .tags , .txt ", []string{".tags", ".txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseExtensions(tt.input))
		})
	}
}
