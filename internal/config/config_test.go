package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/tally/internal/amount"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tally.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Format = FormatConfig{DecimalSeparator: ",", GroupingSeparator: "."}
	cfg.Parse = ParseConfig{DefaultCurrency: "EUR", AutoDecimalPlace: true, StrictCurrency: true}
	cfg.LogLevel = "debug"

	path := filepath.Join(t.TempDir(), "tally.yaml")
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, amount.DefaultFormatConfig, cfg.FormatConfig())
	assert.Equal(t, amount.ParseOptions{DefaultCurrency: "USD"}, cfg.ParseOptions())
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FillsMissingKeys(t *testing.T) {
	path := writeConfig(t, "format:\n  decimal_separator: \",\"\n  grouping_separator: \" \"\nparse:\n  auto_decimal_place: true\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, amount.FormatConfig{DecimalSeparator: ",", GroupingSeparator: " "}, cfg.FormatConfig())
	assert.Equal(t, "USD", cfg.Parse.DefaultCurrency)
	assert.True(t, cfg.Parse.AutoDecimalPlace)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_GitAuthor(t *testing.T) {
	cfg, err := Load(writeConfig(t, "git:\n  author_name: Pat Doe\n"))
	require.NoError(t, err)
	assert.Equal(t, GitConfig{AuthorName: "Pat Doe", AuthorEmail: "tally@localhost"}, cfg.Git)
}

func TestLoad_EmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestNoGrouping(t *testing.T) {
	cfg, err := Load(writeConfig(t, "format:\n  grouping_separator: none\n"))
	require.NoError(t, err)
	assert.Equal(t, amount.FormatConfig{DecimalSeparator: ".", GroupingSeparator: ""}, cfg.FormatConfig())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		want     string
	}{
		{"same separators", "format:\n  decimal_separator: \",\"\n", "must differ"},
		{"digit separator", "format:\n  decimal_separator: \"5\"\n", "invalid decimal separator"},
		{"long grouping", "format:\n  grouping_separator: \"__\"\n", "invalid grouping separator"},
		{"bad currency", "parse:\n  default_currency: US1\n", "invalid default currency"},
		{"bad level", "log_level: loud\n", "parsing log level"},
		{"not yaml", "format: [\n", "parsing config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.contents))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tally.yaml")
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "decimal_separator:")
	assert.Contains(t, contents, "default_currency: USD")
	assert.Contains(t, contents, "auto_decimal_place: false")
	assert.Contains(t, contents, "log_level: info")
}
