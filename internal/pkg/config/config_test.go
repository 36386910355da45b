package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reset(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	reset(t)

	cfg, err := Load([]string{"--config", writeConfig(t, "log:\n  level: debug\n")})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, SourceFile, cfg.Dataset.Source)
	assert.Equal(t, "INFO", cfg.Dataset.Schema.Info.Table)
	assert.Equal(t, "NILAI", cfg.Dataset.Schema.Observations.Value)

	limit, err := cfg.Server.UploadLimitBytes()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, limit, int64(10_000_000))
}

func TestLoad_FileAndEnv(t *testing.T) {
	reset(t)
	t.Setenv("KEUDA_ADMIN_SECRET", "from-env")
	t.Setenv("KEUDA_SERVER_ADDR", ":9090")

	path := writeConfig(t, `
dataset:
  source: github
  schema:
    trends:
      table: TREND
      entity: PEMDA
      indicator: INDIKATOR
      value: STATUS
github:
  repo: pemda/keuda
  path: data/data.xlsx
  branch: main
`)

	cfg, err := Load([]string{"--config", path})
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "from-env", cfg.Admin.Secret)
	assert.Equal(t, SourceGithub, cfg.Dataset.Source)
	assert.True(t, cfg.Github.Enabled())
	assert.Equal(t, "STATUS", cfg.Dataset.Schema.Trends.Value)
	assert.Equal(t, "INFO", cfg.Dataset.Schema.Info.Table, "schema defaults survive partial overrides")
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown source":        "dataset:\n  source: ftp\n",
		"html without url":      "dataset:\n  source: html\n",
		"postgres without dsn":  "dataset:\n  source: postgres\n",
		"github without repo":   "dataset:\n  source: github\n",
		"bad upload limit":      "server:\n  upload_limit: lots\n",
		"unknown log level":     "log:\n  level: chatty\n",
		"schema table left out": "dataset:\n  schema:\n    info:\n      table: \"\"\n",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			reset(t)
			_, err := Load([]string{"--config", writeConfig(t, body)})
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	reset(t)
	_, err := Load([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, err)
}
