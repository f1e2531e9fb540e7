package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	again, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadNormalizesPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
year: 2025
log_level: loud
markers:
  date: Date
ocr:
  url: https://example.apigw.ntruss.com/custom/v1/1/abc/general
  secret: s3cret
watch:
  names: [김지성]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2025, cfg.Year)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "Date", cfg.Markers.Date)
	assert.Equal(t, "포지션", cfg.Markers.Position)
	assert.Equal(t, "총 인원", cfg.Markers.Total)
	assert.Equal(t, "s3cret", cfg.OCR.Secret)
	assert.Equal(t, "ko", cfg.OCR.Lang)
	assert.Equal(t, 30*time.Second, cfg.OCR.Timeout())
	assert.Equal(t, []string{"김지성"}, cfg.Watch.Names)
	assert.Equal(t, "*/5 * * * *", cfg.Watch.Schedule)
	assert.Equal(t, "Asia/Seoul", cfg.Timezone)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("year: [1, 2"), 0o600))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.Year = 2026
	cfg.BasicAuth = &BasicAuthConfig{Username: "admin", Password: "pw"}

	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	assert.Error(t, Save(path, nil))
}

func TestEffectiveYear(t *testing.T) {
	cfg := DefaultConfig()
	now := time.Date(2025, 12, 31, 16, 0, 0, 0, time.UTC)

	cfg.Timezone = "UTC"
	assert.Equal(t, 2025, cfg.EffectiveYear(now))

	cfg.Year = 2024
	assert.Equal(t, 2024, cfg.EffectiveYear(now))
}
