package common

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("HTTP_ADDR", "")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.Server.HTTPAddr)
	assert.Equal(t, ":8081", cfg.Server.GRPCAddr)
	assert.Equal(t, int64(32<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, 5000, cfg.Server.PreviewChars)
	assert.Equal(t, 2*time.Minute, cfg.Server.RequestTimeout)
	assert.Equal(t, "auto", cfg.PDF.Backend)
	assert.Equal(t, "pdftotext", cfg.PDF.Pdftotext)
	assert.Empty(t, cfg.Lexicon.Path)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "estimator.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  http_addr: ":9000"
  preview_chars: 100
  request_timeout: 30s
pdf:
  backend: pdfcpu
log:
  format: json
`), 0o600))

	t.Setenv("HTTP_ADDR", ":9100")
	t.Setenv("PREVIEW_CHARS", "not-a-number")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.Server.HTTPAddr, "env wins over file")
	assert.Equal(t, 100, cfg.Server.PreviewChars, "bad env value keeps file value")
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "pdfcpu", cfg.PDF.Backend)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, ":8081", cfg.Server.GRPCAddr, "untouched keys keep defaults")
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.HTTPAddr = ""
	cfg.Server.PreviewChars = 0
	cfg.PDF.Backend = "tesseract"

	err := cfg.Validate()
	require.Error(t, err)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "CONFIG_ERROR", appErr.Code)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, appErr.Message, "HTTP_ADDR")
	assert.Contains(t, appErr.Message, "PREVIEW_CHARS")
	assert.Contains(t, appErr.Message, "PDF_BACKEND")
}
