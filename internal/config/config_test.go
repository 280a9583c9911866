package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, int64(50*1024*1024), cfg.MaxUploadSize)
	assert.Equal(t, "./tessdata", cfg.TessdataPrefix)
	assert.Equal(t, []string{"eng"}, cfg.OCRLanguages)
	assert.Equal(t, 300, cfg.RenderDPI)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, 5*time.Minute, cfg.WriteTimeout)
	assert.False(t, cfg.OTelEnabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PDF2WORD_PORT", "9090")
	t.Setenv("PDF2WORD_OCR_LANGUAGES", "eng, deu")
	t.Setenv("PDF2WORD_RENDER_DPI", "150")
	t.Setenv("PDF2WORD_WRITE_TIMEOUT", "45s")
	t.Setenv("UNIDOC_LICENSE_API_KEY", "metered-key")

	cfg, err := Load(New())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"eng", "deu"}, cfg.OCRLanguages)
	assert.Equal(t, 150, cfg.RenderDPI)
	assert.Equal(t, 45*time.Second, cfg.WriteTimeout)
	assert.Equal(t, "metered-key", cfg.UnidocLicenseKey)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "zero dpi", key: "PDF2WORD_RENDER_DPI", value: "0"},
		{name: "negative upload size", key: "PDF2WORD_MAX_UPLOAD_SIZE", value: "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load(New())
			assert.Error(t, err)
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"7070\"\nocr_languages:\n  - eng\n  - fra\nrender_dpi: 200\n"), 0o644))

	v := New()
	require.NoError(t, ReadFile(v, path))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.Port)
	assert.Equal(t, []string{"eng", "fra"}, cfg.OCRLanguages)
	assert.Equal(t, 200, cfg.RenderDPI)
}

func TestReadFile_MissingDefaultIsIgnored(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	assert.NoError(t, ReadFile(New(), ""))
}

func TestReadFile_MissingExplicitFails(t *testing.T) {
	assert.Error(t, ReadFile(New(), filepath.Join(t.TempDir(), "absent.yaml")))
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PDF2WORD_LOG_LEVEL=debug\n"), 0o644))
	t.Setenv("PDF2WORD_LOG_LEVEL", "")
	require.NoError(t, os.Unsetenv("PDF2WORD_LOG_LEVEL"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))

	cfg, err := Load(New())
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}
