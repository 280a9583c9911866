package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanjeevkumarraob/pdf-to-word-service/internal/document/word"
	"github.com/sanjeevkumarraob/pdf-to-word-service/internal/pdftest"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "pdf-to-word dev\n", stdout)
}

func TestConvertCommand_CorruptInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "broken.pdf")
	require.NoError(t, os.WriteFile(input, pdftest.Garbage(), 0o644))

	_, _, err := execute(t, "convert", input,
		"--env-file", filepath.Join(dir, "absent.env"),
		"--dpi", "150",
		"--log-level", "error",
	)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid or corrupt PDF file.")

	require.NotNil(t, cfg)
	assert.Equal(t, 150, cfg.RenderDPI)
	assert.Equal(t, "error", cfg.LogLevel)

	_, statErr := os.Stat(filepath.Join(dir, "broken.docx"))
	assert.True(t, os.IsNotExist(statErr), "no output is written for a failed conversion")
}

func TestConvertCommand_WithoutLicenseKey(t *testing.T) {
	t.Setenv("UNIDOC_LICENSE_API_KEY", "")
	t.Setenv("PDF2WORD_UNIDOC_LICENSE_KEY", "")

	dir := t.TempDir()
	input := filepath.Join(dir, "report.pdf")
	require.NoError(t, os.WriteFile(input, pdftest.Build(pdftest.Page{Lines: []string{"Quarterly report"}}), 0o644))

	stdout, _, err := execute(t, "convert", input, "--print",
		"--env-file", filepath.Join(dir, "absent.env"),
		"--log-level", "error",
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Quarterly report")

	data, err := os.ReadFile(filepath.Join(dir, "report.docx"))
	require.NoError(t, err)
	assert.True(t, word.HasSignature(data))
}

func TestConvertCommand_MissingInput(t *testing.T) {
	dir := t.TempDir()
	_, _, err := execute(t, "convert", filepath.Join(dir, "nope.pdf"), "--env-file", filepath.Join(dir, "absent.env"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "report.pdf", want: "report.docx"},
		{input: "scans/Invoice.PDF", want: "scans/Invoice.docx"},
		{input: "noext", want: "noext.docx"},
		{input: "already.docx", want: "already.docx.docx"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, outputPath(tt.input))
		})
	}
}
