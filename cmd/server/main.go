// Package main is the entry point for the pdf-to-word service and CLI.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/sanjeevkumarraob/pdf-to-word-service/internal/config"
	"github.com/sanjeevkumarraob/pdf-to-word-service/internal/document"
	"github.com/sanjeevkumarraob/pdf-to-word-service/internal/document/ocr"
	"github.com/sanjeevkumarraob/pdf-to-word-service/internal/document/render"
	"github.com/sanjeevkumarraob/pdf-to-word-service/internal/document/word"
	"github.com/sanjeevkumarraob/pdf-to-word-service/internal/telemetry"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg is populated before any subcommand runs
var cfg *config.Config

// flagKeys maps command line flags onto config keys
var flagKeys = map[string]string{
	"port":      "port",
	"log-level": "log_level",
	"tessdata":  "tessdata_prefix",
	"dpi":       "render_dpi",
}

var rootCmd = &cobra.Command{
	Use:   "pdf-to-word",
	Short: "Convert PDF documents to Word, with OCR for scanned files",
	Long: `pdf-to-word converts PDF files to DOCX. Text PDFs are converted directly;
PDFs that carry embedded images are rasterized and run through Tesseract OCR.

Run "serve" for the HTTP API and upload page, or "convert" for local files.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdf-to-word.yaml)")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("tessdata", "", "directory holding Tesseract *.traineddata files")
	rootCmd.PersistentFlags().Int("dpi", 0, "resolution scanned pages are rendered at")
}

// loadConfig layers defaults, the config file, the environment and any
// flags the user actually set
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, err
	}

	v := config.New()

	cfgFile, _ := cmd.Flags().GetString("config")
	if err := config.ReadFile(v, cfgFile); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var bindErr error
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if key, ok := flagKeys[f.Name]; ok && bindErr == nil {
			bindErr = v.BindPFlag(key, f)
		}
	})
	if bindErr != nil {
		return nil, bindErr
	}

	return config.Load(v)
}

// newConverter builds the conversion pipeline shared by serve and convert
func newConverter(cfg *config.Config, logger *logrus.Logger, metrics *telemetry.Metrics) (*document.Converter, error) {
	opts := []document.Option{document.WithMetrics(metrics)}
	if cfg.UnidocLicenseKey != "" {
		if err := word.SetLicenseKey(cfg.UnidocLicenseKey); err != nil {
			return nil, err
		}
		opts = append(opts, document.WithWriter(func() document.Writer { return word.NewWriter() }))
		logger.Debug("Encoding DOCX with unioffice")
	} else {
		logger.Debug("No UniDoc license key configured; encoding DOCX with go-docx")
	}

	processor := ocr.NewProcessor(ocr.Config{
		TessdataPrefix: cfg.TessdataPrefix,
		Languages:      cfg.OCRLanguages,
		DPI:            cfg.RenderDPI,
	})
	if err := processor.CheckData(); err != nil {
		logger.WithError(err).Warn("Tesseract data missing; scanned PDFs will fail to convert")
	}

	return document.NewConverter(
		render.NewRenderer(cfg.RenderDPI),
		processor,
		logger,
		opts...,
	), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
