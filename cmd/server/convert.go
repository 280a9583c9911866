package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sanjeevkumarraob/pdf-to-word-service/internal/document"
	"github.com/sanjeevkumarraob/pdf-to-word-service/internal/document/extractor"
	"github.com/sanjeevkumarraob/pdf-to-word-service/internal/logging"
)

var convertCmd = &cobra.Command{
	Use:   "convert <input.pdf>",
	Short: "Convert a local PDF file to DOCX",
	Long: `Convert runs a local PDF through the same pipeline as the HTTP API and writes
the result next to the input, or to the path given with --output. With --print
the paragraphs of the produced document are echoed to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringP("output", "o", "", "output path (default: input name with .docx)")
	convertCmd.Flags().Bool("print", false, "print the converted paragraphs")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]
	output, _ := cmd.Flags().GetString("output")
	if output == "" {
		output = outputPath(input)
	}
	printParagraphs, _ := cmd.Flags().GetBool("print")

	logger := logging.NewWithOutput(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)

	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := document.ReadUpload(f, cfg.MaxUploadSize)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	converter, err := newConverter(cfg, logger, nil)
	if err != nil {
		return err
	}

	result, err := converter.Convert(cmd.Context(), data)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	if err := os.WriteFile(output, result.Data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s -> %s (%s, %d pages)\n", input, output, result.Mode(), result.Pages)

	if printParagraphs {
		paragraphs, err := extractor.NewWordExtractor().Paragraphs(cmd.Context(), result.Data)
		if err != nil {
			return fmt.Errorf("read back %s: %w", output, err)
		}
		for _, p := range paragraphs {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
	}

	return nil
}

// outputPath swaps the input's extension for .docx
func outputPath(input string) string {
	ext := filepath.Ext(input)
	if strings.EqualFold(ext, ".docx") {
		return input + ".docx"
	}
	return strings.TrimSuffix(input, ext) + ".docx"
}
