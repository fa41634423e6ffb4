// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

// Command extractor reads a PDF and writes the framed page stream to stdout.
// It exits 0 whenever it got as far as producing a stream; failures are
// reported in the stream's Footer.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	pdfprocessor "github.com/overview/pdf-processor-go"
	"github.com/overview/pdf-processor-go/internal/config"
	"github.com/overview/pdf-processor-go/internal/observability"
)

var version = "dev"

var (
	cfgFile     string
	onlyExtract bool
)

var rootCmd = &cobra.Command{
	Use:   "extractor --only-extract=<true|false> <input-path>",
	Short: "Split a PDF into per-page text, thumbnails and single-page PDFs",
	Long: `Extractor opens a PDF and writes a framed binary stream to stdout: a
Header with the page count, one Page record per page, then a Footer that is
empty on success and carries the error message otherwise.`,
	Version:       version,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0], os.Stdout)
	},
}

func init() {
	rootCmd.Flags().BoolVar(&onlyExtract, "only-extract", false, "only extract text and a first-page thumbnail")
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file path")
	_ = rootCmd.MarkFlagRequired("only-extract")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, rootCmd.UsageString())
		os.Exit(1)
	}
}

// run writes a stream to stdout for every input, including a Footer-only
// stream when the configuration or the engine cannot be loaded. It returns
// nil once the arguments are parsed.
func run(path string, stdout io.Writer) error {
	_ = godotenv.Load()

	cfg, cfgErr := config.Load(cfgFile)
	if cfgErr != nil {
		cfg = config.DefaultConfig()
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Command: "extractor",
	})

	opts := []pdfprocessor.Option{
		pdfprocessor.WithOnlyExtract(onlyExtract),
		pdfprocessor.WithMaxThumbnailDimension(cfg.Extract.MaxThumbnailDimension),
		pdfprocessor.WithMaxTextChars(cfg.Extract.MaxTextChars),
		pdfprocessor.WithChunkSize(cfg.Stream.CopyBufferSize),
		pdfprocessor.WithLogger(logger),
	}

	if cfgErr != nil {
		logger.Error().Err(cfgErr).Msg("failed to load configuration")
		writeFailure(pdfprocessor.New(opts...), stdout, cfgErr, logger)
		return nil
	}

	engine, err := pdfprocessor.NewPdfiumEngine(pdfprocessor.PdfiumConfig{
		InstanceTimeout: cfg.Pdfium.InstanceTimeout,
		MaxInstances:    cfg.Pdfium.MaxInstances,
	})
	if err != nil {
		logger.Error().Err(err).Msg("failed to start rendering engine")
		writeFailure(pdfprocessor.New(opts...), stdout, err, logger)
		return nil
	}
	defer closeEngine(engine, logger)

	p := pdfprocessor.New(append(opts, pdfprocessor.WithEngine(engine))...)
	if err := p.Extract(path, stdout); err != nil {
		logger.Error().Err(err).Str("path", path).Msg("failed to write stream")
	}
	return nil
}

func writeFailure(p *pdfprocessor.Processor, w io.Writer, cause error, logger zerolog.Logger) {
	if err := p.ExtractFailure(w, cause); err != nil {
		logger.Error().Err(err).Msg("failed to write stream")
	}
}

func closeEngine(engine *pdfprocessor.PdfiumEngine, logger zerolog.Logger) {
	if err := engine.Close(); err != nil {
		logger.Warn().Err(err).Msg("failed to close rendering engine")
	}
}
