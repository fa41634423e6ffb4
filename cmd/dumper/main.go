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

// Command dumper reads the extractor's framed stream from stdin and writes
// one file per field into the output directory. It exits 1 when the stream
// is malformed.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	pdfprocessor "github.com/overview/pdf-processor-go"
	"github.com/overview/pdf-processor-go/internal/config"
	"github.com/overview/pdf-processor-go/internal/observability"
)

var version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "dumper <output-directory>",
	Short: "Write an extractor stream to files",
	Long: `Dumper decodes the stream written by extractor and writes page-count,
p<N>.is-ocr, p<N>.png, p<N>.pdf, p<N>.txt and error.txt into the output
directory. Files written before a malformed record are kept.`,
	Version:       version,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
}

func init() {
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file path")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !pdfprocessor.IsStreamFormat(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(dir string) error {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Command: "dumper",
	})

	p := pdfprocessor.New(
		pdfprocessor.WithChunkSize(cfg.Stream.CopyBufferSize),
		pdfprocessor.WithLogger(logger),
	)
	return p.DumpDir(os.Stdin, dir)
}
