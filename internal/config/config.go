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

// Package config loads the processor configuration: built-in defaults, an
// optional YAML file, then environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const envPrefix = "PDF_PROCESSOR_"

type Config struct {
	Log     LogConfig     `yaml:"log"`
	Extract ExtractConfig `yaml:"extract"`
	Pdfium  PdfiumConfig  `yaml:"pdfium"`
	Stream  StreamConfig  `yaml:"stream"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

type ExtractConfig struct {
	MaxThumbnailDimension int `yaml:"max_thumbnail_dimension"`
	MaxTextChars          int `yaml:"max_text_chars"`
}

type PdfiumConfig struct {
	InstanceTimeout time.Duration `yaml:"instance_timeout"`
	MaxInstances    int           `yaml:"max_instances"`
}

type StreamConfig struct {
	CopyBufferSize int `yaml:"copy_buffer_size"`
}

// Load reads configuration from path, which may be empty.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Extract: ExtractConfig{
			MaxThumbnailDimension: 700,
			MaxTextChars:          100000,
		},
		Pdfium: PdfiumConfig{
			InstanceTimeout: 30 * time.Second,
			MaxInstances:    1,
		},
		Stream: StreamConfig{
			CopyBufferSize: 1024 * 1024,
		},
	}
}

func (c *Config) Validate() error {
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}

	if c.Extract.MaxThumbnailDimension < 1 {
		return fmt.Errorf("max_thumbnail_dimension must be positive")
	}

	if c.Extract.MaxTextChars < 1 {
		return fmt.Errorf("max_text_chars must be positive")
	}

	if c.Pdfium.InstanceTimeout <= 0 {
		return fmt.Errorf("pdfium instance_timeout must be positive")
	}

	if c.Pdfium.MaxInstances < 1 {
		return fmt.Errorf("pdfium max_instances must be at least 1")
	}

	if c.Stream.CopyBufferSize < 1 {
		return fmt.Errorf("copy_buffer_size must be positive")
	}

	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if v := getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = strings.ToLower(v)
	}

	if err := intFromEnv("MAX_THUMBNAIL_DIMENSION", &cfg.Extract.MaxThumbnailDimension); err != nil {
		return err
	}

	if err := intFromEnv("MAX_TEXT_CHARS", &cfg.Extract.MaxTextChars); err != nil {
		return err
	}

	if v := getenv("PDFIUM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse %sPDFIUM_TIMEOUT: %w", envPrefix, err)
		}
		cfg.Pdfium.InstanceTimeout = d
	}

	return intFromEnv("COPY_BUFFER_SIZE", &cfg.Stream.CopyBufferSize)
}

func getenv(name string) string {
	return strings.TrimSpace(os.Getenv(envPrefix + name))
}

func intFromEnv(name string, dst *int) error {
	v := getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parse %s%s: %w", envPrefix, name, err)
	}
	*dst = n
	return nil
}
