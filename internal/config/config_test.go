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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, 700, cfg.Extract.MaxThumbnailDimension)
	assert.Equal(t, 100000, cfg.Extract.MaxTextChars)
	assert.Equal(t, 1024*1024, cfg.Stream.CopyBufferSize)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
  format: console
extract:
  max_thumbnail_dimension: 300
pdfium:
  instance_timeout: 5s
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 300, cfg.Extract.MaxThumbnailDimension)
	assert.Equal(t, 100000, cfg.Extract.MaxTextChars, "unset keys keep defaults")
	assert.Equal(t, 5*time.Second, cfg.Pdfium.InstanceTimeout)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "extract:\n  max_text_chars: 10\n")
	t.Setenv("PDF_PROCESSOR_MAX_TEXT_CHARS", "20")
	t.Setenv("PDF_PROCESSOR_PDFIUM_TIMEOUT", "1m")
	t.Setenv("PDF_PROCESSOR_LOG_FORMAT", "CONSOLE")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20, cfg.Extract.MaxTextChars)
	assert.Equal(t, time.Minute, cfg.Pdfium.InstanceTimeout)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
		want string
	}{
		{name: "bad yaml", body: "log: [", want: "parse config file"},
		{name: "bad format", body: "log:\n  format: xml\n", want: "invalid log format"},
		{name: "zero dimension", body: "extract:\n  max_thumbnail_dimension: 0\n", want: "max_thumbnail_dimension"},
		{name: "bad env int", env: map[string]string{"PDF_PROCESSOR_COPY_BUFFER_SIZE": "big"}, want: "PDF_PROCESSOR_COPY_BUFFER_SIZE"},
		{name: "bad env duration", env: map[string]string{"PDF_PROCESSOR_PDFIUM_TIMEOUT": "soon"}, want: "PDF_PROCESSOR_PDFIUM_TIMEOUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.body != "" {
				path = writeConfig(t, tt.body)
			}
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}
