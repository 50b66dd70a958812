//go:build unit

/*
Copyright 2024 Alexandre Mahdhaoui

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package logging_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandremahdhaoui/ucsbind/internal/util/logging"
)

func TestSetup(t *testing.T) {
	defaultLogger := slog.Default()
	t.Cleanup(func() { slog.SetDefault(defaultLogger) })

	buf := new(bytes.Buffer)
	logger, runID := logging.Setup(logging.Options{Level: slog.LevelInfo, Output: buf})

	slog.Info("from slog", "key", "value")
	slog.Debug("filtered out")
	logger.Info("from logr")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	for i, expected := range []string{"from slog", "from logr"} {
		record := make(map[string]any)
		require.NoError(t, json.Unmarshal(lines[i], &record))
		assert.Equal(t, expected, record["msg"])
		assert.Equal(t, runID.String(), record[logging.RunIDKey])
	}
}

func TestParseLevel(t *testing.T) {
	for _, tt := range []struct {
		input    string
		expected slog.Level
		wantErr  bool
	}{
		{input: "", expected: slog.LevelInfo},
		{input: "debug", expected: slog.LevelDebug},
		{input: "INFO", expected: slog.LevelInfo},
		{input: "warn", expected: slog.LevelWarn},
		{input: "error", expected: slog.LevelError},
		{input: "verbose", expected: slog.LevelInfo, wantErr: true},
	} {
		t.Run(tt.input, func(t *testing.T) {
			actual, err := logging.ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, actual)
		})
	}
}
