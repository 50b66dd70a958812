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

// Package logging provides the logging setup of ucsbind.
// It uses log/slog as the standard library logger and bridges it to logr
// for controller-runtime compatibility.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	ctrl "sigs.k8s.io/controller-runtime"
)

// RunIDKey is the attribute identifying every log line of a single run.
const RunIDKey = "runID"

// Options configures the logger behavior.
type Options struct {
	// Development enables development mode logging (human-readable text instead of JSON).
	Development bool

	// Level sets the minimum log level. Defaults to slog.LevelInfo.
	Level slog.Level

	// Output is where logs are written. Defaults to os.Stderr.
	Output io.Writer
}

// DefaultOptions returns the default logging options.
func DefaultOptions() Options {
	return Options{
		Development: false,
		Level:       slog.LevelInfo,
		Output:      os.Stderr,
	}
}

// Setup configures both the standard library slog logger and controller-runtime logger.
// This must be called early in main() before using any logging or controller-runtime features.
//
// Every record carries a RunIDKey attribute holding a fresh UUID, which is returned alongside the logger.
func Setup(opts Options) (logr.Logger, uuid.UUID) {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	handlerOpts := &slog.HandlerOptions{Level: opts.Level}

	var handler slog.Handler
	if opts.Development {
		handler = slog.NewTextHandler(out, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(out, handlerOpts)
	}

	runID := uuid.New()
	handler = handler.WithAttrs([]slog.Attr{slog.String(RunIDKey, runID.String())})

	slog.SetDefault(slog.New(handler))

	// controller-runtime logs through the same handler.
	logger := logr.FromSlogHandler(handler)
	ctrl.SetLogger(logger)

	return logger, runID
}

// ParseLevel converts "debug", "info", "warn" or "error" into a slog.Level. An empty string means info.
func ParseLevel(level string) (slog.Level, error) {
	if level == "" {
		return slog.LevelInfo, nil
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("parsing log level %q: %w", level, err)
	}

	return l, nil
}
