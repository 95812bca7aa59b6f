// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package logging wraps log/slog with the field names used across the
// convolution and DoG packages.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with pipeline-specific helpers.
type Logger struct {
	*slog.Logger
}

// New creates a Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func New(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs to w.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// ParseLevel maps "debug", "info", "warn" and "error" to a slog level.
// Unknown names map to info.
func ParseLevel(name string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

// With returns a Logger carrying the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// WithStrategy adds a strategy field to the logger.
func (l *Logger) WithStrategy(name string) *Logger {
	return l.With("strategy", name)
}

// WithRank adds a worker rank field to the logger.
func (l *Logger) WithRank(rank int) *Logger {
	return l.With("rank", rank)
}

// LogBlur logs a completed or failed blur.
func (l *Logger) LogBlur(ctx context.Context, width, height int, sigma float64, radius int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "blur failed",
			"width", width,
			"height", height,
			"sigma", sigma,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "blur completed",
		"width", width,
		"height", height,
		"sigma", sigma,
		"radius", radius,
		"elapsed", elapsed,
	)
}

// LogExchange logs one coordinator/worker round trip of the distributed
// strategy. Callers attach the worker rank with WithRank.
func (l *Logger) LogExchange(ctx context.Context, start, end, sent, received int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "row exchange failed",
			"rows_start", start,
			"rows_end", end,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "row exchange completed",
		"rows_start", start,
		"rows_end", end,
		"bytes_sent", sent,
		"bytes_received", received,
	)
}

// LogKeypoints logs the outcome of a full pipeline run.
func (l *Logger) LogKeypoints(ctx context.Context, count int, elapsed time.Duration) {
	l.InfoContext(ctx, "keypoints extracted",
		"count", count,
		"elapsed", elapsed,
	)
}
