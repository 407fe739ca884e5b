/*
 *    Copyright (c) 2025 Unrud <unrud@outlook.com>
 *
 *    This file is part of eitype.
 *
 *    eitype is free software: you can redistribute it and/or modify
 *    it under the terms of the GNU General Public License as published by
 *    the Free Software Foundation, either version 3 of the License, or
 *    (at your option) any later version.
 *
 *    eitype is distributed in the hope that it will be useful,
 *    but WITHOUT ANY WARRANTY; without even the implied warranty of
 *    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 *    GNU General Public License for more details.
 *
 *    You should have received a copy of the GNU General Public License
 *    along with eitype.  If not, see <http://www.gnu.org/licenses/>.
 */

// Package logging sets up the slog logger of eitype.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Level = slog.Level

const (
	// LevelTrace logs every key event.
	LevelTrace = slog.LevelDebug - 4
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

type Format int

const (
	FormatText Format = iota
	FormatJSON
)

type Config struct {
	Level  Level
	Format Format
	// Output defaults to os.Stderr.
	Output io.Writer
}

func DefaultConfig() *Config {
	return &Config{
		Level:  LevelWarn,
		Format: FormatText,
		Output: os.Stderr,
	}
}

func New(cfg *Config) *slog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	opts := &slog.HandlerOptions{
		Level: cfg.Level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey && len(groups) == 0 {
				if level, ok := a.Value.Any().(slog.Level); ok {
					a.Value = slog.StringValue(strings.ToUpper(LevelString(level)))
				}
			}
			return a
		},
	}
	var handler slog.Handler
	if cfg.Format == FormatJSON {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}
	return slog.New(handler)
}

// Setup creates a logger and makes it the slog default.
func Setup(cfg *Config) *slog.Logger {
	logger := New(cfg)
	slog.SetDefault(logger)
	return logger
}

// FromVerbosity maps the number of -v flags to a level.
func FromVerbosity(verbosity int) Level {
	switch {
	case verbosity <= 0:
		return LevelWarn
	case verbosity == 1:
		return LevelInfo
	case verbosity == 2:
		return LevelDebug
	default:
		return LevelTrace
	}
}

func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelWarn, fmt.Errorf("unknown log level: %s", s)
	}
}

func LevelString(level Level) string {
	switch {
	case level <= LevelTrace:
		return "trace"
	case level <= LevelDebug:
		return "debug"
	case level <= LevelInfo:
		return "info"
	case level <= LevelWarn:
		return "warn"
	default:
		return "error"
	}
}

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatText, fmt.Errorf("unknown log format: %s", s)
	}
}
