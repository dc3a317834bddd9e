// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// VerboseEnv enables debug logging when set to "1".
const VerboseEnv = "MG_VERBOSE"

// New builds a console logger writing to w at the given level.
// Unknown or empty levels fall back to warn.
func New(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// Verbose reports whether MG_VERBOSE requests debug output.
func Verbose() bool {
	return os.Getenv(VerboseEnv) == "1"
}
