// Cinerec - Movie Recommendation Scoring Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package logging

import (
	"context"
	"log/slog"

	"github.com/rs/zerolog"
)

// slogBridge is an slog.Handler writing through zerolog. Attributes added
// with WithAttrs are baked into the zerolog context once.
type slogBridge struct {
	logger zerolog.Logger
	prefix string
}

// NewSlogHandler returns an slog.Handler backed by logger, for libraries
// that only accept *slog.Logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewSlogHandler(logger zerolog.Logger) slog.Handler {
	return &slogBridge{logger: logger}
}

// NewSlogLogger returns an *slog.Logger on the global logger tagged with
// component.
func NewSlogLogger(component string) *slog.Logger {
	return slog.New(NewSlogHandler(WithComponent(component)))
}

func (h *slogBridge) Enabled(_ context.Context, level slog.Level) bool {
	l := zerologLevel(level)
	return l >= h.logger.GetLevel() && l >= zerolog.GlobalLevel()
}

//nolint:gocritic // slog.Record is passed by value per slog.Handler interface
func (h *slogBridge) Handle(_ context.Context, r slog.Record) error {
	fields := make(map[string]any, r.NumAttrs())
	r.Attrs(func(a slog.Attr) bool {
		flatten(fields, h.prefix, a)
		return true
	})
	h.logger.WithLevel(zerologLevel(r.Level)).Fields(fields).Msg(r.Message)
	return nil
}

func (h *slogBridge) WithAttrs(attrs []slog.Attr) slog.Handler {
	fields := make(map[string]any, len(attrs))
	for _, a := range attrs {
		flatten(fields, h.prefix, a)
	}
	return &slogBridge{logger: h.logger.With().Fields(fields).Logger(), prefix: h.prefix}
}

func (h *slogBridge) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &slogBridge{logger: h.logger, prefix: h.prefix + name + "."}
}

// flatten writes a into fields, joining group names with dots.
func flatten(fields map[string]any, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range v.Group() {
			flatten(fields, prefix, ga)
		}
		return
	}
	if a.Key == "" {
		return
	}
	fields[prefix+a.Key] = v.Any()
}

func zerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level >= slog.LevelError:
		return zerolog.ErrorLevel
	case level >= slog.LevelWarn:
		return zerolog.WarnLevel
	case level >= slog.LevelInfo:
		return zerolog.InfoLevel
	case level >= slog.LevelDebug:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}
