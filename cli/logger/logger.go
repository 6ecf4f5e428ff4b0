package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

type Options struct {
	LogLevel  string `doc:"log from debug, info, warn or error"`
	LogFile   string `doc:"append logs to file, - for stdout, /dev/null to discard"`
	LogFormat string `doc:"format logs as text or json"                              default:"text"`
}

var levels = map[string]slog.Level{ //nolint: gochecknoglobals // lookup table
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

type newHandler = func(io.Writer, *slog.HandlerOptions) slog.Handler

var formats = map[string]newHandler{ //nolint: gochecknoglobals // lookup table
	"text": func(w io.Writer, o *slog.HandlerOptions) slog.Handler { return slog.NewTextHandler(w, o) },
	"json": func(w io.Writer, o *slog.HandlerOptions) slog.Handler { return slog.NewJSONHandler(w, o) },
}

// New builds the logger described by options. Unusable options are reset to
// their defaults and reported as warnings through the returned logger.
func New(options *Options) *slog.Logger {
	return build(options, os.Stdout)
}

func build(options *Options, stdout io.Writer) *slog.Logger {
	type warning struct {
		msg  string
		attr slog.Attr
	}
	var warnings []warning

	handlerOpts := &slog.HandlerOptions{}
	if options.LogLevel != "" {
		level, ok := levels[strings.ToLower(options.LogLevel)]
		if ok {
			handlerOpts.Level = level
		} else {
			warnings = append(warnings, warning{"could not parse logger level", slog.String("level", options.LogLevel)})
			options.LogLevel = ""
		}
	}

	format, ok := formats[strings.ToLower(options.LogFormat)]
	if !ok {
		warnings = append(warnings, warning{"could not parse logger format", slog.String("format", options.LogFormat)})
		options.LogFormat = "text"
		format = formats["text"]
	}

	var output io.Writer
	switch options.LogFile {
	case "", "-":
		output = stdout
	case os.DevNull:
		return slog.New(slog.DiscardHandler)
	default:
		file, err := os.OpenFile(options.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			warnings = append(warnings, warning{"could not open logger file", slog.Any("err", err)})
			options.LogFile = ""
			output = stdout
		} else {
			output = file
		}
	}

	logger := slog.New(format(output, handlerOpts))
	for _, w := range warnings {
		logger.LogAttrs(context.Background(), slog.LevelWarn, w.msg, w.attr)
	}
	return logger
}
