package utils

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// InitLogger installs the default slog logger and returns a function that
// closes the log file, if any.
//   - with a file, plain text lines go to the file and the terminal stays free for the status line
//   - without a file, colored lines go to stderr
func InitLogger(level, file, runID string) (func(), error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	closer := func() {}
	var handler slog.Handler
	if file != "" {
		logFile, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		closer = func() { logFile.Close() }
		handler = textHandler(logFile, lvl)
	} else {
		handler = log.NewWithOptions(os.Stderr, log.Options{
			Level:           log.Level(lvl),
			ReportTimestamp: true,
			ReportCaller:    true,
			TimeFormat:      "15:04:05",
		})
	}

	logger := slog.New(handler)
	if runID != "" {
		logger = logger.With("run", runID)
	}
	slog.SetDefault(logger)
	return closer, nil
}

func textHandler(w io.Writer, lvl slog.Level) slog.Handler {
	return slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.Format("15:04:05"))
				}
			}
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok {
					file := source.File
					if lastSlash := strings.LastIndexByte(file, '/'); lastSlash >= 0 {
						file = file[lastSlash+1:]
					}
					a.Value = slog.StringValue(fmt.Sprintf("%s:%d", file, source.Line))
				}
			}
			return a
		},
	})
}
