package styler

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// loggerSink is the default Sink: informational lines go to the primary output
// writer, everything else through the structured logger (the diagnostic stream).
type loggerSink struct {
	out    io.Writer
	logger *slog.Logger
}

// NewLoggerSink builds a Sink writing informational lines to out and diagnostics
// through the given handler. A nil out defaults to stdout.
func NewLoggerSink(out io.Writer, loggerHandler slog.Handler) Sink {
	if out == nil {
		out = os.Stdout
	}
	if loggerHandler == nil {
		loggerHandler = slog.NewTextHandler(io.Discard, nil)
	}
	return &loggerSink{
		out:    out,
		logger: slog.New(loggerHandler).With(slog.String("component", "sink")),
	}
}

func (s *loggerSink) EmitDebug(msg string) {
	s.logger.Debug(msg)
}

func (s *loggerSink) EmitInfo(msg string) {
	fmt.Fprintln(s.out, msg)
}

func (s *loggerSink) EmitWarn(msg string) {
	s.logger.Warn(msg)
}

func (s *loggerSink) EmitFault(err error, verbose bool) {
	if err == nil {
		return
	}
	if verbose {
		s.logger.Error("fault", slog.String("error", fmt.Sprintf("%+v", err)))
		return
	}
	s.logger.Error("fault", slog.String("error", err.Error()))
}
