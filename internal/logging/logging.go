// Package logging configures the process-wide logrus logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"strings"
	"sync"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Fields is an alias so callers don't import logrus for one type.
type Fields = logrus.Fields

// Options controls Setup.
type Options struct {
	Level    string // debug, info, warn, error; empty means info
	File     string // rotated log file, empty disables file output
	NoColors bool
	Caller   bool
}

var (
	mu     sync.RWMutex
	logger = newLogger(os.Stderr, logrus.InfoLevel, true, false)
)

func newLogger(out io.Writer, level logrus.Level, noColors, caller bool) *logrus.Logger {
	l := logrus.New()
	l.SetLevel(level)
	l.SetOutput(out)
	l.SetReportCaller(caller)
	l.SetFormatter(&formatter.Formatter{
		NoColors:        noColors,
		TimestampFormat: "2006-01-02 15:04:05",
		HideKeys:        false,
		CallerFirst:     true,
		CustomCallerFormatter: func(f *runtime.Frame) string {
			s := strings.Split(f.Function, ".")
			return fmt.Sprintf(" [%s:%d][%s()]", path.Base(f.File), f.Line, s[len(s)-1])
		},
	})
	return l
}

// Setup replaces the process logger. It returns a closer for the log file,
// which is a no-op when no file is configured.
func Setup(opts Options) (func() error, error) {
	level := logrus.InfoLevel
	if opts.Level != "" {
		parsed, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	writers := []io.Writer{os.Stderr}
	closer := func() error { return nil }
	if opts.File != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   opts.File,
			LocalTime:  true,
			Compress:   true,
			MaxSize:    100, // megabytes
			MaxAge:     7,
			MaxBackups: 3,
		}
		writers = append(writers, fileWriter)
		closer = fileWriter.Close
	}

	l := newLogger(io.MultiWriter(writers...), level, opts.NoColors || opts.File != "", opts.Caller)

	mu.Lock()
	logger = l
	mu.Unlock()
	return closer, nil
}

// SetOutput redirects the current logger, used by tests to capture output.
func SetOutput(w io.Writer) {
	Logger().SetOutput(w)
}

// Logger returns the process logger.
func Logger() *logrus.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debug(fields Fields, msg string) {
	Logger().WithFields(fields).Debug(msg)
}

func Info(fields Fields, msg string) {
	Logger().WithFields(fields).Info(msg)
}

func Warn(fields Fields, msg string) {
	Logger().WithFields(fields).Warn(msg)
}

func Error(fields Fields, msg string) {
	Logger().WithFields(fields).Error(msg)
}
