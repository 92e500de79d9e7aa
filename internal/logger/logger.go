package logger

import (
	"io"
	"os"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// log is read lock-free on every store operation.
var log atomic.Pointer[logrus.Logger]

// LogLevel represents the logging level
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
	PanicLevel LogLevel = "panic"
	FatalLevel LogLevel = "fatal"
)

// Level maps a LogLevel to its logrus level. Unknown names fall back to info.
func (l LogLevel) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(string(l))
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// Init initializes the logger with the specified level, writing to stderr
// so that command output on stdout stays clean.
func Init(level LogLevel) {
	InitWithOutput(level, os.Stderr)
}

// InitWithOutput initializes the logger with the specified level and writer.
func InitWithOutput(level LogLevel, out io.Writer) {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	l.SetLevel(level.Level())

	log.Store(l)
}

// Get returns the logger instance. Library callers that never configure
// logging get a quiet logger.
func Get() *logrus.Logger {
	if l := log.Load(); l != nil {
		return l
	}
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.PanicLevel)
	if log.CompareAndSwap(nil, l) {
		return l
	}
	return log.Load()
}

// Debugf logs a formatted debug message
func Debugf(format string, args ...interface{}) {
	Get().Debugf(format, args...)
}

// Warnf logs a formatted warning message
func Warnf(format string, args ...interface{}) {
	Get().Warnf(format, args...)
}

// WithField returns a logger with a field
func WithField(key string, value interface{}) *logrus.Entry {
	return Get().WithField(key, value)
}

// WithFields returns a logger with multiple fields
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Get().WithFields(fields)
}
