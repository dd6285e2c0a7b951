// Package log is the ambient logging facility. A *Logger is threaded
// explicitly through every collector/resolver/transport call rather than
// used as a package-level global, mirroring the `l.Debugf(...)` / `l *Logger`
// parameter idiom seen across terragrunt's config package.
package log

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is a thin, leveled wrapper around logrus.Entry.
type Logger struct {
	entry *logrus.Entry
}

// New returns a Logger that writes formatted text to w (os.Stderr if nil).
func New(w io.Writer) *Logger {
	if w == nil {
		w = os.Stderr
	}
	base := logrus.New()
	base.SetOutput(w)
	base.SetLevel(logrus.InfoLevel)
	base.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &Logger{entry: logrus.NewEntry(base)}
}

// SetLevel adjusts the minimum level that will be emitted.
func (l *Logger) SetLevel(level logrus.Level) {
	l.entry.Logger.SetLevel(level)
}

// WithField returns a derived Logger carrying an extra structured field,
// e.g. l.WithField("repository", repo.ID).
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.entry.Infof(format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.entry.Warnf(format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
