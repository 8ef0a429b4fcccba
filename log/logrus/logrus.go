// Package logrus adapts a logrus entry to texcache.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"

	"github.com/unkn0wn-root/texcache"
)

var _ texcache.Logger = Logger{}

type Logger struct{ E *logrus.Entry }

// New tags every record with component=texcache.
func New(l *logrus.Logger) Logger {
	return Logger{E: l.WithField("component", "texcache")}
}

func (l Logger) Debug(msg string, f texcache.Fields) { l.with(f).Debug(msg) }
func (l Logger) Info(msg string, f texcache.Fields)  { l.with(f).Info(msg) }
func (l Logger) Warn(msg string, f texcache.Fields)  { l.with(f).Warn(msg) }
func (l Logger) Error(msg string, f texcache.Fields) { l.with(f).Error(msg) }

// with moves an "err" field to logrus' own error key.
func (l Logger) with(f texcache.Fields) *logrus.Entry {
	if len(f) == 0 {
		return l.E
	}
	lf := make(logrus.Fields, len(f))
	for k, v := range f {
		if k == "err" {
			k = logrus.ErrorKey
		}
		lf[k] = v
	}
	return l.E.WithFields(lf)
}
