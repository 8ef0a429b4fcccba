package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/lmittmann/tint"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/texcache"
	"github.com/unkn0wn-root/texcache/config"
	asynchook "github.com/unkn0wn-root/texcache/hooks/async"
	tlogrus "github.com/unkn0wn-root/texcache/log/logrus"
	tslog "github.com/unkn0wn-root/texcache/log/slog"
	tzap "github.com/unkn0wn-root/texcache/log/zap"
	"github.com/unkn0wn-root/texcache/sloghooks"
)

// telemetry is the logger and hooks handed to the cache plus their teardown.
type telemetry struct {
	log   texcache.Logger
	hooks texcache.Hooks
	close func()
}

func slogLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}

// newTelemetry builds the configured logger backend writing to w. Hook events
// always go through slog (tint) and are delivered asynchronously.
func newTelemetry(cfg config.LogConfig, w io.Writer) (*telemetry, error) {
	level := slogLevel(cfg.Level)
	sl := slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    w == io.Discard,
	}))

	t := &telemetry{close: func() {}}
	switch cfg.Backend {
	case "tint":
		t.log = tslog.New(sl)
	case "zap":
		zl, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.AddSync(w),
			zl,
		)
		z := zap.New(core)
		t.log = tzap.New(z)
		t.close = func() { _ = z.Sync() }
	case "logrus":
		ll, err := logrus.ParseLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		lg := logrus.New()
		lg.SetOutput(w)
		lg.SetLevel(ll)
		t.log = tlogrus.New(lg)
	default:
		return nil, fmt.Errorf("unknown log backend %q", cfg.Backend)
	}

	hooks := asynchook.New(sloghooks.New(sl, sloghooks.Options{QueuedEvery: 10}), 1, 1024)
	t.hooks = hooks
	logClose := t.close
	t.close = func() {
		hooks.Close()
		logClose()
	}
	return t, nil
}
