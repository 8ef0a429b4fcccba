package zap

import (
	"errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/unkn0wn-root/texcache"
)

func TestFieldsAndLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(zap.New(core))

	l.Info("frames ready", texcache.Fields{"key": "spin.gif", "frames": 3})
	l.Warn("realize failed", texcache.Fields{"err": errors.New("gpu busy"), "index": 2})

	if logs.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", logs.Len())
	}
	all := logs.AllUntimed()

	info := all[0]
	if info.Level != zapcore.InfoLevel || info.LoggerName != "texcache" {
		t.Fatalf("unexpected entry: %+v", info.Entry)
	}
	ctx := info.ContextMap()
	if ctx["key"] != "spin.gif" || ctx["frames"] != int64(3) {
		t.Fatalf("unexpected fields: %v", ctx)
	}

	warn := all[1]
	if warn.Context[0].Key != "err" || warn.Context[0].Type != zapcore.ErrorType {
		t.Fatalf("errors should be encoded as error fields, got %+v", warn.Context[0])
	}
	if warn.ContextMap()["err"] != "gpu busy" {
		t.Fatalf("unexpected err field: %v", warn.ContextMap())
	}
}

func TestDebugFilteredByCore(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	New(zap.New(core)).Debug("hidden", nil)
	if logs.Len() != 0 {
		t.Fatalf("debug should be filtered")
	}
}
