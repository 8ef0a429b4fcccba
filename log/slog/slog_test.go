package slog

import (
	"bytes"
	"encoding/json"
	stdslog "log/slog"
	"strings"
	"testing"

	"github.com/unkn0wn-root/texcache"
)

func TestJSONRecord(t *testing.T) {
	var buf bytes.Buffer
	l := New(stdslog.New(stdslog.NewJSONHandler(&buf, &stdslog.HandlerOptions{Level: stdslog.LevelDebug})))

	l.Debug("fetch queued", texcache.Fields{"key": "icon", "origin": "file:/tmp/icon.png"})

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("bad json %q: %v", buf.String(), err)
	}
	if rec["msg"] != "fetch queued" || rec["level"] != "DEBUG" {
		t.Fatalf("unexpected record: %v", rec)
	}
	if rec["key"] != "icon" || rec["component"] != "texcache" {
		t.Fatalf("missing fields: %v", rec)
	}
}

func TestAttrsSorted(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{L: stdslog.New(stdslog.NewTextHandler(&buf, nil))}
	l.Info("x", texcache.Fields{"b": 2, "a": 1, "c": 3})

	out := buf.String()
	ia, ib, ic := strings.Index(out, "a=1"), strings.Index(out, "b=2"), strings.Index(out, "c=3")
	if ia < 0 || !(ia < ib && ib < ic) {
		t.Fatalf("attributes not in key order: %q", out)
	}
}

func TestLevelGate(t *testing.T) {
	var buf bytes.Buffer
	l := Logger{L: stdslog.New(stdslog.NewTextHandler(&buf, nil))} // Info and up
	l.Debug("hidden", texcache.Fields{"k": "v"})
	if buf.Len() != 0 {
		t.Fatalf("debug record written: %q", buf.String())
	}
}
