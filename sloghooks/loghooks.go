// Package sloghooks reports texcache events through log/slog.
package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/texcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	QueuedEvery   uint64
	SelfHealEvery uint64
	StaleEvery    uint64
	// Optional key redactor for storage keys. Defaults to a SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	queuedCtr   atomic.Uint64
	selfHealCtr atomic.Uint64
	staleCtr    atomic.Uint64
}

var _ texcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n <= 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) FetchQueued(key string) {
	if h.l == nil || !sample(h.opts.QueuedEvery, &h.queuedCtr) {
		return
	}
	h.l.Debug("texcache.fetch_queued", "key", key)
}

func (h *Hooks) FetchFailed(key string, stage texcache.Stage, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("texcache.fetch_failed",
		"key", key,
		"stage", string(stage),
		"err", err)
}

func (h *Hooks) StaleDiscarded(key string) {
	if h.l == nil || !sample(h.opts.StaleEvery, &h.staleCtr) {
		return
	}
	h.l.Debug("texcache.stale_discarded", "key", key)
}

func (h *Hooks) FramesReady(key string, frames int) {
	if h.l == nil {
		return
	}
	h.l.Info("texcache.frames_ready",
		"key", key,
		"frames", frames)
}

func (h *Hooks) RealizeFailed(key string, index int, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("texcache.realize_failed",
		"key", key,
		"index", index,
		"err", err)
}

func (h *Hooks) SourceSelfHeal(storageKey, reason string) {
	if h.l == nil || !sample(h.opts.SelfHealEvery, &h.selfHealCtr) {
		return
	}
	h.l.Debug("texcache.source_self_heal",
		"key", h.redact(storageKey),
		"reason", reason)
}

func (h *Hooks) SourceSetRejected(storageKey string) {
	if h.l == nil {
		return
	}
	h.l.Warn("texcache.source_set_rejected", "key", h.redact(storageKey))
}

func (h *Hooks) GenSnapshotError(storageKey string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("texcache.gen_snapshot_error",
		"key", h.redact(storageKey),
		"err", err)
}

func (h *Hooks) GenBumpError(storageKey string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("texcache.gen_bump_error",
		"key", h.redact(storageKey),
		"err", err)
}

func (h *Hooks) InvalidateOutage(key string, bumpErr, delErr error) {
	if h.l == nil {
		return
	}
	h.l.Error("texcache.invalidate_outage",
		"key", key,
		"bump_err", bumpErr,
		"del_err", delErr)
}
