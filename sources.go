package texcache

import (
	"context"
	"errors"
	"time"

	c "github.com/unkn0wn-root/texcache/codec"
	gen "github.com/unkn0wn-root/texcache/genstore"
	"github.com/unkn0wn-root/texcache/internal/util"
	"github.com/unkn0wn-root/texcache/internal/wire"
	"github.com/unkn0wn-root/texcache/origin"
	pr "github.com/unkn0wn-root/texcache/provider"
	"github.com/unkn0wn-root/texcache/source"
)

// sources keeps fetched bytes of remote origins in a Provider. Records are
// framed with the generation observed before the fetch; a read whose frame
// generation differs from the current one is stale and deleted.
type sources struct {
	ns       string
	provider pr.Provider
	codec    c.Codec[source.Blob]
	gen      gen.Store
	ttl      time.Duration
	cost     SetCostFunc
	log      Logger
	hooks    Hooks
}

func newSources(opts Options, log Logger, hooks Hooks) (*sources, error) {
	if opts.Provider == nil {
		return nil, nil
	}
	s := &sources{
		ns:       coalesce(opts.Namespace, DefaultNamespace),
		provider: opts.Provider,
		codec:    opts.Codec,
		gen:      opts.GenStore,
		ttl:      coalesce(opts.SourceTTL, defaultSourceTTL),
		cost:     opts.ComputeSetCost,
		log:      log,
		hooks:    hooks,
	}
	if s.codec == nil {
		cb, err := c.NewCBOR[source.Blob](false)
		if err != nil {
			return nil, err
		}
		s.codec = cb
	}
	if s.gen == nil {
		s.gen = gen.NewLocal(
			coalesce(opts.CleanupInterval, defaultSweep),
			coalesce(opts.GenRetention, defaultGenRetention),
		)
	}
	if s.cost == nil {
		s.cost = func(_ string, raw []byte) int64 { return int64(len(raw)) }
	}
	return s, nil
}

// caches reports whether o goes through the source cache. Local files and
// inline payloads are already cheap to read.
func (s *sources) caches(o origin.Origin) bool {
	return s != nil && o.Kind() == origin.KindURL
}

func (s *sources) storageKey(o origin.Origin) string {
	return util.HashedKey("src:"+s.ns, o.Fingerprint())
}

func (s *sources) get(ctx context.Context, k string) (source.Blob, bool) {
	raw, ok, err := s.provider.Get(ctx, k)
	if err != nil {
		s.log.Warn("source cache get failed", Fields{"key": k, "err": err})
		return source.Blob{}, false
	}
	if !ok {
		return source.Blob{}, false
	}
	g, payload, err := wire.DecodeSource(raw)
	if err != nil {
		s.selfHeal(ctx, k, "corrupt")
		return source.Blob{}, false
	}
	if g != s.snapshot(ctx, k) {
		s.selfHeal(ctx, k, "gen_mismatch")
		return source.Blob{}, false
	}
	b, err := s.codec.Decode(payload)
	if err != nil {
		s.selfHeal(ctx, k, "value_decode")
		return source.Blob{}, false
	}
	return b, true
}

// setWithGen writes b iff the generation is still obs.
func (s *sources) setWithGen(ctx context.Context, k string, b source.Blob, obs uint64) error {
	if s.snapshot(ctx, k) != obs {
		s.log.Debug("source write skipped (gen moved)", Fields{"key": k, "obs": obs})
		return nil
	}
	payload, err := s.codec.Encode(b)
	if err != nil {
		return err
	}
	raw := wire.EncodeSource(obs, payload)
	ok, err := s.provider.Set(ctx, k, raw, s.cost(k, raw), s.ttl)
	if err != nil {
		return err
	}
	if !ok {
		s.hooks.SourceSetRejected(k)
		s.log.Debug("source write rejected by provider", Fields{"key": k, "size": len(raw)})
	}
	return nil
}

// invalidate bumps the generation of o's record and deletes it. Either step
// alone hides the old bytes, so only a double failure is returned.
func (s *sources) invalidate(ctx context.Context, key string, o origin.Origin) error {
	if !s.caches(o) {
		return nil
	}
	k := s.storageKey(o)
	_, bumpErr := s.gen.Bump(ctx, k)
	if bumpErr != nil {
		s.hooks.GenBumpError(k, bumpErr)
	}
	delErr := s.provider.Del(ctx, k)
	switch {
	case bumpErr != nil && delErr != nil:
		s.hooks.InvalidateOutage(key, bumpErr, delErr)
		s.log.Error("source invalidate failed", Fields{"key": key, "bumpErr": bumpErr, "delErr": delErr})
		return &InvalidateError{Key: key, BumpErr: bumpErr, DelErr: delErr}
	case bumpErr != nil:
		s.log.Warn("gen bump failed; record deleted", Fields{"key": key, "err": bumpErr})
	case delErr != nil:
		s.log.Warn("delete failed; gen bumped", Fields{"key": key, "err": delErr})
	}
	return nil
}

// snapshot returns 0 on error; a write under 0 is then either dropped by
// setWithGen or self-heals on the next read.
func (s *sources) snapshot(ctx context.Context, k string) uint64 {
	g, err := s.gen.Snapshot(ctx, k)
	if err != nil {
		s.hooks.GenSnapshotError(k, err)
		s.log.Warn("gen snapshot error", Fields{"key": k, "err": err})
		return 0
	}
	return g
}

func (s *sources) selfHeal(ctx context.Context, k, reason string) {
	_ = s.provider.Del(ctx, k)
	s.hooks.SourceSelfHeal(k, reason)
	s.log.Debug("source record dropped", Fields{"key": k, "reason": reason})
}

func (s *sources) close(ctx context.Context) error {
	if s == nil {
		return nil
	}
	return errors.Join(s.gen.Close(ctx), s.provider.Close(ctx))
}
