package main

import (
	"fmt"
	"net/http"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/texcache"
	"github.com/unkn0wn-root/texcache/codec"
	"github.com/unkn0wn-root/texcache/config"
	"github.com/unkn0wn-root/texcache/frame"
	"github.com/unkn0wn-root/texcache/genstore"
	pr "github.com/unkn0wn-root/texcache/provider"
	pbig "github.com/unkn0wn-root/texcache/provider/bigcache"
	predis "github.com/unkn0wn-root/texcache/provider/redis"
	prist "github.com/unkn0wn-root/texcache/provider/ristretto"
	"github.com/unkn0wn-root/texcache/source"
)

// buildOptions turns the config into cache options. The returned provider,
// if any, is owned by the cache and closed with it.
func buildOptions(cfg config.Config, tel *telemetry) (texcache.Options, error) {
	ns := cfg.Cache.Namespace
	if ns == "" {
		ns = texcache.DefaultNamespace
	}
	opts := texcache.Options{
		Namespace: ns,
		Logger:    tel.log,
		Hooks:     tel.hooks,
		Fetcher: &source.HTTPFetcher{
			Client:       &http.Client{Timeout: cfg.Fetch.Timeout.Duration},
			UserAgent:    cfg.Fetch.UserAgent,
			MaxRedirects: cfg.Fetch.MaxRedirects,
		},
		Decoder:        frame.Std{DefaultDelay: cfg.Decode.DefaultDelay.Duration},
		MaxSourceBytes: cfg.Cache.MaxSourceBytes,
	}

	sc := cfg.SourceCache
	if sc.Provider == "none" {
		return opts, nil
	}

	c, err := blobCodec(sc)
	if err != nil {
		return opts, err
	}
	opts.Codec = c
	opts.SourceTTL = sc.TTL.Duration

	var p pr.Provider
	switch sc.Provider {
	case "bigcache":
		p, err = pbig.New(pbig.Config{
			LifeWindow:         sc.TTL.Duration,
			Shards:             sc.BigCache.Shards,
			HardMaxCacheSizeMB: sc.BigCache.HardMaxMB,
		})
	case "ristretto":
		p, err = prist.New(prist.Config{
			NumCounters: sc.Ristretto.NumCounters,
			MaxCost:     sc.Ristretto.MaxCostMB << 20,
			BufferItems: 64,
		})
	case "redis":
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     sc.Redis.Addr,
			Password: sc.Redis.Password,
			DB:       sc.Redis.DB,
		})
		p, err = predis.New(predis.Config{Client: rdb, CloseClient: true})
		// share generations with every process using this Redis
		opts.GenStore = genstore.NewRedis(rdb, ns, sc.Redis.GenTTL.Duration)
	default:
		err = fmt.Errorf("unknown source cache provider %q", sc.Provider)
	}
	if err != nil {
		return opts, fmt.Errorf("source cache %s: %w", sc.Provider, err)
	}
	opts.Provider = p
	return opts, nil
}

func blobCodec(sc config.SourceCacheConfig) (codec.Codec[source.Blob], error) {
	var c codec.Codec[source.Blob]
	switch sc.Codec {
	case "cbor":
		cb, err := codec.NewCBOR[source.Blob](false)
		if err != nil {
			return nil, err
		}
		c = cb
	case "msgpack":
		c = codec.Msgpack[source.Blob]{}
	case "json":
		c = codec.JSON[source.Blob]{}
	case "proto":
		c = codec.Proto{}
	default:
		return nil, fmt.Errorf("unknown codec %q", sc.Codec)
	}
	if sc.MaxRecordBytes > 0 {
		c = codec.Limit[source.Blob]{Inner: c, MaxDecode: sc.MaxRecordBytes}
	}
	return c, nil
}
