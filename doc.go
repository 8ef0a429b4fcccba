// Package texcache loads images from files, inline payloads and URLs on a
// background worker and serves the frame that should be on screen right now.
//
// Acquire is meant to be called once per image per render pass. It never
// blocks on I/O and never fails: until the first frame is decoded it returns
// the zero Handle. Animated sources start playing as soon as their first frame
// arrives and advance on their own per-frame delays.
//
// Components:
//   - origin: where bytes come from (file, path, payload, URL).
//   - source: opens a stream for an origin, HTTP for remote ones.
//   - frame: decodes a stream into frames (static or GIF sequences).
//   - Cache: per-key entries, the fetch queue and its single worker.
//   - Realizer: turns a frame into a backend resource, lazily and once.
//
// Fetched bytes for remote origins can be kept in a Provider (BigCache,
// Ristretto, Redis) so restarts and replicas skip the network. Those records
// carry a generation and are written with compare-and-swap:
//
//	obs := gen.Snapshot(k)  // before the fetch
//	b   := fetch(url)
//	setWithGen(k, b, obs)   // dropped if Invalidate bumped the gen meanwhile
//
// Keys:
//
//	src:<ns>:<hash>  - cached source bytes (hash of the origin fingerprint)
//	gen:<ns>:<key>   - generations, when using the Redis gen store
package texcache
