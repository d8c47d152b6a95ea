// Package embedder turns component feature text into fixed-length vectors.
//
// Two provider paths exist behind one interface:
//
//   - HTTPProvider calls an embeddings API (OpenAI-compatible wire format)
//     with a bearer credential.
//   - HashProvider derives a vector deterministically from two independent
//     hashes of the text and normalizes it to unit length. It needs no
//     network, no credential, and always succeeds.
//
// The Embedder facade wraps a real provider (when configured) with the hash
// fallback and a content-hash LRU cache. Callers never see an error from
// Embed: a missing credential, an unreachable API, or a timeout all degrade
// to the fallback vector, logged but not surfaced.
//
// # Determinism
//
// The fallback is idempotent by construction: identical text always yields
// a bit-identical vector. The cache preserves the same guarantee for the
// real provider path within a process.
//
// # Provider Selection
//
//	PATTERNSCOUT_EMBEDDING_API_KEY set -> HTTP provider with hash fallback
//	otherwise                          -> hash fallback only
//
// PATTERNSCOUT_EMBEDDING_URL overrides the API endpoint for self-hosted
// gateways and tests.
package embedder
