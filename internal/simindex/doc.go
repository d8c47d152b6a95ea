// Package simindex stores pattern feature vectors and answers top-K
// cosine-similarity queries.
//
// Two implementations share one contract:
//
//   - BackendIndex delegates to an external nearest-neighbor service over
//     HTTP (Qdrant-compatible REST shape).
//   - MemoryIndex holds every vector in memory and computes cosine
//     similarity directly. Ties are broken by insertion order.
//
// FailoverIndex wraps both: writes mirror into the in-memory fallback, and
// a failing backend search is transparently retried once against the
// fallback instead of propagating the error.
//
// An empty index returns an empty result set, never an error. A dimension
// mismatch between stored and query vectors is reported, since it indicates
// an upstream embedding misconfiguration rather than an environmental
// condition.
package simindex
