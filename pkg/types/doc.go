// Package types defines the shared data model for pattern discovery:
// test patterns, component descriptors, and search queries.
//
// A Pattern is a reusable test strategy descriptor. Its identity (ID and
// feature vector) is immutable after creation; only per-query score fields
// and the usage/success counters owned by the pattern store ever change.
//
// # Pattern Identity
//
// Pattern IDs are derived from a content hash when not supplied externally:
//
//	p := types.NewPattern("button", "Tap and verify state", "tap_assert")
//	// p.ID == sha256(component_type + description + test_strategy)
//
// Two patterns built from the same content always share an ID, which makes
// upserts into the pattern store idempotent.
//
// # Query Contexts
//
// Search queries carry a QueryContext (mobile, web, api, performance,
// accessibility, general) that selects the vocabulary used for external
// query expansion and relevance scoring.
package types
