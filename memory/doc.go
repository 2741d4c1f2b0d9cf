// Package memory implements the two-tier persistent recall store attached to
// a single agent.
//
// Short-term memory is a chronological buffer; once it exceeds the
// consolidation threshold, entries of importance >= 3 are copied into the
// curated long-term tier and the buffer is trimmed to its most recent
// entries, intentionally dropping older low-importance memories. Long-term
// memory is evicted by (importance, recency) when it outgrows its maximum
// size. A flat working-memory scratchpad sits outside both tiers and is
// never consolidated or evicted.
//
// All composite operations run under a single per-instance lock so
// concurrent callers never observe an inconsistent intermediate state. The
// store serializes to a standalone JSON document, independent of the message
// broker.
package memory
