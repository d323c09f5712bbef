// Package turn orchestrates complete group-chat turns: one incoming user
// message in, an ordered set of character responses out.
//
// A turn runs mood updates (package mood), then scoring and partitioning
// (package speaking), then generation through the Generator boundary:
// primary first, secondary voices fanned out afterwards with bounded
// concurrency and per-character failure isolation. Session and topic
// write-backs go through the state.Store once per character that actually
// produced output.
//
// Turns within a session are serialized; a turn always runs to completion.
// A failed secondary becomes a Skipped entry, a failed primary is replaced
// by the configured fallback line, and a failed write-back is logged
// without altering the turn's output.
package turn
