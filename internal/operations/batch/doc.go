// Package batch implements the bulk maintenance primitives: chunked
// sequential delete and window-throttled copy.
//
// Both sides share one principle, chunk-or-window throttling against the
// backend's per-request limits. Delete partitions keys into chunks of at
// most 1000 and issues them strictly in order; copy issues one call per key
// under a sliding window of at most 1000 in-flight calls. The window and the
// chunk cursor are owned by the executing call, so concurrent batch calls
// never share state.
package batch
