// Package pool provides memory management optimizations.
// This includes buffer pooling and resource reuse to reduce allocations.
//
// The pool package helps optimize performance for high-throughput operations
// by reusing expensive resources like buffers and connections.
package pool
