// Package pool recycles the byte buffers used on transfer hot paths.
//
// Download copy loops and content sniffing move data through fixed-size
// chunks; pooling those chunks keeps steady-state transfers from churning
// the allocator.
package pool

import (
	"sync"
)

const (
	// SniffBufferSize covers content type detection reads (4KB).
	SniffBufferSize = 4 * 1024
	// CopyBufferSize is the chunk size for streaming copy loops (64KB).
	CopyBufferSize = 64 * 1024
)

// BufferPool manages reusable fixed-size buffers. Buffers are handed out at
// full length so callers can pass them straight to io.CopyBuffer or
// io.ReadFull without reslicing.
type BufferPool struct {
	sniff *sync.Pool
	copy  *sync.Pool
}

// NewBufferPool creates a new buffer pool with default sizes.
func NewBufferPool() *BufferPool {
	return &BufferPool{
		sniff: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, SniffBufferSize)
				return &buf
			},
		},
		copy: &sync.Pool{
			New: func() interface{} {
				buf := make([]byte, CopyBufferSize)
				return &buf
			},
		},
	}
}

// GetSniff returns a SniffBufferSize buffer from the pool.
// The caller is responsible for calling PutSniff to return it.
func (bp *BufferPool) GetSniff() []byte {
	bufPtr := bp.sniff.Get().(*[]byte)
	return (*bufPtr)[:SniffBufferSize]
}

// PutSniff returns a sniff buffer to the pool.
// The buffer must not be used after calling PutSniff.
func (bp *BufferPool) PutSniff(buf []byte) {
	if cap(buf) < SniffBufferSize {
		return
	}
	buf = buf[:SniffBufferSize]
	bp.sniff.Put(&buf)
}

// GetCopy returns a CopyBufferSize buffer from the pool.
// The caller is responsible for calling PutCopy to return it.
func (bp *BufferPool) GetCopy() []byte {
	bufPtr := bp.copy.Get().(*[]byte)
	return (*bufPtr)[:CopyBufferSize]
}

// PutCopy returns a copy buffer to the pool.
// The buffer must not be used after calling PutCopy.
func (bp *BufferPool) PutCopy(buf []byte) {
	if cap(buf) < CopyBufferSize {
		return
	}
	buf = buf[:CopyBufferSize]
	bp.copy.Put(&buf)
}

// Global buffer pool instance for use throughout the package.
var globalBufferPool = NewBufferPool()

// GetSniffBuffer returns a sniff buffer from the global pool.
func GetSniffBuffer() []byte {
	return globalBufferPool.GetSniff()
}

// PutSniffBuffer returns a sniff buffer to the global pool.
func PutSniffBuffer(buf []byte) {
	globalBufferPool.PutSniff(buf)
}

// GetCopyBuffer returns a copy buffer from the global pool.
func GetCopyBuffer() []byte {
	return globalBufferPool.GetCopy()
}

// PutCopyBuffer returns a copy buffer to the global pool.
func PutCopyBuffer(buf []byte) {
	globalBufferPool.PutCopy(buf)
}
