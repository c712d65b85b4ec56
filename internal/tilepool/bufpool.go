package tilepool

import (
	"sync"
	"sync/atomic"
)

// BufferPool pools reusable byte buffers sized for destination tile
// accessors, reducing per-tile allocation when composing a large
// destination one tile at a time.
type BufferPool struct {
	pools      []*sync.Pool
	allocCount int64
	hitCount   int64
	missCount  int64
}

// bufferSizes are the discrete sizes for pooled buffers, chosen to cover
// common tile byte sizes (up to a 256x256 F64 4-band tile: 2 MB).
var bufferSizes = []int{
	16 << 10,  // 16 KB: 128x128 U8 single-band
	64 << 10,  // 64 KB
	256 << 10, // 256 KB: 256x256 U8 4-band
	1 << 20,   // 1 MB
	4 << 20,   // 4 MB: holds a 256x256 F64 4-band tile (2 MB)
}

// NewBufferPool creates an empty buffer pool.
func NewBufferPool() *BufferPool {
	p := &BufferPool{pools: make([]*sync.Pool, len(bufferSizes))}
	for i, size := range bufferSizes {
		size := size
		p.pools[i] = &sync.Pool{
			New: func() interface{} {
				return make([]byte, size)
			},
		}
	}
	return p
}

func poolIndex(size int) int {
	for i, s := range bufferSizes {
		if size <= s {
			return i
		}
	}
	return -1
}

// Get returns a buffer of at least size bytes, zeroed. Call Put to return
// it to the pool once the caller is done with it.
func (p *BufferPool) Get(size int) []byte {
	atomic.AddInt64(&p.allocCount, 1)

	idx := poolIndex(size)
	if idx < 0 {
		atomic.AddInt64(&p.missCount, 1)
		return make([]byte, size)
	}

	buf := p.pools[idx].Get().([]byte)
	atomic.AddInt64(&p.hitCount, 1)
	for i := range buf[:size] {
		buf[i] = 0
	}
	return buf[:size]
}

// Put returns a buffer to the pool for reuse. buf must have been obtained
// from Get and must not be used again after this call.
func (p *BufferPool) Put(buf []byte) {
	if buf == nil {
		return
	}
	idx := poolIndex(cap(buf))
	if idx < 0 {
		return
	}
	if cap(buf) == bufferSizes[idx] {
		p.pools[idx].Put(buf[:cap(buf)])
	}
}

// Stats returns (allocCount, hitCount, missCount) for diagnostics.
func (p *BufferPool) Stats() (allocs, hits, misses int64) {
	return atomic.LoadInt64(&p.allocCount),
		atomic.LoadInt64(&p.hitCount),
		atomic.LoadInt64(&p.missCount)
}
