package pix

import "sync"

// Pool is a thread-safe free list for reusing Buffer instances.
//
// Buffers are grouped by dimensions, so batches that render recurring
// sizes (the thumbnail rendition matrix, repeated mipmap chains) reuse
// identically-sized buffers instead of reallocating them. Get satisfies
// Allocator, which lets a pool be injected anywhere a downscale target
// is allocated.
//
// Thread safety: all methods are safe for concurrent use.
type Pool struct {
	mu      sync.Mutex
	buckets map[poolKey][]*Buffer
	maxSize int // max buffers per bucket
}

// poolKey identifies a bucket of identically-sized buffers.
type poolKey struct {
	width  int
	height int
}

// NewPool creates a buffer pool retaining at most maxPerBucket buffers
// per size. A maxPerBucket of 0 means unlimited.
func NewPool(maxPerBucket int) *Pool {
	return &Pool{
		buckets: make(map[poolKey][]*Buffer),
		maxSize: maxPerBucket,
	}
}

// Get retrieves a buffer of the given size from the pool or creates one.
// Reused buffers are cleared before being returned.
func (p *Pool) Get(width, height int) *Buffer {
	key := poolKey{width: width, height: height}

	p.mu.Lock()
	bucket := p.buckets[key]
	if len(bucket) > 0 {
		buf := bucket[len(bucket)-1]
		p.buckets[key] = bucket[:len(bucket)-1]
		p.mu.Unlock()

		buf.Clear()
		return buf
	}
	p.mu.Unlock()

	buf, err := New(width, height)
	if err != nil {
		return nil
	}
	return buf
}

// Put returns a buffer to the pool for reuse.
// If buf is nil or its bucket is at capacity, the buffer is discarded.
func (p *Pool) Put(buf *Buffer) {
	if buf == nil {
		return
	}

	key := poolKey{width: buf.width, height: buf.height}

	p.mu.Lock()
	defer p.mu.Unlock()

	bucket := p.buckets[key]
	if p.maxSize > 0 && len(bucket) >= p.maxSize {
		return
	}
	p.buckets[key] = append(bucket, buf)
}

// Len returns the total number of pooled buffers across all buckets.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, bucket := range p.buckets {
		n += len(bucket)
	}
	return n
}
