package buffer

import "sync"

// Pool recycles Blocks across processing iterations so steady-state
// render loops stop allocating.
type Pool struct {
	pool sync.Pool
}

// NewPool returns an empty pool.
func NewPool() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any { return &Block{} },
		},
	}
}

// Get returns a zeroed Block of the given length. Hand it back with
// Put once the block has been consumed.
func (p *Pool) Get(length int) *Block {
	b := p.pool.Get().(*Block)
	b.Resize(length)
	b.Zero()
	return b
}

// Put makes a Block available for reuse. The caller must drop its
// references; a later Get may hand out the same block.
func (p *Pool) Put(b *Block) {
	if b == nil {
		return
	}
	p.pool.Put(b)
}
