package buffer

// Block owns a resizable run of samples. The zero value is an empty
// block; Resize it before use or construct one with New.
type Block struct {
	data []float64
}

// New returns a zero-filled Block of the given length. Negative
// lengths yield an empty block.
func New(length int) *Block {
	if length < 0 {
		length = 0
	}
	return &Block{data: make([]float64, length)}
}

// FromSlice wraps an existing slice without copying, so writes through
// either view land in the same memory.
func FromSlice(s []float64) *Block {
	return &Block{data: s}
}

// Samples returns the backing slice for processing calls.
func (b *Block) Samples() []float64 {
	return b.data
}

// Len returns the number of samples in the block.
func (b *Block) Len() int {
	return len(b.data)
}

// Cap returns the capacity of the backing slice.
func (b *Block) Cap() int {
	return cap(b.data)
}

// Resize sets the length to n, keeping the existing prefix. Growth is
// zeroed even when it reuses capacity, so samples from an earlier
// incarnation of the block never leak through.
func (b *Block) Resize(n int) {
	if n < 0 {
		n = 0
	}
	if n > cap(b.data) {
		next := make([]float64, n)
		copy(next, b.data)
		b.data = next
		return
	}
	old := len(b.data)
	b.data = b.data[:n]
	for i := old; i < n; i++ {
		b.data[i] = 0
	}
}

// Zero silences the whole block.
func (b *Block) Zero() {
	for i := range b.data {
		b.data[i] = 0
	}
}

// Copy returns an independent block with the same contents.
func (b *Block) Copy() *Block {
	next := make([]float64, len(b.data))
	copy(next, b.data)
	return &Block{data: next}
}
