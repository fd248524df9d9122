// Package arena provides the bump-pointer allocators that back a VM run.
// Nothing allocated through an Allocator is ever freed individually; the
// whole arena is reset or discarded when the caller is done with it. This
// mirrors mem.c's BumpCtx in the original purple-garden: malloc once,
// hand out slices of it, and let the OS reclaim everything at once.
//
// Go already garbage-collects, so neither Allocator implementation here is
// load-bearing for memory safety the way the C bump allocator was. They
// exist to preserve a resource model (single owner, no per-allocation
// free, -m/--memory-usage reporting) and to give the CLI's
// -b/--block-allocator flag a real choice to make.
package arena

// Stats reports how much of an Allocator's backing storage is configured
// and how much has been handed out so far, mirroring mem.c's bump_stats.
type Stats struct {
	Allocated uint64
	Used      uint64
}

// Allocator is the out-of-scope collaborator the compiler and machine
// request raw storage from. Request returns a byte slice of exactly size
// bytes that the caller may reinterpret as it sees fit; callers never
// return it. Reset rewinds the allocator to empty, the moral equivalent of
// bump_reset: Bump keeps its backing storage, while Block drops its blocks
// and allocates fresh ones on later requests.
type Allocator interface {
	Request(size int) []byte
	Reset()
	Stats() Stats
}

// Bump is a single contiguous growing region, the direct analog of mem.c's
// BumpCtx: one backing slice, a position cursor, and reallocation (instead
// of C's fixed-size OOM abort) when a request doesn't fit.
type Bump struct {
	block []byte
	pos   int
}

// NewBump allocates a Bump arena with an initial capacity of size bytes.
func NewBump(size int) *Bump {
	if size <= 0 {
		size = 4 * 1024 * 1024 // MIN_MEM in common.h
	}
	return &Bump{block: make([]byte, size)}
}

func (b *Bump) Request(size int) []byte {
	if size <= 0 {
		return nil
	}
	if b.pos+size > len(b.block) {
		grown := len(b.block) * 2
		for grown < b.pos+size {
			grown *= 2
		}
		next := make([]byte, grown)
		copy(next, b.block[:b.pos])
		b.block = next
	}
	s := b.block[b.pos : b.pos+size : b.pos+size]
	b.pos += size
	return s
}

func (b *Bump) Reset() { b.pos = 0 }

func (b *Bump) Stats() Stats {
	return Stats{Allocated: uint64(len(b.block)), Used: uint64(b.pos)}
}

// Block is a chain of fixed-size blocks, allocated lazily as needed and
// never reallocated or copied: unlike Bump, growing never moves storage
// already handed out, at the cost of wasting the unused tail of a block
// when a request doesn't fit what's left in it. Requests larger than
// blockSize get a dedicated block of their own.
type Block struct {
	blockSize int
	blocks    [][]byte
	pos       int // offset into the last block
}

// NewBlock creates a Block arena whose blocks are blockSize bytes each.
func NewBlock(blockSize int) *Block {
	if blockSize <= 0 {
		blockSize = 64 * 1024
	}
	return &Block{blockSize: blockSize}
}

func (b *Block) Request(size int) []byte {
	if size <= 0 {
		return nil
	}
	if size > b.blockSize {
		blk := make([]byte, size)
		if len(b.blocks) == 0 {
			// a regular current block must exist so later requests are not
			// carved out of this dedicated one
			b.blocks = append(b.blocks, make([]byte, b.blockSize))
			b.pos = 0
		}
		// inserted before the current block so it doesn't interfere with pos
		b.blocks = append([][]byte{blk}, b.blocks...)
		return blk
	}
	if len(b.blocks) == 0 || b.pos+size > b.blockSize {
		b.blocks = append(b.blocks, make([]byte, b.blockSize))
		b.pos = 0
	}
	last := b.blocks[len(b.blocks)-1]
	s := last[b.pos : b.pos+size : b.pos+size]
	b.pos += size
	return s
}

func (b *Block) Reset() {
	b.blocks = b.blocks[:0]
	b.pos = 0
}

func (b *Block) Stats() Stats {
	var allocated uint64
	for _, blk := range b.blocks {
		allocated += uint64(len(blk))
	}
	var used uint64
	if n := len(b.blocks); n > 0 {
		used = allocated - uint64(len(b.blocks[n-1])) + uint64(b.pos)
	}
	return Stats{Allocated: allocated, Used: used}
}

// New builds the default allocator: a growing bump arena, unless block is
// true in which case a Block arena of blockSize bytes per block is used
// instead (the -b/--block-allocator CLI strategy).
func New(block bool, size int) Allocator {
	if block {
		return NewBlock(size)
	}
	return NewBump(size)
}
