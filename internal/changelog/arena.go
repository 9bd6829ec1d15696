package changelog

// DefaultChunkSize is the number of entries allocated per arena chunk.
const DefaultChunkSize = 256

// Arena is a bump allocator for fixed-size Entry records.
//
// Memory is grabbed in chunks and handed out sequentially. Reset makes every
// chunk available again without returning it to the runtime, so a steady
// replication loop stops allocating after warm-up. Entries returned before a
// Reset must not be used after it.
type Arena struct {
	chunkSize int
	chunks    [][]Entry
	chunk     int // index of the chunk being filled
	next      int // next free slot in chunks[chunk]
}

// NewArena creates an arena that allocates chunkSize entries at a time.
// A non-positive chunkSize selects DefaultChunkSize.
func NewArena(chunkSize int) *Arena {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Arena{chunkSize: chunkSize}
}

// Alloc returns a zeroed entry owned by the arena.
func (a *Arena) Alloc() *Entry {
	if len(a.chunks) == 0 {
		a.chunks = append(a.chunks, make([]Entry, a.chunkSize))
	}
	if a.next == a.chunkSize {
		a.chunk++
		a.next = 0
		if a.chunk == len(a.chunks) {
			a.chunks = append(a.chunks, make([]Entry, a.chunkSize))
		}
	}
	e := &a.chunks[a.chunk][a.next]
	a.next++
	return e
}

// Reset rewinds the arena to empty, clearing used slots so they hold no references.
func (a *Arena) Reset() {
	for i := 0; i <= a.chunk && i < len(a.chunks); i++ {
		used := a.chunkSize
		if i == a.chunk {
			used = a.next
		}
		clear(a.chunks[i][:used])
	}
	a.chunk = 0
	a.next = 0
}

// Chunks returns the number of chunks allocated so far.
// Used for testing and introspection.
func (a *Arena) Chunks() int {
	return len(a.chunks)
}
