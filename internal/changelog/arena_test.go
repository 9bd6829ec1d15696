package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena_AllocWithinChunk(t *testing.T) {
	a := NewArena(4)
	first := a.Alloc()
	second := a.Alloc()

	require.NotNil(t, first)
	assert.NotSame(t, first, second)
	assert.Equal(t, 1, a.Chunks())
}

func TestArena_GrowsByChunk(t *testing.T) {
	a := NewArena(2)
	for i := 0; i < 5; i++ {
		a.Alloc()
	}
	assert.Equal(t, 3, a.Chunks())
}

func TestArena_ResetReusesChunks(t *testing.T) {
	a := NewArena(2)
	for i := 0; i < 5; i++ {
		e := a.Alloc()
		e.PropertyID = uint32(i + 1)
		e.Owner = "owner"
	}

	a.Reset()
	assert.Equal(t, 3, a.Chunks(), "reset keeps chunks")

	e := a.Alloc()
	assert.Equal(t, uint32(0), e.PropertyID, "reused slot is zeroed")
	assert.Nil(t, e.Owner)

	for i := 0; i < 5; i++ {
		a.Alloc()
	}
	assert.Equal(t, 3, a.Chunks(), "refilling after reset does not allocate")
}

func TestArena_DefaultChunkSize(t *testing.T) {
	a := NewArena(0)
	assert.Equal(t, DefaultChunkSize, a.chunkSize)
}
