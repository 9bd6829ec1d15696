package changelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/proplink/internal/value"
)

func TestLog_StartsDisabledAndEmpty(t *testing.T) {
	l := New()
	assert.False(t, l.Enabled())
	assert.Equal(t, 0, l.Len())
}

func TestLog_EnableIsAFlag(t *testing.T) {
	l := New()
	l.Enable()
	l.Enable()
	l.Disable()
	assert.False(t, l.Enabled(), "enable is not counted")

	prev := l.SetEnabled(true)
	assert.False(t, prev)
	assert.True(t, l.Enabled())
}

func TestLog_AppendKeepsOrder(t *testing.T) {
	l := New()
	owner := &struct{ name string }{"rect"}

	for _, f := range []float32{1, 2, 3} {
		l.Append(owner, 7, value.NewBox(value.Float(f)))
	}

	require.Equal(t, 3, l.Len())
	var got []value.Value
	l.Each(func(e *Entry) bool {
		assert.Same(t, owner, e.Owner)
		assert.Equal(t, uint32(7), e.PropertyID)
		assert.Equal(t, len(got)+1, e.Seq())
		got = append(got, e.Value.Value())
		return true
	})
	assert.Equal(t, []value.Value{value.Float(1), value.Float(2), value.Float(3)}, got)
}

func TestLog_EachStopsEarly(t *testing.T) {
	l := New()
	for i := 0; i < 4; i++ {
		l.Append(nil, uint32(i), value.NewBox(value.Integer(int32(i))))
	}

	visited := 0
	l.Each(func(e *Entry) bool {
		visited++
		return e.PropertyID < 1
	})
	assert.Equal(t, 2, visited)
}

func TestLog_RewindDestroysSnapshots(t *testing.T) {
	l := New()
	ref := value.NewRef("mesh", nil)

	l.Append(nil, 1, value.NewBox(value.Asset{Ref: ref}))
	l.Append(nil, 1, value.NewBox(value.Asset{Ref: ref}))
	assert.Equal(t, 3, ref.Count())

	boxes := []*value.Box{l.Entries()[0].Value, l.Entries()[1].Value}
	l.Rewind()

	assert.Equal(t, 0, l.Len())
	assert.Equal(t, 1, ref.Count())
	for _, b := range boxes {
		assert.False(t, b.Live())
	}

	l.Append(nil, 2, value.NewBox(value.Boolean(true)))
	assert.Equal(t, 1, l.Len())
	assert.Equal(t, 1, l.Entries()[0].Seq())
}

func TestLog_RewindEmptyIsNoop(t *testing.T) {
	l := New()
	l.Rewind()
	assert.Equal(t, 0, l.Len())
}

func TestLog_ManyEntriesSpanChunks(t *testing.T) {
	arena := NewArena(8)
	l := NewWithArena(arena)
	for i := 0; i < 20; i++ {
		l.Append(nil, uint32(i), value.NewBox(value.UInt32(uint32(i))))
	}
	require.Equal(t, 20, l.Len())
	assert.Equal(t, 3, arena.Chunks())

	for i, e := range l.Entries() {
		assert.Equal(t, value.UInt32(uint32(i)), e.Value.Value())
	}
}
