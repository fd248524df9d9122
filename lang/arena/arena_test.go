package arena

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBumpGrows(t *testing.T) {
	b := NewBump(4)
	first := b.Request(4)
	require.Len(t, first, 4)

	second := b.Request(16)
	require.Len(t, second, 16)

	stats := b.Stats()
	require.EqualValues(t, 20, stats.Used)
	require.GreaterOrEqual(t, stats.Allocated, stats.Used)
}

func TestBumpReset(t *testing.T) {
	b := NewBump(64)
	b.Request(32)
	b.Reset()
	require.EqualValues(t, 0, b.Stats().Used)
}

func TestBlockAllocatesNewBlockWhenFull(t *testing.T) {
	b := NewBlock(8)
	a := b.Request(8)
	c := b.Request(8)
	require.Len(t, a, 8)
	require.Len(t, c, 8)
	require.EqualValues(t, 16, b.Stats().Allocated)
	require.EqualValues(t, 16, b.Stats().Used)
}

func TestBlockOversizeRequestGetsDedicatedBlock(t *testing.T) {
	b := NewBlock(8)
	big := b.Request(64)
	require.Len(t, big, 64)
}

func TestNewSelectsStrategy(t *testing.T) {
	require.IsType(t, &Bump{}, New(false, 1024))
	require.IsType(t, &Block{}, New(true, 1024))
}
