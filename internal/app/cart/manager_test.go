package cart

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_GetOrCreateReturnsSameMirror(t *testing.T) {
	upstream := newFakeUpstream()
	m := NewManager(Policy{}, time.Hour)

	first := m.GetOrCreate(42, upstream, upstream)
	second := m.GetOrCreate(42, upstream, upstream)
	assert.Same(t, first, second)

	other := m.GetOrCreate(43, upstream, upstream)
	assert.NotSame(t, first, other)
}

func TestManager_GetOrCreateKicksOffInitialLoad(t *testing.T) {
	upstream := newFakeUpstream()
	upstream.addSolution(7, "X", "10.00")
	upstream.addRow(1, 7, 2)
	m := NewManager(Policy{}, time.Hour)

	s := m.GetOrCreate(42, upstream, upstream)

	require.Eventually(t, func() bool {
		return len(s.Snapshot().Lines) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, 2, s.Snapshot().Lines[0].Quantity)
}

func TestManager_Drop(t *testing.T) {
	upstream := newFakeUpstream()
	m := NewManager(Policy{}, time.Hour)

	s := m.GetOrCreate(42, upstream, upstream)
	require.NoError(t, s.AddItem(context.Background(), product(7, "X", "10.00"), false))

	m.Drop(42)

	_, ok := m.Get(42)
	assert.False(t, ok)
	assert.Empty(t, s.Snapshot().Lines, "dropped mirror is cleared")
}

func TestManager_DropUnknownUserIsNoop(t *testing.T) {
	m := NewManager(Policy{}, time.Hour)
	m.Drop(999)
}

func TestManager_EvictIdle(t *testing.T) {
	upstream := newFakeUpstream()
	m := NewManager(Policy{}, 20*time.Millisecond)

	m.GetOrCreate(42, upstream, upstream)
	assert.Zero(t, m.EvictIdle(), "fresh mirror must not be evicted")

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 1, m.EvictIdle())

	_, ok := m.Get(42)
	assert.False(t, ok)
}

func TestManager_EvictIdleDisabled(t *testing.T) {
	upstream := newFakeUpstream()
	m := NewManager(Policy{}, 0)

	m.GetOrCreate(42, upstream, upstream)
	time.Sleep(10 * time.Millisecond)
	assert.Zero(t, m.EvictIdle())
}
