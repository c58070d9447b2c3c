package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blockpoints-bridge/internal/domain/entity"
)

func event(seq uint64, id string) entity.TransferEvent {
	return entity.TransferEvent{Sequence: seq, Type: entity.EventCreated, TransferID: id}
}

func TestLog_SinceAndForTransfer(t *testing.T) {
	l := NewLog(0)
	ctx := context.Background()
	for i, id := range []string{"a", "b", "a", "c"} {
		require.NoError(t, l.Publish(ctx, event(uint64(i+1), id)))
	}

	all := l.Since(0, 0)
	require.Len(t, all, 4)
	assert.Equal(t, uint64(1), all[0].Sequence)

	tail := l.Since(2, 1)
	require.Len(t, tail, 1)
	assert.Equal(t, uint64(3), tail[0].Sequence)

	forA := l.ForTransfer("a")
	require.Len(t, forA, 2)
	assert.Equal(t, uint64(1), forA[0].Sequence)
	assert.Equal(t, uint64(3), forA[1].Sequence)

	assert.Empty(t, l.ForTransfer("missing"))
}

func TestLog_EvictsOldestWhenFull(t *testing.T) {
	l := NewLog(2)
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		require.NoError(t, l.Publish(ctx, event(uint64(i), "x")))
	}

	assert.Equal(t, 2, l.Len())
	assert.Equal(t, uint64(3), l.Dropped())
	got := l.Since(0, 0)
	assert.Equal(t, uint64(4), got[0].Sequence)
	assert.Equal(t, uint64(5), got[1].Sequence)
}
