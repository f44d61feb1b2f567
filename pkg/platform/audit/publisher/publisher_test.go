package publisher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "docflow/pkg/platform/audit"
	"docflow/pkg/platform/audit/store/memory"
	"docflow/pkg/requestcontext"
)

func TestPublisher_SyncMode(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)
	defer pub.Close()

	err := pub.Emit(context.Background(), audit.Event{
		Subject: "doc-1",
		Action:  string(audit.EventDocumentAdmitted),
	})
	require.NoError(t, err)

	events, err := pub.List(context.Background(), "doc-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, string(audit.EventDocumentAdmitted), events[0].Action)
	assert.Equal(t, audit.CategoryCompliance, events[0].Category)
	assert.Zero(t, pub.Pending())
}

func TestPublisher_AsyncDrainsOnClose(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(100))

	for range 10 {
		require.NoError(t, pub.Emit(context.Background(), audit.Event{
			Subject: "doc-1",
			Action:  string(audit.EventDocumentSigned),
		}))
	}
	require.NoError(t, pub.Close())
	require.NoError(t, pub.Close(), "second close is a no-op")

	events, err := store.ListBySubject(context.Background(), "doc-1")
	require.NoError(t, err)
	assert.Len(t, events, 10, "all events should be drained on close")
	assert.Zero(t, pub.Pending())
}

func TestPublisher_AsyncEventuallyPersists(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(10))
	defer pub.Close()

	require.NoError(t, pub.Emit(context.Background(), audit.Event{
		Subject: "doc-2",
		Action:  string(audit.EventDocumentSigningDenied),
	}))

	assert.Eventually(t, func() bool {
		events, _ := pub.List(context.Background(), "doc-2")
		return len(events) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestPublisher_OverflowDropsOldest(t *testing.T) {
	b := newRingBuffer(2)
	b.enqueue(audit.Event{Subject: "a"})
	b.enqueue(audit.Event{Subject: "b"})
	b.enqueue(audit.Event{Subject: "c"})

	assert.Equal(t, int64(1), b.droppedCount())
	batch := b.dequeueBatch(10)
	require.Len(t, batch, 2)
	assert.Equal(t, "b", batch[0].Subject)
	assert.Equal(t, "c", batch[1].Subject)
	assert.Nil(t, b.dequeueBatch(1))
}

func TestPublisher_ConcurrentEmit(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store, WithAsyncBuffer(1))

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = pub.Emit(context.Background(), audit.Event{Subject: "doc-3", Action: string(audit.EventDocumentSigned)})
		}()
	}
	wg.Wait()
	require.NoError(t, pub.Close())

	events, err := store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10), int64(len(events))+pub.Dropped(), "every event is either stored or counted as dropped")
}

func TestPublisher_Timestamps(t *testing.T) {
	store := memory.NewInMemoryStore()
	pub := NewPublisher(store)

	t.Run("taken from the request clock when missing", func(t *testing.T) {
		at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		require.NoError(t, pub.Emit(requestcontext.WithTime(context.Background(), at), audit.Event{Subject: "doc-4"}))
		events, err := pub.List(context.Background(), "doc-4")
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, at, events[0].Timestamp)
	})

	t.Run("preserved when set", func(t *testing.T) {
		custom := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		require.NoError(t, pub.Emit(context.Background(), audit.Event{Subject: "doc-5", Timestamp: custom}))
		events, err := pub.List(context.Background(), "doc-5")
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, custom, events[0].Timestamp)
	})
}

func TestPublisher_CancelledContextInAsyncMode(t *testing.T) {
	pub := NewPublisher(memory.NewInMemoryStore(), WithAsyncBuffer(1))
	defer pub.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := pub.Emit(ctx, audit.Event{Subject: "doc-6"})
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestPublisher_EmitAfterClose(t *testing.T) {
	for name, opts := range map[string][]Option{
		"sync":  nil,
		"async": {WithAsyncBuffer(4)},
	} {
		t.Run(name, func(t *testing.T) {
			store := memory.NewInMemoryStore()
			pub := NewPublisher(store, opts...)
			require.NoError(t, pub.Close())

			err := pub.Emit(context.Background(), audit.Event{Subject: "doc-7"})
			assert.ErrorIs(t, err, ErrClosed)
			assert.Zero(t, pub.Pending(), "nothing is queued after close")

			events, err := store.ListBySubject(context.Background(), "doc-7")
			require.NoError(t, err)
			assert.Empty(t, events)
		})
	}
}
