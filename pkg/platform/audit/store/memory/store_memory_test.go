package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "docflow/pkg/platform/audit"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()

	require.NoError(t, store.Emit(ctx, audit.Event{Subject: "doc-1", Action: string(audit.EventDocumentAdmitted)}))
	require.NoError(t, store.Emit(ctx, audit.Event{Subject: "doc-2", Action: string(audit.EventDocumentAdmissionDenied)}))
	require.NoError(t, store.Emit(ctx, audit.Event{Subject: "doc-1", Action: string(audit.EventDocumentSigned)}))

	t.Run("Emit fills category from action", func(t *testing.T) {
		all, err := store.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, audit.CategoryCompliance, all[0].Category)
		assert.Equal(t, audit.CategorySecurity, all[1].Category)
	})

	t.Run("ListBySubject keeps emission order", func(t *testing.T) {
		events, err := store.ListBySubject(ctx, "doc-1")
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, string(audit.EventDocumentAdmitted), events[0].Action)
		assert.Equal(t, string(audit.EventDocumentSigned), events[1].Action)
	})

	t.Run("ListRecent caps at available events", func(t *testing.T) {
		recent, err := store.ListRecent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, recent, 2)
		assert.Equal(t, "doc-2", recent[0].Subject)

		all, err := store.ListRecent(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, all, 3)

		none, err := store.ListRecent(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("CountByAction tallies", func(t *testing.T) {
		counts := store.CountByAction(ctx)
		assert.Equal(t, 1, counts[string(audit.EventDocumentAdmitted)])
	})
}

func TestInMemoryStore_Concurrent(t *testing.T) {
	store := NewInMemoryStore()
	ctx := context.Background()

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			assert.NoError(t, store.Emit(ctx, audit.Event{Subject: "shared", Action: "document_signed"}))
		}()
	}
	wg.Wait()

	events, err := store.ListBySubject(ctx, "shared")
	require.NoError(t, err)
	assert.Len(t, events, goroutines)
}
