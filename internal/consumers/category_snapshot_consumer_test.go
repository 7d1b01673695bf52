package consumers

import (
	"catalog/pkg/events"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubLister struct {
	categories []map[string]any
	err        error
}

func (s *stubLister) List(context.Context) ([]map[string]any, error) {
	return s.categories, s.err
}

type memoryStore struct {
	objects     map[string][]byte
	uploads     int
	downloadErr error
	uploadErr   error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: make(map[string][]byte)}
}

func (s *memoryStore) Upload(key string, data []byte) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	s.uploads++
	s.objects[key] = data
	return nil
}

func (s *memoryStore) Download(key string) ([]byte, error) {
	if s.downloadErr != nil {
		return nil, s.downloadErr
	}
	return s.objects[key], nil
}

const snapshotKey = "categories/index.json"

func categoryEvent(name string) *events.Event {
	return events.NewEvent(name, events.EventVersionV1, nil, events.NewHeaders("catalog"))
}

func TestCategorySnapshotHandler_WritesListing(t *testing.T) {
	lister := &stubLister{categories: []map[string]any{
		{"id": int64(1), "name": "Books"},
		{"id": int64(2), "name": "Music"},
	}}
	store := newMemoryStore()
	handler := NewCategorySnapshotHandler(lister, store, snapshotKey, zap.NewNop())

	for _, name := range []string{events.CategoryCreatedEvent, events.CategoryUpdatedEvent, events.CategoryDeletedEvent} {
		require.NoError(t, handler.HandleEvent(context.Background(), categoryEvent(name)))
	}

	var got struct {
		Data []struct {
			ID   int64  `json:"id"`
			Name string `json:"name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(store.objects[snapshotKey], &got))
	require.Len(t, got.Data, 2)
	assert.Equal(t, "Music", got.Data[1].Name)
	assert.Equal(t, 1, store.uploads, "unchanged listings are not uploaded again")
}

func TestCategorySnapshotHandler_EmptyListing(t *testing.T) {
	store := newMemoryStore()
	handler := NewCategorySnapshotHandler(&stubLister{categories: []map[string]any{}}, store, snapshotKey, zap.NewNop())

	require.NoError(t, handler.HandleEvent(context.Background(), categoryEvent(events.CategoryDeletedEvent)))
	assert.JSONEq(t, `{"data":[]}`, string(store.objects[snapshotKey]))
}

func TestCategorySnapshotHandler_IgnoresUnknownEvents(t *testing.T) {
	lister := &stubLister{err: errors.New("should not be called")}
	store := newMemoryStore()
	handler := NewCategorySnapshotHandler(lister, store, snapshotKey, zap.NewNop())

	assert.NoError(t, handler.HandleEvent(context.Background(), categoryEvent("category.archived")))
	assert.Zero(t, store.uploads)
}

func TestCategorySnapshotHandler_Failures(t *testing.T) {
	t.Run("listing fails", func(t *testing.T) {
		listErr := errors.New("database down")
		handler := NewCategorySnapshotHandler(&stubLister{err: listErr}, newMemoryStore(), snapshotKey, zap.NewNop())

		err := handler.HandleEvent(context.Background(), categoryEvent(events.CategoryCreatedEvent))
		assert.ErrorIs(t, err, listErr)
	})

	t.Run("upload fails", func(t *testing.T) {
		store := newMemoryStore()
		store.uploadErr = errors.New("access denied")
		handler := NewCategorySnapshotHandler(&stubLister{categories: []map[string]any{}}, store, snapshotKey, zap.NewNop())

		err := handler.HandleEvent(context.Background(), categoryEvent(events.CategoryCreatedEvent))
		assert.ErrorIs(t, err, store.uploadErr)
	})

	t.Run("unreadable snapshot still uploads", func(t *testing.T) {
		store := newMemoryStore()
		store.downloadErr = errors.New("no such key")
		handler := NewCategorySnapshotHandler(&stubLister{categories: []map[string]any{}}, store, snapshotKey, zap.NewNop())

		require.NoError(t, handler.HandleEvent(context.Background(), categoryEvent(events.CategoryCreatedEvent)))
		assert.Equal(t, 1, store.uploads)
	})
}

// gatedLister blocks its first call until release is closed and answers every
// later call with the listing that follows a delete.
type gatedLister struct {
	mu      sync.Mutex
	calls   int
	entered chan struct{}
	release chan struct{}
}

func (l *gatedLister) List(context.Context) ([]map[string]any, error) {
	l.mu.Lock()
	l.calls++
	first := l.calls == 1
	l.mu.Unlock()

	if first {
		close(l.entered)
		<-l.release
		return []map[string]any{{"id": int64(1), "name": "Books"}}, nil
	}
	return []map[string]any{}, nil
}

func TestCategorySnapshotHandler_ConcurrentEventsKeepNewestListing(t *testing.T) {
	lister := &gatedLister{entered: make(chan struct{}), release: make(chan struct{})}
	store := newMemoryStore()
	handler := NewCategorySnapshotHandler(lister, store, snapshotKey, zap.NewNop())

	var wg sync.WaitGroup
	errs := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		errs <- handler.HandleEvent(context.Background(), categoryEvent(events.CategoryCreatedEvent))
	}()
	<-lister.entered

	wg.Add(1)
	go func() {
		defer wg.Done()
		errs <- handler.HandleEvent(context.Background(), categoryEvent(events.CategoryDeletedEvent))
	}()

	close(lister.release)
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	assert.JSONEq(t, `{"data":[]}`, string(store.objects[snapshotKey]))
}
