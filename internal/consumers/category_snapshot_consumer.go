package consumers

import (
	"bytes"
	"catalog/pkg/events"
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

type CategoryLister interface {
	List(ctx context.Context) ([]map[string]any, error)
}

type SnapshotStore interface {
	Upload(key string, data []byte) error
	Download(key string) ([]byte, error)
}

// CategorySnapshotHandler keeps a JSON copy of the transformed category
// listing in object storage, refreshed on every category event. Refreshes
// are serialized so a slower listing never overwrites a newer upload.
type CategorySnapshotHandler struct {
	mu         sync.Mutex
	categories CategoryLister
	store      SnapshotStore
	key        string
	logger     *zap.Logger
}

func NewCategorySnapshotHandler(categories CategoryLister, store SnapshotStore, key string, logger *zap.Logger) *CategorySnapshotHandler {
	return &CategorySnapshotHandler{
		categories: categories,
		store:      store,
		key:        key,
		logger:     logger,
	}
}

type snapshot struct {
	Data []map[string]any `json:"data"`
}

func (h *CategorySnapshotHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	h.logger.Info("Category event received",
		zap.String("event", event.Event),
		zap.String("version", event.Version),
		zap.String("traceId", event.TraceID),
	)

	switch event.Event {
	case events.CategoryCreatedEvent, events.CategoryUpdatedEvent, events.CategoryDeletedEvent:
		return h.refresh(ctx, event)
	default:
		h.logger.Warn("Unknown category event type", zap.String("event", event.Event))
		return nil
	}
}

func (h *CategorySnapshotHandler) refresh(ctx context.Context, event *events.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	categories, err := h.categories.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}

	body, err := json.Marshal(snapshot{Data: categories})
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	current, err := h.store.Download(h.key)
	if err != nil {
		h.logger.Warn("Failed to read current snapshot", zap.String("key", h.key), zap.Error(err))
	} else if bytes.Equal(current, body) {
		h.logger.Debug("Snapshot unchanged", zap.String("key", h.key))
		return nil
	}

	if err := h.store.Upload(h.key, body); err != nil {
		return fmt.Errorf("failed to upload snapshot: %w", err)
	}

	h.logger.Info("Category snapshot refreshed",
		zap.String("key", h.key),
		zap.Int("categories", len(categories)),
		zap.String("traceId", event.TraceID),
	)
	return nil
}
