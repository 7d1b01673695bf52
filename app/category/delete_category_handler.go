package category

import (
	"catalog/domain"
	"catalog/internal/middleware"
	"catalog/pkg/events"
	"catalog/pkg/httperror"
	"context"
	"errors"
	"time"
)

type DeleteCategoryHandler struct {
	service        *Service
	eventPublisher events.Publisher
}

func NewDeleteCategoryHandler(service *Service, eventPublisher events.Publisher) *DeleteCategoryHandler {
	return &DeleteCategoryHandler{
		service:        service,
		eventPublisher: eventPublisher,
	}
}

type DeleteCategoryRequest struct {
	ID int64 `params:"id"`
}

type DeleteCategoryResponse struct {
}

func (h DeleteCategoryHandler) Handle(ctx context.Context, req *DeleteCategoryRequest) (*DeleteCategoryResponse, error) {
	_, err := h.service.Destroy(ctx, req.ID)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return nil, httperror.NotFound(
				"category.destroy.not_found",
				"Category not found",
				nil,
			)
		}

		return nil, httperror.InternalServerError(
			"category.destroy.failed",
			"Failed to delete category",
			nil,
		)
	}

	actorID, _ := middleware.UserID(ctx)
	events.Emit(ctx, h.eventPublisher, eventSource, events.CategoryDeletedEvent, events.CategoryDeletedPayload{
		ID:        req.ID,
		ActorID:   actorID,
		DeletedAt: time.Now().UTC(),
	})

	return nil, httperror.NoContent(
		"category.destroy.success",
		"Category deleted successfully",
		nil,
	)
}
