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

type UpdateCategoryHandler struct {
	service        *Service
	eventPublisher events.Publisher
}

func NewUpdateCategoryHandler(service *Service, eventPublisher events.Publisher) *UpdateCategoryHandler {
	return &UpdateCategoryHandler{
		service:        service,
		eventPublisher: eventPublisher,
	}
}

type UpdateCategoryRequest struct {
	ID    int64          `params:"id"`
	Input map[string]any `json:"-"`
}

func (r *UpdateCategoryRequest) SetPayload(payload map[string]any) {
	r.Input = payload
}

type UpdateCategoryResponse struct {
	Success bool `json:"success"`
}

func (h UpdateCategoryHandler) Handle(ctx context.Context, req *UpdateCategoryRequest) (*UpdateCategoryResponse, error) {
	ok, err := h.service.Update(ctx, req.ID, req.Input)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return nil, httperror.BadRequest(
				"category.update.validation_failed",
				"Validation failed for the request",
				ve.Fields,
			)
		}

		if errors.Is(err, domain.ErrCategoryNotFound) {
			return nil, httperror.NotFound(
				"category.update.not_found",
				"Category not found",
				nil,
			)
		}

		return nil, httperror.InternalServerError(
			"category.update.update_failed",
			"An error occurred while updating the category",
			nil,
		)
	}

	name, _ := req.Input["name"].(string)
	actorID, _ := middleware.UserID(ctx)
	events.Emit(ctx, h.eventPublisher, eventSource, events.CategoryUpdatedEvent, events.CategoryUpdatedPayload{
		ID:        req.ID,
		Name:      name,
		ActorID:   actorID,
		UpdatedAt: time.Now().UTC(),
	})

	return &UpdateCategoryResponse{
		Success: ok,
	}, nil
}
