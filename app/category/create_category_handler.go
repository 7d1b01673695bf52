package category

import (
	"catalog/internal/middleware"
	"catalog/pkg/events"
	"catalog/pkg/httperror"
	"context"
	"errors"
	"time"
)

// eventSource is stamped on every event this package publishes.
const eventSource = "catalog"

type CreateCategoryHandler struct {
	service        *Service
	eventPublisher events.Publisher
}

func NewCreateCategoryHandler(service *Service, eventPublisher events.Publisher) *CreateCategoryHandler {
	return &CreateCategoryHandler{
		service:        service,
		eventPublisher: eventPublisher,
	}
}

type CreateCategoryRequest struct {
	Input map[string]any `json:"-"`
}

func (r *CreateCategoryRequest) SetPayload(payload map[string]any) {
	r.Input = payload
}

type CreateCategoryResponse struct {
	Success bool `json:"success"`
}

func (h CreateCategoryHandler) Handle(ctx context.Context, req *CreateCategoryRequest) (*CreateCategoryResponse, error) {
	ok, err := h.service.Create(ctx, req.Input)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return nil, httperror.BadRequest(
				"category.create.validation_failed",
				"Validation failed for the request",
				ve.Fields,
			)
		}

		return nil, httperror.InternalServerError(
			"category.create.create_failed",
			"An error occurred while creating the category",
			nil,
		)
	}

	name, _ := req.Input["name"].(string)
	actorID, _ := middleware.UserID(ctx)
	events.Emit(ctx, h.eventPublisher, eventSource, events.CategoryCreatedEvent, events.CategoryCreatedPayload{
		Name:      name,
		ActorID:   actorID,
		CreatedAt: time.Now().UTC(),
	})

	return &CreateCategoryResponse{
		Success: ok,
	}, nil
}
