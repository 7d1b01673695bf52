package category

import (
	"catalog/domain"
	"catalog/pkg/httperror"
	"context"
	"errors"
)

type GetCategoryHandler struct {
	service *Service
}

func NewGetCategoryHandler(service *Service) *GetCategoryHandler {
	return &GetCategoryHandler{
		service: service,
	}
}

type GetCategoryRequest struct {
	ID int64 `params:"id"`
}

type GetCategoryResponse struct {
	Data map[string]any `json:"data"`
}

func (h GetCategoryHandler) Handle(ctx context.Context, req *GetCategoryRequest) (*GetCategoryResponse, error) {
	category, err := h.service.Show(ctx, req.ID)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return nil, httperror.NotFound(
				"category.show.not_found",
				"Category not found",
				nil,
			)
		}

		return nil, httperror.InternalServerError(
			"category.show.failed",
			"Failed to retrieve category",
			nil,
		)
	}

	return &GetCategoryResponse{
		Data: category,
	}, nil
}
