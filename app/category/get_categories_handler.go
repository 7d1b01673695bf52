package category

import (
	"catalog/pkg/httperror"
	"context"
)

type GetCategoriesHandler struct {
	service *Service
}

func NewGetCategoriesHandler(service *Service) *GetCategoriesHandler {
	return &GetCategoriesHandler{
		service: service,
	}
}

type GetCategoriesRequest struct{}

type GetCategoriesResponse struct {
	Data []map[string]any `json:"data"`
}

func (h GetCategoriesHandler) Handle(ctx context.Context, _ *GetCategoriesRequest) (*GetCategoriesResponse, error) {
	categories, err := h.service.List(ctx)
	if err != nil {
		return nil, httperror.InternalServerError(
			"category.index.failed",
			"Failed to retrieve categories",
			nil,
		)
	}

	return &GetCategoriesResponse{
		Data: categories,
	}, nil
}
