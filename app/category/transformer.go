package category

import "catalog/domain"

// CategoryTransformer exposes the public fields of a category.
type CategoryTransformer struct{}

func NewCategoryTransformer() *CategoryTransformer {
	return &CategoryTransformer{}
}

func (t CategoryTransformer) Transform(category domain.Category) map[string]any {
	return map[string]any{
		"id":   category.ID,
		"name": category.Name,
	}
}

func (t CategoryTransformer) TransformCollection(categories []domain.Category) []map[string]any {
	data := make([]map[string]any, 0, len(categories))
	for _, category := range categories {
		data = append(data, t.Transform(category))
	}
	return data
}
