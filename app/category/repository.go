package category

import (
	"catalog/domain"
	"context"
)

type Repository interface {
	Store(ctx context.Context, record domain.CategoryRecord) (domain.Category, error)
	Update(ctx context.Context, id int64, record domain.CategoryRecord) error
	Destroy(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Category, error)
	Show(ctx context.Context, id int64) (domain.Category, error)
}

// Transactor runs fn inside a single database transaction. Repository calls
// made with the context handed to fn join that transaction. The transaction
// is committed only when fn returns nil; otherwise it is rolled back and fn's
// error is returned as is.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Validator interface {
	Validations(input map[string]any) error
}

type Transformer interface {
	Transform(category domain.Category) map[string]any
	TransformCollection(categories []domain.Category) []map[string]any
}
