package category

import (
	"catalog/domain"
	"context"
	"maps"
	"sort"
	"time"
)

// memoryRepository keeps categories in a map. Errors set in failBefore are
// returned before the operation touches state; errors in failAfter are returned
// after the write, simulating a statement that failed late in a transaction.
type memoryRepository struct {
	rows       map[int64]domain.Category
	nextID     int64
	records    []domain.CategoryRecord
	failBefore map[string]error
	failAfter  map[string]error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		rows:       make(map[int64]domain.Category),
		failBefore: make(map[string]error),
		failAfter:  make(map[string]error),
	}
}

func (r *memoryRepository) Store(_ context.Context, record domain.CategoryRecord) (domain.Category, error) {
	if err := r.failBefore["store"]; err != nil {
		return domain.Category{}, err
	}

	r.records = append(r.records, record)
	r.nextID++
	now := time.Now()
	category := domain.Category{ID: r.nextID, Name: record.Name, CreatedAt: now, UpdatedAt: now}
	r.rows[category.ID] = category

	if err := r.failAfter["store"]; err != nil {
		return domain.Category{}, err
	}
	return category, nil
}

func (r *memoryRepository) Update(_ context.Context, id int64, record domain.CategoryRecord) error {
	if err := r.failBefore["update"]; err != nil {
		return err
	}

	category, ok := r.rows[id]
	if !ok {
		return domain.ErrCategoryNotFound
	}

	r.records = append(r.records, record)
	category.Name = record.Name
	category.UpdatedAt = time.Now()
	r.rows[id] = category

	return r.failAfter["update"]
}

func (r *memoryRepository) Destroy(_ context.Context, id int64) error {
	if err := r.failBefore["destroy"]; err != nil {
		return err
	}

	if _, ok := r.rows[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(r.rows, id)

	return r.failAfter["destroy"]
}

func (r *memoryRepository) List(_ context.Context) ([]domain.Category, error) {
	if err := r.failBefore["list"]; err != nil {
		return nil, err
	}

	categories := make([]domain.Category, 0, len(r.rows))
	for _, category := range r.rows {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].ID < categories[j].ID })
	return categories, nil
}

func (r *memoryRepository) Show(_ context.Context, id int64) (domain.Category, error) {
	if err := r.failBefore["show"]; err != nil {
		return domain.Category{}, err
	}

	category, ok := r.rows[id]
	if !ok {
		return domain.Category{}, domain.ErrCategoryNotFound
	}
	return category, nil
}

// memoryTransactor restores the repository snapshot when fn fails.
type memoryTransactor struct {
	repository *memoryRepository
	begun      int
	committed  int
	rolledBack int
}

func (t *memoryTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.begun++
	rows := maps.Clone(t.repository.rows)
	nextID := t.repository.nextID

	if err := fn(ctx); err != nil {
		t.repository.rows = rows
		t.repository.nextID = nextID
		t.rolledBack++
		return err
	}

	t.committed++
	return nil
}

type countingValidator struct {
	Validator
	calls int
}

func (v *countingValidator) Validations(input map[string]any) error {
	v.calls++
	return v.Validator.Validations(input)
}

type fixture struct {
	service    *Service
	repository *memoryRepository
	transactor *memoryTransactor
	validator  *countingValidator
}

func newFixture() *fixture {
	repository := newMemoryRepository()
	transactor := &memoryTransactor{repository: repository}
	validator := &countingValidator{Validator: NewCategoryValidator()}

	return &fixture{
		service:    NewService(repository, validator, NewCategoryTransformer(), transactor),
		repository: repository,
		transactor: transactor,
		validator:  validator,
	}
}
