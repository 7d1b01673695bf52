package category

import (
	"catalog/domain"
	"context"
)

// Service validates category input, runs every write inside one transaction
// and shapes reads through the transformer. It holds no state between calls.
type Service struct {
	repository  Repository
	validator   Validator
	transformer Transformer
	transactor  Transactor
}

func NewService(repository Repository, validator Validator, transformer Transformer, transactor Transactor) *Service {
	return &Service{
		repository:  repository,
		validator:   validator,
		transformer: transformer,
		transactor:  transactor,
	}
}

// Create validates input and stores a new category built from its name.
func (s *Service) Create(ctx context.Context, input map[string]any) (bool, error) {
	if err := s.validator.Validations(input); err != nil {
		return false, err
	}

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		_, err := s.repository.Store(ctx, recordFrom(input))
		return err
	})
	if err != nil {
		return false, err
	}

	return true, nil
}

func (s *Service) List(ctx context.Context) ([]map[string]any, error) {
	categories, err := s.repository.List(ctx)
	if err != nil {
		return nil, err
	}

	return s.transformer.TransformCollection(categories), nil
}

func (s *Service) Show(ctx context.Context, id int64) (map[string]any, error) {
	category, err := s.repository.Show(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.transformer.Transform(category), nil
}

// Update validates input and renames the category. Only the name is written.
func (s *Service) Update(ctx context.Context, id int64, input map[string]any) (bool, error) {
	if err := s.validator.Validations(input); err != nil {
		return false, err
	}

	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.repository.Update(ctx, id, recordFrom(input))
	})
	if err != nil {
		return false, err
	}

	return true, nil
}

// Destroy removes the category. There is no input to validate.
func (s *Service) Destroy(ctx context.Context, id int64) (bool, error) {
	err := s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.repository.Destroy(ctx, id)
	})
	if err != nil {
		return false, err
	}

	return true, nil
}

func recordFrom(input map[string]any) domain.CategoryRecord {
	name, _ := input["name"].(string)
	return domain.CategoryRecord{Name: name}
}
