package domain

import (
	"errors"
	"time"
)

var ErrCategoryNotFound = errors.New("category not found")

type Category struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CategoryRecord is the persisted shape of a category write. Fields absent
// here are never written, whatever the caller submitted.
type CategoryRecord struct {
	Name string `db:"name"`
}
