package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// SortSpec is a whitelisted sort column plus direction.
type SortSpec struct {
	Column string
	Desc   bool
}

type ListFilter struct {
	Category *Category
	Status   *Status
	Search   string
	Sort     SortSpec
	Offset   int
	Limit    int

	// Now anchors the status filter evaluation.
	Now time.Time
}

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Product, error)
	FindBySlug(ctx context.Context, db *gorm.DB, slug string) (*Product, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]Product, int64, error)
	Update(ctx context.Context, db *gorm.DB, product *Product) error
	Delete(ctx context.Context, db *gorm.DB, id int64) (bool, error)
}
