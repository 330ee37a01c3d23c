package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/techdrop/catalog/internal/auth/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func New(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) FindByEmail(ctx context.Context, email string) (*domain.Administrator, error) {
	var admin domain.Administrator
	err := r.db.WithContext(ctx).First(&admin, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (r *repo) FindByID(ctx context.Context, id snowflake.ID) (*domain.Administrator, error) {
	var admin domain.Administrator
	err := r.db.WithContext(ctx).First(&admin, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAdminNotFound
		}
		return nil, err
	}
	return &admin, nil
}

func (r *repo) Create(ctx context.Context, admin *domain.Administrator) error {
	return r.db.WithContext(ctx).Create(admin).Error
}
