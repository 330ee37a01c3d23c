package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
	GetBySlug(ctx context.Context, slug string) (*Response, error)
	List(ctx context.Context, req ListRequest) (*Page, error)
}

type CreateRequest struct {
	Title      string         `json:"title"`
	Brand      string         `json:"brand"`
	Category   string         `json:"category"`
	Images     []string       `json:"images"`
	LaunchDate string         `json:"launchDate"`
	Price      *float64       `json:"price"`
	Specs      map[string]any `json:"specs"`
}

type UpdateRequest struct {
	Title      *string        `json:"title"`
	Brand      *string        `json:"brand"`
	Category   *string        `json:"category"`
	Images     *[]string      `json:"images"`
	LaunchDate *string        `json:"launchDate"`
	Price      *float64       `json:"price"`
	Specs      map[string]any `json:"specs"`
}

type ListRequest struct {
	Category string
	Status   string
	Search   string
	Sort     string
	Page     int
	Limit    int
}

type Response struct {
	ID         string         `json:"id"`
	Title      string         `json:"title"`
	Brand      string         `json:"brand"`
	Category   Category       `json:"category"`
	Images     []string       `json:"images"`
	LaunchDate time.Time      `json:"launchDate"`
	Status     Status         `json:"status"`
	Price      *float64       `json:"price,omitempty"`
	Specs      map[string]any `json:"specs,omitempty"`
	Slug       string         `json:"slug"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

type Page struct {
	Items []Response `json:"items"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
	Total int64      `json:"total"`
	Pages int        `json:"pages"`
}

var (
	ErrInvalidTitle      = errors.New("invalid_title")
	ErrInvalidBrand      = errors.New("invalid_brand")
	ErrInvalidCategory   = errors.New("invalid_category")
	ErrInvalidLaunchDate = errors.New("invalid_launch_date")
	ErrInvalidPrice      = errors.New("invalid_price")
	ErrInvalidStatus     = errors.New("invalid_status")
	ErrInvalidID         = errors.New("invalid_id")
	ErrNotFound          = errors.New("not_found")
	ErrSlugTaken         = errors.New("slug_taken")
)
