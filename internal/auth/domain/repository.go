package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Administrator, error)
	FindByID(ctx context.Context, id snowflake.ID) (*Administrator, error)
	Create(ctx context.Context, admin *Administrator) error
}
