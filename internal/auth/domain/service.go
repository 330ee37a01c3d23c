package domain

import (
	"context"
	"time"
)

type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	Me(ctx context.Context, rawToken string) (*Profile, error)
	Authenticate(rawToken string) (*Identity, error)
}

type LoginRequest struct {
	Email    string
	Password string
}

type LoginResult struct {
	Profile   Profile
	RawToken  string
	ExpiresAt time.Time
}
