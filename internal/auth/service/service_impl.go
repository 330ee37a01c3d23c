package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/techdrop/catalog/internal/auth/domain"
	"github.com/techdrop/catalog/internal/auth/password"
	"github.com/techdrop/catalog/internal/auth/token"
	"go.uber.org/zap"
)

type Service struct {
	log    *zap.Logger
	repo   domain.Repository
	issuer token.Issuer
}

func New(log *zap.Logger, repo domain.Repository, issuer token.Issuer) domain.Service {
	return &Service{
		log:    log.Named("auth.service"),
		repo:   repo,
		issuer: issuer,
	}
}

// Login verifies credentials and issues a signed session token. Unknown
// email and wrong password return the same error so accounts cannot be
// enumerated.
func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (*domain.LoginResult, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if req.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	admin, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !password.Verify(req.Password, admin.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	raw, expiresAt, err := s.issuer.Issue(domain.Identity{ID: admin.ID, Role: admin.Role})
	if err != nil {
		return nil, err
	}

	s.log.Info("administrator logged in", zap.String("admin_id", admin.ID.String()))

	return &domain.LoginResult{
		Profile:   domain.Profile{Email: admin.Email, Role: admin.Role},
		RawToken:  raw,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *Service) Me(ctx context.Context, rawToken string) (*domain.Profile, error) {
	identity, err := s.Authenticate(rawToken)
	if err != nil {
		return nil, err
	}

	admin, err := s.repo.FindByID(ctx, identity.ID)
	if err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}

	return &domain.Profile{Email: admin.Email, Role: admin.Role}, nil
}

// Authenticate verifies the raw token by signature and expiry alone; there
// is no session table to consult.
func (s *Service) Authenticate(rawToken string) (*domain.Identity, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, domain.ErrInvalidToken
	}
	return s.issuer.Verify(rawToken)
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", domain.ErrInvalidCredentials
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", err
	}
	return email, nil
}
