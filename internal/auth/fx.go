package auth

import (
	"github.com/techdrop/catalog/internal/auth/repository"
	"github.com/techdrop/catalog/internal/auth/service"
	"github.com/techdrop/catalog/internal/auth/token"
	"github.com/techdrop/catalog/internal/clock"
	"github.com/techdrop/catalog/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.service",
	fx.Provide(provideIssuer),
	fx.Provide(repository.New),
	fx.Provide(service.New),
)

func provideIssuer(cfg config.Config, clk clock.Clock) (token.Issuer, error) {
	return token.NewIssuer(cfg.AuthJWTSecret, clk)
}
