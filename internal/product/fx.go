package product

import (
	"github.com/techdrop/catalog/internal/product/repository"
	"github.com/techdrop/catalog/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
