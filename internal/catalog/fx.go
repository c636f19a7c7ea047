package catalog

import (
	"go.uber.org/fx"

	"github.com/shopkit/tradepost/internal/catalog/repository"
	"github.com/shopkit/tradepost/internal/catalog/service"
)

var Module = fx.Module("catalog.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
