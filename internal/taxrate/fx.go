package taxrate

import (
	"go.uber.org/fx"

	"github.com/shopkit/tradepost/internal/taxrate/repository"
	"github.com/shopkit/tradepost/internal/taxrate/service"
)

var Module = fx.Module("taxrate.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
