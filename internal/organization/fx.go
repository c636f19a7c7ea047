package organization

import (
	"go.uber.org/fx"

	"github.com/shopkit/tradepost/internal/organization/repository"
	"github.com/shopkit/tradepost/internal/organization/service"
)

var Module = fx.Module("organization.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
