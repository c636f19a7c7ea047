package customer

import (
	"go.uber.org/fx"

	"github.com/shopkit/tradepost/internal/customer/repository"
	"github.com/shopkit/tradepost/internal/customer/service"
)

var Module = fx.Module("customer.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
