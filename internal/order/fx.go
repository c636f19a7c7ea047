package order

import (
	"go.uber.org/fx"

	"github.com/shopkit/tradepost/internal/order/service"
)

var Module = fx.Module("order.service",
	fx.Provide(service.NewService),
)
