package inventory

import (
	"go.uber.org/fx"

	"github.com/shopkit/tradepost/internal/inventory/service"
)

var Module = fx.Module("inventory.service",
	fx.Provide(service.NewService),
)
