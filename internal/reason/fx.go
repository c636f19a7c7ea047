package reason

import (
	"go.uber.org/fx"

	"github.com/shopkit/tradepost/internal/reason/repository"
	"github.com/shopkit/tradepost/internal/reason/service"
)

var Module = fx.Module("reason.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
