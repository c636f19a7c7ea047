package channel

import (
	"go.uber.org/fx"

	"github.com/shopkit/tradepost/internal/channel/repository"
	"github.com/shopkit/tradepost/internal/channel/service"
)

var Module = fx.Module("channel.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
