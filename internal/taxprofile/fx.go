package taxprofile

import (
	"go.uber.org/fx"

	"github.com/shopkit/tradepost/internal/taxprofile/repository"
	"github.com/shopkit/tradepost/internal/taxprofile/service"
)

var Module = fx.Module("taxprofile.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
