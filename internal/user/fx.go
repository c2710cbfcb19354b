package user

import (
	"github.com/frontstep/dealanalyzer/internal/user/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("user",
	fx.Provide(repository.NewRepository),
)
