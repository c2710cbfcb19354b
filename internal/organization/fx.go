package organization

import (
	"github.com/frontstep/dealanalyzer/internal/organization/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("organization",
	fx.Provide(repository.NewRepository),
)
