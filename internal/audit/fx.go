package audit

import (
	"github.com/frontstep/dealanalyzer/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit",
	fx.Provide(service.NewService),
)
