package clerk

import (
	"github.com/frontstep/dealanalyzer/internal/clerk/service"
	"github.com/frontstep/dealanalyzer/internal/clerk/verifier"
	"github.com/frontstep/dealanalyzer/internal/config"
	"go.uber.org/fx"
)

func newVerifier(cfg config.Config) (*verifier.Verifier, error) {
	return verifier.New(cfg.ClerkWebhookSecret)
}

var Module = fx.Module("clerk",
	fx.Provide(
		newVerifier,
		service.NewService,
	),
)
