package main

import (
	"github.com/frontstep/dealanalyzer/internal/audit"
	"github.com/frontstep/dealanalyzer/internal/clerk"
	"github.com/frontstep/dealanalyzer/internal/config"
	"github.com/frontstep/dealanalyzer/internal/logger"
	"github.com/frontstep/dealanalyzer/internal/migration"
	"github.com/frontstep/dealanalyzer/internal/observability"
	"github.com/frontstep/dealanalyzer/internal/organization"
	"github.com/frontstep/dealanalyzer/internal/server"
	"github.com/frontstep/dealanalyzer/internal/user"
	"github.com/frontstep/dealanalyzer/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		db.Module,
		migration.Module,

		// Domains
		user.Module,
		organization.Module,
		audit.Module,
		clerk.Module,

		server.Module,
	)
	app.Run()
}
