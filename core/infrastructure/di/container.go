package di

import (
	"context"

	"github.com/ebspulse/ebspulse/core/application/catalog"
	"github.com/ebspulse/ebspulse/core/application/gateway"
	"github.com/ebspulse/ebspulse/core/application/services"
	"github.com/ebspulse/ebspulse/core/domain/interfaces"
	"github.com/ebspulse/ebspulse/core/infrastructure/config"
	"github.com/ebspulse/ebspulse/core/infrastructure/database"
	"github.com/ebspulse/ebspulse/core/infrastructure/logging"
)

// Container holds all dependencies
type Container struct {
	Config        config.Config
	Database      interfaces.Database
	Catalog       interfaces.Catalog
	Gateway       interfaces.Gateway
	ReportService interfaces.ReportService
}

// NewContainer creates the Oracle pool and wires the application on top of it.
// An unreachable database at startup is logged and kept: each request then reports
// CONNECTION_FAILED on its own.
func NewContainer(ctx context.Context, cfg config.Config) (*Container, error) {
	db, err := database.NewPool(cfg.Database)
	if err != nil {
		return nil, err
	}

	log := logging.New("database")
	if err := database.Ping(ctx, db, cfg.Database.PingTimeout); err != nil {
		log.Warnf("Database %s unreachable at startup, serving anyway: %v", cfg.Database.Redacted(), err)
	} else {
		log.Infof("Database pool ready (%s, max open %d)", cfg.Database.Redacted(), cfg.Database.MaxOpenConns)
	}
	return NewContainerWithDatabase(cfg, db), nil
}

// NewVerifiedContainer is NewContainer for one-shot commands: it fails when the
// database does not answer a ping.
func NewVerifiedContainer(ctx context.Context, cfg config.Config) (*Container, error) {
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	return NewContainerWithDatabase(cfg, db), nil
}

// NewContainerWithDatabase wires the application on an already opened pool
func NewContainerWithDatabase(cfg config.Config, db interfaces.Database) *Container {
	cat := catalog.New()
	gw := gateway.NewGateway(cat, db, gateway.WithQueryTimeout(cfg.Database.QueryTimeout))

	return &Container{
		Config:        cfg,
		Database:      db,
		Catalog:       cat,
		Gateway:       gw,
		ReportService: services.NewReportService(cat, gw, db),
	}
}

// Close closes all resources
func (c *Container) Close() error {
	if c.Database != nil {
		return c.Database.Close()
	}
	return nil
}
