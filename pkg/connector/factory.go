// pkg/connector/factory.go
package connector

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Rohith-Rayal-1357/override-dashboard/pkg/config"
)

// ConnectorFactory creates database connectors
type ConnectorFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewConnectorFactory creates a new connector factory
func NewConnectorFactory(cfg *config.Config, logger *zap.Logger) *ConnectorFactory {
	return &ConnectorFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateConnector creates the connector for the configured driver
func (f *ConnectorFactory) CreateConnector(ctx context.Context) (DatabaseConnector, error) {
	switch f.cfg.Driver {
	case config.DriverSnowflake:
		f.logger.Info("Creating Snowflake connector")
		conn, err := NewSnowflakeConnector(ctx, f.cfg.Snowflake, f.cfg.CatalogTable)
		if err != nil {
			return nil, fmt.Errorf("failed to create Snowflake connector: %w", err)
		}
		return conn, nil

	case config.DriverPostgres:
		f.logger.Info("Creating PostgreSQL connector")
		conn, err := NewPostgresConnector(ctx, f.cfg.Postgres, f.cfg.CatalogTable)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connector: %w", err)
		}
		return conn, nil

	default:
		return nil, fmt.Errorf("unsupported driver: %s", f.cfg.Driver)
	}
}
