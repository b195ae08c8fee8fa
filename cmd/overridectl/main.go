// cmd/overridectl/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Rohith-Rayal-1357/override-dashboard/pkg/catalog"
	"github.com/Rohith-Rayal-1357/override-dashboard/pkg/config"
	"github.com/Rohith-Rayal-1357/override-dashboard/pkg/connector"
	"github.com/Rohith-Rayal-1357/override-dashboard/pkg/model"
	"github.com/Rohith-Rayal-1357/override-dashboard/pkg/store"
	"github.com/Rohith-Rayal-1357/override-dashboard/pkg/workflow"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		listModules = flag.Bool("modules", false, "list modules configured in the override catalog")
		module      = flag.String("module", "", "module number to inspect")
		table       = flag.String("table", "", "source table to dump (requires -module)")
		history     = flag.Bool("history", false, "dump the override trail instead of the source data")
	)
	flag.Parse()

	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx := context.Background()

	factory := connector.NewConnectorFactory(cfg, logger)
	conn, err := factory.CreateConnector(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.Validate(); err != nil {
		return err
	}

	catalogReader, err := catalog.NewReader(conn, cfg.CatalogTable, cfg.ReadTimeout)
	if err != nil {
		return err
	}

	if *listModules {
		return printModules(ctx, catalogReader)
	}

	if *module != "" {
		reader, err := store.NewTableReader(conn, cfg.ReadTimeout)
		if err != nil {
			return err
		}
		writer, err := store.NewOverrideWriter(conn, cfg.WriteTimeout)
		if err != nil {
			return err
		}

		session := workflow.NewSession(catalogReader, reader, writer, model.DefaultKeyRegistry())
		if err := session.SelectModuleParam(ctx, *module); err != nil {
			return err
		}

		if *table == "" {
			fmt.Printf("Module %d (%s) tables:\n", session.Module(), session.ModuleName())
			for _, name := range session.Tables() {
				fmt.Println("  " + name)
			}
			return nil
		}

		return printTable(ctx, session, *table, *history)
	}

	flag.Usage()
	return nil
}

func printModules(ctx context.Context, reader *catalog.Reader) error {
	entries, err := reader.LoadAll(ctx)
	if err != nil {
		return err
	}

	seen := make(map[int]bool)
	for _, e := range entries {
		if seen[e.Module] {
			continue
		}
		seen[e.Module] = true
		fmt.Printf("%d\t%s\n", e.Module, e.ModuleName)
	}
	return nil
}

func printTable(ctx context.Context, session *workflow.Session, table string, history bool) error {
	if err := session.SelectTable(table); err != nil {
		return err
	}

	var rows *model.RowSet
	var err error
	if history {
		rows, err = session.OverrideHistory(ctx)
	} else {
		rows, err = session.Refresh(ctx)
	}
	if err != nil {
		return err
	}

	for _, col := range rows.Columns {
		fmt.Printf("%s\t", col)
	}
	fmt.Println()
	for _, row := range rows.Rows {
		for _, col := range rows.Columns {
			fmt.Printf("%v\t", row[col])
		}
		fmt.Println()
	}
	fmt.Printf("(%d rows)\n", rows.Len())
	return nil
}

// buildLogger constructs the process logger from config
func buildLogger(cfg *config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.LogFormat == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
