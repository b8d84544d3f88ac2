// Package main implements worldctl, the operator CLI for worlds, catalogs and the order ledger.
package main

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/worldorder/worldorder/config"
	"github.com/worldorder/worldorder/internal/database"
	"github.com/worldorder/worldorder/internal/domain"
	"github.com/worldorder/worldorder/internal/repository"
	"github.com/worldorder/worldorder/internal/service"
	"github.com/worldorder/worldorder/pkg/logger"
)

// backend is what the subcommands need from the database
type backend struct {
	worlds *service.WorldService
	ledger *service.LedgerService
	close  func() error
}

// connect loads configuration and opens the database; tests replace it
var connect = func(envFile string) (*backend, error) {
	cfg, err := config.LoadWithOptions(config.LoadOptions{EnvFile: envFile})
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := sql.Open("postgres", database.GetSystemDSN(&cfg.Database))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	log := logger.NewLoggerTo(os.Stderr, cfg.LogLevel)
	return newBackend(repository.NewWorldRepository(db), repository.NewOrderRepository(db), cfg, log, db.Close), nil
}

func newBackend(worlds domain.WorldRepository, orders domain.OrderRepository, cfg *config.Config, log logger.Logger, closeFn func() error) *backend {
	return &backend{
		worlds: service.NewWorldService(worlds, log),
		ledger: service.NewLedgerService(orders, cfg.Location(), log),
		close:  closeFn,
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:   "worldctl",
		Short: "Operator CLI for worldorder",
		Long: `worldctl inspects worlds, imports catalogs from spreadsheets and clears the
live order ledger. It reads the same environment as the webhook server.`,
		Version:       config.VERSION,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "environment file to load")

	open := func() (*backend, error) { return connect(envFile) }

	root.AddCommand(newWorldsCmd(open))
	root.AddCommand(newCatalogCmd(open))
	root.AddCommand(newOrdersCmd(open))
	return root
}

// resolveWorld reads a "#id", numeric id or share code argument
func resolveWorld(token string) (domain.WorldRef, error) {
	ref, ok := domain.ParseWorldRef(token)
	if !ok {
		return domain.WorldRef{}, fmt.Errorf("%q is neither a world id nor a share code", token)
	}
	return ref, nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
