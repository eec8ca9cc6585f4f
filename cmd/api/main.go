// Package main provides the fleetadmin CLI entry point.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/reflexops/fleetadmin/pkg/config"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	rootCmd := &cobra.Command{
		Use:   "fleetadmin",
		Short: "Back office for a vehicle tracking reseller",
		Long: `fleetadmin manages tracking clients, vehicle subscriptions and
bulk spreadsheet imports for a vehicle tracking reseller.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd(logger))
	rootCmd.AddCommand(newImportCmd(logger))

	if err := rootCmd.Execute(); err != nil {
		logger.Error("command failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// newServeCmd runs the HTTP API server.
func newServeCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			deps, err := InitDependencies(cfg, logger)
			if err != nil {
				return err
			}
			defer deps.Close()

			return runServer(deps)
		},
	}
}

// newImportCmd imports one spreadsheet from the command line.
func newImportCmd(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "import [file.xlsx|file.csv]",
		Short: "Import a client spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			deps, err := InitDependencies(cfg, logger)
			if err != nil {
				return err
			}
			defer deps.Close()

			result, err := deps.ImportService.ImportFile(context.Background(), filepath.Base(path), data)
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}
