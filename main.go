package main

import (
	"SaveByte/cmd/config"
	migration "SaveByte/cmd/database/migrate"
	"SaveByte/internal/utils"
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logger     zerolog.Logger

	rootCmd = &cobra.Command{
		Use:   "savebyte",
		Short: "Surplus food donation backend for hostels, NGOs and anganwadi centres",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			utils.LoadConfigFile(configPath)
			logger = utils.NewLogger(utils.GetConfig("LOG_LEVEL"), utils.GetConfig("LOG_FORMAT"))
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the websocket server",
		RunE:  runServe,
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE:  runMigrate,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "path to the YAML config file")
	serveCmd.Flags().Bool("migrate", false, "run migrations before serving")
	serveCmd.Flags().String("port", "", "override APP_PORT")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if port, _ := cmd.Flags().GetString("port"); port != "" {
		utils.SetConfig("APP_PORT", port)
	}

	db, err := config.ConnectDB()
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	if withMigrate, _ := cmd.Flags().GetBool("migrate"); withMigrate {
		if err := migration.Migrate(db, logger); err != nil {
			return err
		}
	}

	app, err := config.NewApp(ctx, db, logger)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	db, err := config.ConnectDB()
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	return migration.Migrate(db, logger)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
