package main

import (
	"fmt"
	"os"

	intconfig "storefront/internal/config"
	"storefront/internal/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	env intconfig.Env
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "storefront",
	Short:         "Storefront catalog and admin API",
	Long:          "Storefront catalog and admin API. Without a subcommand it runs serve.",
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if env, err = intconfig.LoadEnv(); err != nil {
			return err
		}
		if log, err = utils.InitLogger(env.LogLevel); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not apply the schema on startup")
	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
