package main

import (
	"fmt"
	"strings"

	intconfig "storefront/internal/config"
	intdb "storefront/internal/db"
	"storefront/internal/domain/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := intconfig.ConnectDB(env)
		if err != nil {
			return err
		}
		defer intconfig.CloseDB()
		if err := intdb.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		log.Info("schema applied")
		return nil
	},
}

var adminFlags struct {
	email    string
	password string
	name     string
}

// createAdminCmd provisions an account that can sign in to the admin panel.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin user",
	RunE:  runCreateAdmin,
}

func init() {
	f := createAdminCmd.Flags()
	f.StringVar(&adminFlags.email, "email", "", "admin email (required)")
	f.StringVar(&adminFlags.password, "password", "", "admin password, at least 8 characters (required)")
	f.StringVar(&adminFlags.name, "name", "Administrator", "display name")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	email := strings.ToLower(strings.TrimSpace(adminFlags.email))
	if email == "" {
		return fmt.Errorf("--email is required")
	}
	hash, err := services.HashPassword(adminFlags.password)
	if err != nil {
		return err
	}

	db, err := intconfig.ConnectDB(env)
	if err != nil {
		return err
	}
	defer intconfig.CloseDB()
	if err := intdb.Migrate(cmd.Context(), db); err != nil {
		return err
	}

	id, err := repositories.UserRepository{DB: db}.Create(cmd.Context(), models.User{
		Name:         strings.TrimSpace(adminFlags.name),
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		Status:       "active",
	})
	if err != nil {
		return err
	}
	log.Info("admin created", zap.Int64("user_id", id), zap.String("email", email))
	fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (id %d)\n", email, id)
	return nil
}
