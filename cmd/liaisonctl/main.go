package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dangerclosesec/liaison"
	"github.com/dangerclosesec/liaison/internal/auth"
	"github.com/dangerclosesec/liaison/internal/config"
	"github.com/dangerclosesec/liaison/internal/repository"
	"github.com/dangerclosesec/liaison/internal/service"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/spf13/cobra"
	"gorm.io/gorm/logger"
)

var (
	cfg     *config.Config
	verbose bool

	userEmail string
	userName  string
	userID    string
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)

	userCreateCmd.Flags().StringVar(&userEmail, "email", "", "Email address of the new user")
	userCreateCmd.Flags().StringVar(&userName, "name", "", "Display name of the new user")
	userCreateCmd.MarkFlagRequired("email")
	userCreateCmd.MarkFlagRequired("name")
	userCmd.AddCommand(userCreateCmd)

	tokenCmd.Flags().StringVar(&userID, "user-id", "", "User to mint a session token for")
	tokenCmd.Flags().StringVar(&userEmail, "email", "", "Email to embed; skips the user lookup when set")
	tokenCmd.MarkFlagRequired("user-id")

	rootCmd.AddCommand(migrateCmd, userCmd, tokenCmd)
}

var rootCmd = &cobra.Command{
	Use:   "liaisonctl",
	Short: "liaisonctl administers a liaison deployment",
	Long:  `liaisonctl applies database migrations, creates users and mints session tokens.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrations(func(db *sql.DB) error {
			err := goose.Up(db, "migrations")
			if errors.Is(err, goose.ErrNoNextVersion) {
				return nil
			}
			return err
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrations(func(db *sql.DB) error {
			return goose.Down(db, "migrations")
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the state of every migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrations(func(db *sql.DB) error {
			return goose.Status(db, "migrations")
		})
	},
}

// withMigrations opens a database/sql handle and points goose at the
// embedded migration files.
func withMigrations(fn func(db *sql.DB) error) error {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	goose.SetBaseFS(liaison.MigrationsFS)
	if !verbose {
		goose.SetLogger(goose.NopLogger())
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}

	return fn(db)
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user and print its id",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		users, err := userService(ctx)
		if err != nil {
			return err
		}

		user, err := users.CreateUser(ctx, service.CreateUserInput{Email: userEmail, Name: userName})
		if err != nil {
			return err
		}

		fmt.Println(user.ID)
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a session token",
	RunE: func(cmd *cobra.Command, args []string) error {
		if userEmail != "" {
			token, err := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiryPeriod).
				Generate(auth.Identity{ID: userID, Email: userEmail})
			if err != nil {
				return err
			}
			fmt.Println(token)
			return nil
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		users, err := userService(ctx)
		if err != nil {
			return err
		}

		token, err := users.IssueToken(ctx, userID)
		if err != nil {
			return err
		}

		fmt.Println(token)
		return nil
	},
}

func userService(ctx context.Context) (*service.UserService, error) {
	level := logger.Silent
	if verbose {
		level = logger.Info
	}

	db, err := repository.Open(ctx, cfg.DSN(), level)
	if err != nil {
		return nil, err
	}

	return service.NewUserService(
		repository.NewUserRepository(db),
		auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.ExpiryPeriod),
		nil,
	), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
