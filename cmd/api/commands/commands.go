package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"user-registration-service/cmd/api/app"
	"user-registration-service/cmd/api/di"
	"user-registration-service/cmd/api/server"
	"user-registration-service/internal/adapter/gin/handler"
	"user-registration-service/internal/config"

	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the user registration HTTP API",
		Long:  "Start the HTTP API with the configured record store, rate limiting, metrics and Swagger UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := server.WithSignal(cmd.Context())
			defer stop()

			a, err := app.New(ctx)
			if err != nil {
				return err
			}
			return a.Run(ctx)
		},
	}
}

// NewUsersCommand creates the users command with its subcommands
func NewUsersCommand() *cobra.Command {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect registered users",
	}

	usersCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print every stored user as one JSON object per line",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			return listUsers(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	})

	return usersCmd
}

func listUsers(ctx context.Context, cfg *config.Config, out io.Writer) error {
	// stdout carries the listing
	if cfg.Logger.OutputPath == "" || cfg.Logger.OutputPath == "stdout" {
		cfg.Logger.OutputPath = "stderr"
	}
	cfg.RateLimit.Enabled = false

	l, err := app.InitLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	c, err := di.NewContainer(ctx, cfg, l)
	if err != nil {
		return fmt.Errorf("failed to create container: %w", err)
	}
	defer func() { _ = c.Close() }()

	resp, err := c.UserUC.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	enc := json.NewEncoder(out)
	for _, u := range resp.Users {
		if err := enc.Encode(handler.UserResponse{
			Name:     u.Name,
			Email:    u.Email,
			Address:  u.Address,
			Phone:    u.Phone,
			UserType: u.Tier,
			Money:    u.Balance,
		}); err != nil {
			return fmt.Errorf("failed to write user: %w", err)
		}
	}
	return nil
}
