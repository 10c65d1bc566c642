package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"user-registration-service/cmd/api/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "user-registration-service",
		Short:         "User registration service",
		Long:          "Registers users with email normalization, duplicate detection and a tiered welcome bonus.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewUsersCommand())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Printf("application exited with error: %v", err)
		os.Exit(1)
	}
}
