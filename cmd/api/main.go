package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/momentum/core/cmd/api/commands"
)

// @title Momentum API
// @version 1.0
// @description Personal task and calendar workspace with tabs, sections and deadline-linked events

// @contact.name Momentum
// @contact.url https://github.com/momentum/core

// @license.name MIT
// @license.url https://github.com/momentum/core/blob/main/LICENSE

// @host localhost:5000
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	rootCmd := &cobra.Command{
		Use:   "momentum",
		Short: "Momentum API Server",
		Long:  `Momentum is a personal productivity server: a tabbed task workspace with sections, drag-drop ordering and a calendar with deadline-linked events.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewUserCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
