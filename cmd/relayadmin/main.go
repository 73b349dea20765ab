package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/getAlby/relayadmin.go/db"
	"github.com/getAlby/relayadmin.go/db/migrations"
	"github.com/getAlby/relayadmin.go/lib/logging"
	"github.com/getAlby/relayadmin.go/lib/service"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
)

// commands with this annotation run without a database
const offlineAnnotation = "offline"

var (
	envFile    string
	jsonOutput bool
	actor      string

	dbConn *bun.DB
	svc    *service.RelayAdminService
)

func defaultActor() string {
	if u := os.Getenv("USER"); u != "" {
		return "cli:" + u
	}
	return "cli"
}

var rootCmd = &cobra.Command{
	Use:           "relayadmin",
	Short:         "Command line access to the relay admin functions",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, ok := cmd.Annotations[offlineAnnotation]; ok {
			return nil
		}
		return openService()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if dbConn != nil {
			dbConn.Close()
		}
	},
}

func openService() error {
	if err := godotenv.Load(envFile); err != nil && envFile != ".env" {
		return fmt.Errorf("failed to load %s: %w", envFile, err)
	}
	c := &service.Config{}
	if err := envconfig.Process("", c); err != nil {
		return fmt.Errorf("error loading environment variables: %w", err)
	}

	// keep stdout clean for the command output
	logger := logging.Logger(c.LogFilePath)
	if c.LogFilePath == "" {
		logger.SetOutput(os.Stderr)
	}
	logger.SetLevel(log.ERROR)

	var err error
	dbConn, err = db.Open(c)
	if err != nil {
		return fmt.Errorf("error initializing db connection: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err = migrations.Migrate(ctx, dbConn); err != nil {
		return err
	}
	svc, err = service.NewRelayAdminService(c, dbConn, logger)
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file with the relay admin configuration")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", defaultActor(), "actor recorded in the admin audit log")

	rootCmd.AddCommand(banCmd)
	rootCmd.AddCommand(unbanCmd)
	rootCmd.AddCommand(bannedCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(purgeCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(actionsCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(signAuthCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
