package main

import (
	"context"
	"time"

	"github.com/getAlby/relayadmin.go/lib/service"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show relay statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := svc.GetStats(context.Background(), time.Now())
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(stats)
			return nil
		}
		printStats(stats)
		return nil
	},
}

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "Show the admin audit log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limitFlag, _ := cmd.Flags().GetString("limit")
		limit, err := service.ParseEventsLimit(limitFlag)
		if err != nil {
			return err
		}
		actions, err := svc.ListAdminActions(context.Background(), limit)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(actions)
			return nil
		}
		printActionTable(actions)
		return nil
	},
}

func init() {
	actionsCmd.Flags().String("limit", "", "maximum number of entries (default 100, max 1000)")
}
