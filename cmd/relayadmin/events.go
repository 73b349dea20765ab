package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/getAlby/relayadmin.go/lib/service"
	"github.com/spf13/cobra"
)

var eventsCmd = &cobra.Command{
	Use:   "events [query]",
	Short: "List the newest events, optionally filtered by pubkey, event id or content",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limitFlag, _ := cmd.Flags().GetString("limit")
		limit, err := service.ParseEventsLimit(limitFlag)
		if err != nil {
			return err
		}
		query := ""
		if len(args) == 1 {
			query = args[0]
		}
		events, err := svc.ListEvents(context.Background(), query, limit)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(events)
			return nil
		}
		printEventTable(events)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete events by their database id",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, arg := range args {
			id, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid event id %q", arg)
			}
			if err := svc.DeleteEvent(context.Background(), id, actor); err != nil {
				return fmt.Errorf("deleting event %d: %w", id, err)
			}
			if jsonOutput {
				printJSON(map[string]int64{"deleted": id})
				continue
			}
			fmt.Printf("Deleted event %d\n", id)
		}
		return nil
	},
}

var purgeCmd = &cobra.Command{
	Use:   "purge <pubkey>",
	Short: "Delete every event of an author",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deleted, err := svc.PurgeEvents(context.Background(), args[0], actor)
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(map[string]int64{"deleted": deleted})
			return nil
		}
		fmt.Printf("%d events deleted\n", deleted)
		return nil
	},
}

func init() {
	eventsCmd.Flags().String("limit", "", "maximum number of events (default 100, max 1000)")
}
