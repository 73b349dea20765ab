package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/getAlby/relayadmin.go/lib/service"
	"github.com/spf13/cobra"
)

var banCmd = &cobra.Command{
	Use:   "ban <pubkey>...",
	Short: "Ban one or more pubkeys (hex or npub)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := false
		for _, pubkey := range args {
			banned, err := svc.BanPubkey(context.Background(), pubkey, actor)
			if errors.Is(err, service.ErrAlreadyBanned) {
				fmt.Fprintf(os.Stderr, "%s is already banned\n", pubkey)
				continue
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error banning %s: %v\n", pubkey, err)
				failed = true
				continue
			}
			if jsonOutput {
				printJSON(banned)
				continue
			}
			fmt.Printf("Banned %s\n", banned.Pubkey)
		}
		if failed {
			return errors.New("not all pubkeys could be banned")
		}
		return nil
	},
}

var unbanCmd = &cobra.Command{
	Use:   "unban <pubkey>...",
	Short: "Remove one or more pubkeys from the ban list",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, pubkey := range args {
			hexKey, err := service.NormalizePubkey(pubkey)
			if err != nil {
				return err
			}
			if err := svc.UnbanPubkey(context.Background(), hexKey, actor); err != nil {
				return fmt.Errorf("unbanning %s: %w", pubkey, err)
			}
			if jsonOutput {
				printJSON(map[string]string{"unbanned": hexKey})
				continue
			}
			fmt.Printf("Unbanned %s\n", pubkey)
		}
		return nil
	},
}

var bannedCmd = &cobra.Command{
	Use:   "banned",
	Short: "List banned pubkeys",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		banned, err := svc.ListBanned(context.Background())
		if err != nil {
			return err
		}
		if jsonOutput {
			printJSON(banned)
			return nil
		}
		printBannedTable(banned)
		return nil
	},
}
