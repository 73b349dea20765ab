package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/getAlby/relayadmin.go/db/models"
	"github.com/getAlby/relayadmin.go/lib/service"
)

func printJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printBannedTable(banned []models.BannedPubkey) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PUBKEY\tBANNED AT")
	for _, b := range banned {
		fmt.Fprintf(w, "%s\t%s\n", b.Pubkey, b.BannedAt.Local().Format("2006-01-02 15:04:05"))
	}
	w.Flush()
	fmt.Printf("\n%d banned pubkeys\n", len(banned))
}

func printEventTable(events []models.EventRow) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tKIND\tPUBKEY\tCONTENT")
	for _, e := range events {
		content := e.Content
		if len(content) > 50 {
			content = content[:47] + "..."
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n",
			e.ID,
			time.Unix(e.CreatedAt, 0).Format("2006-01-02 15:04:05"),
			e.Kind,
			service.ShortPubkey(e.Pubkey),
			content,
		)
	}
	w.Flush()
}

func printActionTable(actions []models.AdminAction) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTION\tTARGET\tACTOR")
	for _, a := range actions {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			a.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			a.Action,
			a.Target,
			a.Actor,
		)
	}
	w.Flush()
}

func printStats(stats *service.Stats) {
	fmt.Printf("Total events:     %d\n", stats.TotalEvents)
	fmt.Printf("Unique users:     %d\n", stats.DistinctPubkeys)
	fmt.Printf("Banned users:     %d\n", stats.BannedPubkeys)
	fmt.Printf("Events (24h):     %d\n", stats.Events24h)
	fmt.Printf("Events (1h):      %d\n", stats.Events1h)
	fmt.Printf("New users (24h):  %d\n", stats.NewUsers24h)
	fmt.Printf("DM share:         %.2f%%\n", stats.DMPercentage)
	fmt.Printf("Oldest event:     %s\n", stats.OldestEventDate)
	fmt.Printf("Database size:    %s\n", stats.DBSize)
	if len(stats.TopKinds) > 0 {
		fmt.Println("\nTop kinds:")
		for _, k := range stats.TopKinds {
			fmt.Printf("  %-8d %d\n", k.Kind, k.Count)
		}
	}
	if len(stats.TopUsers) > 0 {
		fmt.Println("\nTop users:")
		for _, u := range stats.TopUsers {
			fmt.Printf("  %s %d\n", u.Pubkey, u.Count)
		}
	}
}
