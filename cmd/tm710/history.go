package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dougsko/tm710/pkg/client"
	"github.com/dougsko/tm710/pkg/protocol"
	"github.com/dougsko/tm710/pkg/storage"
)

type historyFlags struct {
	limit      int
	opcode     string
	errorsOnly bool
	since      time.Duration
	stats      bool
}

func (a *app) historyCmd() *cobra.Command {
	var flags historyFlags

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded radio transactions",
		Long: `history prints the transaction journal, newest first. The journal is
written when storage.journal_enabled is set, by tm710 and by tm710d.`,
		Example: indent("history --limit 20\nhistory --opcode ME --errors"),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.remote != "" {
				return a.remoteHistory(flags)
			}
			return a.localHistory(flags)
		},
	}

	cmd.Flags().IntVarP(&flags.limit, "limit", "n", 50, "Number of entries to show (0 for all)")
	cmd.Flags().StringVarP(&flags.opcode, "opcode", "o", "", "Only show this opcode")
	cmd.Flags().BoolVarP(&flags.errorsOnly, "errors", "e", false, "Only show failed transactions")
	cmd.Flags().DurationVar(&flags.since, "since", 0, "Only show transactions newer than this age")
	cmd.Flags().BoolVar(&flags.stats, "stats", false, "Show journal totals instead of entries")
	return cmd
}

func (a *app) localHistory(flags historyFlags) error {
	store, err := storage.NewJournalStore(a.cfg.Storage.DatabasePath, 0)
	if err != nil {
		return err
	}
	defer store.Close()

	if flags.stats {
		stats, err := store.GetStats()
		if err != nil {
			return err
		}
		a.printStats(stats)
		return nil
	}

	query := storage.JournalQuery{
		Limit:      flags.limit,
		Opcode:     flags.opcode,
		ErrorsOnly: flags.errorsOnly,
	}
	if flags.since > 0 {
		since := time.Now().Add(-flags.since)
		query.Since = &since
	}

	entries, err := store.GetEntries(query)
	if err != nil {
		return err
	}
	a.printEntries(entries)
	return nil
}

// remoteHistory fetches the daemon's journal; filters apply to the
// entries returned
func (a *app) remoteHistory(flags historyFlags) error {
	if flags.stats {
		return fmt.Errorf("--stats is only available for the local journal")
	}

	c := client.NewHTTPClient(a.remote, a.remoteTimeout())
	entries, err := c.GetJournal(flags.limit)
	if err != nil {
		return err
	}

	var kept []protocol.JournalEntry
	for _, e := range entries {
		if flags.opcode != "" && !strings.EqualFold(e.Opcode, flags.opcode) {
			continue
		}
		if flags.errorsOnly && e.Error == "" {
			continue
		}
		if flags.since > 0 && e.Timestamp.Before(time.Now().Add(-flags.since)) {
			continue
		}
		kept = append(kept, e)
	}
	a.printEntries(kept)
	return nil
}

func (a *app) printEntries(entries []protocol.JournalEntry) {
	for _, e := range entries {
		outcome := e.Reply
		if e.Error != "" {
			outcome = "error: " + e.Error
		}
		fmt.Fprintf(a.stdout, "%s  %-14q -> %s (%d ms)\n",
			e.Timestamp.Local().Format("2006-01-02 15:04:05"), e.Request, outcome, e.DurationMS)
	}
}

func (a *app) printStats(stats *storage.JournalStats) {
	fmt.Fprintf(a.stdout, "Transactions: %d\n", stats.TotalTransactions)
	fmt.Fprintf(a.stdout, "Errors: %d\n", stats.TotalErrors)
	if stats.LastCleanup.IsZero() {
		fmt.Fprintln(a.stdout, "Last cleanup: never")
	} else {
		fmt.Fprintf(a.stdout, "Last cleanup: %s\n", stats.LastCleanup.Local().Format("2006-01-02 15:04:05"))
	}
}
