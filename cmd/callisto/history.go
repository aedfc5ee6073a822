package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/callisto/pkg/cli"
	"mercator-hq/callisto/pkg/journal"
)

var historyFlags struct {
	dataset string
	outcome string
	since   time.Duration
	limit   int
	offset  int
	format  string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query the load journal",
	Long: `Query the journal of load and validation outcomes, newest first.

The journal must be enabled with a persistent backend (journal.backend:
sqlite) for history to survive between runs; the in-memory backend only
records loads of the current process.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyFlags.dataset, "dataset", "", "filter by dataset identifier")
	historyCmd.Flags().StringVar(&historyFlags.outcome, "outcome", "", "filter by outcome (loaded, failed)")
	historyCmd.Flags().DurationVar(&historyFlags.since, "since", 0, "only records newer than this age (e.g. 24h)")
	historyCmd.Flags().IntVar(&historyFlags.limit, "limit", 0, "maximum records to return (default 100)")
	historyCmd.Flags().IntVar(&historyFlags.offset, "offset", 0, "skip the newest N records")
	historyCmd.Flags().StringVarP(&historyFlags.format, "format", "f", "text", "output format (text, json)")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	mgr, cfg, err := newCLIManager(cmd)
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	defer mgr.Close()

	store := mgr.Journal()
	if store == nil {
		return cli.NewCommandError("history", fmt.Errorf("journal is disabled; enable it in the config (journal.enabled: true)"))
	}
	if cfg.Journal.Backend != "sqlite" {
		fmt.Fprintln(os.Stderr, "note: the in-memory journal backend holds no history from previous runs")
	}

	query := &journal.Query{
		Dataset: historyFlags.dataset,
		Outcome: journal.Outcome(historyFlags.outcome),
		Limit:   historyFlags.limit,
		Offset:  historyFlags.offset,
	}
	if historyFlags.since > 0 {
		since := time.Now().Add(-historyFlags.since)
		query.Since = &since
	}

	records, err := store.Query(cmd.Context(), query)
	if err != nil {
		return cli.NewCommandError("history", err)
	}

	if cli.OutputFormat(historyFlags.format) == cli.FormatJSON {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, records)
	}

	printHistoryTable(records)
	return nil
}

func printHistoryTable(records []*journal.Record) {
	if len(records) == 0 {
		fmt.Println("no journal records")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RECORDED\tDATASET\tOUTCOME\tVERDICT\tDURATION\tDETAIL")
	for _, r := range records {
		verdict := r.Verdict
		if verdict == "" {
			verdict = "-"
		}
		detail := r.ErrorDetail
		if detail == "" {
			detail = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%dms\t%s\n",
			r.RecordedAt.Format(time.RFC3339),
			r.Dataset,
			r.Outcome,
			verdict,
			r.DurationMS,
			detail,
		)
	}
	w.Flush()
}
