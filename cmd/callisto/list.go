package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"mercator-hq/callisto/pkg/cli"
	"mercator-hq/callisto/pkg/dataset"
)

var listFlags struct {
	format string
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List discovered datasets",
	Long: `List every dataset in the data directory: files with a registered
extension (.json, .yaml, .yml, .csv, .db, .sqlite), sorted by
identifier, with their format and bound schema.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listFlags.format, "format", "f", "text", "output format (text, json)")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	mgr, _, err := newCLIManager(cmd)
	if err != nil {
		return cli.NewCommandError("list", err)
	}
	defer mgr.Close()

	infos, err := mgr.List()
	if err != nil {
		return cli.NewCommandError("list", err)
	}

	if cli.OutputFormat(listFlags.format) == cli.FormatJSON {
		type listEntry struct {
			ID     string `json:"id"`
			Path   string `json:"path"`
			Format string `json:"format"`
			Schema string `json:"schema,omitempty"`
		}
		entries := make([]listEntry, 0, len(infos))
		for _, info := range infos {
			entries = append(entries, listEntry{
				ID:     info.ID,
				Path:   info.Path,
				Format: string(info.Format),
				Schema: info.SchemaName,
			})
		}
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, entries)
	}

	printDatasetTable(infos)
	return nil
}

func printDatasetTable(infos []dataset.DatasetInfo) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFORMAT\tSCHEMA\tPATH")
	for _, info := range infos {
		schemaName := info.SchemaName
		if schemaName == "" {
			schemaName = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", info.ID, info.Format, schemaName, info.Path)
	}
	w.Flush()
}
