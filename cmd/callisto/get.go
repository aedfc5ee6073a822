package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/callisto/pkg/canon"
	"mercator-hq/callisto/pkg/cli"
	"mercator-hq/callisto/pkg/facet"
)

var getFlags struct {
	fields  []string
	env     string
	entryID string
	idField string
}

var getCmd = &cobra.Command{
	Use:   "get <dataset>",
	Short: "Print a dataset or a view of it",
	Long: `Print a dataset's canonical value as JSON.

With --field, the dataset is treated as a collection and only entries
matching every field=value pair are printed. With --env, the dataset's
defaults are merged with the named environment's overrides. With --id,
the single entry whose identifier field matches is printed.

The dataset argument accepts a bare identifier ("users"), an explicit
filename ("users.yaml"), or a dotted path into the dataset
("catalog.products").`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	getCmd.Flags().StringArrayVar(&getFlags.fields, "field", nil, "filter entries by field=value (repeatable)")
	getCmd.Flags().StringVar(&getFlags.env, "env", "", "merge the named environment over the dataset defaults")
	getCmd.Flags().StringVar(&getFlags.entryID, "id", "", "print the single entry with this identifier")
	getCmd.Flags().StringVar(&getFlags.idField, "id-field", "", "identifier field for --id (default \"id\")")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	if getFlags.env != "" && (len(getFlags.fields) > 0 || getFlags.entryID != "") {
		return cli.NewCommandError("get", fmt.Errorf("--env cannot be combined with --field or --id"))
	}
	if getFlags.entryID != "" && len(getFlags.fields) > 0 {
		return cli.NewCommandError("get", fmt.Errorf("--id cannot be combined with --field"))
	}

	mgr, _, err := newCLIManager(cmd)
	if err != nil {
		return cli.NewCommandError("get", err)
	}
	defer mgr.Close()

	ctx := cmd.Context()
	ref := args[0]

	var value *canon.Value
	switch {
	case getFlags.env != "":
		value, err = mgr.GetWithEnvironment(ctx, ref, getFlags.env)
	case getFlags.entryID != "":
		value, err = mgr.GetByID(ctx, ref, getFlags.entryID, getFlags.idField)
	case len(getFlags.fields) > 0:
		var filter *facet.Filter
		filter, err = parseFieldFilter(getFlags.fields)
		if err == nil {
			value, err = mgr.GetFiltered(ctx, ref, filter)
		}
	default:
		ds, gerr := mgr.Get(ctx, ref)
		if gerr != nil {
			err = gerr
		} else {
			value = ds.Value
		}
	}
	if err != nil {
		return cli.NewCommandError("get", err)
	}

	return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, value)
}

// parseFieldFilter turns repeated field=value flags into a filter.
// Values that read as booleans or numbers are matched as such, so
// --field port=8080 matches a numeric field.
func parseFieldFilter(pairs []string) (*facet.Filter, error) {
	filter := facet.NewFilter()
	for _, pair := range pairs {
		field, raw, ok := strings.Cut(pair, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid --field %q: want field=value", pair)
		}
		filter.Where(field, parseFieldValue(raw))
	}
	return filter, nil
}

func parseFieldValue(raw string) *canon.Value {
	switch raw {
	case "true":
		return canon.Bool(true)
	case "false":
		return canon.Bool(false)
	case "null":
		return canon.Null()
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		return canon.Number(n)
	}
	return canon.String(raw)
}
