package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/callisto/pkg/cli"
	"mercator-hq/callisto/pkg/dataset"
	"mercator-hq/callisto/pkg/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dataset...]",
	Short: "Validate datasets against their bound schemas",
	Long: `Load the named datasets and report their validation verdicts. With no
arguments, every discovered dataset with a bound schema is validated.

The exit code is non-zero when any dataset fails to load or fails
validation.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	mgr, _, err := newCLIManager(cmd)
	if err != nil {
		return cli.NewCommandError("validate", err)
	}
	defer mgr.Close()

	ids := args
	if len(ids) == 0 {
		infos, err := mgr.List()
		if err != nil {
			return cli.NewCommandError("validate", err)
		}
		for _, info := range infos {
			if info.SchemaName != "" {
				ids = append(ids, info.ID)
			}
		}
		if len(ids) == 0 {
			fmt.Println("no datasets with bound schemas")
			return nil
		}
	}

	failed := 0
	for _, id := range ids {
		if !validateOne(cmd.Context(), mgr, id) {
			failed++
		}
	}

	fmt.Printf("\n%d dataset(s) checked, %d failed\n", len(ids), failed)
	if failed > 0 {
		return cli.NewCommandError("validate", fmt.Errorf("%d dataset(s) failed validation", failed))
	}
	return nil
}

// validateOne loads one dataset, prints its verdict, and reports
// whether it passed. Strict mode surfaces invalid datasets as load
// errors; non-strict mode surfaces them through the verdict.
func validateOne(ctx context.Context, mgr *dataset.Manager, id string) bool {
	ds, err := mgr.Get(ctx, id)
	if err != nil {
		var verr *schema.ValidationError
		if errors.As(err, &verr) {
			fmt.Printf("✗ %s (schema %s)\n", id, verr.Schema)
			printVerdict(verr.Result)
			return false
		}
		fmt.Printf("✗ %s: %v\n", id, err)
		return false
	}

	switch {
	case !ds.Validated():
		fmt.Printf("- %s: no schema bound\n", id)
		return true
	case ds.Valid():
		fmt.Printf("✓ %s (schema %s)\n", id, ds.SchemaName)
		return true
	default:
		fmt.Printf("✗ %s (schema %s)\n", id, ds.SchemaName)
		printVerdict(ds.Verdict)
		return false
	}
}

func printVerdict(result *schema.Result) {
	for _, e := range result.Errors {
		fmt.Printf("    %s\n", e.String())
	}
	for _, w := range result.Warnings {
		fmt.Printf("    warning: %s\n", w.String())
	}
}
