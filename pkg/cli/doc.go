/*
Package cli provides command-line interface utilities for Callisto.

The cli package includes output formatters and common error types used
by the callisto command.

Output Formatting:

The cli package supports text and JSON output for displaying command
results:

	formatter := cli.NewFormatter(cli.FormatJSON)
	data := MyCommandResult{...}
	if err := formatter.FormatTo(os.Stdout, data); err != nil {
		return err
	}
*/
package cli
