package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const rootLong = `ecomload resets and reloads the e-commerce dataset.

Every run:
  1. creates the store (ecom.db) if it does not exist and enables foreign keys
  2. creates the customers, products, orders, order_items and reviews tables if absent
  3. deletes every row, dependents first
  4. loads data/<table>.csv into each table in dependency order,
     one transaction per table

A failure stops the run. Tables loaded before the failing one stay committed
unless --atomic is given, in which case the store is left as it was.

Output:
  stdout gets one "<table>: inserted <n> rows" line per loaded table, in load
  order. A failed run still prints the lines of the tables it committed before
  the failure (none with --atomic); the error goes to stderr.

Configuration (later wins):
  defaults < ecomload.yaml < environment (.env is read if present) < flags

Environment:
  ECOMLOAD_DSN, DATABASE_URL    PostgreSQL DSN for --driver postgres
  ECOMLOAD_S3_REGION            region for s3:// data directories (or AWS_REGION)
  ECOMLOAD_S3_ENDPOINT          custom S3 endpoint such as MinIO
  ECOMLOAD_S3_PATH_STYLE        true to use path-style S3 addressing

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Store could not be created or opened
  12 - Source file missing, unreadable or malformed
  13 - Non-numeric value in a numeric column
  14 - Foreign key, primary key or NOT NULL violation`

// NewRootCommand builds the ecomload command tree.
func NewRootCommand() *cobra.Command {
	flags := &loadFlags{}
	cmd := &cobra.Command{
		Use:   "ecomload",
		Short: "Reset and reload the e-commerce dataset from CSV files",
		Long:  rootLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, flags)
		},
		SilenceUsage: true,
	}
	flags.register(cmd)
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	cmd.AddCommand(newVersionCommand())
	return cmd
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}
	return NewRootCommand().Execute()
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
