//-------------------------------------------------------------------------
//
// pgEdge Gold Layer Builder
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-goldlayer/internal/logging"
)

var (
	showRows   int
	showSchema bool
)

var showCmd = &cobra.Command{
	Use:   "show <path>",
	Short: "Print the current contents of a table",
	Long: `Print the schema and the first rows of the current version of a
table in the configured store.

Example:
  pgedge-goldlayer show customers --store postgres -n 20`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

var versionsCmd = &cobra.Command{
	Use:   "versions <path>",
	Short: "List the committed versions of a table",
	Args:  cobra.ExactArgs(1),
	RunE:  runVersions,
}

func init() {
	showCmd.Flags().IntVarP(&showRows, "rows", "n", 10,
		"number of rows to print")
	showCmd.Flags().BoolVar(&showSchema, "schema", false,
		"print only the schema")
}

func runShow(cmd *cobra.Command, args []string) error {
	if showRows < 0 {
		return errors.Newf("--rows must not be negative, got %d", showRows)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx := cmd.Context()

	st, err := openStore(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close store")
		}
	}()

	t, err := st.Read(ctx, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := t.PrintSchema(out); err != nil {
		return err
	}
	if showSchema {
		return nil
	}
	fmt.Fprintln(out)
	return t.Show(out, showRows)
}

func runVersions(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	ctx := cmd.Context()

	st, err := openStore(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close store")
		}
	}()

	versions, err := st.Versions(ctx, args[0])
	if err != nil {
		return err
	}
	if len(versions) == 0 {
		cmd.Printf("No committed versions of %s\n", args[0])
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tROWS\tWRITTEN\tRUN")
	for _, v := range versions {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", v.Number, v.Rows, v.WrittenAt.Format(time.RFC3339), v.RunID)
	}
	return tw.Flush()
}
