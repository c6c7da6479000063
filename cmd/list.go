package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List revisions, most recent first",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	d, err := openDeployment(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	revisions, err := d.store.List(ctx)
	if err != nil {
		return err
	}
	if len(revisions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No revisions found.")
		return nil
	}
	active, err := d.store.Active(ctx)
	if err != nil {
		d.log.Warn(ctx, "could not resolve active revision", "err", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Found the following revisions:")
	fmt.Fprintln(cmd.OutOrStdout())
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for i, r := range revisions {
		marker := ""
		if r.Key == active {
			marker = "(active)"
		}
		fmt.Fprintf(tw, "%d)\t%s\t%s\t%s\n", i+1, r.Key, r.LastModified.UTC().Format(time.RFC3339), marker)
	}
	return tw.Flush()
}
