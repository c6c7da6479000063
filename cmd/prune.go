package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Kerry350/ember-deploy-s3-index/internal/notifier"
)

func init() {
	rootCmd.AddCommand(pruneCmd)
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete revisions beyond the manifest size, keeping the active one",
	Args:  cobra.NoArgs,
	RunE:  runPrune,
}

func runPrune(cmd *cobra.Command, args []string) error {
	d, err := openDeployment(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	deleted, err := d.store.Prune(ctx)
	if err != nil {
		return d.fail(ctx, "prune", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d old revision(s)\n", deleted)
	if deleted == 0 {
		return nil
	}
	retained, err := d.store.Keys(ctx)
	if err != nil {
		return err
	}
	d.notify(ctx, func(n notifier.Notifier) error {
		return n.NotifyPrune(ctx, d.cfg.S3.Bucket, len(retained), deleted)
	})
	return nil
}
