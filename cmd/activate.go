package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Kerry350/ember-deploy-s3-index/internal/notifier"
	"github.com/Kerry350/ember-deploy-s3-index/internal/revision"
)

func init() {
	rootCmd.AddCommand(activateCmd)
}

var activateCmd = &cobra.Command{
	Use:   "activate <revision>",
	Short: "Make a revision the live index",
	Args:  cobra.ExactArgs(1),
	RunE:  runActivate,
}

func runActivate(cmd *cobra.Command, args []string) error {
	d, err := openDeployment(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	key := revision.NormalizeKey(args[0])
	if err := d.store.Activate(ctx, key); err != nil {
		return d.fail(ctx, "activate", err)
	}
	d.notify(ctx, func(n notifier.Notifier) error {
		return n.NotifyActivate(ctx, d.cfg.S3.Bucket, key, d.cfg.Index.Mode)
	})
	return nil
}
