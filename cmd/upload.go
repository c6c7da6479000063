package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Kerry350/ember-deploy-s3-index/internal/notifier"
)

const defaultIndexPath = "dist/index.html"

var flagActivateAfterUpload bool

func init() {
	uploadCmd.Flags().BoolVar(&flagActivateAfterUpload, "activate", false, "activate the revision after uploading it")
	rootCmd.AddCommand(uploadCmd)
}

var uploadCmd = &cobra.Command{
	Use:   "upload [index.html]",
	Short: "Upload an index.html as a new revision",
	Long:  "Upload tags the file by its content, stores it as <tag>.html and prunes the manifest. The path defaults to " + defaultIndexPath + ".",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runUpload,
}

func runUpload(cmd *cobra.Command, args []string) error {
	path := defaultIndexPath
	if len(args) == 1 {
		path = args[0]
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	d, err := openDeployment(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	key, err := d.store.Upload(ctx, payload)
	if err != nil {
		if key != "" {
			cmd.PrintErrf("Revision %s was uploaded but the manifest could not be pruned.\n", key)
		}
		return d.fail(ctx, "upload", err)
	}
	d.notify(ctx, func(n notifier.Notifier) error {
		return n.NotifyUpload(ctx, d.cfg.S3.Bucket, key)
	})

	if !flagActivateAfterUpload {
		return nil
	}
	if err := d.store.Activate(ctx, key); err != nil {
		return d.fail(ctx, "activate", err)
	}
	d.notify(ctx, func(n notifier.Notifier) error {
		return n.NotifyActivate(ctx, d.cfg.S3.Bucket, key, d.cfg.Index.Mode)
	})
	return nil
}
