package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Kerry350/ember-deploy-s3-index/internal/config"
)

var (
	flagInitBucket   string
	flagInitMode     string
	flagInitHostName string
	flagInitForce    bool
)

func init() {
	f := initCmd.Flags()
	f.StringVar(&flagInitBucket, "bucket", "", "bucket holding the revisions")
	f.StringVar(&flagInitMode, "mode", config.DefaultMode, "index mode: direct or indirect")
	f.StringVar(&flagInitHostName, "host-name", "", "host name for the direct-mode 404 redirect")
	f.BoolVar(&flagInitForce, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter configuration file",
	Args:  cobra.NoArgs,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	path := config.ResolveConfigPath(flagConfig)
	if _, err := os.Stat(path); err == nil && !flagInitForce {
		return fmt.Errorf("%s already exists; use --force to overwrite", path)
	}
	switch flagInitMode {
	case config.ModeDirect, config.ModeIndirect:
	default:
		return fmt.Errorf("%w: unknown mode %q", config.ErrInvalidConfig, flagInitMode)
	}
	if err := config.Write(config.Template(flagInitBucket, flagInitMode, flagInitHostName), path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s. Fill in s3.access_key_id and s3.secret_access_key, then run \"validate\".\n", path)
	return nil
}
