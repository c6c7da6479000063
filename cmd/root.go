package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	flagConfig      string
	flagEnvironment string
	flagLogLevel    string
	flagLogFormat   string
)

var rootCmd = &cobra.Command{
	Use:   "s3index",
	Short: "Deploy index.html revisions to an S3 bucket",
	Long: "s3index uploads content-tagged index.html revisions to S3, keeps a bounded manifest of them, " +
		"and activates one as the live index either through the bucket website configuration (direct) " +
		"or by copying it over index.html (indirect).",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagConfig, "config", "c", "", "config file (default $S3INDEX_CONFIG or config/deploy.yaml)")
	pf.StringVarP(&flagEnvironment, "environment", "e", "", "config section to use, e.g. production")
	pf.StringVar(&flagLogLevel, "log-level", "warn", "log level: debug, info, warn, error")
	pf.StringVar(&flagLogFormat, "log-format", "text", "log format: text or json")
}

func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}
