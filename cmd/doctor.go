package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/Kerry350/ember-deploy-s3-index/internal/config"
	"github.com/Kerry350/ember-deploy-s3-index/internal/doctor"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose config, bucket access, and the live index",
	Args:  cobra.NoArgs,
	RunE:  runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	v, err := config.Load(flagConfig, flagEnvironment, true)
	if err != nil {
		cmd.Printf("Config load: ERROR: %v\n", err)
		return err
	}
	cfg, err := config.Unmarshal(v)
	if err != nil {
		cmd.Printf("Config unmarshal: ERROR: %v\n", err)
		return err
	}
	config.ApplyDefaults(cfg)

	var bucket doctor.Bucket
	if config.Validate(cfg) == nil {
		client, err := newClient(ctx, cfg)
		if err != nil {
			cmd.Printf("S3 client: ERROR: %v\n", err)
			return err
		}
		bucket = client
	}

	results := doctor.Run(ctx, cfg, bucket)
	for _, r := range results {
		status := "OK"
		if !r.OK {
			status = "ERROR"
		}
		cmd.Printf("%-16s %s: %s\n", r.Name, status, r.Detail)
	}
	if doctor.Failed(results) {
		return errors.New("one or more checks failed; see output above")
	}
	return nil
}
