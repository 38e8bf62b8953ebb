package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"rtmsync/internal/adapters/stores"
	"rtmsync/internal/application/extract"
	"rtmsync/internal/config"
	"rtmsync/internal/logger"
)

var (
	envFile string
	cfg     *config.Config
	log     *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "rtmsync",
	Short: "Keep a requirement traceability matrix in step with Confluence",
	Long: `rtmsync walks a Confluence page tree, extracts acceptance criteria and
their linked test cases, reports what changed since the previous run and
keeps a daily statistics history.

Settings come from .env, the file given with --env-file, and the
environment.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = config.Load(envFile)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		base, err := logger.New(cfg.LogMode)
		if err != nil {
			return fmt.Errorf("failed to build logger: %w", err)
		}
		log = base.With("run_id", uuid.NewString(), "env", cfg.EnvName)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			log.Sync()
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "additional .env file to load")
}

// openStores opens the configured backend; callers close it
func openStores() (*stores.Stores, error) {
	return stores.Open(cfg)
}

// newExtractor compiles the configured extraction rules
func newExtractor() (*extract.RegexExtractor, error) {
	return extract.NewRegexExtractor(cfg.Rules)
}
