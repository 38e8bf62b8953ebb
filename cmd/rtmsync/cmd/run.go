package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"rtmsync/internal/adapters/confluence"
	"rtmsync/internal/adapters/qase"
	"rtmsync/internal/adapters/tui"
	"rtmsync/internal/adapters/webpage"
	"rtmsync/internal/application/commands"
	"rtmsync/internal/ports"
)

var (
	runBrowse bool
	runQuiet  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Synchronize the page tree and report changes",
	Long: `Fetch the page tree below CONFLUENCE_CATALOG_PAGE_ID, reusing unchanged
pages from the previous snapshot, then report added, updated and deleted
requirements and record today's statistics.

Examples:
  rtmsync run
  rtmsync run --browse
  rtmsync --env-file .env.staging run --quiet`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateSync(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		extractor, err := newExtractor()
		if err != nil {
			return err
		}

		st, err := openStores()
		if err != nil {
			return err
		}
		defer st.Close()

		deps := commands.RunDeps{
			Source:      confluence.NewClient(cfg.Confluence.BaseURL, cfg.Confluence.Username, cfg.Confluence.Token),
			Transformer: confluence.StorageFormat{},
			Extractor:   extractor,
			Snapshots:   st.Snapshots,
			Statistics:  st.Statistics,
			Log:         log,
		}
		if cfg.Qase.Enabled {
			deps.Automation = qase.NewClient(cfg.Qase.BaseURL, cfg.Qase.Code, cfg.Qase.Token)
		}

		today := time.Now()
		runCommand := commands.NewRunCommand(deps, cfg.Confluence.RootID, today)
		runCommand.EnableStatistics = cfg.EnableStatistics
		runCommand.MaxRequestsPerMinute = cfg.Qase.MaxRequestsPerMinute

		log.Info("run started", "root", cfg.Confluence.RootID, "store", st.Location)
		result, err := runCommand.Execute(ctx)
		if err != nil {
			return err
		}

		if !runQuiet {
			in := result.RenderInput(today)
			if !cfg.ShowAutomationGaps {
				in.Gaps = nil
			}
			var renderer ports.ChangeRenderer = tui.TerminalRenderer{}
			report, err := renderer.Render(ctx, in)
			if err != nil {
				return err
			}
			fmt.Print(report)
		}

		if runBrowse {
			opener := webpage.NewOpener(cfg.Confluence.SiteURL())
			return tui.Run(result.Changes, opener.OpenPage)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&runBrowse, "browse", false, "open the interactive change browser after the run")
	runCmd.Flags().BoolVarP(&runQuiet, "quiet", "q", false, "do not print the report")
	rootCmd.AddCommand(runCmd)
}
