package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rtmsync/internal/adapters/confluence"
	"rtmsync/internal/application/commands"
)

var (
	publishPage string
	publishFile string
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Replace the body of a page",
	Long: `Replace the body of an existing page with the contents of a file in
storage format. The page keeps its title and its version is incremented.
Without --page the page named by CONFLUENCE_RTM_PAGE_ID is updated.

Examples:
  rtmsync publish --file rtm.xhtml
  rtmsync publish --page 123456 --file rtm.xhtml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateConfluence(); err != nil {
			return err
		}

		body, err := os.ReadFile(publishFile)
		if err != nil {
			return fmt.Errorf("failed to read body: %w", err)
		}

		pageID := publishPage
		if pageID == "" {
			pageID = cfg.Confluence.RTMPage
		}

		source := confluence.NewClient(cfg.Confluence.BaseURL, cfg.Confluence.Username, cfg.Confluence.Token)
		publishCommand := commands.NewPublishPageCommand(source, pageID, string(body), log)
		result, err := publishCommand.Execute(context.Background())
		if err != nil {
			return err
		}

		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	publishCmd.Flags().StringVar(&publishPage, "page", "", "ID of the page to replace")
	publishCmd.Flags().StringVar(&publishFile, "file", "", "file holding the new body")
	publishCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(publishCmd)
}
