package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rtmsync/internal/application/extract"
)

var requirementsCmd = &cobra.Command{
	Use:   "requirements [page-id]",
	Short: "List requirements of the last snapshot",
	Long: `List the requirement pages found in the last saved snapshot. With a page
ID, show that page's acceptance criteria and linked test cases.

Examples:
  rtmsync requirements
  rtmsync requirements 123456`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		extractor, err := newExtractor()
		if err != nil {
			return err
		}

		st, err := openStores()
		if err != nil {
			return err
		}
		defer st.Close()

		root, err := st.Snapshots.Load(ctx)
		if err != nil {
			return err
		}
		if root == nil {
			return fmt.Errorf("no snapshot in %s, run `rtmsync run` first", st.Location)
		}
		records := extract.Records(root, extractor)

		if len(args) == 0 {
			for _, r := range records {
				fmt.Printf("%s %s (%d criteria)\n", r.ID, r.Title, len(r.Criteria))
			}
			return nil
		}

		r, ok := extract.ByID(records)[args[0]]
		if !ok {
			return fmt.Errorf("requirement not found: %s", args[0])
		}
		fmt.Printf("%s %s\n", r.ID, r.Title)
		for _, c := range r.Criteria {
			flag := ""
			if !c.Automatable {
				flag = " [not automatable]"
			}
			fmt.Printf("  %s%s: %s\n", c.Name, flag, strings.Join(c.TestCaseIDs, ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(requirementsCmd)
}
