package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"rtmsync/internal/application/commands"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Bring stored statistics up to the current schema",
	Long: `Add missing counters (as zero) to every stored statistics entry and drop
counters that are no longer tracked. Dates and order are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		st, err := openStores()
		if err != nil {
			return err
		}
		defer st.Close()

		series, migrated := commands.LoadSeries(ctx, st.Statistics, log)
		if !migrated {
			fmt.Println("Statistics already up to date")
			return nil
		}
		if err := st.Statistics.Save(ctx, series); err != nil {
			return err
		}
		fmt.Printf("Migrated %d entries\n", len(series))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
