package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"rtmsync/internal/application/commands"
	"rtmsync/internal/domain"
)

var statsMonths bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the statistics history",
	Long: `Show the last 30 days of statistics, or the last 12 months with --months.
A day without its own entry shows the latest earlier entry.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		st, err := openStores()
		if err != nil {
			return err
		}
		defer st.Close()

		series, _ := commands.LoadSeries(ctx, st.Statistics, log)

		points := series.LastNDays(time.Now(), 30)
		if statsMonths {
			points = series.LastNMonths(time.Now(), 12)
		}
		printPoints(points)
		return nil
	},
}

func printPoints(points []domain.DatedCounts) {
	header := []string{"date"}
	for _, k := range domain.CounterKeys {
		header = append(header, k)
	}
	fmt.Println(strings.Join(header, "\t"))

	for _, p := range points {
		row := []string{p.Date}
		m := p.Counts.Map()
		for _, k := range domain.CounterKeys {
			if p.Known {
				row = append(row, fmt.Sprint(m[k]))
			} else {
				row = append(row, "-")
			}
		}
		fmt.Println(strings.Join(row, "\t"))
	}
}

func init() {
	statsCmd.Flags().BoolVar(&statsMonths, "months", false, "one row per month instead of per day")
	rootCmd.AddCommand(statsCmd)
}
