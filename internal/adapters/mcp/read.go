package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"rtmsync/internal/application/extract"
	"rtmsync/internal/domain"
	"rtmsync/internal/ports"
)

// Stores bundles what the read tools need
type Stores struct {
	Snapshots  ports.SnapshotStore
	Statistics ports.StatisticsStore
	Extractor  extract.Extractor
	Now        func() time.Time
}

// RegisterReadTools adds all read-only tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, st Stores) {
	if st.Now == nil {
		st.Now = time.Now
	}
	s.AddTool(listRequirementsTool(), listRequirementsHandler(st))
	s.AddTool(getRequirementTool(), getRequirementHandler(st))
	s.AddTool(statisticsTool(), statisticsHandler(st))
	s.AddTool(lookupStatisticsTool(), lookupStatisticsHandler(st))
}

// --- list_requirements ---

func listRequirementsTool() mcp.Tool {
	return mcp.NewTool("list_requirements",
		mcp.WithDescription("List the requirement pages of the last synchronized snapshot with their acceptance criteria counts."),
		mcp.WithString("query",
			mcp.Description("Only list requirements whose title contains this text (case-insensitive)."),
		),
	)
}

func listRequirementsHandler(st Stores) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		records, err := loadRecords(ctx, st)
		if err != nil {
			return toolError(err)
		}

		query := strings.ToLower(req.GetString("query", ""))
		var sb strings.Builder
		for _, r := range records {
			if query != "" && !strings.Contains(strings.ToLower(r.Title), query) {
				continue
			}
			fmt.Fprintf(&sb, "%s  %s  (%d criteria)\n", r.ID, r.Title, len(r.Criteria))
		}
		if sb.Len() == 0 {
			return mcp.NewToolResultText("No results."), nil
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- get_requirement ---

func getRequirementTool() mcp.Tool {
	return mcp.NewTool("get_requirement",
		mcp.WithDescription("Show the acceptance criteria and linked test cases of one requirement page."),
		mcp.WithString("id",
			mcp.Description("Page ID of the requirement (e.g. 123456)"),
			mcp.Required(),
		),
	)
}

func getRequirementHandler(st Stores) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := req.GetString("id", "")
		if id == "" {
			return toolError(fmt.Errorf("id is required"))
		}

		records, err := loadRecords(ctx, st)
		if err != nil {
			return toolError(err)
		}
		r, ok := extract.ByID(records)[id]
		if !ok {
			return toolError(fmt.Errorf("requirement not found: %s", id))
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%s  %s\n", r.ID, r.Title)
		for _, c := range r.Criteria {
			mark := " "
			if c.Automatable {
				mark = "A"
			}
			cases := "no test cases"
			if len(c.TestCaseIDs) > 0 {
				cases = strings.Join(c.TestCaseIDs, ", ")
			}
			fmt.Fprintf(&sb, "[%s] %s: %s\n", mark, c.Name, cases)
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- statistics ---

func statisticsTool() mcp.Tool {
	return mcp.NewTool("statistics",
		mcp.WithDescription("Show the statistics history as daily or monthly points, oldest first."),
		mcp.WithString("window",
			mcp.Description("Either \"days\" (default, 30 points) or \"months\" (12 points)."),
		),
	)
}

func statisticsHandler(st Stores) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		series, err := loadSeries(ctx, st)
		if err != nil {
			return toolError(err)
		}

		var points []domain.DatedCounts
		switch window := req.GetString("window", "days"); window {
		case "days":
			points = series.LastNDays(st.Now(), 30)
		case "months":
			points = series.LastNMonths(st.Now(), 12)
		default:
			return toolError(fmt.Errorf("invalid window: %s (expected days or months)", window))
		}

		var sb strings.Builder
		for _, p := range points {
			if !p.Known {
				fmt.Fprintf(&sb, "%s  -\n", p.Date)
				continue
			}
			fmt.Fprintf(&sb, "%s  %s\n", p.Date, formatCounts(p.Counts))
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}

// --- lookup_statistics ---

func lookupStatisticsTool() mcp.Tool {
	return mcp.NewTool("lookup_statistics",
		mcp.WithDescription("Return the counts in effect on a given day (YYYY-MM-DD) or month (YYYY-MM)."),
		mcp.WithString("date",
			mcp.Description("Day or month to look up"),
			mcp.Required(),
		),
	)
}

func lookupStatisticsHandler(st Stores) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		date := req.GetString("date", "")

		var lookup func(string) (domain.Counts, bool)
		series, err := loadSeries(ctx, st)
		if err != nil {
			return toolError(err)
		}
		switch {
		case isLayout(date, domain.DateLayout):
			lookup = series.LookupBefore
		case isLayout(date, domain.MonthLayout):
			lookup = series.LookupBeforeMonth
		default:
			return toolError(fmt.Errorf("invalid date: %q (expected YYYY-MM-DD or YYYY-MM)", date))
		}

		counts, ok := lookup(date)
		if !ok {
			return mcp.NewToolResultText("No statistics recorded on or before " + date + "."), nil
		}
		return mcp.NewToolResultText(formatCounts(counts)), nil
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func loadRecords(ctx context.Context, st Stores) ([]domain.Record, error) {
	root, err := st.Snapshots.Load(ctx)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("no snapshot yet, run a sync first")
	}
	return extract.Records(root, st.Extractor), nil
}

func loadSeries(ctx context.Context, st Stores) (domain.Series, error) {
	series, err := st.Statistics.Load(ctx)
	if err != nil {
		return nil, err
	}
	series.Migrate(domain.CounterKeys)
	return series, nil
}

func isLayout(value, layout string) bool {
	_, err := time.Parse(layout, value)
	return err == nil
}

func formatCounts(c domain.Counts) string {
	m := c.Map()
	parts := make([]string, 0, len(domain.CounterKeys))
	for _, k := range domain.CounterKeys {
		parts = append(parts, k+"="+strconv.Itoa(m[k]))
	}
	return strings.Join(parts, " ")
}
