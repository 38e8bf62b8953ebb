package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	mcpadapter "rtmsync/internal/adapters/mcp"
	"rtmsync/internal/adapters/stores"
	"rtmsync/internal/application/extract"
	"rtmsync/internal/config"
	"rtmsync/internal/logger"
)

func main() {
	envFile := flag.String("env-file", "", "additional .env file to load")
	flag.Parse()

	if err := run(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "rtmsync-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run(envFile string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return err
	}
	defer log.Sync()

	extractor, err := extract.NewRegexExtractor(cfg.Rules)
	if err != nil {
		return err
	}

	st, err := stores.Open(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	mcpServer := server.NewMCPServer(
		"rtmsync-mcp",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	mcpServer.AddTool(
		mcp.NewTool("ping",
			mcp.WithDescription("Health check, returns pong"),
		),
		func(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return mcp.NewToolResultText("pong"), nil
		},
	)

	mcpadapter.RegisterReadTools(mcpServer, mcpadapter.Stores{
		Snapshots:  st.Snapshots,
		Statistics: st.Statistics,
		Extractor:  extractor,
	})

	log.Info("mcp server ready", "env", cfg.EnvName, "store", st.Location)
	return server.ServeStdio(mcpServer)
}
