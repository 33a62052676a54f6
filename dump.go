package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jdujava/texlab/internal/config"
	"github.com/jdujava/texlab/internal/graph"
	"github.com/jdujava/texlab/internal/manager"
	"github.com/jdujava/texlab/internal/resolver"
	"github.com/jdujava/texlab/internal/scanner"
	"github.com/jdujava/texlab/internal/workspace"
)

var dumpCmd = &cobra.Command{
	Use:   "dump <config.json>",
	Short: "Scan a project and print its dependency graph as DOT",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configureLogging()
		return runDump(cmd.Context(), args[0])
	},
}

func runDump(ctx context.Context, configPath string) error {
	f, err := os.Open(configPath)
	if err != nil {
		return err
	}
	defer f.Close()
	cfg, err := config.LoadFromJSON(f)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c, err := cfg.LoadCatalog()
	if err != nil {
		return err
	}

	m := manager.New(workspace.NewDatabase(c, resolver.New(cfg.Root)))
	scanner.Scan(ctx, cfg.Root, cfg, func(path string, data []byte) {
		m.Load(path, data)
	})
	m.Discover(ctx)

	if err := graph.WriteDOT(os.Stdout, m.Snapshot()); err != nil {
		return fmt.Errorf("dump: %w", err)
	}
	return nil
}
