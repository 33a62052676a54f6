package server

import (
	gocontext "context"
	"fmt"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/jdujava/texlab/internal/config"
	"github.com/jdujava/texlab/internal/manager"
	"github.com/jdujava/texlab/internal/metrics"
	"github.com/jdujava/texlab/internal/resolver"
	"github.com/jdujava/texlab/internal/scanner"
	"github.com/jdujava/texlab/internal/scheduler"
	"github.com/jdujava/texlab/internal/workspace"
)

func (s *Server) initialize(
	context *glsp.Context,
	params *protocol.InitializeParams,
) (any, error) {
	cfg, err := config.Load(params.InitializationOptions)
	if err != nil {
		return nil, err
	}
	if cfg.Root == config.Default().Root {
		cfg.Root = rootFromParams(params, cfg.Root)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Infof("config: %+v", cfg)

	c, err := cfg.LoadCatalog()
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}

	s.config = cfg
	s.manager = manager.New(workspace.NewDatabase(c, resolver.New(cfg.Root)))
	s.scheduler = scheduler.NewScheduler(16)
	s.scheduler.RunScheduler()

	s.metrics = metrics.New(metricsSource{manager: s.manager})
	if cfg.MetricsAddr != "" {
		addr, err := s.metrics.Start(cfg.MetricsAddr)
		if err != nil {
			return nil, fmt.Errorf("initialize: %w", err)
		}
		log.Infof("metrics at http://%s/metrics", addr)
	}

	syncKind := protocol.TextDocumentSyncKindIncremental
	capabilities := s.handler.CreateServerCapabilities()
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
		Save:      &protocol.SaveOptions{IncludeText: &protocol.True},
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{`\`, "@", "{", ","},
	}
	capabilities.RenameProvider = &protocol.RenameOptions{PrepareProvider: &protocol.True}
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: []string{CommandShowDependencyGraph, CommandShowDependencyGraphLive},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    Name,
			Version: &s.version,
		},
	}, nil
}

// rootFromParams picks the project root announced by the client.
func rootFromParams(params *protocol.InitializeParams, fallback string) string {
	if params.RootURI != nil {
		if path, err := resolver.URIToPath(*params.RootURI); err == nil {
			return path
		}
	}
	for _, folder := range params.WorkspaceFolders {
		if path, err := resolver.URIToPath(folder.URI); err == nil {
			return path
		}
	}
	if params.RootPath != nil && *params.RootPath != "" {
		return *params.RootPath
	}
	return fallback
}

func (s *Server) initialized(
	context *glsp.Context,
	params *protocol.InitializedParams,
) error {
	interval, err := s.config.Interval()
	if err != nil {
		log.Warningf("periodic rescans disabled: %v", err)
		interval = 0
	}
	s.scheduler.SchedulePeriodicTask(interval, scheduler.Task{
		Name:    "scan",
		Execute: s.scan,
	})
	log.Infof("client initialized")
	return nil
}

// scan loads every project file from disk, follows the links that point
// outside the project tree and drops documents whose file is gone.
func (s *Server) scan() error {
	n := scanner.Scan(s.ctx, s.config.Root, s.config, func(path string, data []byte) {
		s.manager.Load(path, data)
	})
	discovered := s.manager.Discover(s.ctx)
	pruned := s.manager.Prune(s.ctx)
	log.Infof("scanned %d files, discovered %d more, pruned %d", n, discovered, pruned)
	return s.ctx.Err()
}

func (s *Server) shutdown(context *glsp.Context) error {
	s.cancel()
	if s.scheduler != nil {
		s.scheduler.StopScheduler()
	}
	if s.metrics != nil {
		if err := s.metrics.Shutdown(gocontext.Background()); err != nil {
			log.Warningf("metrics shutdown: %v", err)
		}
	}
	s.viewerMu.Lock()
	defer s.viewerMu.Unlock()
	if s.viewer != nil {
		return s.viewer.Close()
	}
	return nil
}

func (s *Server) setTrace(context *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}
