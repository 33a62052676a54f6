// Package server exposes the workspace analysis over the language server
// protocol.
package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/tliron/commonlog"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/jdujava/texlab/internal/cache"
	"github.com/jdujava/texlab/internal/config"
	"github.com/jdujava/texlab/internal/graph"
	"github.com/jdujava/texlab/internal/manager"
	"github.com/jdujava/texlab/internal/metrics"
	"github.com/jdujava/texlab/internal/scheduler"
)

const Name = "texlab"

const (
	CommandShowDependencyGraph     = "texlab.showDependencyGraph"
	CommandShowDependencyGraphLive = "texlab.showDependencyGraphLive"
)

var log = commonlog.GetLogger("texlab.server")

var ErrNotInitialized = errors.New("server: not initialized")

type Server struct {
	version string
	handler *protocol.Handler

	config    config.Config
	manager   *manager.Manager
	scheduler *scheduler.Scheduler
	metrics   *metrics.Metrics

	ctx    context.Context
	cancel context.CancelFunc

	viewerMu  sync.Mutex
	viewer    *graph.Viewer
	viewerURL string
}

func New(version string) *Server {
	s := &Server{version: version}
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.handler = &protocol.Handler{
		Initialize:                s.initialize,
		Initialized:               s.initialized,
		Shutdown:                  s.shutdown,
		SetTrace:                  s.setTrace,
		TextDocumentDidOpen:       s.textDocumentDidOpen,
		TextDocumentDidChange:     s.textDocumentDidChange,
		TextDocumentDidSave:       s.textDocumentDidSave,
		TextDocumentDidClose:      s.textDocumentDidClose,
		TextDocumentCompletion:    s.textDocumentCompletion,
		TextDocumentDefinition:    s.textDocumentDefinition,
		TextDocumentReferences:    s.textDocumentReferences,
		TextDocumentPrepareRename: s.textDocumentPrepareRename,
		TextDocumentRename:        s.textDocumentRename,
		WorkspaceExecuteCommand:   s.workspaceExecuteCommand,
	}
	return s
}

// NewServer returns a glsp server ready to run on a transport.
func NewServer(version string) *glspserver.Server {
	return glspserver.NewServer(New(version).handler, Name, false)
}

// Manager returns the document manager once the client has initialized
// the session.
func (s *Server) Manager() (*manager.Manager, error) {
	if s.manager == nil {
		return nil, ErrNotInitialized
	}
	return s.manager, nil
}

func (s *Server) observe(method string, start time.Time, err error) {
	if s.metrics != nil {
		s.metrics.Observe(method, start, err)
	}
}

// metricsSource samples the current snapshot.
type metricsSource struct {
	manager *manager.Manager
}

func (src metricsSource) TreeStats() cache.Stats {
	return src.manager.Snapshot().Database().TreeStats()
}

func (src metricsSource) RecordStats() cache.Stats {
	return src.manager.Snapshot().Database().RecordStats()
}

func (src metricsSource) Documents() int {
	return src.manager.Snapshot().Len()
}
