package server

import (
	"fmt"
	"strings"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/jdujava/texlab/internal/graph"
)

func (s *Server) workspaceExecuteCommand(
	context *glsp.Context,
	params *protocol.ExecuteCommandParams,
) (any, error) {
	m, err := s.Manager()
	if err != nil {
		return nil, err
	}
	switch params.Command {
	case CommandShowDependencyGraph:
		var b strings.Builder
		if err := graph.WriteDOT(&b, m.Snapshot()); err != nil {
			return nil, err
		}
		return b.String(), nil
	case CommandShowDependencyGraphLive:
		url, err := s.showGraph()
		if err != nil {
			return nil, err
		}
		context.Notify(protocol.ServerWindowShowDocument, protocol.ShowDocumentParams{
			URI:      protocol.URI(url),
			External: &protocol.True,
		})
		return url, nil
	default:
		return nil, fmt.Errorf("unknown command %q", params.Command)
	}
}

// showGraph starts the live graph on first use and returns its URL.
func (s *Server) showGraph() (string, error) {
	s.viewerMu.Lock()
	defer s.viewerMu.Unlock()
	if s.viewer != nil {
		return s.viewerURL, nil
	}

	// Subscribe before the snapshot so that no change falls in between.
	events := s.manager.Subscribe(s.ctx)
	viewer := graph.NewViewer(s.manager.Snapshot())
	url, err := viewer.Start(s.config.GraphAddr)
	if err != nil {
		return "", err
	}
	log.Infof("dependency graph at %s", url)
	go viewer.Follow(events)

	s.viewer, s.viewerURL = viewer, url
	return url, nil
}
