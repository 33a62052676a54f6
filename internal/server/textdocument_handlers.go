package server

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/jdujava/texlab/internal/scheduler"
)

func (s *Server) textDocumentDidOpen(
	context *glsp.Context,
	params *protocol.DidOpenTextDocumentParams,
) error {
	m, err := s.Manager()
	if err != nil {
		return err
	}
	item := params.TextDocument
	m.Open(item.URI, item.LanguageID, item.Version, item.Text)
	s.refresh(context, item.URI)
	return nil
}

func (s *Server) textDocumentDidChange(
	context *glsp.Context,
	params *protocol.DidChangeTextDocumentParams,
) error {
	m, err := s.Manager()
	if err != nil {
		return err
	}
	uri := params.TextDocument.URI
	if _, err := m.Change(uri, params.TextDocument.Version, params.ContentChanges); err != nil {
		return err
	}
	s.refresh(context, uri)
	return nil
}

func (s *Server) textDocumentDidSave(
	context *glsp.Context,
	params *protocol.DidSaveTextDocumentParams,
) error {
	m, err := s.Manager()
	if err != nil {
		return err
	}
	uri := params.TextDocument.URI
	if err := m.Save(uri, params.Text); err != nil {
		return err
	}
	s.refresh(context, uri)
	return nil
}

func (s *Server) textDocumentDidClose(
	context *glsp.Context,
	params *protocol.DidCloseTextDocumentParams,
) error {
	m, err := s.Manager()
	if err != nil {
		return err
	}
	uri := params.TextDocument.URI
	if err := m.Close(uri); err != nil {
		return err
	}
	s.background("clear diagnostics of "+uri, func() {
		publishDiagnostics(context, uri, []protocol.Diagnostic{})
	})
	return nil
}

// refresh loads newly referenced files and republishes the diagnostics
// of uri on the scheduler.
func (s *Server) refresh(context *glsp.Context, uri string) {
	s.background("refresh "+uri, func() {
		if n := s.manager.Discover(s.ctx); n > 0 {
			log.Debugf("discovered %d documents after change of %s", n, uri)
		}
		ws := s.manager.Snapshot()
		if doc, ok := ws.Lookup(uri); ok {
			publishDiagnostics(context, uri, linkDiagnostics(ws, doc))
		}
	})
}

// background runs fn ahead of periodic scans. Tasks run in submission
// order, so diagnostics of one document are never published out of order.
func (s *Server) background(name string, fn func()) {
	err := s.scheduler.ScheduleHighPriorityTask(scheduler.Task{
		Name: name,
		Execute: func() error {
			fn()
			return nil
		},
	})
	if err != nil {
		log.Warningf("%s: %v", name, err)
	}
}
