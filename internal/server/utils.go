package server

import (
	"fmt"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/jdujava/texlab/internal/cursor"
	"github.com/jdujava/texlab/internal/manager"
	"github.com/jdujava/texlab/internal/syntax"
	"github.com/jdujava/texlab/internal/textpos"
	"github.com/jdujava/texlab/internal/workspace"
)

// cursorAt builds the context of a request against the current snapshot.
// Unknown documents yield no context and no error.
func (s *Server) cursorAt(params protocol.TextDocumentPositionParams) (*cursor.Context, *textpos.LineIndex, error) {
	m, err := s.Manager()
	if err != nil {
		return nil, nil, err
	}
	ws := m.Snapshot()
	doc, ok := ws.Lookup(params.TextDocument.URI)
	if !ok {
		log.Debugf("%s: %s", params.TextDocument.URI, manager.ErrDocumentNotFound)
		return nil, nil, nil
	}
	index := textpos.NewLineIndex(doc.Text)
	return cursor.New(ws, doc, index.Offset(params.Position)), index, nil
}

// lineIndex converts ranges of any document of a snapshot.
type lineIndex struct {
	ws      *workspace.Workspace
	indices map[string]*textpos.LineIndex
}

func newLineIndex(ws *workspace.Workspace) *lineIndex {
	return &lineIndex{ws: ws, indices: make(map[string]*textpos.LineIndex)}
}

func (l *lineIndex) Range(uri string, r syntax.TextRange) (protocol.Range, error) {
	index, ok := l.indices[uri]
	if !ok {
		doc, found := l.ws.Lookup(uri)
		if !found {
			return protocol.Range{}, fmt.Errorf("%w: %s", manager.ErrDocumentNotFound, uri)
		}
		index = textpos.NewLineIndex(doc.Text)
		l.indices[uri] = index
	}
	return index.Range(r), nil
}
