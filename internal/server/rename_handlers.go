package server

import (
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/jdujava/texlab/internal/rename"
)

func (s *Server) textDocumentPrepareRename(
	context *glsp.Context,
	params *protocol.PrepareRenameParams,
) (result any, err error) {
	defer func(start time.Time) { s.observe(protocol.MethodTextDocumentPrepareRename, start, err) }(time.Now())

	ctx, index, err := s.cursorAt(params.TextDocumentPositionParams)
	if err != nil || ctx == nil {
		return nil, err
	}
	r, ok := rename.Prepare(ctx)
	if !ok {
		return nil, nil
	}
	return index.Range(r), nil
}

func (s *Server) textDocumentRename(
	context *glsp.Context,
	params *protocol.RenameParams,
) (edit *protocol.WorkspaceEdit, err error) {
	defer func(start time.Time) { s.observe(protocol.MethodTextDocumentRename, start, err) }(time.Now())

	ctx, _, err := s.cursorAt(params.TextDocumentPositionParams)
	if err != nil || ctx == nil {
		return nil, err
	}
	changes, ok := rename.Rename(ctx, params.NewName)
	if !ok {
		return nil, nil
	}

	ranges := newLineIndex(ctx.Workspace)
	edit = &protocol.WorkspaceEdit{Changes: make(map[protocol.DocumentUri][]protocol.TextEdit, len(changes))}
	for uri, edits := range changes {
		for _, e := range edits {
			r, err := ranges.Range(uri, e.Range)
			if err != nil {
				return nil, err
			}
			edit.Changes[uri] = append(edit.Changes[uri], protocol.TextEdit{Range: r, NewText: e.NewText})
		}
	}
	return edit, nil
}
