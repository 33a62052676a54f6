package server

import (
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/jdujava/texlab/internal/reference"
)

func (s *Server) textDocumentDefinition(
	context *glsp.Context,
	params *protocol.DefinitionParams,
) (result any, err error) {
	defer func(start time.Time) { s.observe(protocol.MethodTextDocumentDefinition, start, err) }(time.Now())

	ctx, index, err := s.cursorAt(params.TextDocumentPositionParams)
	if err != nil || ctx == nil {
		return nil, err
	}

	definitions := reference.FindDefinition(ctx)
	if len(definitions) == 0 {
		return nil, nil
	}
	ranges := newLineIndex(ctx.Workspace)
	links := make([]protocol.LocationLink, 0, len(definitions))
	for _, def := range definitions {
		target, err := ranges.Range(def.URI, def.Range)
		if err != nil {
			log.Warningf("definition: %v", err)
			continue
		}
		selection, err := ranges.Range(def.URI, def.Selection)
		if err != nil {
			continue
		}
		origin := index.Range(def.Origin)
		links = append(links, protocol.LocationLink{
			OriginSelectionRange: &origin,
			TargetURI:            def.URI,
			TargetRange:          target,
			TargetSelectionRange: selection,
		})
	}
	return links, nil
}

func (s *Server) textDocumentReferences(
	context *glsp.Context,
	params *protocol.ReferenceParams,
) (locations []protocol.Location, err error) {
	defer func(start time.Time) { s.observe(protocol.MethodTextDocumentReferences, start, err) }(time.Now())

	ctx, _, err := s.cursorAt(params.TextDocumentPositionParams)
	if err != nil || ctx == nil {
		return nil, err
	}

	ranges := newLineIndex(ctx.Workspace)
	locations = []protocol.Location{}
	for _, ref := range reference.FindReferences(ctx, params.Context.IncludeDeclaration) {
		r, err := ranges.Range(ref.URI, ref.Range)
		if err != nil {
			log.Warningf("references: %v", err)
			continue
		}
		locations = append(locations, protocol.Location{URI: ref.URI, Range: r})
	}
	return locations, nil
}
