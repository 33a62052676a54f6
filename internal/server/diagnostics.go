package server

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/jdujava/texlab/internal/syntax"
	"github.com/jdujava/texlab/internal/textpos"
	"github.com/jdujava/texlab/internal/workspace"
)

func publishDiagnostics(
	context *glsp.Context,
	uri string,
	diagnostics []protocol.Diagnostic,
) {
	if context == nil || context.Notify == nil {
		return
	}
	context.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// linkDiagnostics reports the include paths of doc that match no document
// of the workspace.
func linkDiagnostics(ws *workspace.Workspace, doc *workspace.Document) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	if doc.Language != syntax.LanguageLatex {
		return diagnostics
	}
	db := ws.Database()
	tex := db.Analyze(doc).Tex
	if tex == nil {
		return diagnostics
	}

	index := textpos.NewLineIndex(doc.Text)
	severity := protocol.DiagnosticSeverityWarning
	source := Name
	for _, link := range tex.Links {
		resolved := false
		for _, candidate := range db.Resolver().Candidates(doc.URI, link.Path.Text, link.Extension) {
			if _, ok := ws.Lookup(candidate); ok {
				resolved = true
				break
			}
		}
		if resolved {
			continue
		}
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    index.Range(link.Path.Range),
			Severity: &severity,
			Source:   &source,
			Message:  "unresolved include: " + link.Path.Text,
		})
	}
	return diagnostics
}
