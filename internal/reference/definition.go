package reference

import (
	"github.com/jdujava/texlab/internal/cursor"
	"github.com/jdujava/texlab/internal/semantics"
	"github.com/jdujava/texlab/internal/syntax"
	"github.com/jdujava/texlab/internal/workspace"
)

// Definition links the span under the cursor to the place that defines
// it. Selection is the part of Range to highlight.
type Definition struct {
	Origin    syntax.TextRange
	URI       string
	Range     syntax.TextRange
	Selection syntax.TextRange
}

// FindDefinition resolves a citation key, a label reference or an include
// path under the cursor.
func FindDefinition(ctx *cursor.Context) []Definition {
	tex := ctx.Record.Tex
	if ctx.Document.Language != syntax.LanguageLatex || tex == nil {
		return nil
	}

	for _, citation := range tex.Citations {
		if citation.Key.Range.ContainsInclusive(ctx.Offset) {
			return entryDefinitions(ctx, citation.Key)
		}
	}
	if label, ok := LabelAt(ctx, ctx.Offset); ok {
		return labelDefinitions(ctx, label.Name)
	}
	for _, link := range tex.Links {
		if link.Path.Range.ContainsInclusive(ctx.Offset) {
			return linkDefinitions(ctx, link)
		}
	}
	return nil
}

func entryDefinitions(ctx *cursor.Context, key semantics.Span) []Definition {
	var definitions []Definition
	eachBib(ctx, func(doc *workspace.Document, bib *semantics.Bib) {
		for _, entry := range bib.Entries {
			if entry.Key.Text == key.Text {
				definitions = append(definitions, Definition{
					Origin:    key.Range,
					URI:       doc.URI,
					Range:     entry.Range,
					Selection: entry.Key.Range,
				})
			}
		}
	})
	return definitions
}

func labelDefinitions(ctx *cursor.Context, name semantics.Span) []Definition {
	var definitions []Definition
	eachTex(ctx, func(doc *workspace.Document, tex *semantics.Tex) {
		for _, label := range tex.Labels {
			if label.Kind == semantics.LabelDefinition && label.Name.Text == name.Text {
				definitions = append(definitions, Definition{
					Origin:    name.Range,
					URI:       doc.URI,
					Range:     label.Command,
					Selection: label.Name.Range,
				})
			}
		}
	})
	return definitions
}

func linkDefinitions(ctx *cursor.Context, link semantics.Link) []Definition {
	resolver := ctx.Database().Resolver()
	for _, candidate := range resolver.Candidates(ctx.Document.URI, link.Path.Text, link.Extension) {
		if _, ok := ctx.Workspace.Lookup(candidate); ok {
			return []Definition{{Origin: link.Path.Range, URI: candidate}}
		}
	}
	return nil
}
