// Package reference finds the usages and definitions of symbols across
// the documents related to the active one.
package reference

import (
	"github.com/jdujava/texlab/internal/cursor"
	"github.com/jdujava/texlab/internal/semantics"
	"github.com/jdujava/texlab/internal/syntax"
	"github.com/jdujava/texlab/internal/workspace"
)

// Location is a span of a document.
type Location struct {
	URI   string
	Range syntax.TextRange
}

// FindReferences returns the usages of the symbol defined or used at the
// cursor, ordered by related document and then by position. With
// includeDeclaration the definition comes first.
func FindReferences(ctx *cursor.Context, includeDeclaration bool) []Location {
	if locations := entryReferences(ctx, includeDeclaration); len(locations) > 0 {
		return locations
	}
	return labelReferences(ctx, includeDeclaration)
}

// EntryAt returns the entry of the active BibTeX document whose key
// contains offset, end included.
func EntryAt(ctx *cursor.Context, offset int) (semantics.Entry, bool) {
	if ctx.Document.Language != syntax.LanguageBibtex || ctx.Record.Bib == nil {
		return semantics.Entry{}, false
	}
	for _, entry := range ctx.Record.Bib.Entries {
		if entry.Key.Range.ContainsInclusive(offset) {
			return entry, true
		}
	}
	return semantics.Entry{}, false
}

func entryReferences(ctx *cursor.Context, includeDeclaration bool) []Location {
	entry, ok := EntryAt(ctx, ctx.Offset)
	if !ok {
		return nil
	}

	var locations []Location
	if includeDeclaration {
		locations = append(locations, Location{URI: ctx.Document.URI, Range: entry.Key.Range})
	}
	eachTex(ctx, func(doc *workspace.Document, tex *semantics.Tex) {
		for _, citation := range tex.Citations {
			if citation.Key.Text == entry.Key.Text {
				locations = append(locations, Location{URI: doc.URI, Range: citation.Command})
			}
		}
	})
	return locations
}

// LabelAt returns the label of the active LaTeX document whose name
// contains offset, end included.
func LabelAt(ctx *cursor.Context, offset int) (semantics.Label, bool) {
	if ctx.Document.Language != syntax.LanguageLatex || ctx.Record.Tex == nil {
		return semantics.Label{}, false
	}
	for _, label := range ctx.Record.Tex.Labels {
		if label.Name.Range.ContainsInclusive(offset) {
			return label, true
		}
	}
	return semantics.Label{}, false
}

func labelReferences(ctx *cursor.Context, includeDeclaration bool) []Location {
	label, ok := LabelAt(ctx, ctx.Offset)
	if !ok {
		return nil
	}

	var locations []Location
	eachTex(ctx, func(doc *workspace.Document, tex *semantics.Tex) {
		for _, other := range tex.Labels {
			if other.Name.Text != label.Name.Text {
				continue
			}
			if other.Kind == semantics.LabelReference || includeDeclaration {
				locations = append(locations, Location{URI: doc.URI, Range: other.Name.Range})
			}
		}
	})
	return locations
}

// eachTex calls fn for every related LaTeX document in related order.
func eachTex(ctx *cursor.Context, fn func(*workspace.Document, *semantics.Tex)) {
	db := ctx.Database()
	for _, doc := range ctx.Related() {
		if doc.Language != syntax.LanguageLatex {
			continue
		}
		if tex := db.Analyze(doc).Tex; tex != nil {
			fn(doc, tex)
		}
	}
}

// eachBib calls fn for every related BibTeX document in related order.
func eachBib(ctx *cursor.Context, fn func(*workspace.Document, *semantics.Bib)) {
	db := ctx.Database()
	for _, doc := range ctx.Related() {
		if doc.Language != syntax.LanguageBibtex {
			continue
		}
		if bib := db.Analyze(doc).Bib; bib != nil {
			fn(doc, bib)
		}
	}
}
