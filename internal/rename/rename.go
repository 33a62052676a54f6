// Package rename computes the edits that rename the symbol under the
// cursor: environment names, entry keys and labels.
package rename

import (
	"github.com/jdujava/texlab/internal/cursor"
	"github.com/jdujava/texlab/internal/reference"
	"github.com/jdujava/texlab/internal/semantics"
	"github.com/jdujava/texlab/internal/syntax"
	"github.com/jdujava/texlab/internal/workspace"
)

type Edit struct {
	Range   syntax.TextRange
	NewText string
}

// Changes maps document URIs to the edits of each document, in text
// order.
type Changes map[string][]Edit

func (c Changes) add(uri string, r syntax.TextRange, text string) {
	c[uri] = append(c[uri], Edit{Range: r, NewText: text})
}

// target is a renameable symbol: its span under the cursor and the
// function producing the edits.
type target struct {
	origin syntax.TextRange
	edits  func(newName string) Changes
}

type finder func(ctx *cursor.Context) (target, bool)

var finders = []finder{
	environment,
	entryKey,
	label,
}

func find(ctx *cursor.Context) (target, bool) {
	for _, f := range finders {
		if t, ok := f(ctx); ok {
			return t, true
		}
	}
	return target{}, false
}

// Prepare returns the span that Rename would replace.
func Prepare(ctx *cursor.Context) (syntax.TextRange, bool) {
	t, ok := find(ctx)
	return t.origin, ok
}

// Rename returns the edits renaming the symbol under the cursor to
// newName. It reports false when there is nothing to rename.
func Rename(ctx *cursor.Context, newName string) (Changes, bool) {
	t, ok := find(ctx)
	if !ok {
		return nil, false
	}
	return t.edits(newName), true
}

// environment renames both names of the environment under the cursor,
// even when they disagree.
func environment(ctx *cursor.Context) (target, bool) {
	tex := ctx.Record.Tex
	if ctx.Document.Language != syntax.LanguageLatex || tex == nil {
		return target{}, false
	}
	for _, env := range tex.Environments {
		var origin syntax.TextRange
		switch {
		case env.Begin.Range.ContainsInclusive(ctx.Offset):
			origin = env.Begin.Range
		case env.Closed && env.End.Range.ContainsInclusive(ctx.Offset):
			origin = env.End.Range
		default:
			continue
		}
		return target{
			origin: origin,
			edits: func(newName string) Changes {
				changes := Changes{}
				changes.add(ctx.Document.URI, env.Begin.Range, newName)
				if env.Closed {
					changes.add(ctx.Document.URI, env.End.Range, newName)
				}
				return changes
			},
		}, true
	}
	return target{}, false
}

// entryKey renames an entry key together with every citation of it. The
// cursor may be on the definition or on a citation.
func entryKey(ctx *cursor.Context) (target, bool) {
	var key semantics.Span
	if entry, ok := reference.EntryAt(ctx, ctx.Offset); ok {
		key = entry.Key
	} else if citation, ok := citationAt(ctx); ok {
		key = citation.Key
	} else {
		return target{}, false
	}

	return target{
		origin: key.Range,
		edits: func(newName string) Changes {
			changes := Changes{}
			for _, doc := range ctx.Related() {
				record := ctx.Database().Analyze(doc)
				switch {
				case doc.Language == syntax.LanguageBibtex && record.Bib != nil:
					for _, entry := range record.Bib.Entries {
						if entry.Key.Text == key.Text {
							changes.add(doc.URI, entry.Key.Range, newName)
						}
					}
				case doc.Language == syntax.LanguageLatex && record.Tex != nil:
					for _, citation := range record.Tex.Citations {
						if citation.Key.Text == key.Text {
							changes.add(doc.URI, citation.Key.Range, newName)
						}
					}
				}
			}
			return changes
		},
	}, true
}

func citationAt(ctx *cursor.Context) (semantics.Citation, bool) {
	tex := ctx.Record.Tex
	if ctx.Document.Language != syntax.LanguageLatex || tex == nil {
		return semantics.Citation{}, false
	}
	for _, citation := range tex.Citations {
		if citation.Key.Range.ContainsInclusive(ctx.Offset) {
			return citation, true
		}
	}
	return semantics.Citation{}, false
}

// label renames a label definition and all of its references.
func label(ctx *cursor.Context) (target, bool) {
	current, ok := reference.LabelAt(ctx, ctx.Offset)
	if !ok {
		return target{}, false
	}
	return target{
		origin: current.Name.Range,
		edits: func(newName string) Changes {
			changes := Changes{}
			for _, doc := range texDocuments(ctx) {
				for _, other := range ctx.Database().Analyze(doc).Tex.Labels {
					if other.Name.Text == current.Name.Text {
						changes.add(doc.URI, other.Name.Range, newName)
					}
				}
			}
			return changes
		},
	}, true
}

func texDocuments(ctx *cursor.Context) []*workspace.Document {
	var docs []*workspace.Document
	for _, doc := range ctx.Related() {
		if doc.Language == syntax.LanguageLatex {
			docs = append(docs, doc)
		}
	}
	return docs
}
