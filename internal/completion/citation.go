package completion

import (
	"github.com/jdujava/texlab/internal/cursor"
	"github.com/jdujava/texlab/internal/semantics"
	"github.com/jdujava/texlab/internal/syntax"
	"github.com/jdujava/texlab/internal/syntax/latex"
)

// Citations offers the entry keys of the related BibTeX documents inside
// the key argument of a citation command.
func Citations(ctx *cursor.Context) []Item {
	token, ok := ctx.Cursor.AsTex()
	if !ok {
		return nil
	}

	var rng syntax.TextRange
	switch token.Kind() {
	case latex.Word:
		rng = token.Range()
	case latex.LCurly, latex.RCurly, latex.Comma:
		rng = syntax.NewRange(ctx.Offset, ctx.Offset)
	default:
		return nil
	}
	if !inCitationKeys(ctx, token) {
		return nil
	}

	var items []Item
	for _, doc := range ctx.Related() {
		if doc.Language != syntax.LanguageBibtex {
			continue
		}
		bib := ctx.Database().Analyze(doc).Bib
		if bib == nil {
			continue
		}
		for _, entry := range bib.Entries {
			items = append(items, Item{
				Range: rng,
				Data: Citation{
					Key:   entry.Key.Text,
					Type:  entry.Type.Text,
					Title: entry.Fields["title"],
					URI:   doc.URI,
				},
			})
		}
	}
	return items
}

// inCitationKeys reports whether token belongs to the first curly group of
// a citation command.
func inCitationKeys(ctx *cursor.Context, token *syntax.Token) bool {
	group := token.Parent()
	if group == nil || group.Kind() != latex.CurlyGroup {
		return false
	}
	command := group.Parent()
	if command == nil || command.Kind() != latex.Command {
		return false
	}
	if command.FirstChildNode(latex.CurlyGroup) != group {
		return false
	}
	return ctx.Database().Catalog().IsCitation(semantics.CommandName(command))
}
