package completion

import (
	"github.com/jdujava/texlab/internal/cursor"
	"github.com/jdujava/texlab/internal/syntax"
	"github.com/jdujava/texlab/internal/syntax/bibtex"
)

// EntryTypes completes the type of a BibTeX entry. Only the letters after
// '@' are replaced, and nothing is offered until the cursor is past the
// first letter position.
func EntryTypes(ctx *cursor.Context) []Item {
	token, ok := ctx.Cursor.AsBib()
	if !ok || token.Kind() != bibtex.Type {
		return nil
	}
	r := token.Range()
	if ctx.Offset <= r.Start+1 {
		return nil
	}

	rng := syntax.NewRange(r.Start+1, r.End)
	types := ctx.Database().Catalog().EntryTypes
	items := make([]Item, 0, len(types))
	for i := range types {
		items = append(items, Item{Range: rng, Data: EntryType{Type: &types[i]}})
	}
	return items
}
