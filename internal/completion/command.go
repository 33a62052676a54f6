package completion

import (
	"strings"

	"github.com/jdujava/texlab/internal/cursor"
	"github.com/jdujava/texlab/internal/syntax"
)

// UserCommands offers every command name used in the related LaTeX
// documents except the occurrence being typed. Names are not merged, so
// a command used n times yields n items.
func UserCommands(ctx *cursor.Context) []Item {
	r, ok := ctx.CommandRange(ctx.Offset)
	if !ok {
		return nil
	}

	var items []Item
	for _, doc := range ctx.Related() {
		if doc.Language != syntax.LanguageLatex {
			continue
		}
		tex := ctx.Database().Analyze(doc).Tex
		if tex == nil {
			continue
		}
		for _, command := range tex.CommandNames {
			if doc.URI == ctx.Document.URI && command.Range == r {
				continue
			}
			name := doc.Text[command.Range.Start:command.Range.End]
			items = append(items, Item{
				Range: r,
				Data:  UserCommand{Name: strings.TrimPrefix(name, `\`), URI: doc.URI},
			})
		}
	}
	return items
}

// BuiltinCommands offers the commands of the catalog.
func BuiltinCommands(ctx *cursor.Context) []Item {
	r, ok := ctx.CommandRange(ctx.Offset)
	if !ok {
		return nil
	}
	commands := ctx.Database().Catalog().Commands
	items := make([]Item, 0, len(commands))
	for i := range commands {
		items = append(items, Item{Range: r, Data: BuiltinCommand{Command: &commands[i]}})
	}
	return items
}
