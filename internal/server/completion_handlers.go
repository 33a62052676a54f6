package server

import (
	"strings"
	"time"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/jdujava/texlab/internal/completion"
	"github.com/jdujava/texlab/internal/textpos"
)

func (s *Server) textDocumentCompletion(
	context *glsp.Context,
	params *protocol.CompletionParams,
) (result any, err error) {
	defer func(start time.Time) { s.observe(protocol.MethodTextDocumentCompletion, start, err) }(time.Now())

	ctx, index, err := s.cursorAt(params.TextDocumentPositionParams)
	if err != nil || ctx == nil {
		return nil, err
	}

	items := completion.Complete(ctx)
	list := protocol.CompletionList{Items: make([]protocol.CompletionItem, 0, len(items))}
	for _, item := range items {
		list.Items = append(list.Items, completionItem(index, item))
	}
	return list, nil
}

func completionItem(index *textpos.LineIndex, item completion.Item) protocol.CompletionItem {
	var (
		kind    protocol.CompletionItemKind
		newText = item.Data.Label()
		result  protocol.CompletionItem
	)
	result.Label = item.Data.Label()

	switch data := item.Data.(type) {
	case completion.EntryType:
		kind = protocol.CompletionItemKindInterface
		result.Detail = &data.Type.Category
		if data.Type.Documentation != "" {
			result.Documentation = protocol.MarkupContent{
				Kind:  protocol.MarkupKindMarkdown,
				Value: data.Type.Documentation,
			}
		}
	case completion.UserCommand:
		kind = protocol.CompletionItemKindFunction
		newText = `\` + data.Name
		detail := "user-defined"
		result.Detail = &detail
		result.FilterText = &newText
	case completion.BuiltinCommand:
		kind = protocol.CompletionItemKindFunction
		newText = `\` + data.Command.Name
		detail := data.Command.Package
		if detail == "" {
			detail = "built-in"
		}
		result.Detail = &detail
		if data.Command.Detail != "" {
			result.Documentation = data.Command.Detail
		}
		result.FilterText = &newText
	case completion.Citation:
		kind = protocol.CompletionItemKindField
		result.Detail = &data.Type
		if data.Title != "" {
			result.Documentation = data.Title
		}
		filter := strings.TrimSpace(data.Key + " " + data.Title)
		result.FilterText = &filter
	}

	result.Kind = &kind
	result.TextEdit = protocol.TextEdit{
		Range:   index.Range(item.Range),
		NewText: newText,
	}
	return result
}
