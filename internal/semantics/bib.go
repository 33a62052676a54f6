package semantics

import (
	"strings"

	"github.com/jdujava/texlab/internal/syntax"
	"github.com/jdujava/texlab/internal/syntax/bibtex"
)

func analyzeBib(tree *syntax.Tree) *Bib {
	bib := &Bib{}
	for _, node := range tree.Root.ChildNodes() {
		switch node.Kind() {
		case bibtex.Entry:
			if entry, ok := analyzeEntry(node); ok {
				bib.Entries = append(bib.Entries, entry)
			}
		case bibtex.StringEntry:
			for _, field := range node.ChildNodes() {
				if name := field.FirstChildToken(bibtex.Name); field.Kind() == bibtex.Field && name != nil {
					bib.Strings = append(bib.Strings, Span{Range: name.Range(), Text: name.Text()})
				}
			}
		}
	}
	return bib
}

func analyzeEntry(node *syntax.Node) (Entry, bool) {
	ty := node.FirstChildToken(bibtex.Type)
	key := node.FirstChildToken(bibtex.Key)
	if ty == nil || key == nil {
		return Entry{}, false
	}

	entry := Entry{
		Type: Span{
			Range: ty.Range(),
			Text:  strings.ToLower(strings.TrimPrefix(ty.Text(), "@")),
		},
		Key:    Span{Range: key.Range(), Text: key.Text()},
		Range:  node.Range(),
		Fields: map[string]string{},
	}
	for _, field := range node.ChildNodes() {
		name := field.FirstChildToken(bibtex.Name)
		if field.Kind() != bibtex.Field || name == nil {
			continue
		}
		var value string
		if v := field.FirstChildNode(bibtex.Value); v != nil {
			value = fieldValue(v)
		}
		entry.Fields[strings.ToLower(name.Text())] = value
	}
	return entry, true
}

// fieldValue flattens a value: outer braces and quotes are dropped and
// whitespace runs collapse to one space.
func fieldValue(value *syntax.Node) string {
	var parts []string
	for _, child := range value.Children() {
		switch child := child.(type) {
		case *syntax.Token:
			if child.Kind() == bibtex.Word || child.Kind() == bibtex.CommandName {
				parts = append(parts, child.Text())
			}
		case *syntax.Node:
			text := child.Text()
			switch child.Kind() {
			case bibtex.CurlyGroup:
				text = strings.TrimSuffix(strings.TrimPrefix(text, "{"), "}")
			case bibtex.QuoteGroup:
				text = strings.TrimSuffix(strings.TrimPrefix(text, `"`), `"`)
			}
			parts = append(parts, text)
		}
	}
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
