package semantics

import (
	"strings"

	"github.com/jdujava/texlab/internal/catalog"
	"github.com/jdujava/texlab/internal/syntax"
	"github.com/jdujava/texlab/internal/syntax/latex"
)

func analyzeTex(tree *syntax.Tree, c *catalog.Catalog) *Tex {
	tex := &Tex{}
	for _, token := range tree.Tokens() {
		if token.Kind() == latex.CommandName && len(token.Text()) > 1 {
			tex.CommandNames = append(tex.CommandNames, Span{
				Range: token.Range(),
				Text:  token.Text()[1:],
			})
		}
	}

	syntax.Walk(tree.Root, func(e syntax.Element) bool {
		node, ok := e.(*syntax.Node)
		if !ok {
			return false
		}
		switch node.Kind() {
		case latex.Command:
			tex.command(tree.Text, node, c)
		case latex.Environment:
			tex.environment(tree.Text, node)
		}
		return true
	})
	return tex
}

// CommandName returns the name of a command node without the backslash.
func CommandName(node *syntax.Node) string {
	token := node.FirstChildToken(latex.CommandName)
	if token == nil {
		return ""
	}
	return strings.TrimPrefix(token.Text(), `\`)
}

func (tex *Tex) command(text string, node *syntax.Node, c *catalog.Catalog) {
	name := CommandName(node)
	group := node.FirstChildNode(latex.CurlyGroup)
	if name == "" || group == nil {
		return
	}

	if c.IsCitation(name) {
		for _, key := range GroupItems(text, group, true) {
			tex.Citations = append(tex.Citations, Citation{Command: node.Range(), Key: key})
		}
		return
	}

	if include, ok := c.Include(name); ok {
		for _, path := range GroupItems(text, group, include.List) {
			tex.Links = append(tex.Links, Link{
				Kind:      include.Kind,
				Path:      path,
				Extension: include.Extension,
				Command:   node.Range(),
			})
		}
		return
	}

	if label, ok := c.LabelDefinition(name); ok {
		tex.labels(LabelDefinition, text, node, group, label.List)
	} else if label, ok := c.LabelReference(name); ok {
		tex.labels(LabelReference, text, node, group, label.List)
	}
}

func (tex *Tex) labels(kind LabelKind, text string, node, group *syntax.Node, list bool) {
	for _, name := range GroupItems(text, group, list) {
		tex.Labels = append(tex.Labels, Label{Kind: kind, Name: name, Command: node.Range()})
	}
}

func (tex *Tex) environment(text string, node *syntax.Node) {
	begin := node.FirstChildNode(latex.Begin)
	if begin == nil {
		return
	}
	env := Environment{Begin: environmentName(text, begin)}
	if end := node.FirstChildNode(latex.End); end != nil {
		env.End = environmentName(text, end)
		env.Closed = true
	}
	tex.Environments = append(tex.Environments, env)
}

// environmentName returns the name inside the first group of a \begin or
// \end node. A missing or empty group gives an empty span after the
// command name.
func environmentName(text string, node *syntax.Node) Span {
	group := node.FirstChildNode(latex.CurlyGroup)
	if group == nil {
		at := node.Range().End
		return Span{Range: syntax.NewRange(at, at)}
	}
	if items := GroupItems(text, group, false); len(items) > 0 {
		return items[0]
	}
	at := group.Range().Start + 1
	return Span{Range: syntax.NewRange(at, at)}
}

// GroupItems returns the trimmed contents of a curly group, split at
// top-level commas when list is set. Empty items are dropped.
func GroupItems(text string, group *syntax.Node, list bool) []Span {
	var items []Span
	start, end := -1, -1
	flush := func() {
		if start >= 0 {
			items = append(items, Span{Range: syntax.NewRange(start, end), Text: text[start:end]})
		}
		start, end = -1, -1
	}

	children := group.Children()
	for i, child := range children {
		if token, ok := child.(*syntax.Token); ok {
			switch {
			case i == 0 && token.Kind() == latex.LCurly:
				continue
			case i == len(children)-1 && token.Kind() == latex.RCurly:
				continue
			case list && token.Kind() == latex.Comma:
				flush()
				continue
			case latex.IsTrivia(token.Kind()):
				continue
			}
		}
		r := child.Range()
		if start < 0 {
			start = r.Start
		}
		end = r.End
	}
	flush()
	return items
}
