// Package syntax holds the lossless syntax tree shared by the LaTeX and
// BibTeX dialects. Every byte of a snapshot is covered by exactly one leaf
// token; interior nodes only group tokens.
package syntax

import (
	"fmt"
	"sort"
	"strings"
)

// Language is the source dialect of a document.
type Language int

const (
	LanguageUnknown Language = iota
	LanguageLatex
	LanguageBibtex
)

func (l Language) String() string {
	switch l {
	case LanguageLatex:
		return "latex"
	case LanguageBibtex:
		return "bibtex"
	default:
		return "unknown"
	}
}

// Kind identifies a token or node. Values are dialect specific.
type Kind uint16

// TextRange is a half-open byte range [Start, End).
type TextRange struct {
	Start int
	End   int
}

// NewRange panics if end precedes start.
func NewRange(start, end int) TextRange {
	if end < start {
		panic(fmt.Sprintf("syntax: invalid range [%d, %d)", start, end))
	}
	return TextRange{Start: start, End: end}
}

func (r TextRange) Len() int { return r.End - r.Start }

func (r TextRange) IsEmpty() bool { return r.Start == r.End }

// Contains reports whether start <= offset < end.
func (r TextRange) Contains(offset int) bool {
	return r.Start <= offset && offset < r.End
}

// ContainsInclusive reports whether start <= offset <= end.
func (r TextRange) ContainsInclusive(offset int) bool {
	return r.Start <= offset && offset <= r.End
}

// ContainsRange reports whether other lies entirely inside r.
func (r TextRange) ContainsRange(other TextRange) bool {
	return r.Start <= other.Start && other.End <= r.End
}

// Shift moves r by delta bytes.
func (r TextRange) Shift(delta int) TextRange {
	return TextRange{Start: r.Start + delta, End: r.End + delta}
}

func (r TextRange) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// Element is either a *Node or a *Token.
type Element interface {
	Kind() Kind
	Range() TextRange
	Parent() *Node
}

// Token is a leaf of the tree.
type Token struct {
	kind   Kind
	text   string
	offset int
	parent *Node
}

func (t *Token) Kind() Kind       { return t.kind }
func (t *Token) Text() string     { return t.text }
func (t *Token) Parent() *Node    { return t.parent }
func (t *Token) Range() TextRange { return TextRange{Start: t.offset, End: t.offset + len(t.text)} }

// Node is an interior element grouping tokens and nodes.
type Node struct {
	kind     Kind
	rng      TextRange
	children []Element
	parent   *Node
}

func (n *Node) Kind() Kind          { return n.kind }
func (n *Node) Range() TextRange    { return n.rng }
func (n *Node) Parent() *Node       { return n.parent }
func (n *Node) Children() []Element { return n.children }

// ChildNodes returns the direct children that are nodes.
func (n *Node) ChildNodes() []*Node {
	var nodes []*Node
	for _, child := range n.children {
		if node, ok := child.(*Node); ok {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// ChildTokens returns the direct children that are tokens.
func (n *Node) ChildTokens() []*Token {
	var tokens []*Token
	for _, child := range n.children {
		if token, ok := child.(*Token); ok {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// FirstChildNode returns the first direct child node of the given kind.
func (n *Node) FirstChildNode(kind Kind) *Node {
	for _, child := range n.children {
		if node, ok := child.(*Node); ok && node.kind == kind {
			return node
		}
	}
	return nil
}

// FirstChildToken returns the first direct child token of the given kind.
func (n *Node) FirstChildToken(kind Kind) *Token {
	for _, child := range n.children {
		if token, ok := child.(*Token); ok && token.kind == kind {
			return token
		}
	}
	return nil
}

// Tokens returns all leaves below n in text order.
func (n *Node) Tokens() []*Token {
	var tokens []*Token
	Walk(n, func(e Element) bool {
		if token, ok := e.(*Token); ok {
			tokens = append(tokens, token)
		}
		return true
	})
	return tokens
}

// Text reconstructs the source covered by n.
func (n *Node) Text() string {
	var b strings.Builder
	for _, token := range n.Tokens() {
		b.WriteString(token.text)
	}
	return b.String()
}

// Ancestors returns the chain of parents of e, innermost first.
func Ancestors(e Element) []*Node {
	var nodes []*Node
	for p := e.Parent(); p != nil; p = p.parent {
		nodes = append(nodes, p)
	}
	return nodes
}

// Walk visits e and its descendants in pre-order. Returning false from fn
// skips the children of the current element.
func Walk(e Element, fn func(Element) bool) {
	if !fn(e) {
		return
	}
	if node, ok := e.(*Node); ok {
		for _, child := range node.children {
			Walk(child, fn)
		}
	}
}

// Tree is the parse result of one snapshot.
type Tree struct {
	Language Language
	Text     string
	Root     *Node
	tokens   []*Token
}

// Tokens returns every leaf in text order.
func (t *Tree) Tokens() []*Token { return t.tokens }

// TokenAtOffset returns the tokens touching offset. When offset lies
// strictly inside a token both results are that token. On a boundary left
// ends at offset and right starts there; either may be nil at the ends of
// the text.
func (t *Tree) TokenAtOffset(offset int) (left, right *Token) {
	if offset < 0 || offset > len(t.Text) {
		panic(fmt.Sprintf("syntax: offset %d outside snapshot of length %d", offset, len(t.Text)))
	}
	i := sort.Search(len(t.tokens), func(i int) bool {
		return t.tokens[i].offset+len(t.tokens[i].text) > offset
	})
	if i == len(t.tokens) {
		if i > 0 {
			return t.tokens[i-1], nil
		}
		return nil, nil
	}
	token := t.tokens[i]
	if token.offset < offset {
		return token, token
	}
	if i > 0 {
		left = t.tokens[i-1]
	}
	return left, token
}

// Builder assembles a tree from a token stream. Nodes are opened and closed
// around the tokens they contain.
type Builder struct {
	stack  []*Node
	tokens []*Token
	offset int
}

// NewBuilder returns a builder with an open root node of the given kind.
func NewBuilder(root Kind) *Builder {
	b := &Builder{}
	b.StartNode(root)
	return b
}

func (b *Builder) StartNode(kind Kind) {
	node := &Node{kind: kind, rng: TextRange{Start: b.offset, End: b.offset}}
	if len(b.stack) > 0 {
		parent := b.stack[len(b.stack)-1]
		node.parent = parent
		parent.children = append(parent.children, node)
	}
	b.stack = append(b.stack, node)
}

func (b *Builder) Token(kind Kind, text string) {
	if len(b.stack) == 0 {
		panic("syntax: token outside of root node")
	}
	parent := b.stack[len(b.stack)-1]
	token := &Token{kind: kind, text: text, offset: b.offset, parent: parent}
	parent.children = append(parent.children, token)
	b.tokens = append(b.tokens, token)
	b.offset += len(text)
}

func (b *Builder) FinishNode() {
	if len(b.stack) <= 1 {
		panic("syntax: unbalanced FinishNode")
	}
	b.finishTop()
}

func (b *Builder) finishTop() {
	node := b.stack[len(b.stack)-1]
	node.rng.End = b.offset
	b.stack = b.stack[:len(b.stack)-1]
}

// Finish closes every open node and checks that the tokens reproduce text.
func (b *Builder) Finish(lang Language, text string) *Tree {
	for len(b.stack) > 1 {
		b.finishTop()
	}
	root := b.stack[0]
	b.finishTop()
	if b.offset != len(text) {
		panic(fmt.Sprintf("syntax: tokens cover %d bytes of %d", b.offset, len(text)))
	}
	return &Tree{Language: lang, Text: text, Root: root, tokens: b.tokens}
}
