// Package cursor resolves a byte offset in a document to the syntax token
// a request is about.
package cursor

import (
	"github.com/jdujava/texlab/internal/semantics"
	"github.com/jdujava/texlab/internal/syntax"
	"github.com/jdujava/texlab/internal/syntax/bibtex"
	"github.com/jdujava/texlab/internal/syntax/latex"
	"github.com/jdujava/texlab/internal/workspace"
)

type Kind int

const (
	None Kind = iota
	Tex
	Bib
)

// Cursor is the token under the offset tagged with its dialect. Trivia
// and unknown dialects give None.
type Cursor struct {
	kind  Kind
	token *syntax.Token
}

func (c Cursor) Kind() Kind { return c.kind }

func (c Cursor) AsTex() (*syntax.Token, bool) {
	return c.token, c.kind == Tex
}

func (c Cursor) AsBib() (*syntax.Token, bool) {
	return c.token, c.kind == Bib
}

// Context is the per-request view of a document at an offset.
type Context struct {
	Workspace *workspace.Workspace
	Document  *workspace.Document
	Tree      *syntax.Tree
	Record    semantics.Record
	Offset    int
	Cursor    Cursor
}

// New builds the context of offset in doc. It panics if offset lies
// outside the snapshot.
func New(ws *workspace.Workspace, doc *workspace.Document, offset int) *Context {
	db := ws.Database()
	tree := db.Parse(doc)
	ctx := &Context{
		Workspace: ws,
		Document:  doc,
		Tree:      tree,
		Record:    db.Analyze(doc),
		Offset:    offset,
	}
	ctx.Cursor = classify(tree, pick(tree, offset))
	return ctx
}

func (ctx *Context) Database() *workspace.Database {
	return ctx.Workspace.Database()
}

// Related returns the documents related to the active one.
func (ctx *Context) Related() []*workspace.Document {
	return ctx.Workspace.Related(ctx.Document)
}

// CommandRange returns the span of the command name under the cursor,
// backslash included, when the offset lies after the backslash and at or
// before the end of the name.
func (ctx *Context) CommandRange(offset int) (syntax.TextRange, bool) {
	token, ok := ctx.Cursor.AsTex()
	if !ok || token.Kind() != latex.CommandName {
		return syntax.TextRange{}, false
	}
	r := token.Range()
	if r.Start < offset && offset <= r.End {
		return r, true
	}
	return syntax.TextRange{}, false
}

// pick chooses between the tokens touching offset. The right token only
// wins with a strictly higher score.
func pick(tree *syntax.Tree, offset int) *syntax.Token {
	left, right := tree.TokenAtOffset(offset)
	if left == right || right == nil {
		return left
	}
	if left == nil || score(tree.Language, right) > score(tree.Language, left) {
		return right
	}
	return left
}

func score(lang syntax.Language, token *syntax.Token) int {
	if lang == syntax.LanguageBibtex {
		switch token.Kind() {
		case bibtex.Type:
			return 3
		case bibtex.Word, bibtex.Key, bibtex.Name, bibtex.CommandName:
			return 2
		case bibtex.Whitespace:
			return 0
		default:
			return 1
		}
	}
	switch {
	case token.Kind() == latex.CommandName:
		return 3
	case token.Kind() == latex.Word:
		return 2
	case latex.IsTrivia(token.Kind()):
		return 0
	default:
		return 1
	}
}

func classify(tree *syntax.Tree, token *syntax.Token) Cursor {
	if token == nil {
		return Cursor{}
	}
	switch tree.Language {
	case syntax.LanguageLatex:
		if latex.IsTrivia(token.Kind()) {
			return Cursor{}
		}
		return Cursor{kind: Tex, token: token}
	case syntax.LanguageBibtex:
		if bibtex.IsTrivia(token) {
			return Cursor{}
		}
		return Cursor{kind: Bib, token: token}
	default:
		return Cursor{}
	}
}
