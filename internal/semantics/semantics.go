// Package semantics derives the analysis record of a document from its
// syntax tree: command names, citations, links, labels and environments
// for LaTeX; entries and string macros for BibTeX.
//
// Analysis never fails. A partial tree yields a partial record.
package semantics

import (
	"github.com/jdujava/texlab/internal/catalog"
	"github.com/jdujava/texlab/internal/syntax"
)

// Span is a piece of source text together with its byte range.
type Span struct {
	Range syntax.TextRange
	Text  string
}

type LabelKind int

const (
	LabelDefinition LabelKind = iota
	LabelReference
)

type Citation struct {
	// Command is the range of the whole citation command.
	Command syntax.TextRange
	Key     Span
}

type Link struct {
	Kind      catalog.LinkKind
	Path      Span
	Extension string
	Command   syntax.TextRange
}

type Label struct {
	Kind    LabelKind
	Name    Span
	Command syntax.TextRange
}

// Environment records the names of a \begin/\end pair. End is the zero
// span when the environment is never closed.
type Environment struct {
	Begin  Span
	End    Span
	Closed bool
}

type Tex struct {
	// CommandNames covers every command token; Text has no backslash.
	CommandNames []Span
	Citations    []Citation
	Links        []Link
	Labels       []Label
	Environments []Environment
}

type Entry struct {
	// Type.Text is the lower-cased type name without '@'. The range
	// covers the whole type token.
	Type   Span
	Key    Span
	Range  syntax.TextRange
	Fields map[string]string
}

type Bib struct {
	Entries []Entry
	Strings []Span
}

// Record is the analysis result of one snapshot. Exactly one of Tex and
// Bib is set.
type Record struct {
	Tex *Tex
	Bib *Bib
}

// Analyze computes the record of tree. Trees of unknown dialect get an
// empty LaTeX record.
func Analyze(tree *syntax.Tree, c *catalog.Catalog) Record {
	if tree.Language == syntax.LanguageBibtex {
		return Record{Bib: analyzeBib(tree)}
	}
	if tree.Language == syntax.LanguageUnknown {
		return Record{Tex: &Tex{}}
	}
	return Record{Tex: analyzeTex(tree, c)}
}
