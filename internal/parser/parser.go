// Package parser picks the dialect of a document and runs the matching
// syntax parser.
package parser

import (
	"net/url"
	"path"
	"strings"

	"github.com/jdujava/texlab/internal/syntax"
	"github.com/jdujava/texlab/internal/syntax/bibtex"
	"github.com/jdujava/texlab/internal/syntax/latex"
)

var extensions = map[string]syntax.Language{
	".tex": syntax.LanguageLatex,
	".sty": syntax.LanguageLatex,
	".cls": syntax.LanguageLatex,
	".ltx": syntax.LanguageLatex,
	".def": syntax.LanguageLatex,
	".dtx": syntax.LanguageLatex,
	".bib": syntax.LanguageBibtex,
}

// LanguageFromURI guesses the dialect from the file extension of uri.
func LanguageFromURI(uri string) syntax.Language {
	p := uri
	if u, err := url.Parse(uri); err == nil && u.Path != "" {
		p = u.Path
	}
	return extensions[strings.ToLower(path.Ext(p))]
}

// LanguageFromID maps an LSP language identifier to a dialect.
func LanguageFromID(id string) syntax.Language {
	switch strings.ToLower(id) {
	case "latex", "tex", "plaintex", "context":
		return syntax.LanguageLatex
	case "bibtex", "bib":
		return syntax.LanguageBibtex
	default:
		return syntax.LanguageUnknown
	}
}

// Parse builds the tree of text under lang. Unknown dialects are parsed as
// LaTeX so that every document still has a lossless tree.
func Parse(lang syntax.Language, text string) *syntax.Tree {
	switch lang {
	case syntax.LanguageBibtex:
		return bibtex.Parse(text)
	case syntax.LanguageLatex:
		return latex.Parse(text)
	default:
		tree := latex.Parse(text)
		tree.Language = syntax.LanguageUnknown
		return tree
	}
}
