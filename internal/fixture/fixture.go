// Package fixture builds in-memory workspaces for tests from a compact
// multi-file notation:
//
//	%! main.tex
//	\input{chapter}
//	%! chapter.tex
//	\fo|o
//
// Each "%! name" line starts a file under /project. The first '|' marks
// the cursor and is removed from the text.
package fixture

import (
	"strings"

	"github.com/jdujava/texlab/internal/catalog"
	"github.com/jdujava/texlab/internal/parser"
	"github.com/jdujava/texlab/internal/resolver"
	"github.com/jdujava/texlab/internal/workspace"
)

const Root = "/project"

type Fixture struct {
	Workspace *workspace.Workspace
	Documents map[string]*workspace.Document
	// Document and Offset locate the cursor; Document is nil without one.
	Document *workspace.Document
	Offset   int
}

func URI(name string) string {
	return "file://" + Root + "/" + name
}

func New(input string) *Fixture {
	f := &Fixture{Documents: make(map[string]*workspace.Document)}
	db := workspace.NewDatabase(catalog.Default(), resolver.New(Root))
	ws := workspace.New(db)

	var name string
	var lines []string
	flush := func() {
		if name == "" {
			return
		}
		text := strings.Join(lines, "\n")
		cursor := -1
		if f.Document == nil {
			if i := strings.IndexByte(text, '|'); i >= 0 {
				cursor = i
				text = text[:i] + text[i+1:]
			}
		}
		uri := URI(name)
		doc := workspace.NewDocument(uri, parser.LanguageFromURI(uri), text, 0, workspace.OwnerClient)
		ws = ws.With(doc)
		f.Documents[name] = doc
		if cursor >= 0 {
			f.Document = doc
			f.Offset = cursor
		}
	}

	for _, line := range strings.Split(input, "\n") {
		if rest, ok := strings.CutPrefix(line, "%! "); ok {
			flush()
			name = strings.TrimSpace(rest)
			lines = nil
			continue
		}
		lines = append(lines, line)
	}
	flush()
	f.Workspace = ws
	return f
}
