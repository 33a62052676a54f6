package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdujava/texlab/internal/catalog"
	"github.com/jdujava/texlab/internal/resolver"
	"github.com/jdujava/texlab/internal/syntax"
)

func newTestDatabase() *Database {
	return NewDatabase(catalog.Default(), resolver.New("/project"))
}

func texDoc(name, text string) *Document {
	return NewDocument("file:///project/"+name, syntax.LanguageLatex, text, 0, OwnerClient)
}

func bibDoc(name, text string) *Document {
	return NewDocument("file:///project/"+name, syntax.LanguageBibtex, text, 0, OwnerClient)
}

func uris(docs []*Document) []string {
	var result []string
	for _, doc := range docs {
		result = append(result, doc.URI)
	}
	return result
}

func TestRevisionsAreUnique(t *testing.T) {
	a := texDoc("a.tex", "x")
	b := a.WithText("y", 1)
	assert.NotEqual(t, a.Revision, b.Revision)
	assert.Equal(t, "x", a.Text)
	assert.Equal(t, b.Revision, b.WithOwner(OwnerServer).Revision)
}

func TestAnalyzeIsMemoised(t *testing.T) {
	db := newTestDatabase()
	doc := texDoc("a.tex", `\foo \bar`)

	first := db.Analyze(doc)
	second := db.Analyze(doc)
	assert.Equal(t, first, second)
	assert.Equal(t, uint64(1), db.RecordStats().Misses)
	assert.Equal(t, uint64(1), db.RecordStats().Hits)
	assert.Equal(t, uint64(1), db.TreeStats().Misses)

	edited := doc.WithText(`\baz`, 1)
	record := db.Analyze(edited)
	require.Len(t, record.Tex.CommandNames, 1)
	assert.Equal(t, "baz", record.Tex.CommandNames[0].Text)
	assert.Equal(t, uint64(2), db.RecordStats().Misses)
}

func TestParseIsLossless(t *testing.T) {
	db := newTestDatabase()
	for _, doc := range []*Document{
		texDoc("a.tex", "\\begin{document}\n\\cite{x}}{\n"),
		bibDoc("b.bib", "@article{x, title = {y}\n@book"),
	} {
		assert.Equal(t, doc.Text, db.Parse(doc).Root.Text())
	}
}

func TestWithAndWithout(t *testing.T) {
	ws := New(newTestDatabase())
	a := texDoc("a.tex", "a")
	b := texDoc("b.tex", "b")

	ws1 := ws.With(a).With(b)
	ws2 := ws1.With(a.WithText("a2", 1))
	assert.Equal(t, uris([]*Document{a, b}), uris(ws2.Documents()))
	got, ok := ws2.Lookup(a.URI)
	require.True(t, ok)
	assert.Equal(t, "a2", got.Text)

	ws3 := ws2.Without(a.URI)
	assert.Equal(t, []string{b.URI}, uris(ws3.Documents()))
	assert.Equal(t, 2, ws2.Len())
	assert.Same(t, ws3, ws3.Without("file:///missing.tex"))
	assert.Greater(t, ws3.Generation(), ws2.Generation())
}

func TestRelated(t *testing.T) {
	main := texDoc("main.tex", `\input{chapters/one}\bibliography{refs}`)
	one := texDoc("chapters/one.tex", `\cite{key}`)
	refs := bibDoc("refs.bib", `@article{key, title = {x}}`)
	other := texDoc("other.tex", `\foo`)

	ws := New(newTestDatabase()).With(main).With(one).With(refs).With(other)

	assert.Equal(t, []Edge{
		{From: main.URI, To: one.URI},
		{From: main.URI, To: refs.URI},
	}, ws.Edges())

	tests := []struct {
		name string
		doc  *Document
		want []string
	}{
		{"from root", main, []string{main.URI, one.URI, refs.URI}},
		{"from bibliography", refs, []string{main.URI, one.URI, refs.URI}},
		{"from sibling", one, []string{main.URI, one.URI, refs.URI}},
		{"unrelated", other, []string{other.URI}},
		{"outside workspace", texDoc("x.tex", ""), []string{"file:///project/x.tex"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			related := ws.Related(tt.doc)
			assert.Equal(t, tt.want, uris(related))
			assert.Contains(t, uris(related), tt.doc.URI)
		})
	}
}

func TestRelationIsReusedWhenEdgesAreUnchanged(t *testing.T) {
	main := texDoc("main.tex", `\input{one}`)
	one := texDoc("one.tex", `x`)
	ws := New(newTestDatabase()).With(main).With(one)
	ws.Related(main)

	edited := ws.With(one.WithText("y", 1))
	assert.Same(t, ws.relation(), edited.relation())

	edited = edited.With(main.WithText(`\input{one} \foo`, 1))
	assert.Same(t, ws.relation(), edited.relation())

	changed := edited.With(main.WithText(`\input{two}`, 2))
	assert.NotSame(t, ws.relation(), changed.relation())
	assert.Equal(t, []string{main.URI}, uris(changed.Related(main)))
}

func TestUnresolvedLinks(t *testing.T) {
	main := texDoc("sub/main.tex", `\input{one}\addbibresource{refs.bib}`)
	one := texDoc("one.tex", "")
	ws := New(newTestDatabase()).With(main).With(one)

	assert.Equal(t, []Edge{{From: main.URI, To: one.URI}}, ws.Edges())
	assert.Equal(t, []UnresolvedLink{{
		Source:     main.URI,
		Candidates: []string{"file:///project/sub/refs.bib", "file:///project/refs.bib"},
	}}, ws.UnresolvedLinks())
}
