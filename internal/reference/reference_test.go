package reference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdujava/texlab/internal/cursor"
	"github.com/jdujava/texlab/internal/fixture"
	"github.com/jdujava/texlab/internal/syntax"
)

func newContext(t *testing.T, input string) *cursor.Context {
	t.Helper()
	f := fixture.New(input)
	require.NotNil(t, f.Document, "fixture needs a cursor")
	return cursor.New(f.Workspace, f.Document, f.Offset)
}

func TestEntryReferences(t *testing.T) {
	ctx := newContext(t, `%! foo.bib
@article{|foo, bar = {baz}}
%! bar.tex
\addbibresource{foo.bib}
\cite{foo}
%! baz.tex
\cite{foo}`)

	assert.Equal(t, []Location{{
		URI:   fixture.URI("bar.tex"),
		Range: syntax.NewRange(25, 35),
	}}, FindReferences(ctx, false))
}

func TestEntryReferencesExactMatch(t *testing.T) {
	input := `%! x.bib
@article{key1|, title = {x}}
%! y.tex
\bibliography{x}
\cite{key1} \cite{key10}`
	ctx := newContext(t, input)

	got := FindReferences(ctx, false)
	require.Len(t, got, 1)
	text := "\\bibliography{x}\n\\cite{key1} \\cite{key10}"
	assert.Equal(t, fixture.URI("y.tex"), got[0].URI)
	assert.Equal(t, `\cite{key1}`, text[got[0].Range.Start:got[0].Range.End])
}

func TestEntryReferencesIncludeDeclaration(t *testing.T) {
	ctx := newContext(t, `%! x.bib
@article{ke|y, title = {x}}
%! a.tex
\bibliography{x}
\cite{key}
%! b.tex
\input{a}\cite{key}\nocite{other,key}`)

	assert.Equal(t, []Location{
		{URI: fixture.URI("x.bib"), Range: syntax.NewRange(9, 12)},
		{URI: fixture.URI("a.tex"), Range: syntax.NewRange(17, 27)},
		{URI: fixture.URI("b.tex"), Range: syntax.NewRange(9, 19)},
		{URI: fixture.URI("b.tex"), Range: syntax.NewRange(19, 37)},
	}, FindReferences(ctx, true))
}

func TestNoReferences(t *testing.T) {
	inputs := []string{
		"%! foo.tex\n|",
		"%! foo.bib\n@article{foo, |bar = {baz}}\n%! bar.tex\n\\addbibresource{foo.bib}\\cite{foo}",
		"%! foo.tex\n\\cite{fo|o}\n\\addbibresource{foo.bib}\n%! foo.bib\n@article{foo,}",
		"%! foo.bib\n  |  ",
	}
	for _, input := range inputs {
		assert.Empty(t, FindReferences(newContext(t, input), true), input)
	}
}

func TestLabelReferences(t *testing.T) {
	input := `%! main.tex
\section{Intro}\label{sec:in|tro}
\input{other}
see \ref{sec:intro}
%! other.tex
\cref{fig,sec:intro}`
	ctx := newContext(t, input)

	got := FindReferences(ctx, false)
	require.Len(t, got, 2)
	assert.Equal(t, fixture.URI("main.tex"), got[0].URI)
	assert.Equal(t, fixture.URI("other.tex"), got[1].URI)
	assert.Equal(t, syntax.NewRange(10, 19), got[1].Range)

	assert.Len(t, FindReferences(ctx, true), 3)
}

func TestFindDefinition(t *testing.T) {
	t.Run("citation", func(t *testing.T) {
		ctx := newContext(t, "%! a.tex\n\\bibliography{refs}\\cite{ke|y}\n%! refs.bib\n@article{key, title = {x}}")
		got := FindDefinition(ctx)
		require.Len(t, got, 1)
		assert.Equal(t, fixture.URI("refs.bib"), got[0].URI)
		assert.Equal(t, syntax.NewRange(9, 12), got[0].Selection)
		assert.Equal(t, syntax.NewRange(0, 26), got[0].Range)
		assert.Equal(t, syntax.NewRange(25, 28), got[0].Origin)
	})

	t.Run("label", func(t *testing.T) {
		ctx := newContext(t, "%! a.tex\n\\label{x}\\ref{|x}")
		got := FindDefinition(ctx)
		require.Len(t, got, 1)
		assert.Equal(t, syntax.NewRange(7, 8), got[0].Selection)
		assert.Equal(t, syntax.NewRange(0, 9), got[0].Range)
	})

	t.Run("include", func(t *testing.T) {
		ctx := newContext(t, "%! a.tex\n\\input{ch|apter}\n%! chapter.tex\ntext")
		got := FindDefinition(ctx)
		require.Len(t, got, 1)
		assert.Equal(t, fixture.URI("chapter.tex"), got[0].URI)
		assert.Equal(t, syntax.NewRange(7, 14), got[0].Origin)
	})

	t.Run("nothing", func(t *testing.T) {
		ctx := newContext(t, "%! a.tex\n\\fo|o")
		assert.Empty(t, FindDefinition(ctx))
	})
}
