package semantics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdujava/texlab/internal/catalog"
	"github.com/jdujava/texlab/internal/syntax"
	"github.com/jdujava/texlab/internal/syntax/bibtex"
	"github.com/jdujava/texlab/internal/syntax/latex"
)

func analyzeLatex(text string) *Tex {
	return Analyze(latex.Parse(text), catalog.Default()).Tex
}

func span(start, end int, text string) Span {
	return Span{Range: syntax.NewRange(start, end), Text: text}
}

func TestCommandNames(t *testing.T) {
	tex := analyzeLatex(`\foo{\bar} \ \baz*`)
	assert.Equal(t, []Span{
		span(0, 4, "foo"),
		span(5, 9, "bar"),
		span(11, 13, " "),
		span(13, 18, "baz*"),
	}, tex.CommandNames)
}

func TestCitations(t *testing.T) {
	text := `See \cite[p. 1]{key1, key2} and \parencite{key10}.`
	tex := analyzeLatex(text)
	require.Len(t, tex.Citations, 3)

	first := tex.Citations[0]
	assert.Equal(t, "key1", first.Key.Text)
	assert.Equal(t, `\cite[p. 1]{key1, key2}`, text[first.Command.Start:first.Command.End])
	assert.Equal(t, "key2", tex.Citations[1].Key.Text)
	assert.Equal(t, first.Command, tex.Citations[1].Command)
	assert.Equal(t, "key10", tex.Citations[2].Key.Text)
	assert.Equal(t, "key10", text[tex.Citations[2].Key.Range.Start:tex.Citations[2].Key.Range.End])
}

func TestLinks(t *testing.T) {
	tex := analyzeLatex(`\input{chapters/intro} \bibliography{a,b} \addbibresource{refs.bib}`)
	require.Len(t, tex.Links, 4)

	assert.Equal(t, catalog.LinkLatex, tex.Links[0].Kind)
	assert.Equal(t, "chapters/intro", tex.Links[0].Path.Text)
	assert.Equal(t, ".tex", tex.Links[0].Extension)

	assert.Equal(t, catalog.LinkBibtex, tex.Links[1].Kind)
	assert.Equal(t, "a", tex.Links[1].Path.Text)
	assert.Equal(t, "b", tex.Links[2].Path.Text)
	assert.Equal(t, "refs.bib", tex.Links[3].Path.Text)
}

func TestLabels(t *testing.T) {
	tex := analyzeLatex(`\section{Intro}\label{sec:intro} see \ref{sec:intro} and \cref{a,b}`)
	require.Len(t, tex.Labels, 4)
	assert.Equal(t, LabelDefinition, tex.Labels[0].Kind)
	assert.Equal(t, "sec:intro", tex.Labels[0].Name.Text)
	assert.Equal(t, LabelReference, tex.Labels[1].Kind)
	assert.Equal(t, "a", tex.Labels[2].Name.Text)
	assert.Equal(t, "b", tex.Labels[3].Name.Text)
}

func TestEnvironments(t *testing.T) {
	text := "\\begin{foo}\n\\begin{bar}\\end{baz}\n\\end{foo}\\begin{open}"
	tex := analyzeLatex(text)
	require.Len(t, tex.Environments, 3)

	assert.Equal(t, "foo", tex.Environments[0].Begin.Text)
	assert.Equal(t, "foo", tex.Environments[0].End.Text)
	assert.True(t, tex.Environments[0].Closed)

	assert.Equal(t, "bar", tex.Environments[1].Begin.Text)
	assert.Equal(t, "baz", tex.Environments[1].End.Text)

	assert.Equal(t, "open", tex.Environments[2].Begin.Text)
	assert.False(t, tex.Environments[2].Closed)
}

func TestEmptyEnvironmentName(t *testing.T) {
	tex := analyzeLatex(`\begin{}\end{}`)
	require.Len(t, tex.Environments, 1)
	assert.Equal(t, span(7, 7, ""), tex.Environments[0].Begin)
	assert.Equal(t, span(13, 13, ""), tex.Environments[0].End)
}

func TestBibEntries(t *testing.T) {
	text := "@string{me = \"Me\"}\n@Article{key1, Title = {Foo {Bar}}, author = me # \" and You\"}\n@misc{}"
	bib := Analyze(bibtex.Parse(text), catalog.Default()).Bib
	require.NotNil(t, bib)

	assert.Equal(t, []Span{span(8, 10, "me")}, bib.Strings)
	require.Len(t, bib.Entries, 1)

	entry := bib.Entries[0]
	assert.Equal(t, "article", entry.Type.Text)
	assert.Equal(t, "key1", entry.Key.Text)
	assert.Equal(t, "key1", text[entry.Key.Range.Start:entry.Key.Range.End])
	assert.Equal(t, "Foo {Bar}", entry.Fields["title"])
	assert.Equal(t, "me and You", entry.Fields["author"])
}

func TestAnalyzeIsPure(t *testing.T) {
	text := `\cite{a}\input{b}\label{c}`
	assert.Equal(t, analyzeLatex(text), analyzeLatex(text))
}

func TestMalformedInput(t *testing.T) {
	assert.NotPanics(t, func() {
		analyzeLatex(`\cite{\begin{x}`)
		Analyze(bibtex.Parse("@article{,,,= {"), catalog.Default())
	})
}
