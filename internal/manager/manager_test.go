package manager

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/jdujava/texlab/internal/catalog"
	"github.com/jdujava/texlab/internal/resolver"
	"github.com/jdujava/texlab/internal/syntax"
	"github.com/jdujava/texlab/internal/workspace"
)

func newManager(root string) *Manager {
	return New(workspace.NewDatabase(catalog.Default(), resolver.New(root)))
}

func TestOpenAndChange(t *testing.T) {
	m := newManager("/project")
	uri := "file:///project/main.tex"

	opened := m.Open(uri, "latex", 1, "hello\nworld")
	assert.Equal(t, syntax.LanguageLatex, opened.Language)
	before := m.Snapshot()

	r := protocol.Range{
		Start: protocol.Position{Line: 1, Character: 0},
		End:   protocol.Position{Line: 1, Character: 5},
	}
	changed, err := m.Change(uri, 2, []any{
		protocol.TextDocumentContentChangeEvent{Range: &r, Text: "there"},
		protocol.TextDocumentContentChangeEvent{Text: "whole\n"},
	})
	require.NoError(t, err)
	assert.Equal(t, "whole\n", changed.Text)
	assert.Equal(t, int32(2), changed.Version)
	assert.NotEqual(t, opened.Revision, changed.Revision)

	got, ok := before.Lookup(uri)
	require.True(t, ok)
	assert.Equal(t, "hello\nworld", got.Text, "older generations are not mutated")

	_, err = m.Change("file:///project/missing.tex", 1, nil)
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestLanguageFallsBackToExtension(t *testing.T) {
	m := newManager("/project")
	doc := m.Open("file:///project/refs.bib", "", 0, "@misc{x,}")
	assert.Equal(t, syntax.LanguageBibtex, doc.Language)
}

func TestSave(t *testing.T) {
	m := newManager("/project")
	uri := "file:///project/main.tex"
	m.Open(uri, "latex", 1, "a")
	generation := m.Snapshot().Generation()

	require.NoError(t, m.Save(uri, nil))
	assert.Equal(t, generation, m.Snapshot().Generation())

	text := "b"
	require.NoError(t, m.Save(uri, &text))
	doc, _ := m.Lookup(uri)
	assert.Equal(t, "b", doc.Text)

	assert.ErrorIs(t, m.Save("file:///nope.tex", &text), ErrDocumentNotFound)
}

func TestCloseKeepsDocumentsOnDisk(t *testing.T) {
	dir := t.TempDir()
	chapter := filepath.Join(dir, "chapter.tex")
	require.NoError(t, os.WriteFile(chapter, []byte("on disk"), 0o644))

	m := newManager(dir)
	mainURI := resolver.PathToURI(filepath.Join(dir, "main.tex"))
	chapterURI := resolver.PathToURI(chapter)
	m.Open(mainURI, "latex", 1, `\input{chapter}`)
	m.Open(chapterURI, "latex", 1, "unsaved")

	require.NoError(t, m.Close(chapterURI))
	doc, ok := m.Lookup(chapterURI)
	require.True(t, ok)
	assert.Equal(t, workspace.OwnerServer, doc.Owner)
	assert.Equal(t, "on disk", doc.Text)

	require.NoError(t, m.Close(mainURI))
	_, ok = m.Lookup(mainURI)
	assert.False(t, ok, "a document without a file is dropped")

	assert.ErrorIs(t, m.Close(mainURI), ErrDocumentNotFound)
}

func TestCloseKeepsUnreferencedRoot(t *testing.T) {
	dir := t.TempDir()
	write := func(name, text string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
		return path
	}
	mainPath := write("main.tex", `\input{chapter}\bibliography{refs}`)
	write("chapter.tex", `\cite{knuth}`)
	refsPath := write("refs.bib", `@book{knuth,}`)

	m := newManager(dir)
	for _, name := range []string{"main.tex", "chapter.tex", "refs.bib"} {
		_, err := m.LoadFile(filepath.Join(dir, name))
		require.NoError(t, err)
	}
	mainURI := resolver.PathToURI(mainPath)
	m.Open(mainURI, "latex", 2, `\input{chapter}\bibliography{refs}%edited`)

	require.NoError(t, m.Close(mainURI))
	doc, ok := m.Lookup(mainURI)
	require.True(t, ok)
	assert.Equal(t, workspace.OwnerServer, doc.Owner)
	assert.Equal(t, `\input{chapter}\bibliography{refs}`, doc.Text)

	ws := m.Snapshot()
	refs, ok := ws.Lookup(resolver.PathToURI(refsPath))
	require.True(t, ok)
	assert.Len(t, ws.Related(refs), 3)
}

func TestPrune(t *testing.T) {
	dir := t.TempDir()
	gone := filepath.Join(dir, "gone.tex")
	kept := filepath.Join(dir, "kept.tex")
	require.NoError(t, os.WriteFile(gone, []byte(`\stalecommand`), 0o644))
	require.NoError(t, os.WriteFile(kept, []byte(`\fresh`), 0o644))

	m := newManager(dir)
	_, err := m.LoadFile(gone)
	require.NoError(t, err)
	_, err = m.LoadFile(kept)
	require.NoError(t, err)
	editorURI := resolver.PathToURI(filepath.Join(dir, "unsaved.tex"))
	m.Open(editorURI, "latex", 1, `\input{gone}`)

	assert.Equal(t, 0, m.Prune(context.Background()))

	require.NoError(t, os.Remove(gone))
	assert.Equal(t, 1, m.Prune(context.Background()))

	ws := m.Snapshot()
	_, ok := ws.Lookup(resolver.PathToURI(gone))
	assert.False(t, ok)
	_, ok = ws.Lookup(resolver.PathToURI(kept))
	assert.True(t, ok)
	_, ok = ws.Lookup(editorURI)
	assert.True(t, ok, "documents open in the editor are never pruned")
	assert.Len(t, ws.UnresolvedLinks(), 1)
}

func TestLoadDoesNotOverrideOpenDocuments(t *testing.T) {
	m := newManager("/project")
	m.Open("file:///project/main.tex", "latex", 1, "editor")

	_, loaded := m.Load("/project/main.tex", []byte("disk"))
	assert.False(t, loaded)
	doc, _ := m.Lookup("file:///project/main.tex")
	assert.Equal(t, "editor", doc.Text)

	doc, loaded = m.Load("/project/other.tex", []byte("disk"))
	require.True(t, loaded)
	assert.Equal(t, workspace.OwnerServer, doc.Owner)

	_, loaded = m.Load("/project/other.tex", []byte("disk"))
	assert.False(t, loaded, "unchanged content is not reloaded")
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	write := func(name, text string) {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	}
	write("chapters/one.tex", `\input{chapters/two}`)
	write("chapters/two.tex", `\cite{key}`)
	write("refs.bib", `@article{key,}`)

	m := newManager(dir)
	mainURI := resolver.PathToURI(filepath.Join(dir, "main.tex"))
	m.Open(mainURI, "latex", 1, `\input{chapters/one}\bibliography{refs}\input{missing}`)

	assert.Equal(t, 3, m.Discover(context.Background()))
	ws := m.Snapshot()
	assert.Equal(t, 4, ws.Len())
	main, _ := ws.Lookup(mainURI)
	assert.Len(t, ws.Related(main), 4)
}

func TestSubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := newManager("/project")
	events := m.Subscribe(ctx)

	m.Open("file:///project/a.bib", "bibtex", 1, "")
	m.Open("file:///project/main.tex", "latex", 1, `\bibliography{a}`)
	_, err := m.Change("file:///project/main.tex", 2, []any{protocol.TextDocumentContentChangeEventWhole{Text: ""}})
	require.NoError(t, err)

	var got []Event
	timeout := time.After(time.Second)
	for len(got) < 4 {
		select {
		case event := <-events:
			got = append(got, event)
		case <-timeout:
			t.Fatalf("timed out after %d events", len(got))
		}
	}

	edge := workspace.Edge{From: "file:///project/main.tex", To: "file:///project/a.bib"}
	assert.Equal(t, []Event{
		{Type: CreateDocument, URI: "file:///project/a.bib"},
		{Type: CreateDocument, URI: "file:///project/main.tex"},
		{Type: CreateLink, Link: &edge},
		{Type: DeleteLink, Link: &edge},
	}, got)

	cancel()
	for range events {
	}
}
