// Package manager holds the current workspace generation and applies
// editor and file system changes to it. Readers take a snapshot and never
// block writers.
package manager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"github.com/tliron/commonlog"

	"github.com/jdujava/texlab/internal/parser"
	"github.com/jdujava/texlab/internal/resolver"
	"github.com/jdujava/texlab/internal/syntax"
	"github.com/jdujava/texlab/internal/textpos"
	"github.com/jdujava/texlab/internal/workspace"
)

var log = commonlog.GetLogger("texlab.manager")

var ErrDocumentNotFound = errors.New("manager: document not found")

// Manager serialises writers; each write publishes a new generation.
type Manager struct {
	mu      sync.Mutex
	current atomic.Pointer[workspace.Workspace]
	events  *broadcaster
}

func New(db *workspace.Database) *Manager {
	m := &Manager{events: newBroadcaster()}
	m.current.Store(workspace.New(db))
	return m
}

// Snapshot returns the current generation.
func (m *Manager) Snapshot() *workspace.Workspace {
	return m.current.Load()
}

func (m *Manager) Lookup(uri string) (*workspace.Document, bool) {
	return m.Snapshot().Lookup(uri)
}

// update applies fn to the current generation under the writer lock.
func (m *Manager) update(fn func(ws *workspace.Workspace) (*workspace.Workspace, error)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.current.Load()
	next, err := fn(prev)
	if err != nil {
		return err
	}
	if next == prev {
		return nil
	}
	m.current.Store(next)
	if m.events.active() {
		m.events.diff(prev, next)
	}
	return nil
}

func language(uri, languageID string) syntax.Language {
	if lang := parser.LanguageFromID(languageID); lang != syntax.LanguageUnknown {
		return lang
	}
	return parser.LanguageFromURI(uri)
}

// Open registers a document opened by the editor.
func (m *Manager) Open(uri, languageID string, version int32, text string) *workspace.Document {
	doc := workspace.NewDocument(uri, language(uri, languageID), text, version, workspace.OwnerClient)
	_ = m.update(func(ws *workspace.Workspace) (*workspace.Workspace, error) {
		return ws.With(doc), nil
	})
	log.Debugf("opened %s (%s)", uri, doc.Language)
	return doc
}

// Change applies LSP content changes in order.
func (m *Manager) Change(uri string, version int32, changes []any) (*workspace.Document, error) {
	var doc *workspace.Document
	err := m.update(func(ws *workspace.Workspace) (*workspace.Workspace, error) {
		current, ok := ws.Lookup(uri)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, uri)
		}
		text := current.Text
		for _, change := range changes {
			var err error
			if text, err = textpos.ApplyChange(text, change); err != nil {
				return nil, fmt.Errorf("change %s: %w", uri, err)
			}
		}
		doc = current.WithText(text, version)
		doc.Owner = workspace.OwnerClient
		return ws.With(doc), nil
	})
	return doc, err
}

// Save replaces the text of uri when the editor includes it.
func (m *Manager) Save(uri string, text *string) error {
	return m.update(func(ws *workspace.Workspace) (*workspace.Workspace, error) {
		current, ok := ws.Lookup(uri)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, uri)
		}
		if text == nil || *text == current.Text {
			return ws, nil
		}
		return ws.With(current.WithText(*text, current.Version)), nil
	})
}

// Close hands uri back to the server. A document whose file exists stays
// loaded with the content on disk; otherwise it is removed.
func (m *Manager) Close(uri string) error {
	return m.update(func(ws *workspace.Workspace) (*workspace.Workspace, error) {
		current, ok := ws.Lookup(uri)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, uri)
		}
		data, err := readURI(uri)
		if err != nil {
			ws.Database().Forget(uri)
			log.Debugf("closed and dropped %s", uri)
			return ws.Without(uri), nil
		}

		doc := current.WithOwner(workspace.OwnerServer)
		if string(data) != current.Text {
			doc = doc.WithText(string(data), current.Version)
		}
		log.Debugf("closed %s, kept from disk", uri)
		return ws.With(doc), nil
	})
}

func readURI(uri string) ([]byte, error) {
	path, err := resolver.URIToPath(uri)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(path)
}

// Prune removes server-owned documents whose file no longer exists. It
// returns the number of documents removed.
func (m *Manager) Prune(ctx context.Context) int {
	removed := 0
	_ = m.update(func(ws *workspace.Workspace) (*workspace.Workspace, error) {
		next := ws
		for _, doc := range ws.Documents() {
			if ctx.Err() != nil {
				break
			}
			if doc.Owner != workspace.OwnerServer || exists(doc.URI) {
				continue
			}
			ws.Database().Forget(doc.URI)
			next = next.Without(doc.URI)
			log.Debugf("pruned %s", doc.URI)
			removed++
		}
		return next, nil
	})
	return removed
}

// exists reports whether uri names a regular file. URIs that do not map
// to a path are kept.
func exists(uri string) bool {
	path, err := resolver.URIToPath(uri)
	if err != nil {
		return true
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Load adds a document read from disk. Documents open in the editor and
// unchanged documents are left alone.
func (m *Manager) Load(path string, data []byte) (*workspace.Document, bool) {
	uri := resolver.PathToURI(path)
	var doc *workspace.Document
	_ = m.update(func(ws *workspace.Workspace) (*workspace.Workspace, error) {
		if current, ok := ws.Lookup(uri); ok {
			if current.Owner == workspace.OwnerClient || current.Text == string(data) {
				return ws, nil
			}
			doc = current.WithText(string(data), current.Version)
		} else {
			doc = workspace.NewDocument(uri, parser.LanguageFromURI(uri), string(data), 0, workspace.OwnerServer)
		}
		return ws.With(doc), nil
	})
	return doc, doc != nil
}

// LoadFile reads path and loads it.
func (m *Manager) LoadFile(path string) (*workspace.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	doc, _ := m.Load(path, data)
	return doc, nil
}

// Discover loads link targets that are missing from the workspace but
// exist on disk, until no more can be found. It returns the number of
// documents loaded.
func (m *Manager) Discover(ctx context.Context) int {
	loaded := 0
	tried := make(map[string]bool)
	for {
		progress := false
		for _, link := range m.Snapshot().UnresolvedLinks() {
			if ctx.Err() != nil {
				return loaded
			}
			for _, candidate := range link.Candidates {
				if tried[candidate] {
					continue
				}
				tried[candidate] = true
				path, err := resolver.URIToPath(candidate)
				if err != nil {
					continue
				}
				if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
					continue
				}
				if _, err := m.LoadFile(path); err != nil {
					log.Warningf("discover: %s", err.Error())
					continue
				}
				log.Debugf("discovered %s via %s", candidate, link.Source)
				loaded++
				progress = true
				break
			}
		}
		if !progress {
			return loaded
		}
	}
}

// Subscribe returns a channel of topology events until ctx is canceled.
// Events are dropped for subscribers that do not keep up.
func (m *Manager) Subscribe(ctx context.Context) <-chan Event {
	return m.events.subscribe(ctx)
}
