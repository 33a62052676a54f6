// Package workspace holds the document model: immutable snapshots, the
// memoised parse and analysis database, and immutable workspace
// generations with their include/bibliography relation.
package workspace

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/jdujava/texlab/internal/syntax"
)

// Workspace is one immutable generation of the document set. Readers may
// share a generation freely; edits produce a new one.
type Workspace struct {
	db         *Database
	generation uint64
	order      []string
	docs       map[string]*Document

	// base is the newest relation computed by an ancestor. It is reused
	// when this generation yields the same edges.
	base       *relation
	relMu      sync.Mutex
	rel        atomic.Pointer[relation]
	unresolved []UnresolvedLink
}

// UnresolvedLink is a link whose target is not part of the workspace.
type UnresolvedLink struct {
	Source     string
	Candidates []string
}

func New(db *Database) *Workspace {
	return &Workspace{db: db, docs: make(map[string]*Document)}
}

func (w *Workspace) Database() *Database { return w.db }

func (w *Workspace) Generation() uint64 { return w.generation }

func (w *Workspace) Len() int { return len(w.order) }

func (w *Workspace) Lookup(uri string) (*Document, bool) {
	doc, ok := w.docs[uri]
	return doc, ok
}

// Documents returns the documents in insertion order.
func (w *Workspace) Documents() []*Document {
	docs := make([]*Document, len(w.order))
	for i, uri := range w.order {
		docs[i] = w.docs[uri]
	}
	return docs
}

func (w *Workspace) successor() *Workspace {
	next := &Workspace{
		db:         w.db,
		generation: w.generation + 1,
		order:      slices.Clone(w.order),
		docs:       make(map[string]*Document, len(w.docs)+1),
		base:       w.computedRelation(),
	}
	for uri, doc := range w.docs {
		next.docs[uri] = doc
	}
	return next
}

// With returns a generation holding doc. A document with the same URI is
// replaced in place.
func (w *Workspace) With(doc *Document) *Workspace {
	next := w.successor()
	if _, ok := next.docs[doc.URI]; !ok {
		next.order = append(next.order, doc.URI)
	}
	next.docs[doc.URI] = doc
	return next
}

// Without returns a generation lacking uri.
func (w *Workspace) Without(uri string) *Workspace {
	if _, ok := w.docs[uri]; !ok {
		return w
	}
	next := w.successor()
	delete(next.docs, uri)
	next.order = slices.DeleteFunc(next.order, func(u string) bool { return u == uri })
	return next
}

// computedRelation returns the relation of w if it was already built,
// otherwise the one w inherited.
func (w *Workspace) computedRelation() *relation {
	if r := w.rel.Load(); r != nil {
		return r
	}
	return w.base
}

// relation derives the edges of w on first use.
func (w *Workspace) relation() *relation {
	if r := w.rel.Load(); r != nil {
		return r
	}
	w.relMu.Lock()
	defer w.relMu.Unlock()
	if r := w.rel.Load(); r != nil {
		return r
	}

	edges, unresolved := w.resolveLinks()
	r := w.base
	if r == nil || !r.sameEdges(edges) {
		r = newRelation(edges)
	}
	w.unresolved = unresolved
	w.rel.Store(r)
	return r
}

func (w *Workspace) resolveLinks() ([]Edge, []UnresolvedLink) {
	var edges []Edge
	var unresolved []UnresolvedLink
	seen := make(map[Edge]bool)
	for _, uri := range w.order {
		doc := w.docs[uri]
		if doc.Language != syntax.LanguageLatex {
			continue
		}
		tex := w.db.Analyze(doc).Tex
		if tex == nil {
			continue
		}
		for _, link := range tex.Links {
			candidates := w.db.Resolver().Candidates(doc.URI, link.Path.Text, link.Extension)
			target := ""
			for _, candidate := range candidates {
				if _, ok := w.docs[candidate]; ok {
					target = candidate
					break
				}
			}
			if target == "" {
				if len(candidates) > 0 {
					unresolved = append(unresolved, UnresolvedLink{Source: doc.URI, Candidates: candidates})
				}
				continue
			}
			edge := Edge{From: doc.URI, To: target}
			if !seen[edge] {
				seen[edge] = true
				edges = append(edges, edge)
			}
		}
	}
	return edges, unresolved
}

// Edges returns the include/bibliography relation in document order.
func (w *Workspace) Edges() []Edge {
	return slices.Clone(w.relation().edges)
}

// UnresolvedLinks returns the links whose targets are not loaded.
func (w *Workspace) UnresolvedLinks() []UnresolvedLink {
	w.relation()
	return w.unresolved
}

// Related returns the documents reachable from doc along the relation in
// either direction, doc included, in insertion order. A document outside
// the workspace is related to itself only.
func (w *Workspace) Related(doc *Document) []*Document {
	current, ok := w.docs[doc.URI]
	if !ok {
		return []*Document{doc}
	}
	set := w.relation().closure(current.URI)
	related := make([]*Document, 0, len(set))
	for _, uri := range w.order {
		if _, ok := set[uri]; ok {
			related = append(related, w.docs[uri])
		}
	}
	return related
}
