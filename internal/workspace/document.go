package workspace

import (
	"sync/atomic"

	"github.com/jdujava/texlab/internal/cache"
	"github.com/jdujava/texlab/internal/syntax"
)

// Owner records who holds the authoritative text of a document.
type Owner int

const (
	// OwnerClient documents are open in the editor.
	OwnerClient Owner = iota
	// OwnerServer documents were loaded from disk.
	OwnerServer
)

func (o Owner) String() string {
	if o == OwnerClient {
		return "client"
	}
	return "server"
}

var revisions atomic.Uint64

func nextRevision() cache.Revision {
	return cache.Revision(revisions.Add(1))
}

// Document is an immutable text snapshot. Edits produce new documents
// with a fresh revision.
type Document struct {
	URI      string
	Language syntax.Language
	Text     string
	Version  int32
	Revision cache.Revision
	Owner    Owner
}

func NewDocument(uri string, lang syntax.Language, text string, version int32, owner Owner) *Document {
	return &Document{
		URI:      uri,
		Language: lang,
		Text:     text,
		Version:  version,
		Revision: nextRevision(),
		Owner:    owner,
	}
}

// WithText returns a new snapshot of d holding text.
func (d *Document) WithText(text string, version int32) *Document {
	next := *d
	next.Text = text
	next.Version = version
	next.Revision = nextRevision()
	return &next
}

// WithOwner returns d with a different owner. The snapshot is unchanged,
// so the revision is kept.
func (d *Document) WithOwner(owner Owner) *Document {
	next := *d
	next.Owner = owner
	return &next
}

func (d *Document) Key() cache.Key {
	return cache.Key{URI: d.URI, Revision: d.Revision}
}
