package workspace

import (
	"github.com/jdujava/texlab/internal/cache"
	"github.com/jdujava/texlab/internal/catalog"
	"github.com/jdujava/texlab/internal/parser"
	"github.com/jdujava/texlab/internal/resolver"
	"github.com/jdujava/texlab/internal/semantics"
	"github.com/jdujava/texlab/internal/syntax"
)

// Database owns the memoised derivations shared by every workspace
// generation.
type Database struct {
	catalog  *catalog.Catalog
	resolver *resolver.Resolver
	trees    cache.Memo[*syntax.Tree]
	records  cache.Memo[semantics.Record]
}

func NewDatabase(c *catalog.Catalog, r *resolver.Resolver) *Database {
	return &Database{catalog: c, resolver: r}
}

func (db *Database) Catalog() *catalog.Catalog { return db.catalog }

func (db *Database) Resolver() *resolver.Resolver { return db.resolver }

// Parse returns the tree of doc, parsing each snapshot at most once.
func (db *Database) Parse(doc *Document) *syntax.Tree {
	return db.trees.Get(doc.Key(), func() *syntax.Tree {
		return parser.Parse(doc.Language, doc.Text)
	})
}

// Analyze returns the analysis record of doc, computing each snapshot at
// most once.
func (db *Database) Analyze(doc *Document) semantics.Record {
	return db.records.Get(doc.Key(), func() semantics.Record {
		return semantics.Analyze(db.Parse(doc), db.catalog)
	})
}

// Forget drops the memoised values of uri.
func (db *Database) Forget(uri string) {
	db.trees.Forget(uri)
	db.records.Forget(uri)
}

func (db *Database) TreeStats() cache.Stats { return db.trees.Stats() }

func (db *Database) RecordStats() cache.Stats { return db.records.Stats() }
