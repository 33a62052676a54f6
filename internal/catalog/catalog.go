// Package catalog is the read-only table of known language constructs:
// BibTeX entry types, builtin commands and the directive tables used by
// analysis. It is decoded once and never mutated afterwards.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var data []byte

var (
	ErrDuplicateEntryType = errors.New("catalog: duplicate entry type")
	ErrInvalidLinkKind    = errors.New("catalog: invalid link kind")
)

type EntryType struct {
	Name          string `yaml:"name"`
	Category      string `yaml:"category"`
	Documentation string `yaml:"documentation"`
}

type Command struct {
	Name    string `yaml:"name"`
	Package string `yaml:"package"`
	Detail  string `yaml:"detail"`
}

// LinkKind tells which kind of document an include directive refers to.
type LinkKind string

const (
	LinkLatex  LinkKind = "latex"
	LinkBibtex LinkKind = "bibtex"
)

type IncludeCommand struct {
	Name      string   `yaml:"name"`
	Kind      LinkKind `yaml:"kind"`
	Extension string   `yaml:"extension"`
	List      bool     `yaml:"list"`
}

type LabelCommand struct {
	Name string `yaml:"name"`
	List bool   `yaml:"list"`
}

type Catalog struct {
	EntryTypes              []EntryType      `yaml:"entry_types"`
	Commands                []Command        `yaml:"commands"`
	CitationCommands        []string         `yaml:"citation_commands"`
	IncludeCommands         []IncludeCommand `yaml:"include_commands"`
	LabelDefinitionCommands []LabelCommand   `yaml:"label_definition_commands"`
	LabelReferenceCommands  []LabelCommand   `yaml:"label_reference_commands"`

	citations  map[string]struct{}
	includes   map[string]*IncludeCommand
	labelDefs  map[string]*LabelCommand
	labelRefs  map[string]*LabelCommand
	entryTypes map[string]*EntryType
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the process-wide catalog built from the embedded data.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(data)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded data is invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// Load decodes a catalog from YAML.
func Load(raw []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("catalog: failed to decode: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) index() error {
	c.entryTypes = make(map[string]*EntryType, len(c.EntryTypes))
	for i := range c.EntryTypes {
		ty := &c.EntryTypes[i]
		name := strings.ToLower(ty.Name)
		if _, ok := c.entryTypes[name]; ok {
			return fmt.Errorf("%w: %s", ErrDuplicateEntryType, ty.Name)
		}
		c.entryTypes[name] = ty
	}

	c.citations = make(map[string]struct{}, len(c.CitationCommands))
	for _, name := range c.CitationCommands {
		c.citations[name] = struct{}{}
	}

	c.includes = make(map[string]*IncludeCommand, len(c.IncludeCommands))
	for i := range c.IncludeCommands {
		include := &c.IncludeCommands[i]
		if include.Kind != LinkLatex && include.Kind != LinkBibtex {
			return fmt.Errorf("%w: %q for %s", ErrInvalidLinkKind, include.Kind, include.Name)
		}
		c.includes[include.Name] = include
	}

	c.labelDefs = indexLabels(c.LabelDefinitionCommands)
	c.labelRefs = indexLabels(c.LabelReferenceCommands)
	return nil
}

func indexLabels(commands []LabelCommand) map[string]*LabelCommand {
	m := make(map[string]*LabelCommand, len(commands))
	for i := range commands {
		m[commands[i].Name] = &commands[i]
	}
	return m
}

// baseName drops a trailing star so that starred variants share a row.
func baseName(name string) string {
	return strings.TrimSuffix(name, "*")
}

// IsCitation reports whether name (without backslash) cites entries.
func (c *Catalog) IsCitation(name string) bool {
	_, ok := c.citations[baseName(name)]
	return ok
}

func (c *Catalog) Include(name string) (*IncludeCommand, bool) {
	include, ok := c.includes[baseName(name)]
	return include, ok
}

func (c *Catalog) LabelDefinition(name string) (*LabelCommand, bool) {
	label, ok := c.labelDefs[baseName(name)]
	return label, ok
}

func (c *Catalog) LabelReference(name string) (*LabelCommand, bool) {
	label, ok := c.labelRefs[baseName(name)]
	return label, ok
}

// EntryType looks up an entry type case-insensitively.
func (c *Catalog) EntryType(name string) (*EntryType, bool) {
	ty, ok := c.entryTypes[strings.ToLower(name)]
	return ty, ok
}
