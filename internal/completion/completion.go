// Package completion produces completion candidates for a cursor context.
// Independent providers inspect the context and their results are
// concatenated in a fixed order.
package completion

import (
	"github.com/jdujava/texlab/internal/catalog"
	"github.com/jdujava/texlab/internal/cursor"
	"github.com/jdujava/texlab/internal/syntax"
)

// Item is one candidate. Range is the span of the active document that
// accepting the item replaces; it never leaves the triggering token.
type Item struct {
	Range syntax.TextRange
	Data  Data
}

// Data identifies the provider of an item together with its payload.
type Data interface {
	Label() string
}

type EntryType struct {
	Type *catalog.EntryType
}

func (d EntryType) Label() string { return d.Type.Name }

// UserCommand is a command name found in a related document.
type UserCommand struct {
	Name string
	URI  string
}

func (d UserCommand) Label() string { return d.Name }

type BuiltinCommand struct {
	Command *catalog.Command
}

func (d BuiltinCommand) Label() string { return d.Command.Name }

type Citation struct {
	Key   string
	Type  string
	Title string
	URI   string
}

func (d Citation) Label() string { return d.Key }

// Provider returns the candidates of one kind. It returns nothing when
// the context does not apply.
type Provider func(ctx *cursor.Context) []Item

var providers = []Provider{
	EntryTypes,
	UserCommands,
	BuiltinCommands,
	Citations,
}

// Complete runs every provider in order.
func Complete(ctx *cursor.Context) []Item {
	var items []Item
	for _, provide := range providers {
		items = append(items, provide(ctx)...)
	}
	return items
}
