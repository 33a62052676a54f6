package bibtex

import "github.com/jdujava/texlab/internal/syntax"

// Token kinds.
const (
	Error syntax.Kind = iota
	Whitespace
	Type
	LCurly
	RCurly
	LParen
	RParen
	Comma
	EqualitySign
	Hash
	Quote
	CommandName
	Word
	Key
	Name

	// Node kinds.
	Root
	Junk
	Entry
	StringEntry
	Preamble
	CommentEntry
	Field
	Value
	CurlyGroup
	QuoteGroup
)

var kindNames = [...]string{
	Error:        "ERROR",
	Whitespace:   "WHITESPACE",
	Type:         "TYPE",
	LCurly:       "L_CURLY",
	RCurly:       "R_CURLY",
	LParen:       "L_PAREN",
	RParen:       "R_PAREN",
	Comma:        "COMMA",
	EqualitySign: "EQUALITY_SIGN",
	Hash:         "HASH",
	Quote:        "QUOTE",
	CommandName:  "COMMAND_NAME",
	Word:         "WORD",
	Key:          "KEY",
	Name:         "NAME",
	Root:         "ROOT",
	Junk:         "JUNK",
	Entry:        "ENTRY",
	StringEntry:  "STRING",
	Preamble:     "PREAMBLE",
	CommentEntry: "COMMENT",
	Field:        "FIELD",
	Value:        "VALUE",
	CurlyGroup:   "CURLY_GROUP",
	QuoteGroup:   "QUOTE_GROUP",
}

// KindName returns the debug name of a BibTeX kind.
func KindName(kind syntax.Kind) string {
	if int(kind) < len(kindNames) {
		return kindNames[kind]
	}
	return "UNKNOWN"
}

// IsTrivia reports whether a token carries no meaning: whitespace, or any
// token outside of an entry.
func IsTrivia(token *syntax.Token) bool {
	if token.Kind() == Whitespace {
		return true
	}
	parent := token.Parent()
	return parent == nil || parent.Kind() == Junk || parent.Kind() == CommentEntry
}
