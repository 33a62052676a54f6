package latex

import "github.com/jdujava/texlab/internal/syntax"

// Token kinds.
const (
	Error syntax.Kind = iota
	Whitespace
	LineBreak
	Comment
	LCurly
	RCurly
	LBrack
	RBrack
	LParen
	RParen
	Comma
	EqualitySign
	Dollar
	Word
	CommandName

	// Node kinds.
	Root
	CurlyGroup
	BrackGroup
	Command
	Environment
	Begin
	End
)

var kindNames = [...]string{
	Error:        "ERROR",
	Whitespace:   "WHITESPACE",
	LineBreak:    "LINE_BREAK",
	Comment:      "COMMENT",
	LCurly:       "L_CURLY",
	RCurly:       "R_CURLY",
	LBrack:       "L_BRACK",
	RBrack:       "R_BRACK",
	LParen:       "L_PAREN",
	RParen:       "R_PAREN",
	Comma:        "COMMA",
	EqualitySign: "EQUALITY_SIGN",
	Dollar:       "DOLLAR",
	Word:         "WORD",
	CommandName:  "COMMAND_NAME",
	Root:         "ROOT",
	CurlyGroup:   "CURLY_GROUP",
	BrackGroup:   "BRACK_GROUP",
	Command:      "COMMAND",
	Environment:  "ENVIRONMENT",
	Begin:        "BEGIN",
	End:          "END",
}

// KindName returns the debug name of a LaTeX kind.
func KindName(kind syntax.Kind) string {
	if int(kind) < len(kindNames) {
		return kindNames[kind]
	}
	return "UNKNOWN"
}

// IsTrivia reports whether tokens of this kind carry no meaning.
func IsTrivia(kind syntax.Kind) bool {
	return kind == Whitespace || kind == LineBreak || kind == Comment
}
