package latex

import (
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/jdujava/texlab/internal/syntax"
)

// Rules are tried in order; the final catch-all keeps the token stream
// lossless for any input.
var definition = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "LineBreak", Pattern: `\r\n|\r|\n`},
	{Name: "Whitespace", Pattern: `[^\S\r\n]+`},
	{Name: "Comment", Pattern: `%[^\r\n]*`},
	{Name: "CommandName", Pattern: `\\(?:[A-Za-z@]+\*?|[^A-Za-z@\r\n])?`},
	{Name: "LCurly", Pattern: `\{`},
	{Name: "RCurly", Pattern: `\}`},
	{Name: "LBrack", Pattern: `\[`},
	{Name: "RBrack", Pattern: `\]`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Comma", Pattern: `,`},
	{Name: "EqualitySign", Pattern: `=`},
	{Name: "Dollar", Pattern: `\$\$?`},
	{Name: "Word", Pattern: `[^\s\\%{}\[\](),=$]+`},
	{Name: "Error", Pattern: `(?s:.)`},
})

var kindOf = func() map[lexer.TokenType]syntax.Kind {
	symbols := definition.Symbols()
	return map[lexer.TokenType]syntax.Kind{
		symbols["LineBreak"]:    LineBreak,
		symbols["Whitespace"]:   Whitespace,
		symbols["Comment"]:      Comment,
		symbols["CommandName"]:  CommandName,
		symbols["LCurly"]:       LCurly,
		symbols["RCurly"]:       RCurly,
		symbols["LBrack"]:       LBrack,
		symbols["RBrack"]:       RBrack,
		symbols["LParen"]:       LParen,
		symbols["RParen"]:       RParen,
		symbols["Comma"]:        Comma,
		symbols["EqualitySign"]: EqualitySign,
		symbols["Dollar"]:       Dollar,
		symbols["Word"]:         Word,
		symbols["Error"]:        Error,
	}
}()

type lexeme struct {
	kind syntax.Kind
	text string
}

// lex splits text into lexemes whose concatenation is text.
func lex(text string) []lexeme {
	var lexemes []lexeme
	offset := 0
	if l, err := definition.LexString("", text); err == nil {
		// The Error rule matches any byte, so ConsumeAll does not fail. If
		// it did it would return no tokens and the tail below would still
		// cover the text.
		tokens, _ := lexer.ConsumeAll(l)
		for _, token := range tokens {
			if token.EOF() {
				break
			}
			kind, ok := kindOf[token.Type]
			if !ok {
				kind = Error
			}
			lexemes = append(lexemes, lexeme{kind: kind, text: token.Value})
			offset += len(token.Value)
		}
	}
	if offset < len(text) {
		lexemes = append(lexemes, lexeme{kind: Error, text: text[offset:]})
	}
	return lexemes
}
