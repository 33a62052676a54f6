package bibtex

import (
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/jdujava/texlab/internal/syntax"
)

var definition = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Type", Pattern: `@[A-Za-z]*`},
	{Name: "LCurly", Pattern: `\{`},
	{Name: "RCurly", Pattern: `\}`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Comma", Pattern: `,`},
	{Name: "EqualitySign", Pattern: `=`},
	{Name: "Hash", Pattern: `#`},
	{Name: "Quote", Pattern: `"`},
	{Name: "CommandName", Pattern: `\\(?:[A-Za-z]+|[^A-Za-z])?`},
	{Name: "Word", Pattern: `[^\s{}(),=#"@\\]+`},
	{Name: "Error", Pattern: `(?s:.)`},
})

var kindOf = func() map[lexer.TokenType]syntax.Kind {
	symbols := definition.Symbols()
	return map[lexer.TokenType]syntax.Kind{
		symbols["Whitespace"]:   Whitespace,
		symbols["Type"]:         Type,
		symbols["LCurly"]:       LCurly,
		symbols["RCurly"]:       RCurly,
		symbols["LParen"]:       LParen,
		symbols["RParen"]:       RParen,
		symbols["Comma"]:        Comma,
		symbols["EqualitySign"]: EqualitySign,
		symbols["Hash"]:         Hash,
		symbols["Quote"]:        Quote,
		symbols["CommandName"]:  CommandName,
		symbols["Word"]:         Word,
		symbols["Error"]:        Error,
	}
}()

type lexeme struct {
	kind syntax.Kind
	text string
}

func lex(text string) []lexeme {
	var lexemes []lexeme
	offset := 0
	if l, err := definition.LexString("", text); err == nil {
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
