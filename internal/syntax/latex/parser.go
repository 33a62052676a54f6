// Package latex parses LaTeX sources into lossless syntax trees.
//
// The grammar is deliberately shallow: commands with their attached
// groups, curly and bracket groups, and environments paired by nesting.
// Unbalanced input never fails; open groups are closed at the end of the
// enclosing construct.
package latex

import "github.com/jdujava/texlab/internal/syntax"

// Parse builds the tree of a LaTeX snapshot.
func Parse(text string) *syntax.Tree {
	p := &parser{
		lexemes: lex(text),
		builder: syntax.NewBuilder(Root),
	}
	p.content(func(lexeme) bool { return false })
	return p.builder.Finish(syntax.LanguageLatex, text)
}

type parser struct {
	lexemes []lexeme
	pos     int
	depth   int
	builder *syntax.Builder
}

func (p *parser) peek() (lexeme, bool) {
	if p.pos >= len(p.lexemes) {
		return lexeme{}, false
	}
	return p.lexemes[p.pos], true
}

func (p *parser) peekKind(kind syntax.Kind) bool {
	lx, ok := p.peek()
	return ok && lx.kind == kind
}

func (p *parser) peekCommand(name string) bool {
	lx, ok := p.peek()
	return ok && lx.kind == CommandName && lx.text == name
}

func (p *parser) eat() {
	lx := p.lexemes[p.pos]
	p.builder.Token(lx.kind, lx.text)
	p.pos++
}

// nextSignificant returns the index of the first lexeme at or after pos
// that is not inline whitespace.
func (p *parser) nextSignificant() int {
	i := p.pos
	for i < len(p.lexemes) && p.lexemes[i].kind == Whitespace {
		i++
	}
	return i
}

// atParagraphBreak reports whether the upcoming lexemes form a blank line.
func (p *parser) atParagraphBreak() bool {
	if !p.peekKind(LineBreak) {
		return false
	}
	i := p.pos + 1
	for i < len(p.lexemes) && p.lexemes[i].kind == Whitespace {
		i++
	}
	return i < len(p.lexemes) && p.lexemes[i].kind == LineBreak
}

func (p *parser) content(stop func(lexeme) bool) {
	for {
		lx, ok := p.peek()
		if !ok || stop(lx) {
			return
		}
		switch {
		case lx.kind == CommandName && lx.text == `\begin`:
			p.environment()
		case lx.kind == CommandName:
			p.command()
		case lx.kind == LCurly:
			p.curlyGroup()
		default:
			p.eat()
		}
	}
}

func (p *parser) command() {
	p.builder.StartNode(Command)
	p.eat()
	p.arguments(-1)
	p.builder.FinishNode()
}

// arguments attaches up to max groups (unbounded when negative) that
// follow the command name, possibly separated by inline whitespace.
func (p *parser) arguments(max int) {
	for n := 0; max < 0 || n < max; n++ {
		next := p.nextSignificant()
		if next >= len(p.lexemes) {
			return
		}
		kind := p.lexemes[next].kind
		if kind != LCurly && kind != LBrack {
			return
		}
		for p.pos < next {
			p.eat()
		}
		if kind == LCurly {
			p.curlyGroup()
		} else {
			p.brackGroup()
		}
	}
}

func (p *parser) curlyGroup() {
	p.builder.StartNode(CurlyGroup)
	p.eat()
	p.depth++
	p.content(func(lx lexeme) bool { return lx.kind == RCurly })
	p.depth--
	if p.peekKind(RCurly) {
		p.eat()
	}
	p.builder.FinishNode()
}

func (p *parser) brackGroup() {
	p.builder.StartNode(BrackGroup)
	p.eat()
	p.content(func(lx lexeme) bool {
		return lx.kind == RBrack || lx.kind == RCurly || p.atParagraphBreak()
	})
	if p.peekKind(RBrack) {
		p.eat()
	}
	p.builder.FinishNode()
}

func (p *parser) environment() {
	p.builder.StartNode(Environment)
	p.builder.StartNode(Begin)
	p.eat()
	p.arguments(-1)
	p.builder.FinishNode()

	depth := p.depth
	p.content(func(lx lexeme) bool {
		if lx.kind == CommandName && lx.text == `\end` {
			return true
		}
		return lx.kind == RCurly && depth > 0
	})

	if p.peekCommand(`\end`) {
		p.builder.StartNode(End)
		p.eat()
		p.arguments(1)
		p.builder.FinishNode()
	}
	p.builder.FinishNode()
}
