// Package bibtex parses BibTeX databases into lossless syntax trees.
//
// Text between entries is kept in JUNK nodes. An entry missing its closing
// delimiter ends where the next entry starts.
package bibtex

import (
	"strings"

	"github.com/jdujava/texlab/internal/syntax"
)

// Parse builds the tree of a BibTeX snapshot.
func Parse(text string) *syntax.Tree {
	p := &parser{
		lexemes: lex(text),
		builder: syntax.NewBuilder(Root),
	}
	for !p.eof() {
		if p.peekKind(Type) {
			p.entry()
		} else {
			p.junk()
		}
	}
	return p.builder.Finish(syntax.LanguageBibtex, text)
}

type parser struct {
	lexemes []lexeme
	pos     int
	builder *syntax.Builder
}

func (p *parser) eof() bool { return p.pos >= len(p.lexemes) }

func (p *parser) peek() (lexeme, bool) {
	if p.eof() {
		return lexeme{}, false
	}
	return p.lexemes[p.pos], true
}

func (p *parser) peekKind(kind syntax.Kind) bool {
	lx, ok := p.peek()
	return ok && lx.kind == kind
}

func (p *parser) eat() {
	p.eatAs(p.lexemes[p.pos].kind)
}

func (p *parser) eatAs(kind syntax.Kind) {
	p.builder.Token(kind, p.lexemes[p.pos].text)
	p.pos++
}

func (p *parser) nextSignificant() int {
	i := p.pos
	for i < len(p.lexemes) && p.lexemes[i].kind == Whitespace {
		i++
	}
	return i
}

// skipTo eats whitespace when the next significant lexeme has one of the
// given kinds and reports whether it does.
func (p *parser) skipTo(kinds ...syntax.Kind) bool {
	next := p.nextSignificant()
	if next >= len(p.lexemes) {
		return false
	}
	for _, kind := range kinds {
		if p.lexemes[next].kind == kind {
			for p.pos < next {
				p.eat()
			}
			return true
		}
	}
	return false
}

// startsEntry reports whether the current TYPE lexeme begins a new entry
// rather than being an '@' inside a value: it must start a line.
func (p *parser) startsEntry() bool {
	if !p.peekKind(Type) {
		return false
	}
	if p.pos == 0 {
		return true
	}
	prev := p.lexemes[p.pos-1]
	return prev.kind == Whitespace && strings.ContainsAny(prev.text, "\r\n")
}

func (p *parser) junk() {
	p.builder.StartNode(Junk)
	for !p.eof() && !p.peekKind(Type) {
		p.eat()
	}
	p.builder.FinishNode()
}

func entryKind(typeToken string) syntax.Kind {
	switch strings.ToLower(strings.TrimPrefix(typeToken, "@")) {
	case "string":
		return StringEntry
	case "preamble":
		return Preamble
	case "comment":
		return CommentEntry
	default:
		return Entry
	}
}

func (p *parser) entry() {
	kind := entryKind(p.lexemes[p.pos].text)
	p.builder.StartNode(kind)
	defer p.builder.FinishNode()
	p.eat()

	var closer syntax.Kind
	switch {
	case p.skipTo(LCurly):
		closer = RCurly
	case p.skipTo(LParen):
		closer = RParen
	default:
		return
	}
	p.eat()

	switch kind {
	case CommentEntry:
		p.comment(closer)
	case Preamble:
		p.value(closer)
		if p.skipTo(closer) {
			p.eat()
		}
	case StringEntry:
		p.fields(closer)
	default:
		if p.skipTo(Word) {
			p.eatAs(Key)
		}
		p.fields(closer)
	}
}

func (p *parser) fields(closer syntax.Kind) {
	for {
		lx, ok := p.peek()
		if !ok || lx.kind == Type {
			return
		}
		switch lx.kind {
		case closer:
			p.eat()
			return
		case Word:
			p.field(closer)
		default:
			p.eat()
		}
	}
}

func (p *parser) field(closer syntax.Kind) {
	p.builder.StartNode(Field)
	defer p.builder.FinishNode()
	p.eatAs(Name)
	if !p.skipTo(EqualitySign) {
		return
	}
	p.eat()
	p.value(closer)
}

func isValuePiece(kind syntax.Kind) bool {
	switch kind {
	case Word, CommandName, Hash, LCurly, Quote:
		return true
	default:
		return false
	}
}

func (p *parser) value(closer syntax.Kind) {
	p.builder.StartNode(Value)
	defer p.builder.FinishNode()
	for {
		next := p.nextSignificant()
		if next >= len(p.lexemes) || !isValuePiece(p.lexemes[next].kind) {
			return
		}
		for p.pos < next {
			p.eat()
		}
		switch p.lexemes[p.pos].kind {
		case LCurly:
			p.curlyGroup()
		case Quote:
			p.quoteGroup()
		default:
			p.eat()
		}
	}
}

// groupBody eats tokens until end matches, nesting curly groups. An '@'
// that starts a line terminates the group early.
func (p *parser) groupBody(end syntax.Kind) {
	for {
		lx, ok := p.peek()
		if !ok || p.startsEntry() {
			return
		}
		switch lx.kind {
		case end:
			p.eat()
			return
		case LCurly:
			p.curlyGroup()
		case Type:
			p.eatAs(Word)
		default:
			p.eat()
		}
	}
}

func (p *parser) curlyGroup() {
	p.builder.StartNode(CurlyGroup)
	p.eat()
	p.groupBody(RCurly)
	p.builder.FinishNode()
}

func (p *parser) quoteGroup() {
	p.builder.StartNode(QuoteGroup)
	p.eat()
	p.groupBody(Quote)
	p.builder.FinishNode()
}

func (p *parser) comment(closer syntax.Kind) {
	p.groupBody(closer)
}
