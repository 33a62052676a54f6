package latex

import (
	"strings"
	"testing"

	"github.com/jdujava/texlab/internal/syntax"
)

func tokenText(tree *syntax.Tree) string {
	var b strings.Builder
	for _, token := range tree.Tokens() {
		b.WriteString(token.Text())
	}
	return b.String()
}

func TestParseLossless(t *testing.T) {
	inputs := []string{
		"",
		`\documentclass{article}`,
		"\\begin{document}\n\\section{Intro} Hello, world! % comment\n\\end{document}\n",
		`\cite[p.~3]{foo,bar}`,
		`}}} {{{ \`,
		"\\begin{a}\\begin{b}\\end{a}",
		"$x^2$ and $$y$$ \\\\ \\%",
		"\r\n\r\n\\foo*[x]{y}",
		"ünïcödé \\emph{ß}",
	}

	for _, input := range inputs {
		tree := Parse(input)
		if got := tokenText(tree); got != input {
			t.Errorf("tokens of %q reconstruct %q", input, got)
		}
		if got := tree.Root.Text(); got != input {
			t.Errorf("root of %q reconstructs %q", input, got)
		}

		offset := 0
		for _, token := range tree.Tokens() {
			r := token.Range()
			if r.Start != offset {
				t.Fatalf("token %q of %q starts at %d, expected %d", token.Text(), input, r.Start, offset)
			}
			offset = r.End
		}
		if offset != len(input) {
			t.Errorf("tokens of %q end at %d, expected %d", input, offset, len(input))
		}
	}
}

func FuzzParseLossless(f *testing.F) {
	f.Add(`\begin{foo}\bar{baz}[qux]\end{foo}`)
	f.Add(`{\x`)
	f.Fuzz(func(t *testing.T, input string) {
		tree := Parse(input)
		if got := tokenText(tree); got != input {
			t.Fatalf("tokens of %q reconstruct %q", input, got)
		}
	})
}

func TestLexCommandNames(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{`\foo`, []string{`\foo`}},
		{`\foo*`, []string{`\foo*`}},
		{`\\`, []string{`\\`}},
		{`\`, []string{`\`}},
		{`\makeatletter\@foo`, []string{`\makeatletter`, `\@foo`}},
		{`\foo1`, []string{`\foo`}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var got []string
			for _, lx := range lex(tt.input) {
				if lx.kind == CommandName {
					got = append(got, lx.text)
				}
			}
			if strings.Join(got, " ") != strings.Join(tt.want, " ") {
				t.Errorf("got %q, expected %q", got, tt.want)
			}
		})
	}
}

func TestParseCommandArguments(t *testing.T) {
	tree := Parse(`\cite[p. 3] {foo,bar} rest`)
	command := tree.Root.FirstChildNode(Command)
	if command == nil {
		t.Fatal("expected a command node")
	}
	if got := command.FirstChildToken(CommandName).Text(); got != `\cite` {
		t.Errorf("got name %q", got)
	}
	if command.FirstChildNode(BrackGroup) == nil {
		t.Error("expected an optional argument")
	}
	group := command.FirstChildNode(CurlyGroup)
	if group == nil {
		t.Fatal("expected a curly group")
	}
	if got := group.Text(); got != "{foo,bar}" {
		t.Errorf("got group %q", got)
	}
	if got := command.Text(); got != `\cite[p. 3] {foo,bar}` {
		t.Errorf("got command %q", got)
	}
}

func TestParseArgumentsStopAtLineBreak(t *testing.T) {
	tree := Parse("\\foo\n{bar}")
	command := tree.Root.FirstChildNode(Command)
	if command.FirstChildNode(CurlyGroup) != nil {
		t.Error("group on the next line must not attach")
	}
}

func TestParseEnvironments(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		begins []string
		ends   []string
	}{
		{"simple", `\begin{foo}x\end{foo}`, []string{"{foo}"}, []string{"{foo}"}},
		{"mismatched", `\begin{foo}x\end{bar}`, []string{"{foo}"}, []string{"{bar}"}},
		{"nested", `\begin{a}\begin{b}\end{b}\end{a}`, []string{"{a}", "{b}"}, []string{"{a}", "{b}"}},
		{"unclosed", `\begin{a}`, []string{"{a}"}, nil},
		{"inside group", `{\begin{a}}\end{a}`, []string{"{a}"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var begins, ends []string
			syntax.Walk(Parse(tt.input).Root, func(e syntax.Element) bool {
				node, ok := e.(*syntax.Node)
				if !ok || node.Kind() != Environment {
					return true
				}
				if begin := node.FirstChildNode(Begin); begin != nil {
					begins = append(begins, begin.FirstChildNode(CurlyGroup).Text())
				}
				if end := node.FirstChildNode(End); end != nil {
					ends = append(ends, end.FirstChildNode(CurlyGroup).Text())
				}
				return true
			})
			if strings.Join(begins, ",") != strings.Join(tt.begins, ",") {
				t.Errorf("got begins %q, expected %q", begins, tt.begins)
			}
			if strings.Join(ends, ",") != strings.Join(tt.ends, ",") {
				t.Errorf("got ends %q, expected %q (outer first)", ends, tt.ends)
			}
		})
	}
}

func TestTokenAtOffset(t *testing.T) {
	tree := Parse(`\foo bar`)

	left, right := tree.TokenAtOffset(0)
	if left != nil || right == nil || right.Text() != `\foo` {
		t.Errorf("offset 0: got %v %v", left, right)
	}

	left, right = tree.TokenAtOffset(2)
	if left != right || left.Text() != `\foo` {
		t.Errorf("offset 2: expected the command twice")
	}

	left, right = tree.TokenAtOffset(4)
	if left.Text() != `\foo` || right.Text() != " " {
		t.Errorf("offset 4: got %q %q", left.Text(), right.Text())
	}

	left, right = tree.TokenAtOffset(8)
	if left.Text() != "bar" || right != nil {
		t.Errorf("offset 8: got %v %v", left, right)
	}

	empty := Parse("")
	left, right = empty.TokenAtOffset(0)
	if left != nil || right != nil {
		t.Error("empty text has no tokens")
	}
}

func TestTokenAtOffsetOutOfBounds(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected a panic")
		}
	}()
	Parse("abc").TokenAtOffset(4)
}
