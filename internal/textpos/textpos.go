// Package textpos converts between byte offsets and LSP positions, which
// count UTF-16 code units, and applies LSP content changes to text.
package textpos

import (
	"fmt"
	"sort"
	"unicode/utf8"

	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/jdujava/texlab/internal/syntax"
)

// LineIndex records the line starts of a snapshot. Lines end at "\n",
// "\r\n" or a lone "\r".
type LineIndex struct {
	text   string
	starts []int
}

func NewLineIndex(text string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		switch {
		case text[i] == '\n':
			starts = append(starts, i+1)
		case text[i] == '\r' && (i+1 == len(text) || text[i+1] != '\n'):
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{text: text, starts: starts}
}

// lineEnd returns the offset of the line terminator of line, or the end of
// the text for the last line.
func (li *LineIndex) lineEnd(line int) int {
	if line+1 < len(li.starts) {
		end := li.starts[line+1] - 1
		if end > li.starts[line] && li.text[end-1] == '\r' {
			end--
		}
		return end
	}
	return len(li.text)
}

// Offset returns the byte offset of pos. Lines past the end clamp to the
// end of the text; characters past the end of a line clamp to the line end.
func (li *LineIndex) Offset(pos protocol.Position) int {
	line := int(pos.Line)
	if line >= len(li.starts) {
		return len(li.text)
	}
	offset := li.starts[line]
	end := li.lineEnd(line)
	var units uint32
	for offset < end {
		r, size := utf8.DecodeRuneInString(li.text[offset:end])
		width := uint32(1)
		if r > 0xFFFF {
			width = 2
		}
		if units+width > pos.Character {
			break
		}
		units += width
		offset += size
	}
	return offset
}

// Position returns the LSP position of a byte offset. It panics if offset
// lies outside the text.
func (li *LineIndex) Position(offset int) protocol.Position {
	if offset < 0 || offset > len(li.text) {
		panic(fmt.Sprintf("textpos: offset %d outside text of length %d", offset, len(li.text)))
	}
	line := sort.Search(len(li.starts), func(i int) bool { return li.starts[i] > offset }) - 1
	var units uint32
	for _, r := range li.text[li.starts[line]:offset] {
		if r > 0xFFFF {
			units += 2
		} else {
			units++
		}
	}
	return protocol.Position{Line: uint32(line), Character: units}
}

func (li *LineIndex) Range(r syntax.TextRange) protocol.Range {
	return protocol.Range{Start: li.Position(r.Start), End: li.Position(r.End)}
}

func (li *LineIndex) TextRange(r protocol.Range) syntax.TextRange {
	start, end := li.Offset(r.Start), li.Offset(r.End)
	if end < start {
		start, end = end, start
	}
	return syntax.NewRange(start, end)
}

// ApplyChange returns text with one LSP content change applied. Changes
// without a range replace the whole text.
func ApplyChange(text string, change any) (string, error) {
	switch change := change.(type) {
	case protocol.TextDocumentContentChangeEvent:
		if change.Range == nil {
			return change.Text, nil
		}
		r := NewLineIndex(text).TextRange(*change.Range)
		return text[:r.Start] + change.Text + text[r.End:], nil
	case protocol.TextDocumentContentChangeEventWhole:
		return change.Text, nil
	default:
		return "", fmt.Errorf("unexpected change event type %T", change)
	}
}
