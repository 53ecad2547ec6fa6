package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dgallion1/coursedoc/internal/doctree"
)

// MarkdownParser handles Markdown files using goldmark. Heading depth picks
// the node type: # course title, ## section down to ###### exercise.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*Result, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return newResult(buildMarkdown(src), filename), nil
}

func buildMarkdown(src []byte) *doctree.Node {
	doc := goldmark.New().Parser().Parse(text.NewReader(src))
	b := doctree.NewBuilder()
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			b.Heading(h.Level, extractText(h, src))
			continue
		}
		b.Text(extractText(n, src))
	}
	return b.Root()
}

// extractText gets the text content of a goldmark AST node. Nested blocks
// start on a new line.
func extractText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	writeText(&buf, n, src)
	return strings.TrimSpace(buf.String())
}

func writeText(buf *bytes.Buffer, n ast.Node, src []byte) {
	switch node := n.(type) {
	case *ast.Text:
		buf.Write(node.Segment.Value(src))
		if node.HardLineBreak() || node.SoftLineBreak() {
			buf.WriteByte('\n')
		}
		return
	case *ast.String:
		buf.Write(node.Value)
		return
	}
	// Code and raw HTML blocks keep their source lines.
	if n.Type() == ast.TypeBlock && !n.HasChildren() {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if c.Type() == ast.TypeBlock && buf.Len() > 0 {
			buf.WriteByte('\n')
		}
		writeText(buf, c, src)
	}
}
