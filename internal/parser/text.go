package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/coursedoc/internal/doctree"
)

// TextParser handles plain text files: one section named after the file,
// one paragraph per blank-line separated block.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*Result, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var paragraphs []string
	var current strings.Builder

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
		} else {
			if current.Len() > 0 {
				current.WriteString("\n")
			}
			current.WriteString(line)
		}
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	b := doctree.NewBuilder()
	if len(paragraphs) > 0 {
		b.Heading(2, stem(filename))
	}
	for _, para := range paragraphs {
		b.Heading(4, "")
		b.Text(para)
	}
	return newResult(b.Root(), filename), nil
}
