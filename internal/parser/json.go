package parser

import (
	"fmt"
	"io"

	"github.com/dgallion1/coursedoc/internal/doctree"
)

// JSONParser reads the editor's native tree.
type JSONParser struct{}

func (p *JSONParser) Parse(r io.Reader, filename string) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	root, err := doctree.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return newResult(root, filename), nil
}
