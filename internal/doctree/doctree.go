package doctree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Node types produced by the editor and by the importers.
const (
	TypeDoc       = "doc"
	TypeHeading   = "heading"
	TypeSection   = "section"
	TypeChapter   = "chapter"
	TypeParagraph = "paragraph"
	TypeNotion    = "notion"
	TypeExercise  = "exercise"
	TypeText      = "text"
	TypeBlock     = "block"
	TypeHardBreak = "hardBreak"
)

// Kind is the closed set of node variants the outline cares about.
// Anything the editor emits that is not listed here is KindOther.
type Kind int

const (
	KindOther Kind = iota
	KindHeading
	KindSection
	KindChapter
	KindParagraph
	KindNotion
	KindExercise
	KindText
)

var kindByType = map[string]Kind{
	TypeHeading:   KindHeading,
	TypeSection:   KindSection,
	TypeChapter:   KindChapter,
	TypeParagraph: KindParagraph,
	TypeNotion:    KindNotion,
	TypeExercise:  KindExercise,
	TypeText:      KindText,
}

// Node is one element of an editor document tree. It is read-only input:
// nothing in this module mutates a Node after it has been built.
type Node struct {
	Type    string  `json:"type"`
	Attrs   Attrs   `json:"attrs,omitzero"`
	Content []*Node `json:"content,omitempty"`
	Text    string  `json:"text,omitempty"`
}

// Attrs holds the node attributes the pipeline reads.
type Attrs struct {
	ID    string `json:"id,omitempty"`
	Title string `json:"title,omitempty"`
	Level int    `json:"level,omitempty"` // heading rank
}

// Kind classifies the node by its type string.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindOther
	}
	return kindByType[n.Type]
}

// Decode parses an editor tree. Only bytes that are not JSON at all are an
// error; unknown types, odd attribute encodings and malformed children are
// absorbed.
func Decode(data []byte) (*Node, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return &Node{Type: TypeDoc}, nil
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("decode tree: invalid json")
	}
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		// Valid JSON that is not an object (e.g. an array of nodes).
		var content []json.RawMessage
		if json.Unmarshal(data, &content) != nil {
			return &Node{Type: TypeDoc}, nil
		}
		return &Node{Type: TypeDoc, Content: decodeChildren(content)}, nil
	}
	if n.Type == "" {
		n.Type = TypeDoc
	}
	return &n, nil
}

type rawNode struct {
	Type    string            `json:"type"`
	Attrs   map[string]any    `json:"attrs"`
	Content []json.RawMessage `json:"content"`
	Text    any               `json:"text"`
}

// UnmarshalJSON decodes a node without ever rejecting its shape.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw rawNode
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.Type = raw.Type
	n.Attrs = Attrs{
		ID:    attrString(raw.Attrs["id"]),
		Title: attrString(raw.Attrs["title"]),
		Level: attrInt(raw.Attrs["level"]),
	}
	n.Text = attrString(raw.Text)
	n.Content = decodeChildren(raw.Content)
	return nil
}

func decodeChildren(content []json.RawMessage) []*Node {
	var out []*Node
	for _, c := range content {
		var child Node
		if err := json.Unmarshal(c, &child); err != nil {
			continue
		}
		out = append(out, &child)
	}
	return out
}

func attrString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func attrInt(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
			return n
		}
	}
	return 0
}

// PlainText flattens the text of nodes. Block nodes end with a newline,
// hard breaks become newlines, and subtrees for which skip returns true are
// left out. Blank lines are dropped.
func PlainText(nodes []*Node, skip func(*Node) bool) string {
	var buf strings.Builder
	var walk func(*Node)
	walk = func(n *Node) {
		if n == nil || (skip != nil && skip(n)) {
			return
		}
		switch n.Type {
		case TypeText:
			buf.WriteString(n.Text)
			return
		case TypeHardBreak:
			buf.WriteByte('\n')
			return
		}
		for _, c := range n.Content {
			walk(c)
		}
		if len(n.Content) > 0 {
			buf.WriteByte('\n')
		}
	}
	for _, n := range nodes {
		walk(n)
	}

	var lines []string
	for _, line := range strings.Split(buf.String(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// TextNode is a convenience constructor for a text leaf.
func TextNode(s string) *Node {
	return &Node{Type: TypeText, Text: s}
}

// BlockNode wraps text in a non-hierarchy block.
func BlockNode(s string) *Node {
	return &Node{Type: TypeBlock, Content: []*Node{TextNode(s)}}
}
