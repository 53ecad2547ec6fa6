package doctree

import "strings"

// rankTypes maps a source heading rank (h1..h6, Heading1..Heading6) to the
// node type importers emit for it. Rank 1 stays a plain heading: it names the
// course and does not open a container.
var rankTypes = [...]string{
	2: TypeSection,
	3: TypeChapter,
	4: TypeParagraph,
	5: TypeNotion,
	6: TypeExercise,
}

// Builder assembles an editor tree from a flat stream of headings and text
// blocks, nesting each block under the deepest open heading.
type Builder struct {
	root  *Node
	stack []builderEntry
}

type builderEntry struct {
	node  *Node
	level int
}

func NewBuilder() *Builder {
	root := &Node{Type: TypeDoc}
	return &Builder{
		root:  root,
		stack: []builderEntry{{node: root, level: 0}},
	}
}

// Heading opens a new node for a heading of the given rank. Ranks outside
// 1..6 are clamped.
func (b *Builder) Heading(rank int, title string) {
	title = strings.TrimSpace(title)
	rank = min(max(rank, 1), 6)

	// Pop stack until we find a parent with lower level.
	for len(b.stack) > 1 && b.stack[len(b.stack)-1].level >= rank {
		b.stack = b.stack[:len(b.stack)-1]
	}

	if rank == 1 {
		b.stack = b.stack[:1]
		b.root.Content = append(b.root.Content, &Node{
			Type:    TypeHeading,
			Attrs:   Attrs{Level: 1},
			Content: []*Node{TextNode(title)},
		})
		return
	}

	n := &Node{Type: rankTypes[rank], Attrs: Attrs{Title: title}}
	parent := b.stack[len(b.stack)-1].node
	parent.Content = append(parent.Content, n)
	b.stack = append(b.stack, builderEntry{node: n, level: rank})
}

// Text appends a text block to the deepest open node. Blank text is ignored.
func (b *Builder) Text(s string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return
	}
	top := b.stack[len(b.stack)-1].node
	top.Content = append(top.Content, BlockNode(s))
}

// Root returns the document built so far.
func (b *Builder) Root() *Node {
	return b.root
}
