package outline

import (
	"strconv"
	"strings"

	"github.com/dgallion1/coursedoc/internal/doctree"
	"github.com/dgallion1/coursedoc/internal/labels"
)

// Type is the structural role of an outline item.
type Type string

const (
	TypeCourse    Type = "course"
	TypeSection   Type = "section"
	TypeChapter   Type = "chapter"
	TypeParagraph Type = "paragraph"
	TypeNotion    Type = "notion"
	TypeExercise  Type = "exercise"
)

// MaxLevel is the deepest level of the fixed type mapping (exercise).
const MaxLevel = 5

// Level returns the fixed nesting level of t, or -1 for an unknown type.
func (t Type) Level() int {
	switch t {
	case TypeCourse:
		return 0
	case TypeSection:
		return 1
	case TypeChapter:
		return 2
	case TypeParagraph:
		return 3
	case TypeNotion:
		return 4
	case TypeExercise:
		return 5
	}
	return -1
}

// Label returns the human name of t in the given label set.
func (t Type) Label(l labels.Labels) string {
	switch t {
	case TypeCourse:
		return l.Course
	case TypeSection:
		return l.Section
	case TypeChapter:
		return l.Chapter
	case TypeParagraph:
		return l.Paragraph
	case TypeNotion:
		return l.Notion
	case TypeExercise:
		return l.Exercise
	}
	return string(t)
}

// Item is one numbered entry of the outline.
type Item struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Type     Type    `json:"type"`
	Level    int     `json:"level"`
	Number   string  `json:"number"`
	Children []*Item `json:"children"`

	// Node is the source node the item was built from.
	Node *doctree.Node `json:"-"`
}

// Class is the result of classifying a hierarchy node.
type Class struct {
	Type  Type
	Level int
}

// Classify reports whether n contributes to the outline and, if so, its type
// and level. Only rank-1 headings count; lower ranks are transparent.
func Classify(n *doctree.Node) (Class, bool) {
	var t Type
	switch n.Kind() {
	case doctree.KindHeading:
		if n.Attrs.Level != 1 {
			return Class{}, false
		}
		t = TypeCourse
	case doctree.KindSection:
		t = TypeSection
	case doctree.KindChapter:
		t = TypeChapter
	case doctree.KindParagraph:
		t = TypeParagraph
	case doctree.KindNotion:
		t = TypeNotion
	case doctree.KindExercise:
		t = TypeExercise
	default:
		return Class{}, false
	}
	return Class{Type: t, Level: t.Level()}, true
}

// IsHierarchy is Classify reduced to a predicate, handy as a PlainText skip.
func IsHierarchy(n *doctree.Node) bool {
	_, ok := Classify(n)
	return ok
}

// Counters holds one sibling counter per level. It is owned by the caller of
// an extraction and threaded through the whole walk.
type Counters [MaxLevel + 1]int

// Advance moves to the next sibling at level and restarts every deeper level.
func (c *Counters) Advance(level int) {
	c[level]++
	for i := level + 1; i < len(c); i++ {
		c[i] = 0
	}
}

// Number renders counters[1..level] as "1.2.3". Level 0 has no number.
func (c *Counters) Number(level int) string {
	parts := make([]string, 0, level)
	for i := 1; i <= level; i++ {
		parts = append(parts, strconv.Itoa(c[i]))
	}
	return strings.Join(parts, ".")
}

// Path renders counters[0..level] joined by sep.
func (c *Counters) Path(level int, sep string) string {
	parts := make([]string, 0, level+1)
	for i := 0; i <= level; i++ {
		parts = append(parts, strconv.Itoa(c[i]))
	}
	return strings.Join(parts, sep)
}

// Flatten lists items depth-first in document order.
func Flatten(items []*Item) []*Item {
	var out []*Item
	var walk func([]*Item)
	walk = func(list []*Item) {
		for _, it := range list {
			out = append(out, it)
			walk(it.Children)
		}
	}
	walk(items)
	return out
}

// Find returns the item with the given id, or nil.
func Find(items []*Item, id string) *Item {
	for _, it := range Flatten(items) {
		if it.ID == id {
			return it
		}
	}
	return nil
}
