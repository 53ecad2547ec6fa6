package outline

import (
	"fmt"
	"strings"

	"github.com/dgallion1/coursedoc/internal/doctree"
	"github.com/dgallion1/coursedoc/internal/labels"
)

// MaxTitleLen bounds item titles, in runes.
const MaxTitleLen = 100

// Extractor builds outlines. The zero value uses the default labels.
type Extractor struct {
	Labels labels.Labels
}

func NewExtractor(l labels.Labels) *Extractor {
	return &Extractor{Labels: l}
}

// Extract builds the outline of a document from its root content with the
// default labels.
func Extract(content []*doctree.Node) []*Item {
	return NewExtractor(labels.Default()).Extract(content)
}

// Extract walks content left to right and returns the top-level items.
// Every call starts from fresh counters, so identical trees yield identical
// outlines, ids included.
func (e *Extractor) Extract(content []*doctree.Node) []*Item {
	var counters Counters
	return e.ExtractWith(content, &counters)
}

// ExtractWith is Extract with a caller-owned counters buffer, which is left
// holding the last position visited.
func (e *Extractor) ExtractWith(content []*doctree.Node, counters *Counters) []*Item {
	items, escaped := e.scope(content, -1, counters)
	return append(items, escaped...)
}

// scope collects the items found in nodes for a parent at parentLevel.
// Items whose level does not fit under the parent are returned separately
// so the caller can place them in the nearest scope where they do. Once an
// item escapes, the parent is closed: every later sibling escapes with it and
// nests under the last escaped item deep enough to hold it, the way a heading
// stack would.
func (e *Extractor) scope(nodes []*doctree.Node, parentLevel int, counters *Counters) (items, escaped []*Item) {
	closed := false
	add := func(it *Item) {
		if !closed && it.Level > parentLevel {
			items = append(items, it)
			return
		}
		closed = true
		escaped = nest(escaped, it)
	}

	for _, n := range nodes {
		if n == nil {
			continue
		}

		class, ok := Classify(n)
		if !ok {
			// Transparent: hoist whatever the node contains into this scope.
			inner, esc := e.scope(n.Content, parentLevel, counters)
			for _, x := range inner {
				add(x)
			}
			for _, x := range esc {
				add(x)
			}
			continue
		}

		it := e.newItem(n, class, counters)
		children, esc := e.scope(n.Content, class.Level, counters)
		it.Children = children

		add(it)
		for _, x := range esc {
			add(x)
		}
	}
	return items, escaped
}

// nest appends it to list, or to the children of the last item in list when
// that item sits at a shallower level.
func nest(list []*Item, it *Item) []*Item {
	if n := len(list); n > 0 && list[n-1].Level < it.Level {
		last := list[n-1]
		last.Children = nest(last.Children, it)
		return list
	}
	return append(list, it)
}

func (e *Extractor) newItem(n *doctree.Node, class Class, counters *Counters) *Item {
	counters.Advance(class.Level)
	number := counters.Number(class.Level)

	id := strings.TrimSpace(n.Attrs.ID)
	if id == "" {
		id = fmt.Sprintf("%s-%s", class.Type, counters.Path(class.Level, "-"))
	}

	return &Item{
		ID:       id,
		Title:    e.title(n, class.Type, number),
		Type:     class.Type,
		Level:    class.Level,
		Number:   number,
		Children: []*Item{},
		Node:     n,
	}
}

func (e *Extractor) title(n *doctree.Node, t Type, number string) string {
	title := strings.TrimSpace(n.Attrs.Title)
	if title == "" || strings.EqualFold(title, n.Type) {
		title = firstText(n.Content)
	}
	if title == "" {
		l := e.Labels
		if l == (labels.Labels{}) {
			l = labels.Default()
		}
		title = strings.TrimSpace(t.Label(l) + " " + number)
	}
	return truncateRunes(title, MaxTitleLen)
}

// firstText returns the first non-empty line of the first text leaf found
// depth-first.
func firstText(nodes []*doctree.Node) string {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if n.Kind() == doctree.KindText {
			if s := strings.TrimSpace(n.Text); s != "" {
				line, _, _ := strings.Cut(s, "\n")
				return strings.TrimSpace(line)
			}
			continue
		}
		if s := firstText(n.Content); s != "" {
			return s
		}
	}
	return ""
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}
