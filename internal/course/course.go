package course

import (
	"slices"
	"strconv"
	"strings"

	"github.com/dgallion1/coursedoc/internal/doctree"
	"github.com/dgallion1/coursedoc/internal/labels"
	"github.com/dgallion1/coursedoc/internal/outline"
)

// Document is the renderer-agnostic course model. Exporters take it by
// value and never modify it.
type Document struct {
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Category           string    `json:"category"`
	Image              string    `json:"image"`
	Author             Author    `json:"author"`
	Views              int       `json:"views"`
	Likes              int       `json:"likes"`
	Downloads          int       `json:"downloads"`
	Introduction       string    `json:"introduction"`
	Conclusion         string    `json:"conclusion"`
	Description        string    `json:"description,omitempty"`
	LearningObjectives []string  `json:"learningObjectives"`
	Sections           []Section `json:"sections"`
}

type Author struct {
	Name        string `json:"name"`
	Image       string `json:"image,omitempty"`
	Designation string `json:"designation,omitempty"`
}

// Section holds chapters and flat paragraphs. Both may be empty.
//
// Number fields hold the outline number of the source item. Documents built
// by hand may leave them empty; Walk then numbers by position.
type Section struct {
	Title      string      `json:"title"`
	Number     string      `json:"number,omitempty"`
	Chapters   []Chapter   `json:"chapters,omitempty"`
	Paragraphs []Paragraph `json:"paragraphs,omitempty"`
}

type Chapter struct {
	Title      string      `json:"title"`
	Number     string      `json:"number,omitempty"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

type Paragraph struct {
	Title    string          `json:"title"`
	Number   string          `json:"number,omitempty"`
	Content  []*doctree.Node `json:"content"`
	Notions  []string        `json:"notions"`
	Exercise *Exercise       `json:"exercise,omitempty"`
}

// Exercise is a placeholder filled by hosts that extract questions; the
// transformer only marks where exercises sit.
type Exercise struct {
	Questions []Question `json:"questions"`
}

type Question struct {
	Prompt  string   `json:"prompt"`
	Choices []string `json:"choices,omitempty"`
	Answer  string   `json:"answer,omitempty"`
}

// Text returns the paragraph body as plain text, one line per block.
// Text belonging to nested notions or exercises is left out.
func (p Paragraph) Text() string {
	return doctree.PlainText(p.Content, outline.IsHierarchy)
}

// ConclusionText is the conclusion both exporters print: the stored
// conclusion, else the description, else the generic text of l.
func (d Document) ConclusionText(l labels.Labels) string {
	switch {
	case d.Conclusion != "":
		return d.Conclusion
	case d.Description != "":
		return d.Description
	}
	return l.DefaultConclusion
}

// Visitor receives the parts of a document with their numbers. Nil
// callbacks are skipped.
type Visitor struct {
	Section   func(i int, s Section, number string)
	Chapter   func(c Chapter, number string)
	Paragraph func(p Paragraph, number string)
}

// Walk visits the document in reading order: each section, then its
// chapters and flat paragraphs in source order. Stored outline numbers are
// used as is. When any number in a section is missing, flat paragraphs come
// first and numbers are counted with outline.Counters, as the outline of an
// equivalent tree would number them.
func (d Document) Walk(v Visitor) {
	var c outline.Counters
	for i, s := range d.Sections {
		c.Advance(outline.TypeSection.Level())
		if v.Section != nil {
			v.Section(i, s, orNumber(s.Number, &c, 1))
		}
		for _, e := range s.entries() {
			if e.chapter == nil {
				c.Advance(outline.TypeParagraph.Level())
				if v.Paragraph != nil {
					v.Paragraph(*e.paragraph, orNumber(e.paragraph.Number, &c, 3))
				}
				continue
			}
			c.Advance(outline.TypeChapter.Level())
			if v.Chapter != nil {
				v.Chapter(*e.chapter, orNumber(e.chapter.Number, &c, 2))
			}
			for _, p := range e.chapter.Paragraphs {
				c.Advance(outline.TypeParagraph.Level())
				if v.Paragraph != nil {
					v.Paragraph(p, orNumber(p.Number, &c, 3))
				}
			}
		}
	}
}

func orNumber(n string, c *outline.Counters, level int) string {
	if n != "" {
		return n
	}
	return c.Number(level)
}

// entry is one direct child of a section: a chapter or a flat paragraph.
type entry struct {
	chapter   *Chapter
	paragraph *Paragraph
}

// entries lists the section's children in reading order. With numbers on
// every child the two lists are merged by number, which restores the source
// interleaving: a chapter sorts before the paragraphs that follow it.
func (s Section) entries() []entry {
	out := make([]entry, 0, len(s.Chapters)+len(s.Paragraphs))
	numbered := true
	for _, ch := range s.Chapters {
		numbered = numbered && ch.Number != ""
	}
	for _, p := range s.Paragraphs {
		numbered = numbered && p.Number != ""
	}

	i, j := 0, 0
	for i < len(s.Paragraphs) || j < len(s.Chapters) {
		takeParagraph := j == len(s.Chapters) ||
			(i < len(s.Paragraphs) && (!numbered || compareNumbers(s.Paragraphs[i].Number, s.Chapters[j].Number) < 0))
		if takeParagraph {
			out = append(out, entry{paragraph: &s.Paragraphs[i]})
			i++
		} else {
			out = append(out, entry{chapter: &s.Chapters[j]})
			j++
		}
	}
	return out
}

// compareNumbers orders dotted outline numbers component by component. A
// number sorts before the numbers it prefixes.
func compareNumbers(a, b string) int {
	return slices.Compare(numberParts(a), numberParts(b))
}

func numberParts(n string) []int {
	var out []int
	for _, part := range strings.Split(n, ".") {
		v, _ := strconv.Atoi(part)
		out = append(out, v)
	}
	return out
}
