package course

import (
	"slices"
	"strings"

	"github.com/dgallion1/coursedoc/internal/labels"
	"github.com/dgallion1/coursedoc/internal/outline"
)

// Meta is the course record supplied by the content-management layer. Every
// field is optional.
type Meta struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Category           string   `json:"category"`
	Image              string   `json:"image"`
	Author             *Author  `json:"author"`
	Views              *int     `json:"views"`
	Likes              *int     `json:"likes"`
	Downloads          *int     `json:"downloads"`
	Introduction       string   `json:"introduction"`
	Conclusion         string   `json:"conclusion"`
	Description        string   `json:"description"`
	LearningObjectives []string `json:"learningObjectives"`
}

// Transformer turns outlines into course documents. The zero value uses the
// default labels for missing metadata.
type Transformer struct {
	Labels labels.Labels
}

func NewTransformer(l labels.Labels) *Transformer {
	return &Transformer{Labels: l}
}

// Transform builds a Document with the default labels.
func Transform(items []*outline.Item, meta Meta) Document {
	return NewTransformer(labels.Default()).Transform(items, meta)
}

// Transform builds a Document from an outline and its metadata. It never
// fails: missing metadata takes documented defaults and an outline without
// sections yields a document without sections.
func (t *Transformer) Transform(items []*outline.Item, meta Meta) Document {
	l := t.Labels
	if l == (labels.Labels{}) {
		l = labels.Default()
	}

	doc := Document{
		ID:                 meta.ID,
		Title:              orDefault(meta.Title, l.UntitledCourse),
		Category:           orDefault(meta.Category, l.DefaultCategory),
		Image:              meta.Image,
		Author:             Author{Name: l.UnknownAuthor},
		Views:              deref(meta.Views),
		Likes:              deref(meta.Likes),
		Downloads:          deref(meta.Downloads),
		Introduction:       meta.Introduction,
		Conclusion:         meta.Conclusion,
		Description:        meta.Description,
		LearningObjectives: []string{},
		Sections:           []Section{},
	}
	if meta.Author != nil {
		doc.Author = *meta.Author
		doc.Author.Name = orDefault(meta.Author.Name, l.UnknownAuthor)
	}
	for _, o := range meta.LearningObjectives {
		if o = strings.TrimSpace(o); o != "" {
			doc.LearningObjectives = append(doc.LearningObjectives, o)
		}
	}

	for _, it := range topLevel(items) {
		if it.Type == outline.TypeSection {
			doc.Sections = append(doc.Sections, section(it))
		}
	}
	return doc
}

// topLevel returns the items that may hold sections: the children of course
// items, and any other top-level item as is. Editors usually put sections
// next to the title heading rather than inside it.
func topLevel(items []*outline.Item) []*outline.Item {
	var out []*outline.Item
	for _, it := range items {
		if it == nil {
			continue
		}
		if it.Type == outline.TypeCourse {
			out = append(out, it.Children...)
			continue
		}
		out = append(out, it)
	}
	return out
}

func section(it *outline.Item) Section {
	s := Section{Title: it.Title, Number: it.Number}
	for _, child := range it.Children {
		switch child.Type {
		case outline.TypeChapter:
			s.Chapters = append(s.Chapters, chapter(child))
		case outline.TypeParagraph, outline.TypeNotion, outline.TypeExercise:
			s.Paragraphs = append(s.Paragraphs, paragraph(child))
		}
	}
	return s
}

func chapter(it *outline.Item) Chapter {
	c := Chapter{Title: it.Title, Number: it.Number, Paragraphs: []Paragraph{}}
	for _, child := range it.Children {
		switch child.Type {
		case outline.TypeParagraph, outline.TypeNotion, outline.TypeExercise:
			c.Paragraphs = append(c.Paragraphs, paragraph(child))
		}
	}
	return c
}

func paragraph(it *outline.Item) Paragraph {
	p := Paragraph{Title: it.Title, Number: it.Number, Notions: []string{}}
	if it.Node != nil {
		p.Content = it.Node.Content
	}

	switch it.Type {
	case outline.TypeNotion:
		p.Notions = append(p.Notions, it.Title)
	case outline.TypeExercise:
		p.Exercise = newExercise()
	}

	// Notions and exercises nested in the item belong to this paragraph.
	for _, x := range outline.Flatten(it.Children) {
		switch x.Type {
		case outline.TypeNotion:
			p.Notions = append(p.Notions, x.Title)
		case outline.TypeExercise:
			if p.Exercise == nil {
				p.Exercise = newExercise()
			}
		}
	}
	return p
}

// newExercise marks an exercise slot. Question extraction is not done here.
func newExercise() *Exercise {
	return &Exercise{Questions: []Question{}}
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// Clone returns a deep copy of the document's own slices. Source nodes are
// shared: they are read-only.
func (d Document) Clone() Document {
	out := d
	out.LearningObjectives = slices.Clone(d.LearningObjectives)
	out.Sections = make([]Section, len(d.Sections))
	for i, s := range d.Sections {
		cs := Section{Title: s.Title, Number: s.Number}
		for _, ch := range s.Chapters {
			cs.Chapters = append(cs.Chapters, Chapter{Title: ch.Title, Number: ch.Number, Paragraphs: cloneParagraphs(ch.Paragraphs)})
		}
		if s.Paragraphs != nil {
			cs.Paragraphs = cloneParagraphs(s.Paragraphs)
		}
		out.Sections[i] = cs
	}
	return out
}

func cloneParagraphs(ps []Paragraph) []Paragraph {
	out := make([]Paragraph, len(ps))
	for i, p := range ps {
		cp := p
		cp.Notions = slices.Clone(p.Notions)
		if p.Exercise != nil {
			cp.Exercise = &Exercise{Questions: slices.Clone(p.Exercise.Questions)}
		}
		out[i] = cp
	}
	return out
}
