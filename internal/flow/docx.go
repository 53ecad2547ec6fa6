package flow

import (
	"fmt"
	"io"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/coursedoc/internal/course"
	"github.com/dgallion1/coursedoc/internal/labels"
)

// Heading styles map to the outline: Heading1 is the course title, Heading4 a
// paragraph. Reading the file back with the docx importer yields the same
// outline.
const (
	styleTitle     = "Heading1"
	styleSection   = "Heading2"
	styleChapter   = "Heading3"
	styleParagraph = "Heading4"
)

type docxWriter struct {
	d *docx.Docx
}

func (w docxWriter) heading(style, s string) {
	w.d.AddParagraph().Style(style).AddText(s)
}

func (w docxWriter) text(s string) {
	for _, ln := range strings.Split(s, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			w.d.AddParagraph().AddText(ln)
		}
	}
}

func (w docxWriter) label(s string) {
	w.d.AddParagraph().AddText(s).Bold().Color("2C5282")
}

func (w docxWriter) item(marker, s string) {
	w.d.AddParagraph().AddText(marker + " " + s)
}

// DOCX writes doc as a .docx file with the traversal Markup uses.
func DOCX(out io.Writer, doc course.Document, l labels.Labels) error {
	w := docxWriter{d: docx.New().WithDefaultTheme()}

	w.heading(styleTitle, doc.Title)
	w.d.AddParagraph().AddText(l.CategoryPrefix + " : " + doc.Category).Italic()
	w.d.AddParagraph().AddText(l.AuthorPrefix + " " + doc.Author.Name).Italic()

	if strings.TrimSpace(doc.Introduction) != "" {
		w.heading(styleSection, l.Introduction)
		w.text(doc.Introduction)
	}

	doc.Walk(course.Visitor{
		Section: func(_ int, s course.Section, n string) {
			w.d.AddParagraph().AddPageBreaks()
			w.heading(styleSection, l.PartHeading(n, s.Title))
		},
		Chapter: func(c course.Chapter, n string) {
			w.heading(styleChapter, l.ChapterHeading(n, c.Title))
		},
		Paragraph: func(p course.Paragraph, n string) {
			w.heading(styleParagraph, n+" "+p.Title)
			w.text(p.Text())
			if len(p.Notions) > 0 {
				w.label(l.KeyNotions)
				for _, notion := range p.Notions {
					w.item("•", notion)
				}
			}
			if p.Exercise != nil && len(p.Exercise.Questions) > 0 {
				w.label(l.Questions)
				for i, q := range p.Exercise.Questions {
					w.item(fmt.Sprintf("%d.", i+1), q.Prompt)
					for _, c := range q.Choices {
						w.item("   -", c)
					}
				}
			}
		},
	})

	w.d.AddParagraph().AddPageBreaks()
	w.heading(styleSection, l.Conclusion)
	w.text(doc.ConclusionText(l))
	if len(doc.LearningObjectives) > 0 {
		w.heading(styleChapter, l.LearningObjectives)
		for _, o := range doc.LearningObjectives {
			w.item("•", o)
		}
	}

	if _, err := w.d.WriteTo(out); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}
