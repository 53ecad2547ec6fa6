package render

import (
	"strconv"
	"strings"

	"github.com/dgallion1/coursedoc/internal/course"
)

const footerTitleLen = 30

func (l *layout) cover(doc course.Document, date string) {
	l.newPage()

	inset := l.margin / 2
	l.s.SetDrawColor(l.st.Accent)
	l.s.Rect(inset, inset, l.width-2*inset, l.height-2*inset, 1.5)

	l.cur.y = l.margin + 20
	if h := l.coverImage(doc.Image, l.cur.y); h > 0 {
		l.cur.y += h + 24
	} else {
		l.cur.y = l.height / 4
	}

	var meta []string
	if doc.Category != "" {
		meta = append(meta, l.lbl.CategoryPrefix+" : "+doc.Category)
	}
	author := doc.Author.Name
	if doc.Author.Designation != "" {
		author += ", " + doc.Author.Designation
	}
	meta = append(meta, l.lbl.AuthorPrefix+" "+author)

	// The cover is one page: the title gets what the rule, meta lines and
	// date leave free, and its last kept line ends with "...".
	bottom := l.limit() - l.st.CoverDate.lineHeight() - 24 - float64(len(meta))*l.st.CoverMeta.lineHeight()
	titleW := l.contentWidth() * 0.85
	lines := l.wrap(doc.Title, l.st.Title, titleW)
	if n := max(1, int((bottom-l.cur.y)/l.st.Title.lineHeight())); len(lines) > n {
		lines = lines[:n]
		lines[n-1] = l.ellipsis(lines[n-1], l.st.Title, titleW)
	}
	for _, ln := range lines {
		l.s.SetFont(l.st.Title.Font)
		l.line(ln, l.st.Title, (l.width-l.s.TextWidth(ln))/2, l.limit())
	}

	l.cur.y += 8
	ruleW := l.contentWidth() / 3
	l.s.SetDrawColor(l.st.Accent)
	l.s.Line((l.width-ruleW)/2, l.cur.y, (l.width+ruleW)/2, l.cur.y, 2)
	l.cur.y += 16

	for _, m := range meta {
		m = l.fit(m, l.st.CoverMeta, l.contentWidth())
		l.s.SetFont(l.st.CoverMeta.Font)
		l.line(m, l.st.CoverMeta, (l.width-l.s.TextWidth(m))/2, l.limit())
	}

	l.cur.y = max(l.cur.y, l.limit()-l.st.CoverDate.lineHeight())
	l.centered(l.lbl.GeneratedOn+" "+date, l.st.CoverDate, l.contentWidth())
}

// toc lists every section, chapter and paragraph with the numbers the body
// uses. Entries are single lines and break against a taller bottom band.
func (l *layout) toc(doc course.Document) {
	l.newPage()
	l.heading(l.lbl.TableOfContents, l.st.TOCTitle)

	limit := l.height - 2*l.margin
	entry := func(text string, st Style) {
		l.space(st.Before)
		x := l.margin + st.Indent
		l.line(l.fit(text, st, l.contentWidth()-st.Indent), st, x, limit)
	}
	doc.Walk(course.Visitor{
		Section: func(_ int, s course.Section, n string) {
			entry(l.lbl.PartHeading(n, s.Title), l.st.TOCSection)
		},
		Chapter: func(c course.Chapter, n string) {
			entry(l.lbl.ChapterHeading(n, c.Title), l.st.TOCChapter)
		},
		Paragraph: func(p course.Paragraph, n string) {
			entry(n+" "+p.Title, l.st.TOCParagraph)
		},
	})
}

func (l *layout) introduction(doc course.Document) {
	if strings.TrimSpace(doc.Introduction) == "" {
		return
	}
	l.newPage()
	l.heading(l.lbl.Introduction, l.st.Section)
	l.rule()
	l.flow(doc.Introduction, l.st.Body)
}

// body starts every section on a fresh page.
func (l *layout) body(doc course.Document) {
	doc.Walk(course.Visitor{
		Section: func(_ int, s course.Section, n string) {
			l.newPage()
			l.heading(l.lbl.PartHeading(n, s.Title), l.st.Section)
			l.rule()
		},
		Chapter: func(c course.Chapter, n string) {
			l.heading(l.lbl.ChapterHeading(n, c.Title), l.st.Chapter)
		},
		Paragraph: l.paragraph,
	})
}

func (l *layout) paragraph(p course.Paragraph, number string) {
	l.heading(number+" "+p.Title, l.st.Paragraph)
	if text := p.Text(); text != "" {
		l.flow(text, l.st.Body)
	}
	if len(p.Notions) > 0 {
		l.heading(l.lbl.KeyNotions, l.st.Label)
		for _, n := range p.Notions {
			l.bullet("•", n, l.st.Bullet)
		}
	}
	if p.Exercise != nil && len(p.Exercise.Questions) > 0 {
		l.heading(l.lbl.Questions, l.st.Label)
		choice := l.st.Bullet
		choice.Indent += 18
		for i, q := range p.Exercise.Questions {
			l.bullet(strconv.Itoa(i+1)+".", q.Prompt, l.st.Bullet)
			for _, c := range q.Choices {
				l.bullet("-", c, choice)
			}
		}
	}
}

func (l *layout) conclusion(doc course.Document) {
	l.newPage()
	l.rule()

	// Underline spans the heading as rendered, not the content width.
	w, baseline := l.heading(l.lbl.Conclusion, l.st.Section)
	l.s.SetDrawColor(l.st.Accent)
	l.s.Line(l.margin, baseline+3, l.margin+w, baseline+3, 1.2)

	l.flow(doc.ConclusionText(l.lbl), l.st.Body)

	if len(doc.LearningObjectives) > 0 {
		l.heading(l.lbl.LearningObjectives, l.st.Chapter)
		for _, o := range doc.LearningObjectives {
			l.bullet("•", o, l.st.Bullet)
		}
	}
}

// footers stamps every page once the total is known.
func (l *layout) footers(doc course.Document, date string) {
	n := l.s.PageCount()
	title := truncate(doc.Title, footerTitleLen)
	st := l.st.Footer
	y := l.height - l.margin/2
	for i := 1; i <= n; i++ {
		l.s.SetPage(i)
		l.s.SetFont(st.Font)
		l.s.SetTextColor(st.Color)

		l.s.Text(l.margin, y, title)
		l.s.Text((l.width-l.s.TextWidth(date))/2, y, date)
		page := l.lbl.Page(i, n)
		l.s.Text(l.width-l.margin-l.s.TextWidth(page), y, page)
	}
}
