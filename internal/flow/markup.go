// Package flow writes course documents as flowing, unpaginated word-processor
// documents: Word-compatible HTML (.doc) and Office Open XML (.docx).
package flow

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dgallion1/coursedoc/internal/course"
	"github.com/dgallion1/coursedoc/internal/labels"
)

const stylesheet = `body { font-family: Calibri, Arial, sans-serif; font-size: 11pt; color: #212529; }
h1 { font-size: 24pt; color: #1a365d; }
h2 { font-size: 18pt; color: #1a365d; page-break-before: always; }
h3 { font-size: 15pt; color: #2c5282; }
h4 { font-size: 13pt; color: #4a5568; }
.meta { color: #4a5568; }
.notions { border-left: 4pt solid #2c5282; background: #ebf4ff; padding: 6pt 10pt; margin: 8pt 0; }`

func elem(a atom.Atom, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func withAttr(n *html.Node, key, val string) *html.Node {
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
	return n
}

// lines appends one <p> per non-blank line of s.
func lines(parent *html.Node, s string) {
	for _, ln := range strings.Split(s, "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			parent.AppendChild(elem(atom.P, text(ln)))
		}
	}
}

// Markup serializes doc as an HTML document Word opens as a native file.
// Headings go h1 (title) through h4 (paragraph), in the same order and with
// the same numbers as the PDF.
func Markup(doc course.Document, l labels.Labels) (string, error) {
	body := elem(atom.Body)
	body.AppendChild(elem(atom.H1, text(doc.Title)))

	meta := withAttr(elem(atom.P), "class", "meta")
	meta.AppendChild(text(l.CategoryPrefix + " : " + doc.Category))
	meta.AppendChild(elem(atom.Br))
	meta.AppendChild(text(l.AuthorPrefix + " " + doc.Author.Name))
	body.AppendChild(meta)

	if strings.TrimSpace(doc.Introduction) != "" {
		body.AppendChild(elem(atom.H2, text(l.Introduction)))
		lines(body, doc.Introduction)
	}

	doc.Walk(course.Visitor{
		Section: func(_ int, s course.Section, n string) {
			body.AppendChild(elem(atom.H2, text(l.PartHeading(n, s.Title))))
		},
		Chapter: func(c course.Chapter, n string) {
			body.AppendChild(elem(atom.H3, text(l.ChapterHeading(n, c.Title))))
		},
		Paragraph: func(p course.Paragraph, n string) {
			body.AppendChild(elem(atom.H4, text(n+" "+p.Title)))
			lines(body, p.Text())
			if len(p.Notions) > 0 {
				box := withAttr(elem(atom.Div), "class", "notions")
				box.AppendChild(elem(atom.P, elem(atom.B, text(l.KeyNotions))))
				list := elem(atom.Ul)
				for _, notion := range p.Notions {
					list.AppendChild(elem(atom.Li, text(notion)))
				}
				box.AppendChild(list)
				body.AppendChild(box)
			}
			if p.Exercise != nil && len(p.Exercise.Questions) > 0 {
				body.AppendChild(elem(atom.P, elem(atom.B, text(l.Questions))))
				ol := elem(atom.Ol)
				for _, q := range p.Exercise.Questions {
					li := elem(atom.Li, text(q.Prompt))
					if len(q.Choices) > 0 {
						ul := elem(atom.Ul)
						for _, c := range q.Choices {
							ul.AppendChild(elem(atom.Li, text(c)))
						}
						li.AppendChild(ul)
					}
					ol.AppendChild(li)
				}
				body.AppendChild(ol)
			}
		},
	})

	body.AppendChild(elem(atom.H2, text(l.Conclusion)))
	lines(body, doc.ConclusionText(l))
	if len(doc.LearningObjectives) > 0 {
		body.AppendChild(elem(atom.H3, text(l.LearningObjectives)))
		ul := elem(atom.Ul)
		for _, o := range doc.LearningObjectives {
			ul.AppendChild(elem(atom.Li, text(o)))
		}
		body.AppendChild(ul)
	}

	charset := withAttr(elem(atom.Meta), "http-equiv", "Content-Type")
	withAttr(charset, "content", "text/html; charset=utf-8")
	head := elem(atom.Head,
		charset,
		elem(atom.Title, text(doc.Title)),
		elem(atom.Style, text(stylesheet)),
	)

	root := elem(atom.Html, head, body)
	withAttr(root, "xmlns:o", "urn:schemas-microsoft-com:office:office")
	withAttr(root, "xmlns:w", "urn:schemas-microsoft-com:office:word")
	withAttr(root, "xmlns", "http://www.w3.org/TR/REC-html40")

	document := &html.Node{Type: html.DocumentNode}
	document.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	document.AppendChild(root)

	var buf bytes.Buffer
	if err := html.Render(&buf, document); err != nil {
		return "", fmt.Errorf("render markup: %w", err)
	}
	return buf.String(), nil
}
