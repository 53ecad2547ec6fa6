package parser

import (
	"fmt"
	"io"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. The body is converted to Markdown and
// imported like a .md file, so h1..h6 map the same way # .. ###### do.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	dropNonContent(doc)
	body := findElement(doc, "body")
	if body == nil {
		body = doc
	}
	md, err := htmltomarkdown.ConvertNode(body)
	if err != nil {
		return nil, fmt.Errorf("convert html to markdown: %w", err)
	}

	res := newResult(buildMarkdown(md), filename)
	if t := findElement(doc, "title"); t != nil {
		if title := textContent(t); title != "" {
			res.Title = title
		}
	}
	return res, nil
}

// dropNonContent removes page chrome that would otherwise leak into the
// course text.
func dropNonContent(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if c.Type == html.ElementNode {
			switch c.Data {
			case "script", "style", "nav", "footer", "header", "noscript":
				n.RemoveChild(c)
				c = next
				continue
			}
		}
		dropNonContent(c)
		c = next
	}
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
