package parser

import (
	"bytes"
	"strings"
	"testing"
	"time"

	lpdf "github.com/ledongthuc/pdf"

	"github.com/dgallion1/coursedoc/internal/course"
	"github.com/dgallion1/coursedoc/internal/doctree"
	"github.com/dgallion1/coursedoc/internal/outline"
	"github.com/dgallion1/coursedoc/internal/render"
)

func outlineOf(res *Result) string {
	var parts []string
	for _, it := range outline.Flatten(outline.Extract(res.Root.Content)) {
		parts = append(parts, string(it.Type)+":"+it.Number)
	}
	return strings.Join(parts, " ")
}

func TestForFile(t *testing.T) {
	for _, name := range []string{"a.json", "b.TXT", "c.md", "d.markdown", "e.csv", "f.html", "g.htm", "h.pdf", "i.docx"} {
		if _, err := ForFile(name, Options{}); err != nil {
			t.Errorf("%s: unexpected error %v", name, err)
		}
		if !IsSupportedExtension(name) {
			t.Errorf("%s: expected supported", name)
		}
	}
	if _, err := ForFile("slides.pptx", Options{}); err == nil {
		t.Error("expected error for unsupported extension")
	}
	p, _ := ForFile("x.pdf", Options{FallbackPdftotext: true})
	if !p.(*PDFParser).FallbackPdftotext {
		t.Error("expected pdftotext fallback option passed through")
	}
}

func TestJSONParser(t *testing.T) {
	input := `{"type":"doc","content":[
		{"type":"heading","attrs":{"level":1},"content":[{"type":"text","text":"Algèbre"}]},
		{"type":"section","attrs":{"title":"Bases"},"content":[
			{"type":"chapter","attrs":{"title":"Nombres"}}
		]}
	]}`
	res, err := (&JSONParser{}).Parse(strings.NewReader(input), "upload.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Title != "Algèbre" {
		t.Errorf("expected title from the rank-1 heading, got %q", res.Title)
	}
	if got := outlineOf(res); got != "course: section:1 chapter:1.1" {
		t.Errorf("unexpected outline %q", got)
	}

	if _, err := (&JSONParser{}).Parse(strings.NewReader("{nope"), "bad.json"); err == nil {
		t.Error("expected error for invalid json")
	}
}

func TestHTMLParser(t *testing.T) {
	input := `<html><head><title>Cours HTML</title><style>p{color:red}</style></head>
<body><nav>menu principal</nav>
<h1>Cours</h1><p>Introduction.</p>
<h2>Partie A</h2><h3>Chapitre</h3><h4>Paragraphe</h4><p>Texte du paragraphe.</p>
<h2>Partie B</h2>
<script>alert(1)</script>
</body></html>`
	res, err := (&HTMLParser{}).Parse(strings.NewReader(input), "page.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Title != "Cours HTML" {
		t.Errorf("expected <title>, got %q", res.Title)
	}
	if got := outlineOf(res); got != "course: section:1 chapter:1.1 paragraph:1.1.1 section:2" {
		t.Errorf("unexpected outline %q", got)
	}
	all := doctree.PlainText(res.Root.Content, nil)
	if !strings.Contains(all, "Texte du paragraphe.") {
		t.Errorf("expected paragraph text, got %q", all)
	}
	for _, unwanted := range []string{"menu principal", "alert", "color:red"} {
		if strings.Contains(all, unwanted) {
			t.Errorf("expected %q dropped, got %q", unwanted, all)
		}
	}
}

func TestCSVParser(t *testing.T) {
	input := "type,title,text\n" +
		"course,Mon cours,\n" +
		"section,Bases,\n" +
		"chapter,Syntaxe,\n" +
		"paragraph,Variables,\"Une variable, nommée.\"\n" +
		"notion,Portée\n" +
		"3,Types,\n" +
		"text,,Suite du chapitre\n"
	res, err := (&CSVParser{}).Parse(strings.NewReader(input), "plan.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Title != "Mon cours" {
		t.Errorf("expected course title, got %q", res.Title)
	}
	if got := outlineOf(res); got != "course: section:1 chapter:1.1 paragraph:1.1.1 notion:1.1.1.1 chapter:1.2" {
		t.Errorf("unexpected outline %q", got)
	}
	if !strings.Contains(doctree.PlainText(res.Root.Content, nil), "Une variable, nommée.") {
		t.Error("expected quoted body text kept whole")
	}

	if _, err := (&CSVParser{}).Parse(strings.NewReader("slide,Intro\n"), "bad.csv"); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestPDFParser_OneSectionPerPage(t *testing.T) {
	doc := course.Document{
		Title:    "Cours PDF",
		Sections: []course.Section{{Title: "Bases", Paragraphs: []course.Paragraph{{Title: "Intro"}}}},
	}
	data, err := render.New(render.Options{Now: func() time.Time { return time.Unix(0, 0) }}).Render(doc)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	rd, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	res, err := (&PDFParser{}).Parse(bytes.NewReader(data), "cours.pdf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Title != "cours" {
		t.Errorf("expected title from filename, got %q", res.Title)
	}
	sections := res.Root.Content
	if len(sections) != rd.NumPage() {
		t.Fatalf("expected %d sections, got %d", rd.NumPage(), len(sections))
	}
	if sections[0].Type != doctree.TypeSection || sections[0].Attrs.Title != "Page 1" {
		t.Errorf("expected first section %q, got %s %q", "Page 1", sections[0].Type, sections[0].Attrs.Title)
	}
}

func TestPDFParser_Invalid(t *testing.T) {
	if _, err := (&PDFParser{}).Parse(strings.NewReader("not a pdf"), "x.pdf"); err == nil {
		t.Error("expected error for invalid pdf")
	}
}
