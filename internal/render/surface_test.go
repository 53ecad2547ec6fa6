package render

import (
	"errors"
	"io"
	"unicode/utf8"
)

type textOp struct {
	page int
	x, y float64
	font Font
	text string
}

type lineOp struct {
	page           int
	x1, y1, x2, y2 float64
}

// recorder is a Surface that keeps every draw call. Glyphs are half as wide
// as the font size.
type recorder struct {
	pages  int
	page   int
	font   Font
	texts  []textOp
	lines  []lineOp
	rects  int
	images []string

	imageErr error
}

func (r *recorder) AddPage() {
	r.pages++
	r.page = r.pages
}

func (r *recorder) SetPage(n int)              { r.page = n }
func (r *recorder) PageCount() int             { return r.pages }
func (r *recorder) SetFont(f Font)             { r.font = f }
func (r *recorder) SetTextColor(Color)         {}
func (r *recorder) SetDrawColor(Color)         {}
func (r *recorder) Rect(_, _, _, _, _ float64) { r.rects++ }

func (r *recorder) TextWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * r.font.Size * 0.5
}

func (r *recorder) Text(x, y float64, s string) {
	r.texts = append(r.texts, textOp{page: r.page, x: x, y: y, font: r.font, text: s})
}

func (r *recorder) Line(x1, y1, x2, y2, _ float64) {
	r.lines = append(r.lines, lineOp{page: r.page, x1: x1, y1: y1, x2: x2, y2: y2})
}

func (r *recorder) Image(name string, _ []byte, _, _, _, _ float64) error {
	if r.imageErr != nil {
		return r.imageErr
	}
	r.images = append(r.images, name)
	return nil
}

func (r *recorder) Output(io.Writer) error { return errors.New("recorder has no output") }

func (r *recorder) onPage(n int) []textOp {
	var out []textOp
	for _, t := range r.texts {
		if t.page == n {
			out = append(out, t)
		}
	}
	return out
}
