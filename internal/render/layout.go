package render

import (
	"log/slog"
	"strings"

	"github.com/dgallion1/coursedoc/internal/labels"
)

// cursor is the single mutable position of a render: the current page and
// the top of the next unit on it.
type cursor struct {
	page int
	y    float64
}

// layout carries everything one render needs. It is not shared between
// renders.
type layout struct {
	s      Surface
	st     Styles
	lbl    labels.Labels
	images ImageLoader
	log    *slog.Logger

	width, height, margin float64

	cur cursor
}

func (l *layout) contentWidth() float64 { return l.width - 2*l.margin }

// limit is the lowest y a unit may reach on a content page.
func (l *layout) limit() float64 { return l.height - l.margin }

func (l *layout) newPage() {
	l.s.AddPage()
	l.cur = cursor{page: l.s.PageCount(), y: l.margin}
}

// ensure starts a new page when a unit of height h would cross limit.
// A unit taller than a whole page is drawn from the top of the page it
// starts on rather than breaking forever.
func (l *layout) ensure(h, limit float64) bool {
	if l.cur.y+h <= limit || l.cur.y <= l.margin {
		return false
	}
	l.newPage()
	return true
}

// space advances the cursor, except at the top of a page.
func (l *layout) space(h float64) {
	if h <= 0 || l.cur.y <= l.margin {
		return
	}
	l.cur.y = min(l.cur.y+h, l.limit())
}

func (l *layout) wrap(text string, st Style, width float64) []string {
	l.s.SetFont(st.Font)
	return wrapText(text, width, l.s.TextWidth)
}

// line draws one atomic line at x, breaking first if it would cross limit.
func (l *layout) line(text string, st Style, x, limit float64) {
	l.ensure(st.lineHeight(), limit)
	l.s.SetFont(st.Font)
	l.s.SetTextColor(st.Color)
	l.s.Text(x, l.cur.y+st.Size, text)
	l.cur.y += st.lineHeight()
}

// centered draws text wrapped to width and centered on the page.
func (l *layout) centered(text string, st Style, width float64) {
	for _, ln := range l.wrap(text, st, width) {
		l.s.SetFont(st.Font)
		l.line(ln, st, (l.width-l.s.TextWidth(ln))/2, l.limit())
	}
}

// flow draws text as a run of lines that may split across pages. Each line
// is checked on its own.
func (l *layout) flow(text string, st Style) {
	l.space(st.Before)
	x := l.margin + st.Indent
	for _, ln := range l.wrap(text, st, l.contentWidth()-st.Indent) {
		l.line(ln, st, x, l.limit())
	}
	l.space(st.After)
}

// heading draws a block that stays whole and keeps one body line with it.
// It returns the width of the widest line and the baseline of the last.
func (l *layout) heading(text string, st Style) (width, baseline float64) {
	l.space(st.Before)
	lines := l.wrap(text, st, l.contentWidth()-st.Indent)
	l.ensure(float64(len(lines))*st.lineHeight()+l.st.Body.lineHeight(), l.limit())
	x := l.margin + st.Indent
	for _, ln := range lines {
		l.line(ln, st, x, l.limit())
		width = max(width, l.s.TextWidth(ln))
		baseline = l.cur.y - st.lineHeight() + st.Size
	}
	l.space(st.After)
	return width, baseline
}

// bullet draws a marked item with a hanging indent, kept on one page.
func (l *layout) bullet(marker, text string, st Style) {
	l.s.SetFont(st.Font)
	hang := l.s.TextWidth(marker + " ")
	x := l.margin + st.Indent
	lines := l.wrap(text, st, l.contentWidth()-st.Indent-hang)
	if len(lines) == 0 {
		return
	}
	l.ensure(float64(len(lines))*st.lineHeight(), l.limit())
	l.line(marker+" "+lines[0], st, x, l.limit())
	for _, ln := range lines[1:] {
		l.line(ln, st, x+hang, l.limit())
	}
}

// rule draws a full-width separator.
func (l *layout) rule() {
	const h = 10
	l.ensure(h, l.limit())
	y := l.cur.y + h/2
	l.s.SetDrawColor(l.st.Rule)
	l.s.Line(l.margin, y, l.width-l.margin, y, 0.8)
	l.cur.y += h
}

// fit shortens text until it fits width on one line.
func (l *layout) fit(text string, st Style, width float64) string {
	l.s.SetFont(st.Font)
	if l.s.TextWidth(text) <= width {
		return text
	}
	r := []rune(text)
	for n := len(r) - 1; n > 0; n-- {
		if cand := string(r[:n]) + "..."; l.s.TextWidth(cand) <= width {
			return cand
		}
	}
	return "..."
}

// ellipsis marks text as cut, dropping runes until the mark fits width.
func (l *layout) ellipsis(text string, st Style, width float64) string {
	l.s.SetFont(st.Font)
	r := []rune(strings.TrimRight(text, " "))
	for len(r) > 0 && l.s.TextWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return strings.TrimRight(string(r), " ") + "..."
}
