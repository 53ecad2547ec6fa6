package render

// Style is the typography of one kind of text unit.
type Style struct {
	Font
	Color      Color
	LineHeight float64 // multiple of the font size
	Indent     float64
	Before     float64 // space above the unit, skipped at the top of a page
	After      float64
}

// lineHeight is the vertical advance of one line in this style.
func (s Style) lineHeight() float64 {
	return s.Size * s.LineHeight
}

// Styles groups the styles of every element the renderer draws. Heading
// levels get smaller fonts and tighter line-height multipliers as they go
// deeper.
type Styles struct {
	Title     Style
	CoverMeta Style
	CoverDate Style

	TOCTitle     Style
	TOCSection   Style
	TOCChapter   Style
	TOCParagraph Style

	Section   Style
	Chapter   Style
	Paragraph Style
	Body      Style
	Label     Style
	Bullet    Style

	Footer Style

	Accent Color
	Rule   Color
}

var (
	ink       = Color{33, 37, 41}
	navy      = Color{26, 54, 93}
	steel     = Color{44, 82, 130}
	slate     = Color{74, 85, 104}
	grey      = Color{120, 120, 120}
	lightGrey = Color{200, 205, 210}
)

// DefaultStyles returns the stock typography.
func DefaultStyles() Styles {
	return Styles{
		Title:     Style{Font: Font{Size: 28, Bold: true}, Color: navy, LineHeight: 1.3},
		CoverMeta: Style{Font: Font{Size: 13}, Color: slate, LineHeight: 1.6},
		CoverDate: Style{Font: Font{Size: 10, Italic: true}, Color: grey, LineHeight: 1.4},

		TOCTitle:     Style{Font: Font{Size: 20, Bold: true}, Color: navy, LineHeight: 1.6, After: 12},
		TOCSection:   Style{Font: Font{Size: 12, Bold: true}, Color: navy, LineHeight: 1.6, Before: 4},
		TOCChapter:   Style{Font: Font{Size: 11}, Color: steel, LineHeight: 1.5, Indent: 18},
		TOCParagraph: Style{Font: Font{Size: 10}, Color: slate, LineHeight: 1.4, Indent: 36},

		Section:   Style{Font: Font{Size: 18, Bold: true}, Color: navy, LineHeight: 1.6, After: 4},
		Chapter:   Style{Font: Font{Size: 15, Bold: true}, Color: steel, LineHeight: 1.5, Before: 14, After: 4},
		Paragraph: Style{Font: Font{Size: 13, Bold: true}, Color: slate, LineHeight: 1.4, Before: 10, After: 2},
		Body:      Style{Font: Font{Size: 11}, Color: ink, LineHeight: 1.5},
		Label:     Style{Font: Font{Size: 11, Bold: true}, Color: steel, LineHeight: 1.4, Before: 6},
		Bullet:    Style{Font: Font{Size: 11}, Color: ink, LineHeight: 1.4, Indent: 14},

		Footer: Style{Font: Font{Size: 9}, Color: grey, LineHeight: 1.2},

		Accent: steel,
		Rule:   lightGrey,
	}
}
