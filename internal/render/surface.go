package render

import "io"

// Font selects the face used by subsequent text calls. The family is fixed
// by the surface.
type Font struct {
	Size   float64
	Bold   bool
	Italic bool
}

// Color is an RGB triple, 0..255 per channel.
type Color struct {
	R, G, B int
}

// Surface is the page canvas the layout draws on. Coordinates are in points
// from the top-left corner; Text takes the baseline position. Pages are
// numbered from 1.
type Surface interface {
	AddPage()
	SetPage(n int)
	PageCount() int

	SetFont(f Font)
	SetTextColor(c Color)
	SetDrawColor(c Color)
	TextWidth(s string) float64

	Text(x, y float64, s string)
	Line(x1, y1, x2, y2, width float64)
	Rect(x, y, w, h, width float64)
	Image(name string, data []byte, x, y, w, h float64) error

	Output(w io.Writer) error
}
