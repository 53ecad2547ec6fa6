package render

import (
	"bytes"
	"io"

	"github.com/go-pdf/fpdf"
)

const fontFamily = "Helvetica"

// pdfSurface draws on an fpdf document using the core Helvetica faces.
// Strings are translated to cp1252 at draw and measure time.
type pdfSurface struct {
	pdf *fpdf.Fpdf
	tr  func(string) string

	// fpdf skips a SetFont matching its cached state, which goes stale
	// after SetPage moves back to an earlier page.
	stale bool
}

func newPDFSurface(width, height float64, o Orientation) *pdfSurface {
	orient := "P"
	if o == Landscape {
		orient = "L"
	}
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: orient,
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: min(width, height), Ht: max(width, height)},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont(fontFamily, "", 11)
	return &pdfSurface{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
}

func (s *pdfSurface) AddPage()       { s.pdf.AddPage() }
func (s *pdfSurface) PageCount() int { return s.pdf.PageCount() }

func (s *pdfSurface) SetPage(n int) {
	s.pdf.SetPage(n)
	s.stale = true
}

func (s *pdfSurface) SetFont(f Font) {
	style := ""
	if f.Bold {
		style += "B"
	}
	if f.Italic {
		style += "I"
	}
	if s.stale {
		s.pdf.SetFont(fontFamily, style, f.Size+1)
		s.stale = false
	}
	s.pdf.SetFont(fontFamily, style, f.Size)
}

func (s *pdfSurface) SetTextColor(c Color) { s.pdf.SetTextColor(c.R, c.G, c.B) }
func (s *pdfSurface) SetDrawColor(c Color) { s.pdf.SetDrawColor(c.R, c.G, c.B) }

func (s *pdfSurface) TextWidth(str string) float64 {
	return s.pdf.GetStringWidth(s.tr(str))
}

func (s *pdfSurface) Text(x, y float64, str string) {
	s.pdf.Text(x, y, s.tr(str))
}

func (s *pdfSurface) Line(x1, y1, x2, y2, width float64) {
	s.pdf.SetLineWidth(width)
	s.pdf.Line(x1, y1, x2, y2)
}

func (s *pdfSurface) Rect(x, y, w, h, width float64) {
	s.pdf.SetLineWidth(width)
	s.pdf.Rect(x, y, w, h, "D")
}

// Image registers PNG data under name and draws it. A failure leaves the
// document usable.
func (s *pdfSurface) Image(name string, data []byte, x, y, w, h float64) error {
	opt := fpdf.ImageOptions{ImageType: "PNG"}
	s.pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(data))
	if err := s.pdf.Error(); err != nil {
		s.pdf.ClearError()
		return err
	}
	s.pdf.ImageOptions(name, x, y, w, h, false, opt, 0, "")
	if err := s.pdf.Error(); err != nil {
		s.pdf.ClearError()
		return err
	}
	return nil
}

func (s *pdfSurface) Output(w io.Writer) error {
	return s.pdf.Output(w)
}
