// Package render lays a course document out as a paginated PDF: cover,
// table of contents, introduction, one section per page run, conclusion and
// a footer on every page.
package render

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgallion1/coursedoc/internal/artifact"
	"github.com/dgallion1/coursedoc/internal/course"
	"github.com/dgallion1/coursedoc/internal/labels"
)

type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

// ParseOrientation accepts "portrait", "landscape" or their initials.
func ParseOrientation(s string) (Orientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "p", "portrait":
		return Portrait, nil
	case "l", "landscape":
		return Landscape, nil
	}
	return "", fmt.Errorf("invalid orientation: %q", s)
}

// pageSizes holds portrait dimensions in points.
var pageSizes = map[string][2]float64{
	"a3":     {841.89, 1190.55},
	"a4":     {595.28, 841.89},
	"a5":     {419.53, 595.28},
	"letter": {612, 792},
	"legal":  {612, 1008},
}

// PageSize returns the portrait dimensions of a named paper size.
func PageSize(name string) (width, height float64, err error) {
	d, ok := pageSizes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, 0, fmt.Errorf("unknown page size: %q", name)
	}
	return d[0], d[1], nil
}

const DefaultMargin = 40

type Options struct {
	Orientation Orientation
	PageSize    string  // named size, default A4
	Width       float64 // explicit portrait size in points, overrides PageSize
	Height      float64
	Margin      float64

	Styles *Styles
	Labels *labels.Labels
	Images ImageLoader
	Now    func() time.Time
	Logger *slog.Logger
}

// Renderer turns course documents into PDFs. It holds no per-render state
// and is safe for concurrent use.
type Renderer struct {
	opts   Options
	styles Styles
	labels labels.Labels
}

func New(opts Options) *Renderer {
	if opts.Orientation == "" {
		opts.Orientation = Portrait
	}
	if opts.PageSize == "" {
		opts.PageSize = "A4"
	}
	if opts.Margin <= 0 {
		opts.Margin = DefaultMargin
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	r := &Renderer{opts: opts, styles: DefaultStyles(), labels: labels.Default()}
	if opts.Styles != nil {
		r.styles = *opts.Styles
	}
	if opts.Labels != nil {
		r.labels = *opts.Labels
	}
	return r
}

// Dimensions returns the page width and height after orientation.
func (r *Renderer) Dimensions() (width, height float64, err error) {
	o, err := ParseOrientation(string(r.opts.Orientation))
	if err != nil {
		return 0, 0, err
	}
	width, height = r.opts.Width, r.opts.Height
	if width <= 0 || height <= 0 {
		if width, height, err = PageSize(r.opts.PageSize); err != nil {
			return 0, 0, err
		}
	}
	if (o == Landscape) != (width > height) {
		width, height = height, width
	}
	if 2*r.opts.Margin >= min(width, height) {
		return 0, 0, fmt.Errorf("margin %.0f too large for %.0fx%.0f page", r.opts.Margin, width, height)
	}
	return width, height, nil
}

// Render produces the PDF bytes for doc.
func (r *Renderer) Render(doc course.Document) (out []byte, err error) {
	w, h, err := r.Dimensions()
	if err != nil {
		return nil, err
	}
	defer func() {
		if rec := recover(); rec != nil {
			out, err = nil, fmt.Errorf("pdf panic: %v", rec)
		}
	}()
	o, _ := ParseOrientation(string(r.opts.Orientation))
	s := newPDFSurface(w, h, o)
	if _, err := r.RenderTo(s, doc); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := s.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderTo lays doc out on s and returns the number of pages. A panic during
// layout is returned as an error.
func (r *Renderer) RenderTo(s Surface, doc course.Document) (pages int, err error) {
	w, h, err := r.Dimensions()
	if err != nil {
		return 0, err
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("layout panic: %v", rec)
		}
	}()

	l := &layout{
		s:      s,
		st:     r.styles,
		lbl:    r.labels,
		images: r.opts.Images,
		log:    r.opts.Logger,
		width:  w,
		height: h,
		margin: r.opts.Margin,
	}
	date := r.opts.Now().Format(r.labels.DateLayout)

	l.cover(doc, date)
	l.toc(doc)
	l.introduction(doc)
	l.body(doc)
	l.conclusion(doc)
	l.footers(doc, date)

	return s.PageCount(), nil
}

// Export renders doc into a downloadable artifact. Failures are logged and
// reported as false; no partial artifact is returned.
func (r *Renderer) Export(doc course.Document) (artifact.Artifact, bool) {
	start := time.Now()
	data, err := r.Render(doc)
	if err != nil {
		r.opts.Logger.Error("pdf export failed", "title", doc.Title, "error", err)
		return artifact.Artifact{}, false
	}
	a := artifact.New(doc.Title, artifact.FormatPDF, data)
	r.opts.Logger.Info("pdf exported", "file", a.Filename, "bytes", len(data), "duration", time.Since(start))
	return a, true
}
