package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgallion1/coursedoc/internal/artifact"
	"github.com/dgallion1/coursedoc/internal/course"
	"github.com/dgallion1/coursedoc/internal/flow"
	"github.com/dgallion1/coursedoc/internal/labels"
	"github.com/dgallion1/coursedoc/internal/outline"
	"github.com/dgallion1/coursedoc/internal/parser"
	"github.com/dgallion1/coursedoc/internal/render"
)

// ErrExport is returned when an exporter reports failure. The exporter has
// already logged the cause.
var ErrExport = errors.New("export failed")

// Worker runs documents through parse, outline, transform and export.
type Worker struct {
	labels labels.Labels
	render render.Options
	parse  parser.Options
	flow   *flow.Exporter
	log    *slog.Logger
}

func NewWorker(l labels.Labels, ro render.Options, po parser.Options, log *slog.Logger) *Worker {
	if log == nil {
		log = slog.Default()
	}
	if ro.Labels == nil {
		ro.Labels = &l
	}
	if ro.Logger == nil {
		ro.Logger = log
	}
	return &Worker{
		labels: l,
		render: ro,
		parse:  po,
		flow:   flow.NewExporter(l, log),
		log:    log,
	}
}

// Outline imports a file and extracts its numbered outline.
func (w *Worker) Outline(filename string, data []byte) (*parser.Result, []*outline.Item, error) {
	p, err := parser.ForFile(filename, w.parse)
	if err != nil {
		return nil, nil, err
	}
	res, err := p.Parse(bytes.NewReader(data), filename)
	if err != nil {
		return nil, nil, fmt.Errorf("parse: %w", err)
	}
	return res, outline.NewExtractor(w.labels).Extract(res.Root.Content), nil
}

// Course imports a file and builds the course document. An empty meta title
// takes the imported document's title.
func (w *Worker) Course(filename string, data []byte, meta course.Meta) (course.Document, []*outline.Item, error) {
	res, items, err := w.Outline(filename, data)
	if err != nil {
		return course.Document{}, nil, err
	}
	if meta.Title == "" {
		meta.Title = res.Title
	}
	return course.NewTransformer(w.labels).Transform(items, meta), items, nil
}

// Export writes doc in format f. An empty orientation keeps the configured
// default. Orientation only applies to PDF.
func (w *Worker) Export(doc course.Document, f artifact.Format, o render.Orientation) (artifact.Artifact, error) {
	var (
		a  artifact.Artifact
		ok bool
	)
	switch f {
	case artifact.FormatPDF:
		opts := w.render
		if o != "" {
			opts.Orientation = o
		}
		a, ok = render.New(opts).Export(doc)
	case artifact.FormatDOC, artifact.FormatDOCX:
		a, ok = w.flow.Export(doc, f)
	default:
		return artifact.Artifact{}, fmt.Errorf("unsupported export format: %q", f)
	}
	if !ok {
		return artifact.Artifact{}, ErrExport
	}
	return a, nil
}

// Process runs the full export pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "file", job.Filename, "format", job.Format)

	// Phase 1: Parse
	job.SetStatus(StatusParsing, "parsing")
	p, err := parser.ForFile(job.Filename, w.parse)
	if err != nil {
		log.Error("unsupported format", "error", err)
		job.Fail("parsing", err)
		return
	}
	res, err := p.Parse(bytes.NewReader(job.FileData()), job.Filename)
	if err != nil {
		log.Error("parse failed", "error", err)
		job.Fail("parsing", err)
		return
	}
	if w.cancelled(ctx, job, log) {
		return
	}

	// Phase 2: Outline
	job.SetStatus(StatusOutlining, "outlining")
	items := outline.NewExtractor(w.labels).Extract(res.Root.Content)
	job.SetOutline(len(outline.Flatten(items)))
	log.Info("outline extracted", "items", len(items))
	if w.cancelled(ctx, job, log) {
		return
	}

	// Phase 3: Transform
	job.SetStatus(StatusTransforming, "transforming")
	meta := job.Meta
	if meta.Title == "" {
		meta.Title = res.Title
	}
	doc := course.NewTransformer(w.labels).Transform(items, meta)
	sections, paragraphs := countCourse(doc)
	job.SetCourse(doc.Title, sections, paragraphs)
	if w.cancelled(ctx, job, log) {
		return
	}

	// Phase 4: Render
	job.SetStatus(StatusRendering, "rendering")
	a, err := w.Export(doc, job.Format, job.Orientation)
	if err != nil {
		log.Error("export failed", "error", err)
		job.Fail("rendering", err)
		return
	}
	job.SetResult(a)
	log.Info("job completed", "download", a.Filename, "bytes", len(a.Data), "sections", sections)
}

func (w *Worker) cancelled(ctx context.Context, job *Job, log *slog.Logger) bool {
	if err := ctx.Err(); err != nil {
		log.Warn("job cancelled", "phase", job.Snapshot().Phase)
		job.Fail("cancelled", err)
		return true
	}
	return false
}

func countCourse(doc course.Document) (sections, paragraphs int) {
	doc.Walk(course.Visitor{
		Section:   func(int, course.Section, string) { sections++ },
		Paragraph: func(course.Paragraph, string) { paragraphs++ },
	})
	return sections, paragraphs
}
