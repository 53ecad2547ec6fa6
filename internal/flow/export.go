package flow

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/dgallion1/coursedoc/internal/artifact"
	"github.com/dgallion1/coursedoc/internal/course"
	"github.com/dgallion1/coursedoc/internal/labels"
)

// Exporter produces .doc and .docx artifacts.
type Exporter struct {
	labels labels.Labels
	log    *slog.Logger
}

// NewExporter returns an exporter using l. Zero labels mean the defaults.
func NewExporter(l labels.Labels, log *slog.Logger) *Exporter {
	if l == (labels.Labels{}) {
		l = labels.Default()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Exporter{labels: l, log: log}
}

// Export writes doc in format f. Failures, panics included, are logged and
// reported as false.
func (e *Exporter) Export(doc course.Document, f artifact.Format) (a artifact.Artifact, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			e.log.Error("flow export panic", "format", f, "title", doc.Title, "panic", rec)
			a, ok = artifact.Artifact{}, false
		}
	}()

	data, err := e.render(doc, f)
	if err != nil {
		e.log.Error("flow export failed", "format", f, "title", doc.Title, "error", err)
		return artifact.Artifact{}, false
	}
	a = artifact.New(doc.Title, f, data)
	e.log.Info("flow exported", "file", a.Filename, "bytes", len(data))
	return a, true
}

func (e *Exporter) render(doc course.Document, f artifact.Format) ([]byte, error) {
	switch f {
	case artifact.FormatDOC:
		s, err := Markup(doc, e.labels)
		return []byte(s), err
	case artifact.FormatDOCX:
		var buf bytes.Buffer
		err := DOCX(&buf, doc, e.labels)
		return buf.Bytes(), err
	}
	return nil, fmt.Errorf("not a flow format: %s", f)
}

// Export uses the default labels.
func Export(doc course.Document, f artifact.Format) (artifact.Artifact, bool) {
	return NewExporter(labels.Default(), nil).Export(doc, f)
}
