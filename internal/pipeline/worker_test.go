package pipeline

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/coursedoc/internal/artifact"
	"github.com/dgallion1/coursedoc/internal/config"
	"github.com/dgallion1/coursedoc/internal/course"
	"github.com/dgallion1/coursedoc/internal/labels"
	"github.com/dgallion1/coursedoc/internal/parser"
	"github.com/dgallion1/coursedoc/internal/render"
)

const courseMarkdown = `# Programmation Go

Une introduction.

## Bases

### Syntaxe

#### Variables

Déclarer une variable avec var.

#### Fonctions

Une fonction prend des paramètres.

## Concurrence

### Goroutines

#### Lancer une goroutine

Le mot-clé go.
`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testWorker() *Worker {
	now := func() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }
	return NewWorker(labels.French(), render.Options{Now: now}, parser.Options{}, quietLogger())
}

func TestWorker_Course(t *testing.T) {
	doc, items, err := testWorker().Course("go.md", []byte(courseMarkdown), course.Meta{Category: "Informatique"})
	require.NoError(t, err)
	require.NotEmpty(t, items)

	assert.Equal(t, "Programmation Go", doc.Title, "meta without a title takes the imported title")
	assert.Equal(t, "Informatique", doc.Category)
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "Bases", doc.Sections[0].Title)

	sections, paragraphs := countCourse(doc)
	assert.Equal(t, 2, sections)
	assert.Equal(t, 3, paragraphs)
}

func TestWorker_CourseKeepsMetaTitle(t *testing.T) {
	doc, _, err := testWorker().Course("go.md", []byte(courseMarkdown), course.Meta{Title: "Go avancé"})
	require.NoError(t, err)
	assert.Equal(t, "Go avancé", doc.Title)
}

func TestWorker_OutlineUnsupported(t *testing.T) {
	_, _, err := testWorker().Outline("slides.pptx", []byte("x"))
	assert.Error(t, err)
}

func TestWorker_ExportFormats(t *testing.T) {
	w := testWorker()
	doc, _, err := w.Course("go.md", []byte(courseMarkdown), course.Meta{})
	require.NoError(t, err)

	pdf, err := w.Export(doc, artifact.FormatPDF, render.Landscape)
	require.NoError(t, err)
	assert.Equal(t, "Programmation_Go.pdf", pdf.Filename)
	assert.True(t, bytes.HasPrefix(pdf.Data, []byte("%PDF")))

	doc1, err := w.Export(doc, artifact.FormatDOC, "")
	require.NoError(t, err)
	assert.Contains(t, string(doc1.Data), "Partie 1 : Bases")

	docx, err := w.Export(doc, artifact.FormatDOCX, "")
	require.NoError(t, err)
	assert.Equal(t, "Programmation_Go.docx", docx.Filename)

	_, err = w.Export(doc, artifact.Format("odt"), "")
	assert.Error(t, err)
}

func TestWorker_ExportFailure(t *testing.T) {
	w := NewWorker(labels.French(), render.Options{Margin: 1000}, parser.Options{}, quietLogger())
	_, err := w.Export(course.Document{Title: "T"}, artifact.FormatPDF, "")
	assert.ErrorIs(t, err, ErrExport)
}

func TestWorker_Process(t *testing.T) {
	job := NewJob("go.md", []byte(courseMarkdown), artifact.FormatPDF, render.Portrait, course.Meta{})
	testWorker().Process(context.Background(), job)

	snap := job.Snapshot()
	require.Equal(t, StatusCompleted, snap.Status, "errors: %v", snap.Progress.Errors)
	assert.Equal(t, "Programmation Go", snap.Title)
	assert.Equal(t, 2, snap.Progress.Sections)
	assert.Equal(t, 3, snap.Progress.Paragraphs)
	assert.Positive(t, snap.Progress.OutlineItems)
	assert.Equal(t, "Programmation_Go.pdf", snap.Artifact)

	a, ok := job.Result()
	require.True(t, ok)
	assert.Equal(t, ContentHashHex(a.Data), snap.ContentHash)
}

func TestWorker_ProcessUnsupported(t *testing.T) {
	job := NewJob("slides.pptx", []byte("x"), artifact.FormatPDF, "", course.Meta{})
	testWorker().Process(context.Background(), job)

	snap := job.Snapshot()
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Equal(t, "parsing", snap.Phase)
	require.Len(t, snap.Progress.Errors, 1)
	assert.True(t, strings.HasPrefix(snap.Progress.Errors[0], "parsing: "))
}

func TestWorker_ProcessCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job := NewJob("go.md", []byte(courseMarkdown), artifact.FormatDOCX, "", course.Meta{})
	testWorker().Process(ctx, job)

	snap := job.Snapshot()
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Equal(t, "cancelled", snap.Phase)
	_, ok := job.Result()
	assert.False(t, ok)
}

func testConfig() config.Config {
	return config.Config{
		WorkerCount:        2,
		MaxQueueSize:       4,
		JobTTL:             time.Hour,
		PageSize:           "A4",
		PageMargin:         render.DefaultMargin,
		DefaultOrientation: "portrait",
	}
}

func waitDone(t *testing.T, job *Job) JobSnapshot {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if snap := job.Snapshot(); snap.Status.Done() {
			return snap
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish", job.ID)
	return JobSnapshot{}
}

func TestOrchestrator_SubmitAndComplete(t *testing.T) {
	o := NewOrchestrator(testConfig(), labels.French(), quietLogger())
	o.Start(context.Background())
	defer o.Stop()

	pdf := NewJob("go.md", []byte(courseMarkdown), artifact.FormatPDF, "", course.Meta{})
	doc := NewJob("go.md", []byte(courseMarkdown), artifact.FormatDOC, "", course.Meta{})
	require.NoError(t, o.Submit(pdf))
	require.NoError(t, o.Submit(doc))

	assert.Equal(t, StatusCompleted, waitDone(t, pdf).Status)
	assert.Equal(t, StatusCompleted, waitDone(t, doc).Status)
	assert.Same(t, pdf, o.GetJob(pdf.ID))

	stats := o.Stats()
	assert.Equal(t, 2, stats.Workers)
	assert.Equal(t, 4, stats.QueueSize)
	assert.Equal(t, 2, stats.Jobs)
	assert.Equal(t, 2, stats.ByStatus[StatusCompleted])
	assert.Positive(t, stats.Bytes)

	assert.Len(t, o.ListJobs(), 2)
	assert.True(t, o.DeleteJob(pdf.ID))
	assert.Nil(t, o.GetJob(pdf.ID))
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := testConfig()
	cfg.MaxQueueSize = 1
	o := NewOrchestrator(cfg, labels.French(), quietLogger())

	first := NewJob("a.md", []byte("# A"), artifact.FormatDOC, "", course.Meta{})
	second := NewJob("b.md", []byte("# B"), artifact.FormatDOC, "", course.Meta{})
	require.NoError(t, o.Submit(first))
	assert.Equal(t, 1, o.QueueDepth())

	err := o.Submit(second)
	require.Error(t, err)
	snap := second.Snapshot()
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Equal(t, "queue_full", snap.Phase)
	assert.NotNil(t, o.GetJob(second.ID), "rejected jobs stay visible")

	o.Stop()
}
