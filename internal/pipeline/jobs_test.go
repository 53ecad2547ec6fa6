package pipeline

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/dgallion1/coursedoc/internal/artifact"
	"github.com/dgallion1/coursedoc/internal/course"
	"github.com/dgallion1/coursedoc/internal/render"
)

func TestContentHashHex_Consistency(t *testing.T) {
	data := []byte("hello world")
	h1 := ContentHashHex(data)
	h2 := ContentHashHex(data)
	if h1 != h2 {
		t.Errorf("expected identical hashes, got %q and %q", h1, h2)
	}
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if h1 != want {
		t.Errorf("expected hash %q, got %q", want, h1)
	}
}

func TestContentHashHex_EmptyInput(t *testing.T) {
	h := ContentHashHex([]byte{})
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if h != want {
		t.Errorf("expected hash %q, got %q", want, h)
	}
}

func TestNewJob(t *testing.T) {
	job := NewJob("cours.md", []byte("# Cours"), artifact.FormatPDF, render.Landscape, course.Meta{Category: "Maths"})
	if job.Status != StatusQueued {
		t.Errorf("expected status %q, got %q", StatusQueued, job.Status)
	}
	if len(job.ID) != 36 {
		t.Errorf("expected a UUID job id, got %q", job.ID)
	}
	if string(job.FileData()) != "# Cours" {
		t.Errorf("expected file data to be kept, got %q", job.FileData())
	}
	other := NewJob("cours.md", nil, artifact.FormatPDF, "", course.Meta{})
	if other.ID == job.ID {
		t.Errorf("expected distinct job ids, got %q twice", job.ID)
	}
}

func TestJob_StateTransitions(t *testing.T) {
	job := &Job{
		ID:        "test-1",
		Status:    StatusQueued,
		Phase:     "queued",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	transitions := []struct {
		status JobStatus
		phase  string
	}{
		{StatusParsing, "parsing"},
		{StatusOutlining, "outlining"},
		{StatusTransforming, "transforming"},
		{StatusRendering, "rendering"},
		{StatusCompleted, "done"},
	}

	for _, tr := range transitions {
		before := job.UpdatedAt
		time.Sleep(time.Millisecond)
		job.SetStatus(tr.status, tr.phase)

		if job.Status != tr.status {
			t.Errorf("expected status %q, got %q", tr.status, job.Status)
		}
		if job.Phase != tr.phase {
			t.Errorf("expected phase %q, got %q", tr.phase, job.Phase)
		}
		if !job.UpdatedAt.After(before) {
			t.Errorf("expected UpdatedAt to advance after SetStatus(%q)", tr.status)
		}
	}
	if !job.Status.Done() {
		t.Error("expected completed to be terminal")
	}
}

func TestJob_Fail(t *testing.T) {
	job := &Job{ID: "test-fail", Status: StatusRendering, UpdatedAt: time.Now()}
	job.Fail("rendering", errors.New("margin too large"))

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Errorf("expected status %q, got %q", StatusFailed, snap.Status)
	}
	if len(snap.Progress.Errors) != 1 || snap.Progress.Errors[0] != "rendering: margin too large" {
		t.Errorf("expected one phase-prefixed error, got %v", snap.Progress.Errors)
	}
	if !snap.Status.Done() {
		t.Error("expected failed to be terminal")
	}
}

func TestJob_AddError(t *testing.T) {
	job := &Job{ID: "err-test", UpdatedAt: time.Now()}
	job.AddError("cover image skipped")
	job.AddError("second")

	snap := job.Snapshot()
	if len(snap.Progress.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(snap.Progress.Errors))
	}
	if snap.Progress.Errors[0] != "cover image skipped" {
		t.Errorf("expected first error %q, got %q", "cover image skipped", snap.Progress.Errors[0])
	}

	// The snapshot must not alias the job's error slice.
	snap.Progress.Errors[0] = "mutated"
	if job.Snapshot().Progress.Errors[0] != "cover image skipped" {
		t.Error("expected snapshot errors to be a copy")
	}
}

func TestJob_Progress(t *testing.T) {
	job := &Job{ID: "progress-test", UpdatedAt: time.Now()}
	job.SetOutline(12)
	job.SetCourse("Programmation Go", 3, 8)

	snap := job.Snapshot()
	if snap.Progress.OutlineItems != 12 {
		t.Errorf("expected 12 outline items, got %d", snap.Progress.OutlineItems)
	}
	if snap.Progress.Sections != 3 || snap.Progress.Paragraphs != 8 {
		t.Errorf("expected 3 sections and 8 paragraphs, got %d and %d", snap.Progress.Sections, snap.Progress.Paragraphs)
	}
	if snap.Title != "Programmation Go" {
		t.Errorf("expected title %q, got %q", "Programmation Go", snap.Title)
	}
}

func TestJob_SetResult(t *testing.T) {
	job := &Job{ID: "result-test", UpdatedAt: time.Now(), fileData: []byte("source")}
	if _, ok := job.Result(); ok {
		t.Fatal("expected no result before completion")
	}

	a := artifact.New("Programmation Go", artifact.FormatDOC, []byte("<html></html>"))
	job.SetResult(a)

	got, ok := job.Result()
	if !ok {
		t.Fatal("expected a result after SetResult")
	}
	if got.Filename != "Programmation_Go.doc" {
		t.Errorf("expected filename %q, got %q", "Programmation_Go.doc", got.Filename)
	}
	if job.FileData() != nil {
		t.Error("expected source bytes to be released")
	}

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Errorf("expected status %q, got %q", StatusCompleted, snap.Status)
	}
	if snap.Artifact != "Programmation_Go.doc" {
		t.Errorf("expected artifact %q, got %q", "Programmation_Go.doc", snap.Artifact)
	}
	if snap.Progress.Bytes != len("<html></html>") {
		t.Errorf("expected %d bytes, got %d", len("<html></html>"), snap.Progress.Bytes)
	}
	if snap.ContentHash != ContentHashHex([]byte("<html></html>")) {
		t.Errorf("expected content hash of the artifact, got %q", snap.ContentHash)
	}
}

func TestJob_FileData(t *testing.T) {
	job := &Job{ID: "data-test"}
	data := []byte("file content here")
	job.SetFileData(data)
	got := job.FileData()
	if string(got) != string(data) {
		t.Errorf("expected file data %q, got %q", data, got)
	}
}

func TestJob_SnapshotErrorsNotNil(t *testing.T) {
	job := &Job{ID: "snap-test", UpdatedAt: time.Now()}
	snap := job.Snapshot()
	if snap.Progress.Errors == nil {
		t.Error("expected non-nil errors slice in snapshot")
	}
	if len(snap.Progress.Errors) != 0 {
		t.Errorf("expected empty errors, got %d", len(snap.Progress.Errors))
	}
}

func TestJobStore_PutGet(t *testing.T) {
	store := NewJobStore(time.Hour)
	job := &Job{ID: "store-1", UpdatedAt: time.Now()}
	store.Put(job)

	got := store.Get("store-1")
	if got == nil {
		t.Fatal("expected to get job back")
	}
	if got.ID != "store-1" {
		t.Errorf("expected ID %q, got %q", "store-1", got.ID)
	}
}

func TestJobStore_GetMissing(t *testing.T) {
	store := NewJobStore(time.Hour)
	if store.Get("nonexistent") != nil {
		t.Error("expected nil for missing job")
	}
}

func TestJobStore_Delete(t *testing.T) {
	store := NewJobStore(time.Hour)
	store.Put(&Job{ID: "gone", UpdatedAt: time.Now()})

	if !store.Delete("gone") {
		t.Error("expected Delete to report an existing job")
	}
	if store.Get("gone") != nil {
		t.Error("expected job to be removed")
	}
	if store.Delete("gone") {
		t.Error("expected second Delete to report a missing job")
	}
}

func TestJobStore_ListOrdered(t *testing.T) {
	store := NewJobStore(time.Hour)
	base := time.Now()
	store.Put(&Job{ID: "b", CreatedAt: base.Add(time.Second)})
	store.Put(&Job{ID: "c", CreatedAt: base})
	store.Put(&Job{ID: "a", CreatedAt: base.Add(time.Second)})

	var ids []string
	for _, s := range store.List() {
		ids = append(ids, s.ID)
	}
	if got := strings.Join(ids, ","); got != "c,a,b" {
		t.Errorf("expected order c,a,b, got %s", got)
	}
}

func TestJobStore_TTLCleanup(t *testing.T) {
	store := NewJobStore(50 * time.Millisecond)

	expired := &Job{ID: "old", UpdatedAt: time.Now()}
	store.Put(expired)

	time.Sleep(100 * time.Millisecond)

	fresh := &Job{ID: "new", UpdatedAt: time.Now()}
	store.Put(fresh)

	store.Cleanup()

	if store.Get("old") != nil {
		t.Error("expected expired job to be cleaned up")
	}
	if store.Get("new") == nil {
		t.Error("expected fresh job to survive cleanup")
	}
}

func TestJobStore_CleanupEmpty(t *testing.T) {
	store := NewJobStore(time.Hour)
	store.Cleanup()
}
