package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgallion1/coursedoc/internal/labels"
	"github.com/dgallion1/coursedoc/internal/render"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "WORKER_COUNT", "PAGE_SIZE", "PAGE_MARGIN", "DEFAULT_ORIENTATION", "LABELS", "LABELS_FILE", "JOB_TTL"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	if cfg.Port != "8090" || cfg.WorkerCount != 4 || cfg.JobTTL != time.Hour {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if cfg.PageSize != "A4" || cfg.PageMargin != render.DefaultMargin || cfg.DefaultOrientation != "portrait" {
		t.Errorf("unexpected page defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("WORKER_COUNT", "-2")
	t.Setenv("PAGE_MARGIN", "36.5")
	t.Setenv("DEFAULT_ORIENTATION", "landscape")
	t.Setenv("JOB_TTL", "90m")
	t.Setenv("PDF_FALLBACK_PDFTOTEXT", "false")

	cfg := Load()
	if cfg.WorkerCount != 4 {
		t.Errorf("expected non-positive worker count reset to 4, got %d", cfg.WorkerCount)
	}
	if cfg.PageMargin != 36.5 {
		t.Errorf("expected margin 36.5, got %v", cfg.PageMargin)
	}
	if cfg.JobTTL != 90*time.Minute {
		t.Errorf("expected 90m TTL, got %v", cfg.JobTTL)
	}
	if cfg.PDFFallbackPdftotext {
		t.Error("expected pdftotext fallback disabled")
	}
	opts := cfg.RenderOptions(mustLabels(t, cfg))
	if opts.Orientation != render.Landscape || opts.Margin != 36.5 {
		t.Errorf("unexpected render options %+v", opts)
	}
}

func mustLabels(t *testing.T, cfg Config) labels.Labels {
	t.Helper()
	l, err := cfg.Labels()
	if err != nil {
		t.Fatalf("labels: %v", err)
	}
	return l
}

func TestValidate(t *testing.T) {
	base := Config{PageSize: "A4", DefaultOrientation: "portrait", LabelsPreset: "fr"}
	if err := base.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"page size", func(c *Config) { c.PageSize = "B12" }},
		{"orientation", func(c *Config) { c.DefaultOrientation = "diagonal" }},
		{"preset", func(c *Config) { c.LabelsPreset = "klingon" }},
		{"labels file", func(c *Config) { c.LabelsFile = filepath.Join(t.TempDir(), "missing.json") }},
	}
	for _, tt := range tests {
		c := base
		tt.mutate(&c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected error", tt.name)
		}
	}
}

func TestLabels_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.json")
	if err := os.WriteFile(path, []byte(`{"part_prefix":"Module"}`), 0644); err != nil {
		t.Fatal(err)
	}
	l, err := Config{LabelsFile: path}.Labels()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.PartPrefix != "Module" || l.ChapterPrefix != "Chapitre" {
		t.Errorf("expected overlay on defaults, got %q / %q", l.PartPrefix, l.ChapterPrefix)
	}
}

func TestLabels_FileOverPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.json")
	if err := os.WriteFile(path, []byte(`{"part_prefix":"Module"}`), 0644); err != nil {
		t.Fatal(err)
	}
	l, err := Config{LabelsPreset: "en", LabelsFile: path}.Labels()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := labels.English()
	if l.PartPrefix != "Module" || l.ChapterPrefix != want.ChapterPrefix {
		t.Errorf("expected overlay on the English preset, got %q / %q", l.PartPrefix, l.ChapterPrefix)
	}
}

func TestRenderOptions_ImagesNeedRoot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret.png")
	if err := os.WriteFile(path, []byte("SECRET"), 0644); err != nil {
		t.Fatal(err)
	}
	opts := Config{}.RenderOptions(labels.French())
	if data, err := opts.Images.Load(path); err == nil {
		t.Errorf("expected file images to be refused without IMAGE_ROOT, got %q", data)
	}

	opts = Config{ImageRoot: filepath.Dir(path)}.RenderOptions(labels.French())
	data, err := opts.Images.Load(filepath.Base(path))
	if err != nil || string(data) != "SECRET" {
		t.Errorf("expected file under IMAGE_ROOT to load, got %q, %v", data, err)
	}
}
