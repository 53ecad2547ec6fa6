package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dgallion1/coursedoc/internal/labels"
	"github.com/dgallion1/coursedoc/internal/render"
)

type Config struct {
	Port string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF import
	PDFFallbackPdftotext bool

	// PDF export
	PageSize           string
	PageMargin         float64
	DefaultOrientation string
	ImageRoot          string

	// Labels: a preset name ("fr", "en") and an optional JSON overlay.
	LabelsPreset string
	LabelsFile   string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),

		PageSize:           envOr("PAGE_SIZE", "A4"),
		PageMargin:         envFloat("PAGE_MARGIN", render.DefaultMargin),
		DefaultOrientation: envOr("DEFAULT_ORIENTATION", string(render.Portrait)),
		ImageRoot:          os.Getenv("IMAGE_ROOT"),

		LabelsPreset: envOr("LABELS", "fr"),
		LabelsFile:   os.Getenv("LABELS_FILE"),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.PageMargin <= 0 {
		cfg.PageMargin = render.DefaultMargin
	}

	return cfg
}

func (c Config) Validate() error {
	if _, _, err := render.PageSize(c.PageSize); err != nil {
		return fmt.Errorf("PAGE_SIZE: %w", err)
	}
	if _, err := render.ParseOrientation(c.DefaultOrientation); err != nil {
		return fmt.Errorf("DEFAULT_ORIENTATION: %w", err)
	}
	if _, err := c.Labels(); err != nil {
		return fmt.Errorf("LABELS: %w", err)
	}
	return nil
}

// Labels resolves the preset and applies the overlay file, if any.
func (c Config) Labels() (labels.Labels, error) {
	base, err := labels.ByName(c.LabelsPreset)
	if err != nil {
		return labels.Labels{}, err
	}
	return labels.Overlay(base, c.LabelsFile)
}

// RenderOptions builds the PDF renderer options for this configuration.
func (c Config) RenderOptions(l labels.Labels) render.Options {
	o, _ := render.ParseOrientation(c.DefaultOrientation)
	return render.Options{
		Orientation: o,
		PageSize:    c.PageSize,
		Margin:      c.PageMargin,
		Labels:      &l,
		Images:      render.FileImages{Root: c.ImageRoot},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
