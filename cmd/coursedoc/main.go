// Command coursedoc prints the outline of a course document or exports it as
// PDF, DOC or DOCX without running the HTTP service.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dgallion1/coursedoc/internal/artifact"
	"github.com/dgallion1/coursedoc/internal/config"
	"github.com/dgallion1/coursedoc/internal/course"
	"github.com/dgallion1/coursedoc/internal/labels"
	"github.com/dgallion1/coursedoc/internal/outline"
	"github.com/dgallion1/coursedoc/internal/parser"
	"github.com/dgallion1/coursedoc/internal/pipeline"
	"github.com/dgallion1/coursedoc/internal/render"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1A365D"))

	numberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	typeStyles = map[outline.Type]lipgloss.Style{
		outline.TypeCourse:    titleStyle,
		outline.TypeSection:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2C5282")),
		outline.TypeChapter:   lipgloss.NewStyle().Foreground(lipgloss.Color("#4A5568")),
		outline.TypeParagraph: lipgloss.NewStyle(),
		outline.TypeNotion:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#2F855A")),
		outline.TypeExercise:  lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#FFAA00")),
	}

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)
)

func usage(w io.Writer) {
	fmt.Fprintf(w, "coursedoc - course document outlines and exports\n\n")
	fmt.Fprintf(w, "Usage:\n")
	fmt.Fprintf(w, "  coursedoc outline <file>\n")
	fmt.Fprintf(w, "  coursedoc export [-format pdf|doc|docx] [-orientation portrait|landscape] [-meta meta.json] [-o out] <file>\n")
	fmt.Fprintf(w, "\nSupported inputs: %s\n", strings.Join(supportedExtensions(), " "))
	fmt.Fprintf(w, "\nPage size, margin and labels come from PAGE_SIZE, PAGE_MARGIN, LABELS and LABELS_FILE.\n")
}

func supportedExtensions() []string {
	var exts []string
	for ext := range parser.SupportedExtensions {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return 2
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, errStyle.Render("invalid configuration: "+err.Error()))
		return 1
	}
	lbl, err := cfg.Labels()
	if err != nil {
		fmt.Fprintln(stderr, errStyle.Render("invalid labels: "+err.Error()))
		return 1
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	w := pipeline.NewWorker(lbl, cfg.RenderOptions(lbl), parser.Options{FallbackPdftotext: cfg.PDFFallbackPdftotext}, log)

	switch args[0] {
	case "outline":
		err = runOutline(w, lbl, args[1:], stdout)
	case "export":
		err = runExport(w, args[1:], stdout)
	case "help", "-h", "--help":
		usage(stdout)
		return 0
	default:
		usage(stderr)
		return 2
	}
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(stderr, errStyle.Render("error: "+err.Error()))
		return 1
	}
	return 0
}

func runOutline(w *pipeline.Worker, lbl labels.Labels, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("outline", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("outline takes exactly one file")
	}

	path := fs.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	res, items, err := w.Outline(filepath.Base(path), data)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, titleStyle.Render(res.Title))
	if len(items) == 0 {
		fmt.Fprintln(stdout, numberStyle.Render("(no outline)"))
		return nil
	}
	printOutline(stdout, items, lbl, 0)
	return nil
}

// printOutline writes one line per item, indented by depth.
func printOutline(out io.Writer, items []*outline.Item, lbl labels.Labels, depth int) {
	for _, it := range items {
		style, ok := typeStyles[it.Type]
		if !ok {
			style = lipgloss.NewStyle()
		}
		line := style.Render(it.Type.Label(lbl) + " : " + it.Title)
		if it.Number != "" {
			line = numberStyle.Render(it.Number) + " " + line
		}
		fmt.Fprintln(out, strings.Repeat("  ", depth)+line)
		printOutline(out, it.Children, lbl, depth+1)
	}
}

func runExport(w *pipeline.Worker, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	format := fs.String("format", "pdf", "Export format: pdf, doc or docx")
	orientation := fs.String("orientation", "", "PDF orientation: portrait or landscape (default from DEFAULT_ORIENTATION)")
	metaPath := fs.String("meta", "", "JSON file with course metadata")
	outPath := fs.String("o", "", "Output file (default: derived from the course title)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("export takes exactly one file")
	}

	f, err := artifact.ParseFormat(*format)
	if err != nil {
		return err
	}
	var o render.Orientation
	if *orientation != "" {
		if o, err = render.ParseOrientation(*orientation); err != nil {
			return err
		}
	}
	meta, err := readMeta(*metaPath)
	if err != nil {
		return err
	}

	path := fs.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, _, err := w.Course(filepath.Base(path), data, meta)
	if err != nil {
		return err
	}
	a, err := w.Export(doc, f, o)
	if err != nil {
		return err
	}

	dest := *outPath
	if dest == "" {
		dest = a.Filename
	}
	if err := os.WriteFile(dest, a.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	fmt.Fprintln(stdout, okStyle.Render("✓")+" "+fmt.Sprintf("%s (%d bytes)", dest, len(a.Data)))
	return nil
}

func readMeta(path string) (course.Meta, error) {
	var meta course.Meta
	if path == "" {
		return meta, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("parse %s: %w", path, err)
	}
	return meta, nil
}
