package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = `# Programmation Go

## Bases

### Syntaxe

#### Variables

Déclarer une variable.

##### Portée
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestRun_Outline(t *testing.T) {
	path := writeFile(t, "go.md", sample)
	var stdout, stderr bytes.Buffer
	if code := run([]string{"outline", path}, &stdout, &stderr); code != 0 {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr.String())
	}

	out := stdout.String()
	for _, want := range []string{"Programmation Go", "Section : Bases", "1.1", "Chapitre : Syntaxe", "1.1.1", "Paragraphe : Variables", "Notion : Portée"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected outline to contain %q, got:\n%s", want, out)
		}
	}
}

func TestRun_Export(t *testing.T) {
	path := writeFile(t, "go.md", sample)
	meta := writeFile(t, "meta.json", `{"title":"Go pour tous","category":"Informatique"}`)

	for _, format := range []string{"pdf", "doc", "docx"} {
		dest := filepath.Join(t.TempDir(), "out."+format)
		var stdout, stderr bytes.Buffer
		code := run([]string{"export", "-format", format, "-orientation", "landscape", "-meta", meta, "-o", dest, path}, &stdout, &stderr)
		if code != 0 {
			t.Fatalf("%s: expected exit 0, got %d: %s", format, code, stderr.String())
		}
		info, err := os.Stat(dest)
		if err != nil {
			t.Fatalf("%s: expected output file: %v", format, err)
		}
		if info.Size() == 0 {
			t.Errorf("%s: expected non-empty output", format)
		}
		if !strings.Contains(stdout.String(), dest) {
			t.Errorf("%s: expected confirmation naming %s, got %q", format, dest, stdout.String())
		}
	}
}

func TestRun_Errors(t *testing.T) {
	path := writeFile(t, "go.md", sample)
	tests := []struct {
		name string
		args []string
		code int
	}{
		{"no args", nil, 2},
		{"unknown command", []string{"convert", path}, 2},
		{"missing file", []string{"outline", filepath.Join(t.TempDir(), "absent.md")}, 1},
		{"too many files", []string{"outline", path, path}, 1},
		{"bad format", []string{"export", "-format", "odt", path}, 1},
		{"bad orientation", []string{"export", "-orientation", "diagonal", path}, 1},
		{"unsupported input", []string{"outline", writeFile(t, "deck.pptx", "x")}, 1},
	}
	for _, tt := range tests {
		var stdout, stderr bytes.Buffer
		if code := run(tt.args, &stdout, &stderr); code != tt.code {
			t.Errorf("%s: expected exit %d, got %d", tt.name, tt.code, code)
		}
	}
}
