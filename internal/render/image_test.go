package render

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileImages_DataURI(t *testing.T) {
	got, err := FileImages{}.Load("data:text/plain,caf%C3%A9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != "café" {
		t.Errorf("expected %q, got %q", "café", got)
	}
	if _, err := (FileImages{}).Load("data:image/png;base64"); err == nil {
		t.Error("expected error for data uri without payload")
	}
}

func TestFileImages_NoRootRefusesFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret.png")
	if err := os.WriteFile(path, []byte("SECRET"), 0o600); err != nil {
		t.Fatal(err)
	}
	for _, ref := range []string{path, "secret.png", "../secret.png"} {
		got, err := FileImages{}.Load(ref)
		if !errors.Is(err, errNoImageRoot) {
			t.Errorf("%s: expected errNoImageRoot, got %v", ref, err)
		}
		if got != nil {
			t.Errorf("%s: expected no data, got %q", ref, got)
		}
	}
}

func TestFileImages_RootConfinesPaths(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "cover.png"), []byte("COVER"), 0o600); err != nil {
		t.Fatal(err)
	}
	outside := filepath.Join(filepath.Dir(root), "outside.png")
	os.WriteFile(outside, []byte("OUTSIDE"), 0o600)
	defer os.Remove(outside)

	images := FileImages{Root: root}
	for _, ref := range []string{"cover.png", "/cover.png", "./sub/../cover.png"} {
		got, err := images.Load(ref)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", ref, err)
			continue
		}
		if string(got) != "COVER" {
			t.Errorf("%s: expected COVER, got %q", ref, got)
		}
	}
	if got, err := images.Load("../outside.png"); err == nil {
		t.Errorf("expected ../outside.png to stay under the root, got %q", got)
	}
	if _, err := images.Load("https://example.com/cover.png"); !errors.Is(err, errRemoteImage) {
		t.Errorf("expected errRemoteImage, got %v", err)
	}
}
