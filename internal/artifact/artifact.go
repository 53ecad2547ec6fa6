package artifact

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Format is an export format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOC  Format = "doc"
	FormatDOCX Format = "docx"
)

// ParseFormat accepts a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatDOC, FormatDOCX:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format: %q", s)
}

// Ext returns the file extension, dot included.
func (f Format) Ext() string {
	return "." + string(f)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDOC:
		return "application/msword"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/octet-stream"
}

// Artifact is a finished export, ready to be handed to the user.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// New packages data under the conventional filename for title.
func New(title string, f Format, data []byte) Artifact {
	return Artifact{
		Filename:    Filename(title, f),
		ContentType: f.ContentType(),
		Data:        data,
	}
}

var (
	spaceRe   = regexp.MustCompile(`\s+`)
	nonWordRe = regexp.MustCompile(`[^A-Za-z0-9_]`)
)

// Filename derives a download name from a document title: accents folded,
// whitespace runs replaced by underscores, other non-word characters dropped.
func Filename(title string, f Format) string {
	folded, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), title)
	if err != nil {
		folded = title
	}
	name := spaceRe.ReplaceAllString(strings.TrimSpace(folded), "_")
	name = nonWordRe.ReplaceAllString(name, "")
	if strings.Trim(name, "_") == "" {
		name = "document"
	}
	return name + f.Ext()
}
