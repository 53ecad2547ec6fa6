package render

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ImageLoader resolves an image reference from a course document to raw
// image bytes.
type ImageLoader interface {
	Load(ref string) ([]byte, error)
}

// FileImages loads data: URIs and local files. Paths are resolved under Root
// and may not escape it; without a Root only data: URIs load. Remote URLs are
// refused.
type FileImages struct {
	Root string
}

var (
	errRemoteImage = errors.New("remote images are not fetched")
	errNoImageRoot = errors.New("image files are not read without an image root")
)

func (f FileImages) Load(ref string) ([]byte, error) {
	if rest, ok := strings.CutPrefix(ref, "data:"); ok {
		meta, payload, found := strings.Cut(rest, ",")
		if !found {
			return nil, fmt.Errorf("malformed data uri")
		}
		if strings.HasSuffix(meta, ";base64") {
			return base64.StdEncoding.DecodeString(payload)
		}
		s, err := url.PathUnescape(payload)
		return []byte(s), err
	}
	if strings.Contains(ref, "://") {
		return nil, errRemoteImage
	}
	if f.Root == "" {
		return nil, errNoImageRoot
	}
	return os.ReadFile(filepath.Join(f.Root, filepath.Clean("/"+ref)))
}

// toPNG decodes any registered image format and re-encodes it as PNG so the
// surface sees a single format.
func toPNG(data []byte) ([]byte, int, int, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, 0, 0, fmt.Errorf("empty image")
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, 0, 0, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), b.Dx(), b.Dy(), nil
}

// coverImage draws the cover image centered at y and returns its height, or
// 0 when there is nothing to draw. Failures are logged and skipped.
func (l *layout) coverImage(ref string, y float64) float64 {
	if ref == "" || l.images == nil {
		return 0
	}
	data, err := l.images.Load(ref)
	if err != nil {
		l.log.Warn("cover image skipped", "image", ref, "error", err)
		return 0
	}
	pngData, pw, ph, err := toPNG(data)
	if err != nil {
		l.log.Warn("cover image skipped", "image", ref, "error", err)
		return 0
	}

	w := l.contentWidth() * 0.6
	h := w * float64(ph) / float64(pw)
	if maxH := l.height / 3; h > maxH {
		h = maxH
		w = h * float64(pw) / float64(ph)
	}
	if err := l.s.Image("cover", pngData, (l.width-w)/2, y, w, h); err != nil {
		l.log.Warn("cover image skipped", "image", ref, "error", err)
		return 0
	}
	return h
}
