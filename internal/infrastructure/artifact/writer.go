package artifact

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"conduit-e2e/internal/domain/entity"

	"github.com/disintegration/imaging"
)

const (
	MaxWidth    = 1280
	jpegQuality = 75
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Writer stores failure evidence for a test under Dir.
type Writer struct {
	Dir string
	now func() time.Time
}

func NewWriter(dir string) *Writer {
	return &Writer{Dir: dir, now: time.Now}
}

// SaveScreenshot writes shot as <test>_<timestamp>.jpg, downscaling anything
// wider than MaxWidth. It returns the written path.
func (w *Writer) SaveScreenshot(test string, shot *entity.Screenshot) (string, error) {
	if shot == nil || len(shot.Data) == 0 {
		return "", fmt.Errorf("empty screenshot")
	}
	data, err := Downscale(shot.Data, MaxWidth)
	if err != nil {
		return "", err
	}
	return w.write(test, "jpg", data)
}

// SaveHTML writes the cleaned body markup of a page dump. See CleanSnapshot.
func (w *Writer) SaveHTML(test, html string) (string, error) {
	return w.write(test, "html", []byte(CleanSnapshot(html)))
}

func (w *Writer) write(test, ext string, data []byte) (string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create artifacts dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s.%s", FileName(test), w.now().Format("20060102-150405.000"), ext)
	path := filepath.Join(w.Dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write artifact: %w", err)
	}
	return path, nil
}

// Downscale re-encodes img as JPEG no wider than maxWidth.
func Downscale(data []byte, maxWidth int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("image decode failed: %w", err)
	}
	if img.Bounds().Dx() > maxWidth {
		img = imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
	}
	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}
	return buf.Bytes(), nil
}

// FileName turns a test name such as TestLogin/invalid_credentials into a
// file-system safe stem.
func FileName(test string) string {
	s := unsafeChars.ReplaceAllString(strings.ReplaceAll(test, "/", "__"), "_")
	s = strings.Trim(s, "_")
	if s == "" {
		return "test"
	}
	return s
}
