package stage

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fogleman/gg"
)

// errNoPixelReader is returned by pick dumps on backends that cannot read
// back a whole target.
var errNoPixelReader = errors.New("backend cannot read back targets")

// PickBufferImage renders the pick buffer for mode if it is not current and
// returns a copy of its pixels.
func (s *Stage) PickBufferImage(mode PickMode) (*image.RGBA, error) {
	if !s.realized || s.width <= 0 || s.height <= 0 {
		return nil, ErrUnready
	}
	pr, ok := s.backend.(PixelReader)
	if !ok {
		return nil, backendError("read pixels", errNoPixelReader)
	}
	if !s.pick.usable(mode, s.clip) {
		if err := s.renderPickBuffer(mode); err != nil {
			return nil, err
		}
	}
	img, err := pr.ReadPixels(s.pick.target)
	if err != nil {
		return nil, backendError("read pixels", err)
	}
	return img, nil
}

// WritePickDump writes the current pick buffer as a PNG into the configured
// dump directory, with the last committed redraw clip outlined in red and
// pending damage in yellow. It returns the file path.
func (s *Stage) WritePickDump(label string) (string, error) {
	mode := s.pick.mode
	img, err := s.PickBufferImage(mode)
	if err != nil {
		return "", fmt.Errorf("pick dump: %w", err)
	}

	dc := gg.NewContextForRGBA(img)
	dc.SetLineWidth(1)

	last := s.clip.LastFrame()
	dc.SetRGBA(1, 0, 0, 1)
	if last.Full {
		strokeBox(dc, last.Bounds)
	}
	for _, r := range last.Regions {
		strokeBox(dc, r)
	}
	if s.clip.State() != RedrawClean {
		dc.SetRGBA(1, 1, 0, 1)
		dc.SetDash(4, 2)
		strokeBox(dc, s.clip.Bounds())
	}

	dir := s.cfg.DumpDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("pick dump: mkdir %s: %w", dir, err)
	}
	name := fmt.Sprintf("%s_%s_%s.png", time.Now().Format("20060102_150405"), sanitizeLabel(label), mode)
	path := filepath.Join(dir, name)
	if err := dc.SavePNG(path); err != nil {
		return "", fmt.Errorf("pick dump: %w", err)
	}
	return path, nil
}

// strokeBox outlines b along pixel centers so the line stays inside b.
func strokeBox(dc *gg.Context, b Box) {
	if b.IsEmpty() {
		return
	}
	dc.DrawRectangle(b.X+0.5, b.Y+0.5, b.Width-1, b.Height-1)
	dc.Stroke()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
