// Package export copies the source images backing matched frames into a
// per-run directory, so a user can review what a match actually looked
// like without re-running the matcher against the original stream.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/silvaine/sprestream/internal/annot"
)

// Exporter copies matched-frame images under one run directory, named with
// a fresh uuid so that concurrent or repeated invocations never clobber
// each other's output.
type Exporter struct {
	runDir string
}

// New creates a fresh run directory under dir and returns an Exporter
// rooted there.
func New(dir string) (*Exporter, error) {
	runDir := filepath.Join(dir, uuid.NewString())
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("export: creating run directory: %w", err)
	}
	return &Exporter{runDir: runDir}, nil
}

// RunDir returns the directory this Exporter's files are written under.
func (e *Exporter) RunDir() string {
	return e.runDir
}

// CopyFrame copies the image backing sample into the run directory, named
// after the owning stream and frame index. A sample with no image
// (Image.Path == "") is silently skipped.
func (e *Exporter) CopyFrame(streamName string, frame annot.Frame, sample annot.Sample) error {
	if sample.Image.Path == "" {
		return nil
	}

	name := fmt.Sprintf("%s_frame%06d%s", sanitize(streamName), frame.Index, filepath.Ext(sample.Image.Path))
	dst := filepath.Join(e.runDir, name)

	return copyFile(sample.Image.Path, dst)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("export: opening %q: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("export: creating %q: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("export: copying %q to %q: %w", src, dst, err)
	}
	return nil
}

func sanitize(name string) string {
	replaced := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if replaced == "" {
		return "stream"
	}
	return replaced
}
