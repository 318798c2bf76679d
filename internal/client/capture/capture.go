// Package capture provides image capture adapters. A capture yields image
// bytes or reports that the user cancelled; cancellation is not an error.
package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrTooLarge is returned when an image exceeds the configured maximum size.
var ErrTooLarge = errors.New("image too large")

// Image is the outcome of a capture.
type Image struct {
	Data      []byte
	Cancelled bool
}

// Source supplies images.
type Source interface {
	Capture(ctx context.Context) (Image, error)
}

// Func adapts a function to Source.
type Func func(ctx context.Context) (Image, error)

func (f Func) Capture(ctx context.Context) (Image, error) {
	return f(ctx)
}

// FileSource reads an image from a file on disk. An empty path means the user
// dismissed the picker and yields a cancelled capture.
type FileSource struct {
	Path     string
	MaxBytes int64
}

// NewFileSource returns a FileSource for path limited to maxBytes
// (no limit when maxBytes <= 0).
func NewFileSource(path string, maxBytes int64) *FileSource {
	return &FileSource{Path: strings.TrimSpace(path), MaxBytes: maxBytes}
}

func (s *FileSource) Capture(ctx context.Context) (Image, error) {
	if s.Path == "" {
		return Image{Cancelled: true}, nil
	}
	if err := ctx.Err(); err != nil {
		return Image{}, err
	}

	f, err := os.Open(s.Path)
	if err != nil {
		return Image{}, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if s.MaxBytes > 0 {
		r = io.LimitReader(f, s.MaxBytes+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return Image{}, fmt.Errorf("read image: %w", err)
	}
	if s.MaxBytes > 0 && int64(len(data)) > s.MaxBytes {
		return Image{}, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, s.MaxBytes)
	}
	return Image{Data: data}, nil
}
