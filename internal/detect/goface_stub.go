//go:build !goface

package detect

import (
	"context"

	"github.com/kozaktomas/looksmaxxer/internal/overlay"
)

// GoFaceAvailable reports whether the in-process detector is compiled in.
const GoFaceAvailable = false

// GoFaceDetector is a placeholder for builds without the goface tag.
type GoFaceDetector struct{}

// NewGoFaceDetector always fails without the goface build tag.
func NewGoFaceDetector(string) (*GoFaceDetector, error) {
	return nil, ErrDetectorUnavailable
}

func (d *GoFaceDetector) Name() string { return "goface" }

func (d *GoFaceDetector) Detect(context.Context, []byte) (*overlay.LandmarkSet, error) {
	return nil, ErrDetectorUnavailable
}

func (d *GoFaceDetector) Close() {}
