package overlay

import "errors"

var (
	// ErrInvalidLandmarks means the detector output cannot be used to place
	// an accessory. Callers should ask the user to retake the photo.
	ErrInvalidLandmarks = errors.New("invalid landmarks")

	// ErrInvalidPlacement means a placement has no drawable area.
	ErrInvalidPlacement = errors.New("invalid placement")

	// ErrInvalidImage means a source or accessory raster is missing or empty.
	ErrInvalidImage = errors.New("invalid image")
)
