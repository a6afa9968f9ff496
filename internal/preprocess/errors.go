package preprocess

import "github.com/pkg/errors"

// Error kinds returned by the stages. Stages wrap them with the offending
// value, so the kind is checked with errors.Is.
var (
	ErrConfiguration            = errors.New("configuration error")
	ErrInvalidType              = errors.New("invalid type")
	ErrShapeMismatch            = errors.New("shape mismatch")
	ErrIndexOutOfRange          = errors.New("index out of range")
	ErrInvalidDimensions        = errors.New("invalid dimensions")
	ErrUnsupportedInterpolation = errors.New("unsupported interpolation")
)
