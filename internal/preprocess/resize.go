package preprocess

import (
	"github.com/packagewjx/tensorprep/pkg/core"
	"github.com/pkg/errors"
	"math"
)

type ResizeOptions struct {
	TargetHeight    int           `mapstructure:"target_height"`
	TargetWidth     int           `mapstructure:"target_width"`
	Interpolation   Interpolation `mapstructure:"interpolation"`
	KeepAspectRatio bool          `mapstructure:"keep_aspect_ratio"`
}

// NewResize resizes (height, width, ...) arrays to the target size. With
// KeepAspectRatio the input is first padded with zeros to the target ratio.
func NewResize(opts ResizeOptions) (Transform, error) {
	if opts.TargetHeight <= 0 || opts.TargetWidth <= 0 {
		return nil, errors.Wrapf(ErrInvalidDimensions, "resize: target size must be positive, got (%d, %d)",
			opts.TargetHeight, opts.TargetWidth)
	}
	interpolation, err := ParseInterpolation(string(opts.Interpolation))
	if err != nil {
		return nil, errors.Wrap(err, "resize")
	}
	opts.Interpolation = interpolation
	return resize{opts: opts}, nil
}

type resize struct {
	opts ResizeOptions
}

func (resize) Name() string {
	return "resize"
}

// PadMargins returns the zero border that brings a height x width image to the
// aspect ratio of targetHeight x targetWidth. The top, or left, margin takes
// the larger half when the total padding is odd.
func PadMargins(height, width, targetHeight, targetWidth int) (top, bottom, left, right int) {
	// width/height >= targetWidth/targetHeight
	if width*targetHeight >= targetWidth*height {
		pad := (float64(width)*float64(targetHeight)/float64(targetWidth) - float64(height)) / 2
		return int(math.Ceil(pad)), int(math.Floor(pad)), 0, 0
	}
	pad := (float64(height)*float64(targetWidth)/float64(targetHeight) - float64(width)) / 2
	return 0, 0, int(math.Ceil(pad)), int(math.Floor(pad))
}

// pad copies a height x width x channels buffer into a larger zero buffer.
func pad(values []float64, height, width, channels, top, bottom, left, right int) ([]float64, int, int) {
	newHeight := height + top + bottom
	newWidth := width + left + right
	out := make([]float64, newHeight*newWidth*channels)
	for y := 0; y < height; y++ {
		src := values[y*width*channels : (y+1)*width*channels]
		dst := ((y+top)*newWidth + left) * channels
		copy(out[dst:dst+len(src)], src)
	}
	return out, newHeight, newWidth
}

func (r resize) Apply(data *core.Array, _ core.Metadata) (*core.Array, error) {
	if err := checkInput(r.Name(), data); err != nil {
		return nil, err
	}
	if data.Rank() < 2 {
		return nil, errors.Wrapf(ErrInvalidDimensions, "resize: expected at least 2 spatial dimensions, got shape %v", data.Shape())
	}

	shape := data.Shape()
	height, width := shape[0], shape[1]
	channels := core.ShapeSize(shape[2:])
	values := data.Values()

	if r.opts.KeepAspectRatio {
		top, bottom, left, right := PadMargins(height, width, r.opts.TargetHeight, r.opts.TargetWidth)
		values, height, width = pad(values, height, width, channels, top, bottom, left, right)
	}

	out := r.interpolate(values, height, width, channels)
	outShape := append([]int{r.opts.TargetHeight, r.opts.TargetWidth}, shape[2:]...)
	return core.FromFloat64(data.DType(), outShape, out)
}

// interpolate runs the horizontal pass then the vertical pass.
func (r resize) interpolate(values []float64, height, width, channels int) []float64 {
	th, tw := r.opts.TargetHeight, r.opts.TargetWidth
	xTaps := r.opts.Interpolation.taps(width, tw)
	yTaps := r.opts.Interpolation.taps(height, th)

	tmp := make([]float64, height*tw*channels)
	for y := 0; y < height; y++ {
		row := values[y*width*channels:]
		for x, t := range xTaps {
			dst := (y*tw + x) * channels
			for c := 0; c < channels; c++ {
				sum := 0.0
				for k, s := range t.index {
					sum += t.weight[k] * row[s*channels+c]
				}
				tmp[dst+c] = sum
			}
		}
	}

	out := make([]float64, th*tw*channels)
	for y, t := range yTaps {
		for x := 0; x < tw; x++ {
			dst := (y*tw + x) * channels
			for c := 0; c < channels; c++ {
				sum := 0.0
				for k, s := range t.index {
					sum += t.weight[k] * tmp[(s*tw+x)*channels+c]
				}
				out[dst+c] = sum
			}
		}
	}
	return out
}
