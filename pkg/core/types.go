package core

import (
	"fmt"
	"github.com/pkg/errors"
	"math"
	"strconv"
	"strings"
)

type DType string

const (
	Float32 = DType("float32")
	Int32   = DType("int32")
)

func ParseDType(s string) (DType, error) {
	switch DType(strings.ToLower(s)) {
	case Float32:
		return Float32, nil
	case Int32:
		return Int32, nil
	default:
		return "", errors.Wrapf(ErrInvalidArray, "unknown dtype %q, expected float32 or int32", s)
	}
}

var ErrInvalidArray = errors.New("invalid array")

// Metadata is the auxiliary sidecar passed along an array through a pipeline.
type Metadata map[string]interface{}

// Array is an N-dimensional numeric buffer in row-major order. Only one of the
// two backing slices is set, according to the element type. Arrays are not
// modified after construction.
type Array struct {
	shape []int
	dtype DType
	f32   []float32
	i32   []int32
}

func checkShape(shape []int, length int) error {
	if len(shape) == 0 {
		return errors.Wrap(ErrInvalidArray, "shape must not be empty")
	}
	size := 1
	for i, d := range shape {
		if d <= 0 {
			return errors.Wrapf(ErrInvalidArray, "dimension %d of shape %v is %d, must be positive", i, shape, d)
		}
		size *= d
	}
	if size != length {
		return errors.Wrapf(ErrInvalidArray, "shape %v holds %d elements, data has %d", shape, size, length)
	}
	return nil
}

// NewFloat32 wraps data with the given shape. The array takes ownership of data.
func NewFloat32(shape []int, data []float32) (*Array, error) {
	if err := checkShape(shape, len(data)); err != nil {
		return nil, err
	}
	return &Array{shape: copyShape(shape), dtype: Float32, f32: data}, nil
}

// NewInt32 wraps data with the given shape. The array takes ownership of data.
func NewInt32(shape []int, data []int32) (*Array, error) {
	if err := checkShape(shape, len(data)); err != nil {
		return nil, err
	}
	return &Array{shape: copyShape(shape), dtype: Int32, i32: data}, nil
}

// FromFloat64 builds an array of the given type. For int32 values are rounded
// half away from zero and saturated to the int32 range, NaN becomes 0.
func FromFloat64(dtype DType, shape []int, values []float64) (*Array, error) {
	switch dtype {
	case Float32:
		data := make([]float32, len(values))
		for i, v := range values {
			data[i] = float32(v)
		}
		return NewFloat32(shape, data)
	case Int32:
		data := make([]int32, len(values))
		for i, v := range values {
			data[i] = saturateInt32(v)
		}
		return NewInt32(shape, data)
	default:
		return nil, errors.Wrapf(ErrInvalidArray, "unknown dtype %q", dtype)
	}
}

func saturateInt32(v float64) int32 {
	if math.IsNaN(v) {
		return 0
	}
	r := math.Floor(math.Abs(v) + 0.5)
	if v < 0 {
		r = -r
	}
	if r > math.MaxInt32 {
		return math.MaxInt32
	}
	if r < math.MinInt32 {
		return math.MinInt32
	}
	return int32(r)
}

func ShapeSize(shape []int) int {
	size := 1
	for _, d := range shape {
		size *= d
	}
	return size
}

func copyShape(shape []int) []int {
	s := make([]int, len(shape))
	copy(s, shape)
	return s
}

func (a *Array) Shape() []int {
	return copyShape(a.shape)
}

func (a *Array) Rank() int {
	return len(a.shape)
}

func (a *Array) Dim(i int) int {
	return a.shape[i]
}

func (a *Array) DType() DType {
	return a.dtype
}

func (a *Array) Size() int {
	if a.dtype == Int32 {
		return len(a.i32)
	}
	return len(a.f32)
}

// At returns the i-th element in row-major order.
func (a *Array) At(i int) float64 {
	if a.dtype == Int32 {
		return float64(a.i32[i])
	}
	return float64(a.f32[i])
}

// Values returns a float64 copy of all elements.
func (a *Array) Values() []float64 {
	values := make([]float64, a.Size())
	for i := range values {
		values[i] = a.At(i)
	}
	return values
}

// Float32s returns a float32 copy of all elements.
func (a *Array) Float32s() []float32 {
	data := make([]float32, a.Size())
	if a.dtype == Float32 {
		copy(data, a.f32)
		return data
	}
	for i, v := range a.i32 {
		data[i] = float32(v)
	}
	return data
}

// Int32s returns the elements of an int32 array. It returns nil for float32 arrays.
func (a *Array) Int32s() []int32 {
	if a.dtype != Int32 {
		return nil
	}
	data := make([]int32, len(a.i32))
	copy(data, a.i32)
	return data
}

// Reshaped returns a copy of the array with a new shape holding the same elements.
func (a *Array) Reshaped(shape []int) (*Array, error) {
	if a.dtype == Int32 {
		return NewInt32(shape, a.Int32s())
	}
	return NewFloat32(shape, a.Float32s())
}

// Equal reports whether both arrays have the same type, shape and elements.
func (a *Array) Equal(b *Array) bool {
	if a.dtype != b.dtype || len(a.shape) != len(b.shape) || a.Size() != b.Size() {
		return false
	}
	for i := range a.shape {
		if a.shape[i] != b.shape[i] {
			return false
		}
	}
	for i := 0; i < a.Size(); i++ {
		if a.At(i) != b.At(i) {
			return false
		}
	}
	return true
}

func (a *Array) String() string {
	dims := make([]string, len(a.shape))
	for i, d := range a.shape {
		dims[i] = strconv.Itoa(d)
	}
	return fmt.Sprintf("Array(%s, shape=(%s))", a.dtype, strings.Join(dims, ", "))
}
