package core

import (
	"encoding/json"
	"github.com/pkg/errors"
	"math"
)

// ArrayJSON is the wire form of an Array.
type ArrayJSON struct {
	Shape []int     `json:"shape"`
	DType DType     `json:"dtype"`
	Data  []float64 `json:"data"`
}

// MarshalJSON fails with ErrInvalidArray when an element is NaN or infinite.
func (a *Array) MarshalJSON() ([]byte, error) {
	values := a.Values()
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, errors.Wrapf(ErrInvalidArray, "element %d is %v, which JSON cannot hold", i, v)
		}
	}
	return json.Marshal(&ArrayJSON{
		Shape: a.Shape(),
		DType: a.dtype,
		Data:  values,
	})
}

// Array converts the wire form. A missing dtype means float32, and int32 data
// must hold whole numbers.
func (w *ArrayJSON) Array() (*Array, error) {
	dtype := Float32
	if w.DType != "" {
		var err error
		dtype, err = ParseDType(string(w.DType))
		if err != nil {
			return nil, err
		}
	}
	if dtype == Int32 {
		for i, v := range w.Data {
			if v != math.Trunc(v) || v > math.MaxInt32 || v < math.MinInt32 {
				return nil, errors.Wrapf(ErrInvalidArray, "element %d (%v) is not an int32", i, v)
			}
		}
	}
	return FromFloat64(dtype, w.Shape, w.Data)
}

func (a *Array) UnmarshalJSON(b []byte) error {
	wire := ArrayJSON{}
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	decoded, err := wire.Array()
	if err != nil {
		return err
	}
	*a = *decoded
	return nil
}
