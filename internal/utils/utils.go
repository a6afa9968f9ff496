package utils

import (
	"github.com/pkg/errors"
	"math"
	"strconv"
	"strings"
)

// GetSortedPositionValue returns the value that would be at pos if arr were
// sorted. arr is partially reordered.
func GetSortedPositionValue(arr []float32, pos int) float32 {
	if pos < 0 || pos >= len(arr) {
		return float32(math.NaN())
	}

	l := 0
	r := len(arr) - 1
	for idx := Partition(arr, l, r); idx != pos && l < r; idx = Partition(arr, l, r) {
		if idx < pos {
			l = idx + 1
		} else {
			r = idx - 1
		}
	}

	return arr[pos]
}

func Partition(arr []float32, l, r int) int {
	slice := arr[l : r+1]

	if len(slice) == 0 {
		return l
	}
	m := len(slice) / 2
	slice[0], slice[m] = slice[m], slice[0]
	pivot := slice[0]

	i := 0
	j := len(slice) - 1

	for i < j {
		for i < j && slice[j] > pivot {
			j--
		}
		slice[i] = slice[j]

		for i < j && slice[i] <= pivot {
			i++
		}
		slice[j] = slice[i]
	}
	slice[i] = pivot

	return l + i
}

// FormatShape renders a shape as "2x3x4".
func FormatShape(shape []int) string {
	dims := make([]string, len(shape))
	for i, d := range shape {
		dims[i] = strconv.Itoa(d)
	}
	return strings.Join(dims, "x")
}

func ParseShape(s string) ([]int, error) {
	if s == "" {
		return nil, errors.New("empty shape")
	}
	parts := strings.Split(s, "x")
	shape := make([]int, len(parts))
	for i, p := range parts {
		d, err := strconv.Atoi(p)
		if err != nil {
			return nil, errors.Wrapf(err, "dimension %d of shape %q", i, s)
		}
		shape[i] = d
	}
	return shape, nil
}
