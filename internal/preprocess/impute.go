package preprocess

import (
	"github.com/packagewjx/tensorprep/pkg/core"
	"math"
)

// Impute fills NaN values by linear interpolation along the last axis. A run
// of NaN at the start of a row ramps up from 0, a run at the end ramps down
// to 0, and a row with no valid value becomes zeros.
func Impute() Transform {
	return impute{}
}

type impute struct {
}

func (impute) Name() string {
	return "impute"
}

func (i impute) Apply(data *core.Array, _ core.Metadata) (*core.Array, error) {
	if err := checkInput(i.Name(), data); err != nil {
		return nil, err
	}
	values := data.Values()
	rowLen := data.Dim(data.Rank() - 1)
	for start := 0; start < len(values); start += rowLen {
		imputeRow(values[start : start+rowLen])
	}
	return core.FromFloat64(data.DType(), data.Shape(), values)
}

func imputeRow(row []float64) {
	invalidLeft := -1
	for si := 0; si < len(row); si++ {
		if math.IsNaN(row[si]) {
			if invalidLeft == -1 {
				invalidLeft = si
			}
			continue
		}
		if invalidLeft == -1 {
			continue
		}

		startVal := 0.0
		if invalidLeft != 0 {
			startVal = row[invalidLeft-1]
		}
		k := (row[si] - startVal) / float64(si-invalidLeft+1)
		for j := invalidLeft; j < si; j++ {
			row[j] = startVal + k*float64(j-(invalidLeft-1))
		}
		invalidLeft = -1
	}

	if invalidLeft == -1 {
		return
	}
	if invalidLeft == 0 {
		// no valid value in the row
		for j := range row {
			row[j] = 0
		}
		return
	}
	startVal := row[invalidLeft-1]
	k := -startVal / float64(len(row)-invalidLeft+1)
	for j := invalidLeft; j < len(row); j++ {
		row[j] = startVal + k*float64(j-(invalidLeft-1))
	}
}
