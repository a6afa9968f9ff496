package store

import (
	"github.com/packagewjx/tensorprep/internal/utils"
	"github.com/packagewjx/tensorprep/pkg/core"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"math"
	"time"
)

// RunRecord summarises one array produced by a pipeline run.
type RunRecord struct {
	ID         uint          `json:"id"`
	CreatedAt  time.Time     `json:"created_at"`
	Identifier string        `json:"identifier"`
	Pipeline   string        `json:"pipeline"`
	Shape      []int         `json:"shape"`
	DType      core.DType    `json:"dtype"`
	Mean       float32       `json:"mean"`
	Std        float32       `json:"std"`
	Min        float32       `json:"min"`
	Max        float32       `json:"max"`
	Median     float32       `json:"median"`
	Elapsed    time.Duration `json:"elapsed"`
}

func NewRunRecord(identifier, pipeline string, a *core.Array, elapsed time.Duration) *RunRecord {
	values := a.Values()
	mean, std := stat.PopMeanStdDev(values, nil)
	// the median is taken over the non-NaN elements
	sorted := make([]float32, 0, len(values))
	for _, v := range a.Float32s() {
		if !math.IsNaN(float64(v)) {
			sorted = append(sorted, v)
		}
	}
	return &RunRecord{
		Identifier: identifier,
		Pipeline:   pipeline,
		Shape:      a.Shape(),
		DType:      a.DType(),
		Mean:       float32(mean),
		Std:        float32(std),
		Min:        float32(floats.Min(values)),
		Max:        float32(floats.Max(values)),
		Median:     utils.GetSortedPositionValue(sorted, len(sorted)/2),
		Elapsed:    elapsed,
	}
}
