package store

import (
	"github.com/packagewjx/tensorprep/internal/utils"
	"github.com/packagewjx/tensorprep/pkg/core"
	"gorm.io/gorm"
	"time"
)

type RunRecordDO struct {
	gorm.Model
	Identifier string `gorm:"index;size:255"`
	Pipeline   string `gorm:"size:1024"`
	Shape      string `gorm:"size:255"`
	DType      string `gorm:"size:16"`
	Mean       float32
	Std        float32
	Min        float32
	Max        float32
	Median     float32
	ElapsedMs  int64
}

func fromRecord(r *RunRecord) *RunRecordDO {
	return &RunRecordDO{
		Identifier: r.Identifier,
		Pipeline:   r.Pipeline,
		Shape:      utils.FormatShape(r.Shape),
		DType:      string(r.DType),
		Mean:       r.Mean,
		Std:        r.Std,
		Min:        r.Min,
		Max:        r.Max,
		Median:     r.Median,
		ElapsedMs:  r.Elapsed.Milliseconds(),
	}
}

func (do *RunRecordDO) toRecord() (*RunRecord, error) {
	shape, err := utils.ParseShape(do.Shape)
	if err != nil {
		return nil, err
	}
	return &RunRecord{
		ID:         do.ID,
		CreatedAt:  do.CreatedAt,
		Identifier: do.Identifier,
		Pipeline:   do.Pipeline,
		Shape:      shape,
		DType:      core.DType(do.DType),
		Mean:       do.Mean,
		Std:        do.Std,
		Min:        do.Min,
		Max:        do.Max,
		Median:     do.Median,
		Elapsed:    time.Duration(do.ElapsedMs) * time.Millisecond,
	}, nil
}
