package utils

import (
	"encoding/csv"
	"fmt"
	"github.com/packagewjx/tensorprep/pkg/core"
	"github.com/pkg/errors"
	"io"
	"strconv"
)

// WriteArrayCSV writes a as a table with one row per entry of the first
// dimension and the remaining dimensions flattened into columns.
func WriteArrayCSV(out io.Writer, a *core.Array, precision int) error {
	writer := csv.NewWriter(out)

	rows := a.Dim(0)
	cols := a.Size() / rows
	record := make([]string, cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			v := a.At(r*cols + c)
			if a.DType() == core.Int32 {
				record[c] = strconv.FormatInt(int64(v), 10)
			} else {
				record[c] = strconv.FormatFloat(v, 'f', precision, 32)
			}
		}
		err := writer.Write(record)
		if err != nil {
			return errors.Wrap(err, fmt.Sprintf("writing row %d", r))
		}
	}

	writer.Flush()
	return writer.Error()
}
