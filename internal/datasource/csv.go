package datasource

import (
	"encoding/csv"
	"github.com/packagewjx/tensorprep/pkg/core"
	"github.com/pkg/errors"
	"io"
	"strconv"
	"strings"
)

// CSVReader reads a numeric CSV table into a (rows, columns) float32 array.
// Columns listed in RemoveColumns, counted from 0, are skipped.
type CSVReader struct {
	ParentPath    string
	RemoveColumns []int
}

func (c *CSVReader) Load(identifier string) (*core.Array, error) {
	path := resolvePath(c.ParentPath, identifier)
	file, err := openSource(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()

	a, err := c.Read(file)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return a, nil
}

func (c *CSVReader) Read(in io.Reader) (*core.Array, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1

	removeSet := make(map[int]struct{})
	for _, rc := range c.RemoveColumns {
		removeSet[rc] = struct{}{}
	}

	data := make([]float32, 0, 16)
	columns := -1
	recordRead := 0
	var record []string
	var err error
	for record, err = reader.Read(); err == nil; record, err = reader.Read() {
		recordRead++

		count := 0
		for i := 0; i < len(record); i++ {
			if _, ok := removeSet[i]; ok {
				continue
			}
			f, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 32)
			if err != nil {
				return nil, errors.Wrapf(ErrDecode, "row %d column %d is %q, not a number", recordRead, i, record[i])
			}
			data = append(data, float32(f))
			count++
		}

		if columns == -1 {
			columns = count
		} else if count != columns {
			return nil, errors.Wrapf(ErrDecode, "row %d has %d columns, expected %d", recordRead, count, columns)
		}
	}

	if err != io.EOF {
		return nil, errors.Wrapf(ErrDecode, "reading csv: %v", err)
	}
	if recordRead == 0 || columns == 0 {
		return nil, errors.Wrap(ErrDecode, "csv has no data")
	}

	return core.NewFloat32([]int{recordRead, columns}, data)
}
