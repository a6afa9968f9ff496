package datasource

import (
	"github.com/packagewjx/tensorprep/pkg/core"
	"github.com/pkg/errors"
	"os"
	"path/filepath"
)

var (
	ErrSourceNotFound = errors.New("source not found")
	ErrDecode         = errors.New("decode error")
)

// SourceAdapter turns an identifier, usually a file path, into a raw array.
type SourceAdapter interface {
	Load(identifier string) (*core.Array, error)
}

type SourceType string

const (
	Image = SourceType("image")
	CSV   = SourceType("csv")
)

type Config struct {
	Type          SourceType `mapstructure:"type"`
	ParentPath    string     `mapstructure:"parent_path"`
	GreyScale     bool       `mapstructure:"grey_scale"`
	RemoveColumns []int      `mapstructure:"remove_columns"`
}

func NewSourceAdapter(config *Config) (SourceAdapter, error) {
	switch config.Type {
	case Image, "":
		return &ImageReader{ParentPath: config.ParentPath, GreyScale: config.GreyScale}, nil
	case CSV:
		return &CSVReader{ParentPath: config.ParentPath, RemoveColumns: config.RemoveColumns}, nil
	default:
		return nil, errors.Errorf("unknown source type %q, expected image or csv", config.Type)
	}
}

func resolvePath(parentPath, identifier string) string {
	return filepath.Clean(filepath.Join(parentPath, identifier))
}

func openSource(path string) (*os.File, error) {
	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrapf(ErrSourceNotFound, "%s", path)
	} else if err != nil {
		return nil, errors.Wrapf(ErrSourceNotFound, "%s: %v", path, err)
	}
	stat, err := file.Stat()
	if err == nil && stat.IsDir() {
		_ = file.Close()
		return nil, errors.Wrapf(ErrSourceNotFound, "%s is a directory", path)
	}
	return file, nil
}
