package preprocess

import (
	"fmt"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"math"
	"reflect"
	"sort"
	"strings"
)

// StageConfig describes one stage: its type and a flat map of named options.
type StageConfig struct {
	Type    string                 `mapstructure:"type" json:"type"`
	Options map[string]interface{} `mapstructure:"options" json:"options,omitempty"`
}

const (
	StageZScore  = "zscore"
	StageMinMax  = "minmax"
	StageScale   = "scale"
	StageImpute  = "impute"
	StageOnehot  = "onehot"
	StageReshape = "reshape"
	StageResize  = "resize"
)

type stageFactory func(options map[string]interface{}) (Transform, error)

var factories = map[string]stageFactory{
	StageZScore: withoutOptions(StageZScore, ZScore()),
	StageMinMax: withoutOptions(StageMinMax, MinMax()),
	StageImpute: withoutOptions(StageImpute, Impute()),
	StageScale: func(options map[string]interface{}) (Transform, error) {
		opts := struct {
			Scalar *float64 `mapstructure:"scalar"`
		}{}
		if err := decodeOptions(StageScale, options, &opts); err != nil {
			return nil, err
		}
		if opts.Scalar == nil {
			return nil, errors.Wrap(ErrConfiguration, "scale: option scalar is required")
		}
		return NewScale(*opts.Scalar)
	},
	StageOnehot: func(options map[string]interface{}) (Transform, error) {
		opts := struct {
			NumClasses int     `mapstructure:"num_classes"`
			Tolerance  float64 `mapstructure:"tolerance"`
		}{Tolerance: DefaultOnehotTolerance}
		if err := decodeOptions(StageOnehot, options, &opts); err != nil {
			return nil, err
		}
		return NewOnehot(opts.NumClasses, opts.Tolerance)
	},
	StageReshape: func(options map[string]interface{}) (Transform, error) {
		opts := struct {
			Shape []int `mapstructure:"shape"`
		}{}
		if err := decodeOptions(StageReshape, options, &opts); err != nil {
			return nil, err
		}
		return NewReshape(opts.Shape)
	},
	StageResize: func(options map[string]interface{}) (Transform, error) {
		opts := ResizeOptions{Interpolation: DefaultInterpolation}
		if err := decodeOptions(StageResize, options, &opts); err != nil {
			return nil, err
		}
		return NewResize(opts)
	},
}

func withoutOptions(stage string, t Transform) stageFactory {
	return func(options map[string]interface{}) (Transform, error) {
		if err := decodeOptions(stage, options, &struct{}{}); err != nil {
			return nil, err
		}
		return t, nil
	}
}

// StageTypes lists the stage types known to BuildPipeline.
func StageTypes() []string {
	types := make([]string, 0, len(factories))
	for t := range factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// rejectFractionalInts stops the weakly typed decoder from truncating a
// float such as 2.7 into an int option.
func rejectFractionalInts(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}
	var f float64
	switch from.Kind() {
	case reflect.Float32, reflect.Float64:
		f = reflect.ValueOf(data).Float()
	default:
		return data, nil
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%v is not an integer", data)
	}
	return data, nil
}

func decodeOptions(stage string, options map[string]interface{}, result interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       rejectFractionalInts,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           result,
	})
	if err != nil {
		return errors.Wrapf(ErrConfiguration, "%s: %v", stage, err)
	}
	if options == nil {
		return nil
	}
	if err := decoder.Decode(options); err != nil {
		return errors.Wrapf(ErrConfiguration, "%s: %v", stage, err)
	}
	return nil
}

func NewStage(config StageConfig) (Transform, error) {
	factory, ok := factories[strings.ToLower(config.Type)]
	if !ok {
		return nil, errors.Wrapf(ErrConfiguration, "unknown stage type %q, expected one of %s",
			config.Type, strings.Join(StageTypes(), ", "))
	}
	return factory(config.Options)
}

// BuildPipeline constructs every stage up front, so that a bad configuration
// fails before any data is processed.
func BuildPipeline(configs []StageConfig) (*Pipeline, error) {
	stages := make([]Transform, len(configs))
	for i, config := range configs {
		stage, err := NewStage(config)
		if err != nil {
			return nil, errors.Wrapf(err, "stage %d", i)
		}
		stages[i] = stage
	}
	return NewPipeline(stages...), nil
}
