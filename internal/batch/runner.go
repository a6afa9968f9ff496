package batch

import (
	"context"
	"github.com/packagewjx/tensorprep/internal/datasource"
	"github.com/packagewjx/tensorprep/internal/preprocess"
	"github.com/packagewjx/tensorprep/pkg/core"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"log"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

const MetadataIdentifier = "identifier"

type Result struct {
	Identifier string
	Array      *core.Array
	Metadata   core.Metadata
	Elapsed    time.Duration
}

// Sink receives each processed array. Calls are never concurrent.
type Sink func(result *Result) error

// Runner loads each identifier from Source and feeds it through Pipeline, with
// at most Concurrency items in flight. The first failure cancels the rest.
type Runner struct {
	Source      datasource.SourceAdapter
	Pipeline    *preprocess.Pipeline
	Concurrency int
	Logger      *log.Logger
}

func (r *Runner) Run(ctx context.Context, identifiers []string, sink Sink) error {
	if r.Source == nil || r.Pipeline == nil {
		return errors.New("runner needs a source and a pipeline")
	}
	logger := r.Logger
	if logger == nil {
		logger = log.New(os.Stdout, "batch: ", log.LstdFlags|log.Lshortfile|log.Lmsgprefix)
	}
	concurrency := r.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	start := time.Now()
	errGrp, gCtx := errgroup.WithContext(ctx)
	errGrp.SetLimit(concurrency)
	sinkLock := sync.Mutex{}
	var processed int64

	for _, identifier := range identifiers {
		if gCtx.Err() != nil {
			break
		}
		id := identifier
		errGrp.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			result, err := r.process(id)
			if err != nil {
				return errors.Wrapf(err, "%s", id)
			}

			sinkLock.Lock()
			defer sinkLock.Unlock()
			if err := gCtx.Err(); err != nil {
				return err
			}
			if err := sink(result); err != nil {
				return errors.Wrapf(err, "%s", id)
			}
			atomic.AddInt64(&processed, 1)
			return nil
		})
	}

	err := errGrp.Wait()
	if err == nil && atomic.LoadInt64(&processed) < int64(len(identifiers)) {
		err = ctx.Err()
	}
	if err != nil {
		logger.Printf("stopped after %d of %d items: %v", atomic.LoadInt64(&processed), len(identifiers), err)
		return err
	}
	logger.Printf("processed %d items in %v", len(identifiers), time.Since(start))
	return nil
}

func (r *Runner) process(identifier string) (*Result, error) {
	start := time.Now()
	data, err := r.Source.Load(identifier)
	if err != nil {
		return nil, err
	}
	metadata := core.Metadata{MetadataIdentifier: identifier}
	out, err := r.Pipeline.Apply(data, metadata)
	if err != nil {
		return nil, err
	}
	return &Result{
		Identifier: identifier,
		Array:      out,
		Metadata:   metadata,
		Elapsed:    time.Since(start),
	}, nil
}
