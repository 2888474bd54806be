package bmpzc

import (
	"log"

	"github.com/mrjoshuak/bmpzc/internal/parallel"
)

// Options configures how the pipeline distributes work across goroutines
// and where it reports non-fatal header warnings. It is built from a set
// of Option values the way exr.ParallelConfig is assembled in the teacher
// corpus, but scoped per call instead of mutated through a package global.
type Options struct {
	parallel parallel.Config
	logger   *log.Logger
}

// Option configures a single aspect of Options.
type Option func(*Options)

// WithWorkers sets the number of goroutines used for the row-parallel and
// group-parallel transforms. 0 (the default) uses GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(o *Options) { o.parallel.Workers = n }
}

// WithGrainSize sets the minimum number of rows/groups per worker before
// the work is split across goroutines at all.
func WithGrainSize(n int) Option {
	return func(o *Options) { o.parallel.GrainSize = n }
}

// WithLogger overrides where header-stage warnings are written. The
// default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(o *Options) { o.logger = l }
}

func newOptions(opts ...Option) Options {
	o := Options{
		parallel: parallel.DefaultConfig(),
		logger:   log.Default(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
