package hdf5io

import (
	"github.com/sirupsen/logrus"

	"github.com/robert-malhotra/go-simplnx/dataio"
)

// Option configures a Reader or Writer.
type Option func(*options)

type options struct {
	collection *dataio.Collection
	oocFormat  string
	threshold  uint64
	force      bool
	log        *logrus.Logger
}

func defaultOptions() *options {
	return &options{log: logrus.StandardLogger()}
}

func newOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithCollection sets the collection whose store factories create arrays
// that carry a DataFormat or exceed the out-of-core threshold.
func WithCollection(c *dataio.Collection) Option {
	return func(o *options) {
		o.collection = c
	}
}

// WithOutOfCore loads arrays whose payload exceeds threshold bytes through
// the store factory registered for format. Zero disables the policy.
func WithOutOfCore(format string, threshold uint64) Option {
	return func(o *options) {
		o.oocFormat = format
		o.threshold = threshold
	}
}

// WithForcedOutOfCore loads every array through the store factory
// registered for format, whatever its size.
func WithForcedOutOfCore(format string) Option {
	return func(o *options) {
		o.oocFormat = format
		o.force = true
	}
}

// WithLogger sets the logger for progress and absorbed failures.
func WithLogger(l *logrus.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}
