package btree

import "github.com/rs/zerolog"

type options struct {
	cacheSize  int
	logger     zerolog.Logger
	syncWrites bool
}

// Option configures a Tree at Create or Open time.
type Option func(*options)

// WithCache enables an LRU of the given number of node locations. 0 disables it.
func WithCache(size int) Option {
	return func(o *options) { o.cacheSize = size }
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSyncWrites makes every node write wait for fsync.
func WithSyncWrites(on bool) Option {
	return func(o *options) { o.syncWrites = on }
}

func buildOptions(opts []Option) (options, error) {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cacheSize < 0 {
		return o, invalidf("cache size %d is negative", o.cacheSize)
	}
	return o, nil
}
