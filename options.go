package tilemask

import "time"

// Default engine configuration.
const (
	// DefaultChunkSize is the edge length in pixels of one chunk tile.
	DefaultChunkSize = 512

	// DefaultMaxActiveChunks caps how many chunks ActivateArea may flag
	// for the visible composite at once.
	DefaultMaxActiveChunks = 64

	// DefaultActivationPadding is the ring of neighboring tiles activated
	// around the requested area for visual context.
	DefaultActivationPadding = 1

	// DefaultThrottleInterval bounds recomputation of drag-driven work
	// (compositor patches, contour previews) to roughly once per frame.
	DefaultThrottleInterval = 16 * time.Millisecond

	// DefaultStampCacheCapacity is the number of precomputed brush stamps
	// kept per engine.
	DefaultStampCacheCapacity = 64
)

// Option configures an Engine during creation.
//
// Example:
//
//	// Default 512px chunks:
//	eng := tilemask.New()
//
//	// Small chunks and a deterministic clock for tests:
//	eng := tilemask.New(tilemask.WithChunkSize(64), tilemask.WithClock(clock))
type Option func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	chunkSize          int
	maxActiveChunks    int
	activationPadding  int
	throttleInterval   time.Duration
	clock              Clock
	stampCacheCapacity int
}

// defaultOptions returns the default engine options.
func defaultOptions() engineOptions {
	return engineOptions{
		chunkSize:          DefaultChunkSize,
		maxActiveChunks:    DefaultMaxActiveChunks,
		activationPadding:  DefaultActivationPadding,
		throttleInterval:   DefaultThrottleInterval,
		clock:              systemClock{},
		stampCacheCapacity: DefaultStampCacheCapacity,
	}
}

// WithChunkSize sets the edge length in pixels of one chunk tile.
// Values below 1 are ignored.
func WithChunkSize(size int) Option {
	return func(o *engineOptions) {
		if size >= 1 {
			o.chunkSize = size
		}
	}
}

// WithMaxActiveChunks caps how many chunks may be activated at once.
// Values below 1 are ignored.
func WithMaxActiveChunks(n int) Option {
	return func(o *engineOptions) {
		if n >= 1 {
			o.maxActiveChunks = n
		}
	}
}

// WithActivationPadding sets the ring of neighboring tiles activated
// around a requested area. Negative values are ignored.
func WithActivationPadding(tiles int) Option {
	return func(o *engineOptions) {
		if tiles >= 0 {
			o.activationPadding = tiles
		}
	}
}

// WithThrottleInterval sets the minimum spacing between executions of
// drag-driven work (compositor patches, contour previews).
// Zero disables throttling; negative values are ignored.
func WithThrottleInterval(d time.Duration) Option {
	return func(o *engineOptions) {
		if d >= 0 {
			o.throttleInterval = d
		}
	}
}

// WithClock injects the time source used for throttling and chunk
// access stamps. Use this for deterministic tests.
func WithClock(c Clock) Option {
	return func(o *engineOptions) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithStampCacheCapacity sets how many precomputed brush stamps the
// engine caches. Values below 1 are ignored.
func WithStampCacheCapacity(n int) Option {
	return func(o *engineOptions) {
		if n >= 1 {
			o.stampCacheCapacity = n
		}
	}
}
