package tilemask

import "time"

// Chunk is one fixed-size tile of the sparse mask store. Chunks are
// created on first write and never destroyed except by a full clear.
type Chunk struct {
	// Coord is the tile's position on the infinite tile grid. The key
	// invariant: a world point (x, y) belongs to the chunk at
	// (floor(x/size), floor(y/size)).
	Coord TileCoord

	// Surface is the chunk's alpha raster, always size x size.
	Surface *Mask

	// Empty is true iff every alpha sample in Surface is 0. Updated by
	// UpdateEmpty after mutations; empty chunks are skipped when the
	// composite is rebuilt.
	Empty bool

	// Dirty marks the chunk as mutated since the last composite build.
	Dirty bool

	// Active flags the chunk for inclusion in the visible composite,
	// independent of emptiness.
	Active bool

	// LastAccess records when the chunk was last written or activated.
	// The store never evicts on its own; hosts may use this for spill
	// policies.
	LastAccess time.Time
}

func newChunk(coord TileCoord, size int, now time.Time) *Chunk {
	return &Chunk{
		Coord:      coord,
		Surface:    NewMask(size, size),
		Empty:      true,
		LastAccess: now,
	}
}

// UpdateEmpty rescans the surface and refreshes the Empty flag.
// Call after any direct mutation of Surface.
func (c *Chunk) UpdateEmpty() {
	c.Empty = c.Surface.IsEmpty()
}

// Touch refreshes the access stamp.
func (c *Chunk) Touch(now time.Time) {
	c.LastAccess = now
}

// WorldOrigin returns the world position of the chunk's top-left pixel.
func (c *Chunk) WorldOrigin(size int) Point {
	return Point{X: float64(c.Coord.X * size), Y: float64(c.Coord.Y * size)}
}
