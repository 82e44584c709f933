package tilemask

// ChunkStore is the sparse map of mask tiles. Tiles are allocated
// lazily on first write and grow without bound; the store is the store
// of record for mask data, so nothing is ever evicted (see DESIGN.md).
//
// ChunkStore is not safe for concurrent use. The engine mutates it only
// from stroke commits and shape operations, which run to completion on
// one thread.
type ChunkStore struct {
	size      int // tile edge length in pixels
	maxActive int
	padding   int // activation padding ring, in tiles
	clock     Clock
	chunks    map[TileCoord]*Chunk
}

func newChunkStore(size, maxActive, padding int, clock Clock) *ChunkStore {
	return &ChunkStore{
		size:      size,
		maxActive: maxActive,
		padding:   padding,
		clock:     clock,
		chunks:    make(map[TileCoord]*Chunk),
	}
}

// Size returns the tile edge length in pixels.
func (s *ChunkStore) Size() int { return s.size }

// Len returns the number of allocated chunks, empty ones included.
func (s *ChunkStore) Len() int { return len(s.chunks) }

// NonEmptyCount returns the number of chunks holding at least one
// non-zero sample.
func (s *ChunkStore) NonEmptyCount() int {
	n := 0
	for _, c := range s.chunks {
		if !c.Empty {
			n++
		}
	}
	return n
}

// ActiveCount returns the number of chunks currently flagged active.
func (s *ChunkStore) ActiveCount() int {
	n := 0
	for _, c := range s.chunks {
		if c.Active {
			n++
		}
	}
	return n
}

// Get returns the chunk at the given tile coordinate, or nil if none
// has been allocated. Never allocates.
func (s *ChunkStore) Get(coord TileCoord) *Chunk {
	return s.chunks[coord]
}

// GetOrCreate returns the chunk at the given tile coordinate, lazily
// allocating an empty transparent tile on first access.
func (s *ChunkStore) GetOrCreate(coord TileCoord) *Chunk {
	if c, ok := s.chunks[coord]; ok {
		c.Touch(s.clock.Now())
		return c
	}
	c := newChunk(coord, s.size, s.clock.Now())
	s.chunks[coord] = c
	return c
}

// ActivateArea deactivates every chunk, then activates all existing
// chunks whose tile intersects worldRect, followed by a padding ring of
// neighboring tiles for visual context. Activation stops at the
// maxActiveChunks cap; the rect's own tiles are walked first so padding
// can never crowd them out. Returns the number of chunks activated.
func (s *ChunkStore) ActivateArea(worldRect Rect) int {
	for _, c := range s.chunks {
		c.Active = false
	}

	core := TileRectOf(worldRect, s.size)
	now := s.clock.Now()
	count := 0

	activate := func(coord TileCoord) bool {
		if count >= s.maxActive {
			return false
		}
		c, ok := s.chunks[coord]
		if !ok || c.Active {
			return true
		}
		c.Active = true
		c.Touch(now)
		count++
		return true
	}

	// Core tiles in row-major order.
	for y := core.Min.Y; y <= core.Max.Y; y++ {
		for x := core.Min.X; x <= core.Max.X; x++ {
			if !activate(TileCoord{X: x, Y: y}) {
				return count
			}
		}
	}

	// Padding rings, nearest first.
	for ring := 1; ring <= s.padding; ring++ {
		r := core.Expand(ring)
		for x := r.Min.X; x <= r.Max.X; x++ {
			if !activate(TileCoord{X: x, Y: r.Min.Y}) || !activate(TileCoord{X: x, Y: r.Max.Y}) {
				return count
			}
		}
		for y := r.Min.Y + 1; y < r.Max.Y; y++ {
			if !activate(TileCoord{X: r.Min.X, Y: y}) || !activate(TileCoord{X: r.Max.X, Y: y}) {
				return count
			}
		}
	}

	Logger().Debug("tilemask: activated area",
		"tiles", count,
		"core", core,
	)
	return count
}

// ClearAll resets every chunk to empty and drops all entries.
func (s *ChunkStore) ClearAll() {
	n := len(s.chunks)
	for _, c := range s.chunks {
		c.Surface.Clear()
		c.Empty = true
	}
	s.chunks = make(map[TileCoord]*Chunk)
	Logger().Info("tilemask: store cleared", "chunks", n)
}

// BoundsOfNonEmpty returns the tile-aligned bounding range of all
// non-empty chunks. ok is false when no chunk has data.
func (s *ChunkStore) BoundsOfNonEmpty() (TileRect, bool) {
	return s.bounds(func(c *Chunk) bool { return !c.Empty })
}

// BoundsOfActive returns the tile-aligned bounding range of all active
// chunks. ok is false when no chunk is active.
func (s *ChunkStore) BoundsOfActive() (TileRect, bool) {
	return s.bounds(func(c *Chunk) bool { return c.Active })
}

func (s *ChunkStore) bounds(keep func(*Chunk) bool) (TileRect, bool) {
	var r TileRect
	found := false
	for coord, c := range s.chunks {
		if !keep(c) {
			continue
		}
		if !found {
			r = TileRect{Min: coord, Max: coord}
			found = true
			continue
		}
		r = r.Include(coord)
	}
	return r, found
}

// forEachNonEmpty visits every non-empty chunk in row-major tile order.
// Deterministic iteration keeps composite rebuilds reproducible.
func (s *ChunkStore) forEachNonEmpty(fn func(*Chunk)) {
	bounds, ok := s.BoundsOfNonEmpty()
	if !ok {
		return
	}
	for y := bounds.Min.Y; y <= bounds.Max.Y; y++ {
		for x := bounds.Min.X; x <= bounds.Max.X; x++ {
			if c, ok := s.chunks[TileCoord{X: x, Y: y}]; ok && !c.Empty {
				fn(c)
			}
		}
	}
}
