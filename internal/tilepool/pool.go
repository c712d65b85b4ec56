package tilepool

import (
	"runtime"
	"sync"

	"github.com/rasterforge/mosaic"
)

// Config configures concurrent tile composition.
type Config struct {
	// NumWorkers is the number of worker goroutines. 0 means
	// runtime.GOMAXPROCS(0).
	NumWorkers int

	// TileWidth and TileHeight bound each scheduled tile. Zero selects
	// DefaultTileSize for both.
	TileWidth, TileHeight int
}

// DefaultTileSize is the tile edge length used when a Config leaves
// TileWidth/TileHeight unset.
const DefaultTileSize = 256

func (c Config) effectiveWorkers() int {
	if c.NumWorkers <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.NumWorkers
}

func (c Config) effectiveTileSize() (int, int) {
	w, h := c.TileWidth, c.TileHeight
	if w <= 0 {
		w = DefaultTileSize
	}
	if h <= 0 {
		h = DefaultTileSize
	}
	return w, h
}

// TileResult pairs a composed tile with the rectangle it covers.
type TileResult struct {
	Rect mosaic.Rect
	Tile *mosaic.DestinationTile
}

// ComposeAll partitions plan.DestRect into a grid per cfg and runs
// mosaic.ComposeTile over every tile concurrently across cfg's worker
// pool. ComposeTile is documented as safe to call concurrently over
// disjoint destination rectangles against the same Plan, so no
// synchronization is needed beyond collecting results.
//
// Returns the first error encountered, if any; in that case no results
// are returned.
func ComposeAll(plan *mosaic.Plan, cfg Config) ([]TileResult, error) {
	tileW, tileH := cfg.effectiveTileSize()
	tiles := Grid(plan.DestRect, tileW, tileH)
	if len(tiles) == 0 {
		return nil, nil
	}

	numWorkers := cfg.effectiveWorkers()
	if numWorkers > len(tiles) {
		numWorkers = len(tiles)
	}

	results := make([]TileResult, len(tiles))
	jobs := make(chan int, len(tiles))
	for i := range tiles {
		jobs <- i
	}
	close(jobs)

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)

	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				tile, err := mosaic.ComposeTile(plan, tiles[i])
				if err != nil {
					errOnce.Do(func() { firstErr = err })
					continue
				}
				results[i] = TileResult{Rect: tiles[i], Tile: tile}
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}
