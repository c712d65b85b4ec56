// Package tilepool partitions a destination rectangle into a grid of
// disjoint tiles and runs ComposeTile over them concurrently, scheduling
// work the way exr's ParallelFor schedules per-scanline encode/decode
// work: a fixed worker count draining a shared queue.
package tilepool

import "github.com/rasterforge/mosaic"

// Grid partitions rect into a row-major sequence of tiles at most
// tileWidth x tileHeight each. The final tile in each row/column is
// clipped to rect, never padded. tileWidth and tileHeight must be
// positive.
func Grid(rect mosaic.Rect, tileWidth, tileHeight int) []mosaic.Rect {
	if rect.IsEmpty() || tileWidth <= 0 || tileHeight <= 0 {
		return nil
	}

	var tiles []mosaic.Rect
	for y := rect.Min.Y; y < rect.Max.Y; y += tileHeight {
		y1 := y + tileHeight
		if y1 > rect.Max.Y {
			y1 = rect.Max.Y
		}
		for x := rect.Min.X; x < rect.Max.X; x += tileWidth {
			x1 := x + tileWidth
			if x1 > rect.Max.X {
				x1 = rect.Max.X
			}
			tiles = append(tiles, mosaic.Rect{
				Min: mosaic.Point{X: x, Y: y},
				Max: mosaic.Point{X: x1, Y: y1},
			})
		}
	}
	return tiles
}
