package rasterio

import "github.com/rasterforge/mosaic"

// StaticImage adapts a fully in-memory ExtendedTileAccessor into a
// mosaic.SourceImage / mosaic.AlphaImage, for sources that were decoded or
// synthesized once rather than read lazily from a mapped file.
type StaticImage struct {
	acc *mosaic.ExtendedTileAccessor
}

// NewStaticImage wraps acc as a SourceImage over its own bounds.
func NewStaticImage(acc *mosaic.ExtendedTileAccessor) *StaticImage {
	return &StaticImage{acc: acc}
}

func (s *StaticImage) Bounds() mosaic.Rect         { return s.acc.Bounds }
func (s *StaticImage) Format() mosaic.SampleFormat { return s.acc.Format }
func (s *StaticImage) Bands() int                  { return s.acc.Bands }

func (s *StaticImage) GetExtendedData(rect mosaic.Rect, border mosaic.BorderExtender) (*mosaic.ExtendedTileAccessor, error) {
	out := mosaic.NewExtendedTileAccessor(s.acc.Format, s.acc.Bands, rect, 0)
	fill := border.FillData(s.acc.Format)
	bounds := s.acc.Bounds
	for b := 0; b < s.acc.Bands; b++ {
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			for x := rect.Min.X; x < rect.Max.X; x++ {
				if bounds.Contains(x, y) {
					out.Set(x, y, b, s.acc.AsFloat64(x, y, b))
				} else {
					out.Set(x, y, b, fill)
				}
			}
		}
	}
	return out, nil
}
