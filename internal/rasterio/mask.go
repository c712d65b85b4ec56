package rasterio

import "github.com/rasterforge/mosaic"

// maskImage adapts an in-memory int32 grid into a mosaic.RoiMask.
type maskImage struct {
	acc *mosaic.MaskAccessor
}

func (m *maskImage) Bounds() mosaic.Rect { return m.acc.Bounds }

func (m *maskImage) Sample(x, y int) int32 {
	if !m.acc.Bounds.Contains(x, y) {
		return 0
	}
	return m.acc.Sample(x, y)
}

func (m *maskImage) GetExtendedData(rect mosaic.Rect, border mosaic.BorderExtender) (*mosaic.MaskAccessor, error) {
	out := mosaic.NewMaskAccessor(rect, border.FillMask())
	bounds := m.acc.Bounds
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if bounds.Contains(x, y) {
				out.Set(x, y, m.acc.Sample(x, y))
			}
		}
	}
	return out, nil
}

// MaskFromThreshold derives a RoiMask from a single-band source image: a
// pixel is "inside" the region iff its band-0 sample strictly exceeds
// threshold.
func MaskFromThreshold(img mosaic.SourceImage, threshold float64) (mosaic.RoiMask, error) {
	bounds := img.Bounds()
	data, err := img.GetExtendedData(bounds, mosaic.ZeroFillExtender{})
	if err != nil {
		return nil, err
	}

	acc := mosaic.NewMaskAccessor(bounds, 0)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			v := data.AsFloat64(x, y, 0)
			if v > threshold {
				acc.Set(x, y, 1)
			}
		}
	}
	return &maskImage{acc: acc}, nil
}
