package mosaic

// memImage is an in-memory SourceImage/AlphaImage test double: a single
// ExtendedTileAccessor exactly covering its own bounds, with
// GetExtendedData resampling into a border-extended view of the
// requested rect.
type memImage struct {
	bounds Rect
	format SampleFormat
	bands  int
	data   *ExtendedTileAccessor
}

func newMemImage(bounds Rect, format SampleFormat, bands int) *memImage {
	return &memImage{
		bounds: bounds,
		format: format,
		bands:  bands,
		data:   NewExtendedTileAccessor(format, bands, bounds, 0),
	}
}

func (m *memImage) Bounds() Rect         { return m.bounds }
func (m *memImage) Format() SampleFormat { return m.format }
func (m *memImage) Bands() int           { return m.bands }

func (m *memImage) Set(x, y, band int, v float64) {
	m.data.Set(x, y, band, v)
}

func (m *memImage) GetExtendedData(rect Rect, border BorderExtender) (*ExtendedTileAccessor, error) {
	out := NewExtendedTileAccessor(m.format, m.bands, rect, 0)
	for b := 0; b < m.bands; b++ {
		fill := border.FillData(m.format)
		for y := rect.Min.Y; y < rect.Max.Y; y++ {
			for x := rect.Min.X; x < rect.Max.X; x++ {
				if m.bounds.Contains(x, y) {
					out.Set(x, y, b, m.data.AsFloat64(x, y, b))
				} else {
					out.Set(x, y, b, fill)
				}
			}
		}
	}
	return out, nil
}

// memMask is an in-memory RoiMask test double.
type memMask struct {
	bounds Rect
	data   *MaskAccessor
}

func newMemMask(bounds Rect) *memMask {
	return &memMask{bounds: bounds, data: NewMaskAccessor(bounds, 0)}
}

func (m *memMask) Bounds() Rect { return m.bounds }

func (m *memMask) Sample(x, y int) int32 {
	if !m.bounds.Contains(x, y) {
		return 0
	}
	return m.data.Sample(x, y)
}

func (m *memMask) Set(x, y int, v int32) {
	m.data.Set(x, y, v)
}

func (m *memMask) GetExtendedData(rect Rect, border BorderExtender) (*MaskAccessor, error) {
	out := NewMaskAccessor(rect, border.FillMask())
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if m.bounds.Contains(x, y) {
				out.Set(x, y, m.data.Sample(x, y))
			}
		}
	}
	return out, nil
}
