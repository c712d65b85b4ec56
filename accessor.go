package mosaic

import "unsafe"

// ExtendedTileAccessor gives random typed access to a source's pixel data
// over a requested rectangle, padded to that rectangle with a
// format-specific fill value outside the source's real bounds. It backs
// both SourceImage and AlphaImage accessors; the
// compositor loops address it by (x, y, band) with per-band, per-row, and
// per-pixel strides so a single buffer layout serves band-interleaved or
// band-planar storage transparently.
//
// Construction always copies into owned storage: concurrent tile
// extractions never share a mutable buffer.
type ExtendedTileAccessor struct {
	Format SampleFormat
	Bands  int
	Bounds Rect // the rectangle this accessor covers (the requested rect)

	buf        []byte // owned backing storage, keeps base alive
	base       unsafe.Pointer
	bandStride int // bytes from band i to band i+1 at the same pixel
	rowStride  int // bytes between rows within one band
	pixStride  int // bytes between adjacent pixels within one row
}

// NewExtendedTileAccessor allocates a band-planar accessor over rect,
// filled uniformly with fill (converted to the destination format), for
// use by in-memory SourceImage/AlphaImage implementations and tests.
//
//go:nocheckptr
func NewExtendedTileAccessor(format SampleFormat, bands int, rect Rect, fill float64) *ExtendedTileAccessor {
	w, h := rect.Width(), rect.Height()
	sampleSize := format.Size()
	planeSize := w * h * sampleSize
	buf := make([]byte, bands*planeSize)

	a := &ExtendedTileAccessor{
		Format:     format,
		Bands:      bands,
		Bounds:     rect,
		buf:        buf,
		bandStride: planeSize,
		rowStride:  w * sampleSize,
		pixStride:  sampleSize,
	}
	if len(buf) > 0 {
		a.base = unsafe.Pointer(&buf[0])
	}
	a.fillAll(fill)
	return a
}

func (a *ExtendedTileAccessor) fillAll(fill float64) {
	if a.base == nil {
		return
	}
	w, h := a.Bounds.Width(), a.Bounds.Height()
	for band := 0; band < a.Bands; band++ {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				a.setFloat64(a.Bounds.Min.X+x, a.Bounds.Min.Y+y, band, fill)
			}
		}
	}
}

//go:nocheckptr
func (a *ExtendedTileAccessor) addr(x, y, band int) unsafe.Pointer {
	dx := x - a.Bounds.Min.X
	dy := y - a.Bounds.Min.Y
	offset := band*a.bandStride + dy*a.rowStride + dx*a.pixStride
	return unsafe.Pointer(uintptr(a.base) + uintptr(offset))
}

// U8 reads the sample at (x, y, band) as uint8. Only valid when
// Format == U8.
//
//go:nocheckptr
func (a *ExtendedTileAccessor) U8(x, y, band int) uint8 {
	return *(*uint8)(a.addr(x, y, band))
}

// U16 reads the sample at (x, y, band) as uint16. Only valid when
// Format == U16.
//
//go:nocheckptr
func (a *ExtendedTileAccessor) U16(x, y, band int) uint16 {
	return *(*uint16)(a.addr(x, y, band))
}

// I16 reads the sample at (x, y, band) as int16. Only valid when
// Format == I16.
//
//go:nocheckptr
func (a *ExtendedTileAccessor) I16(x, y, band int) int16 {
	return *(*int16)(a.addr(x, y, band))
}

// I32 reads the sample at (x, y, band) as int32. Only valid when
// Format == I32.
//
//go:nocheckptr
func (a *ExtendedTileAccessor) I32(x, y, band int) int32 {
	return *(*int32)(a.addr(x, y, band))
}

// F32 reads the sample at (x, y, band) as float32. Only valid when
// Format == F32.
//
//go:nocheckptr
func (a *ExtendedTileAccessor) F32(x, y, band int) float32 {
	return *(*float32)(a.addr(x, y, band))
}

// F64 reads the sample at (x, y, band) as float64. Only valid when
// Format == F64.
//
//go:nocheckptr
func (a *ExtendedTileAccessor) F64(x, y, band int) float64 {
	return *(*float64)(a.addr(x, y, band))
}

// AsFloat64 reads the sample at (x, y, band), converting to float64
// regardless of Format. Used for alpha-weight computation, where the
// same formula applies across all six formats.
//
//go:nocheckptr
func (a *ExtendedTileAccessor) AsFloat64(x, y, band int) float64 {
	switch a.Format {
	case U8:
		return float64(a.U8(x, y, band))
	case U16:
		return float64(a.U16(x, y, band))
	case I16:
		return float64(a.I16(x, y, band))
	case I32:
		return float64(a.I32(x, y, band))
	case F32:
		return float64(a.F32(x, y, band))
	case F64:
		return a.F64(x, y, band)
	default:
		return 0
	}
}

//go:nocheckptr
func (a *ExtendedTileAccessor) setFloat64(x, y, band int, v float64) {
	switch a.Format {
	case U8:
		*(*uint8)(a.addr(x, y, band)) = uint8(v)
	case U16:
		*(*uint16)(a.addr(x, y, band)) = uint16(v)
	case I16:
		*(*int16)(a.addr(x, y, band)) = int16(v)
	case I32:
		*(*int32)(a.addr(x, y, band)) = int32(v)
	case F32:
		*(*float32)(a.addr(x, y, band)) = float32(v)
	case F64:
		*(*float64)(a.addr(x, y, band)) = v
	}
}

// Set writes a sample at (x, y, band), converting from float64 to the
// accessor's native format. Used by in-memory SourceImage test doubles
// and adapters to populate an accessor's backing storage.
func (a *ExtendedTileAccessor) Set(x, y, band int, v float64) {
	a.setFloat64(x, y, band, v)
}

// MaskAccessor gives random int32 access to a RoiMask's values over a
// requested rectangle, zero-padded outside the mask's real bounds.
type MaskAccessor struct {
	Bounds Rect
	buf    []int32
	width  int
}

// NewMaskAccessor allocates a mask accessor over rect, filled uniformly
// with fill.
func NewMaskAccessor(rect Rect, fill int32) *MaskAccessor {
	w, h := rect.Width(), rect.Height()
	buf := make([]int32, w*h)
	if fill != 0 {
		for i := range buf {
			buf[i] = fill
		}
	}
	return &MaskAccessor{Bounds: rect, buf: buf, width: w}
}

// Sample returns the mask value at (x, y).
func (m *MaskAccessor) Sample(x, y int) int32 {
	dx := x - m.Bounds.Min.X
	dy := y - m.Bounds.Min.Y
	return m.buf[dy*m.width+dx]
}

// Set writes the mask value at (x, y).
func (m *MaskAccessor) Set(x, y int, v int32) {
	dx := x - m.Bounds.Min.X
	dy := y - m.Bounds.Min.Y
	m.buf[dy*m.width+dx] = v
}
