package mosaic

// SourceImage is a random-access typed raster over integer pixel
// coordinates with a rectangular bounds. Hosts supply concrete
// implementations (file-backed, mmap'd, in-memory); the compositor core
// only ever consumes this interface.
type SourceImage interface {
	// Bounds returns the rectangle of pixels this image actually covers.
	Bounds() Rect

	// Format returns the sample format of this image's pixels.
	Format() SampleFormat

	// Bands returns the number of bands (channels) this image carries.
	Bands() int

	// GetExtendedData returns a typed accessor over rect, padded with the
	// border policy's fill value outside the image's real bounds.
	GetExtendedData(rect Rect, border BorderExtender) (*ExtendedTileAccessor, error)
}

// AlphaImage is a single-band raster sharing its source's sample format,
// supplying per-pixel coverage/opacity.
type AlphaImage interface {
	SourceImage
}

// RoiMask supplies a single-band region-of-interest predicate: a pixel is
// "inside" the region iff Sample returns a strictly positive value.
// Rasterizing a vector region of interest into a mask is a host concern;
// the compositor core only samples an already-rasterized mask.
type RoiMask interface {
	// Sample returns the mask value at (x, y), band 0. Values > 0 mean
	// "inside"; values <= 0 mean "outside".
	Sample(x, y int) int32

	// Bounds returns the rectangle the mask actually covers.
	Bounds() Rect

	// GetExtendedData returns a typed accessor over rect, zero-padded
	// outside the mask's real bounds.
	GetExtendedData(rect Rect, border BorderExtender) (*MaskAccessor, error)
}

// BorderExtender selects the fill policy used when an ExtendedTileAccessor
// is materialized over a rectangle that extends past a source's real
// bounds.
type BorderExtender interface {
	// FillData returns the pad value for a data (non-mask) accessor of
	// the given format.
	FillData(format SampleFormat) float64

	// FillMask returns the pad value for an alpha/ROI accessor (always
	// zero under both extender variants below.
	FillMask() int32
}

// ZeroFillExtender pads with zero for data, alpha, and ROI accessors.
type ZeroFillExtender struct{}

func (ZeroFillExtender) FillData(SampleFormat) float64 { return 0 }
func (ZeroFillExtender) FillMask() int32                { return 0 }

// SaturatedLowExtender pads data accessors with the format's
// saturated-low sentinel and alpha/ROI accessors with
// zero. This is the extender the compositor uses for source data
// accessors; ZeroFillExtender is used for alpha/ROI accessors.
type SaturatedLowExtender struct{}

func (SaturatedLowExtender) FillData(format SampleFormat) float64 { return format.padValueF64() }
func (SaturatedLowExtender) FillMask() int32                       { return 0 }

// SourceDescriptor bundles one source image with its optional alpha mask,
// ROI mask, and no-data range.
type SourceDescriptor struct {
	Image   SourceImage
	Alpha   AlphaImage // nil if this source has no alpha channel
	Roi     RoiMask    // nil if this source has no ROI mask
	NoData  *NoDataRange
	Index   int
}
