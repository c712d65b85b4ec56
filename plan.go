package mosaic

// Mode selects the compositing mode.
type Mode int

const (
	// Overlay writes the first accepting source's value at each pixel.
	Overlay Mode = iota
	// Blend writes the weighted mean of all contributing sources.
	Blend
)

// LayoutHint optionally supplies the destination rectangle and sample
// model when no sources are given, or to override the derived union of
// source bounds.
type LayoutHint struct {
	Rect       Rect
	Format     SampleFormat
	BandCount  int
	HasRect    bool
	HasFormat  bool
}

// PlanOptions are the inputs to NewPlan.
type PlanOptions struct {
	Mode              Mode
	Sources           []SourceDescriptor
	DestinationNoData []float64 // broadcast if shorter than band count
	LayoutHint        *LayoutHint
}

// Plan is the immutable, per-operator compositing plan. It
// owns its no-data LUTs and destination no-data vector. A Plan is
// read-only after construction and safe to share across goroutines.
type Plan struct {
	Mode       Mode
	Sources    []SourceDescriptor
	DestRect   Rect
	Format     SampleFormat
	BandCount  int

	destNoDataF64 []float64 // one per band
	destNoDataU8  []byte
	destNoDataU16 []uint16
	destNoDataI16 []int16
	destNoDataI32 []int32
	destNoDataF32 []float32

	luts []*noDataLUT // index by source index; nil entry if not U8 or no no-data

	isAlphaBitmaskUsed bool
}

// NewPlan validates sources and options, derives the output layout, and
// builds the per-source no-data LUTs. It is the only place
// errors are raised; the compositing path never fails.
func NewPlan(opts PlanOptions) (*Plan, error) {
	if err := validateSources(opts.Sources); err != nil {
		return nil, err
	}

	format, bandCount, rect, err := deriveLayout(opts.Sources, opts.LayoutHint)
	if err != nil {
		return nil, err
	}
	if !format.IsValid() {
		return nil, newPlanError(KindUnsupportedSampleFormat, format.String())
	}

	destNoData := broadcastNoData(opts.DestinationNoData, bandCount)

	p := &Plan{
		Mode:          opts.Mode,
		Sources:       opts.Sources,
		DestRect:      rect,
		Format:        format,
		BandCount:     bandCount,
		destNoDataF64: destNoData,
	}
	p.materializeTypedNoData()
	p.isAlphaBitmaskUsed = computeIsAlphaBitmaskUsed(opts.Sources)
	p.buildLUTs()

	return p, nil
}

func validateSources(sources []SourceDescriptor) error {
	if len(sources) == 0 {
		return nil
	}

	first := sources[0].Image
	format := first.Format()
	bandCount := first.Bands()

	for i, sd := range sources {
		if sd.Image == nil {
			return newPlanError(KindSourceCountMismatch, "nil source image")
		}
		if sd.Image.Format() != format {
			return newPlanError(KindMismatchedSampleFormat, indexDetail(i))
		}
		if sd.Image.Bands() != bandCount {
			return newPlanError(KindMismatchedBandCount, indexDetail(i))
		}
		if sd.Alpha != nil {
			if sd.Alpha.Bands() != 1 {
				return newPlanError(KindMismatchedBandCount, "alpha must be single-band: "+indexDetail(i))
			}
			if sd.Alpha.Format() != format {
				return newPlanError(KindMismatchedSampleFormat, "alpha format mismatch: "+indexDetail(i))
			}
		}
		if sd.NoData != nil && sd.NoData.Format() != format {
			return newPlanError(KindInvalidNoDataRange, indexDetail(i))
		}
	}
	return nil
}

func indexDetail(i int) string {
	return "source " + itoa(i)
}

// itoa avoids pulling in strconv for a one-off int->string conversion in
// the (cold) error-construction path.
func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var buf [20]byte
	pos := len(buf)
	for i > 0 {
		pos--
		buf[pos] = byte('0' + i%10)
		i /= 10
	}
	if neg {
		pos--
		buf[pos] = '-'
	}
	return string(buf[pos:])
}

func deriveLayout(sources []SourceDescriptor, hint *LayoutHint) (SampleFormat, int, Rect, error) {
	if hint != nil && hint.HasRect && hint.HasFormat {
		return hint.Format, hint.BandCount, hint.Rect, nil
	}

	if len(sources) == 0 {
		return 0, 0, Rect{}, newPlanError(KindInvalidLayout, "no sources and no usable layout hint")
	}

	format := sources[0].Image.Format()
	bandCount := sources[0].Image.Bands()

	var rect Rect
	if hint != nil && hint.HasRect {
		rect = hint.Rect
	} else {
		for _, sd := range sources {
			rect = rect.Union(sd.Image.Bounds())
		}
	}
	return format, bandCount, rect, nil
}

func broadcastNoData(in []float64, bandCount int) []float64 {
	out := make([]float64, bandCount)
	if len(in) == 0 {
		return out
	}
	for b := 0; b < bandCount; b++ {
		if b < len(in) {
			out[b] = in[b]
		} else {
			out[b] = in[len(in)-1]
		}
	}
	return out
}

func (p *Plan) materializeTypedNoData() {
	n := p.BandCount
	p.destNoDataU8 = make([]byte, n)
	p.destNoDataU16 = make([]uint16, n)
	p.destNoDataI16 = make([]int16, n)
	p.destNoDataI32 = make([]int32, n)
	p.destNoDataF32 = make([]float32, n)
	for b := 0; b < n; b++ {
		v := p.destNoDataF64[b]
		p.destNoDataU8[b] = clampU8(v)
		p.destNoDataU16[b] = clampU16(v)
		p.destNoDataI16[b] = clampI16(v)
		p.destNoDataI32[b] = clampI32(v)
		p.destNoDataF32[b] = clampF32(v)
		// F64 destination no-data reuses destNoDataF64 directly; no
		// separate typed vector is materialized.
	}
}

// computeIsAlphaBitmaskUsed implements the (counter-intuitive, preserved
// verbatim) reference rule: alpha is used as a bitmask rather than a
// proportional weight iff at least one source has an alpha image and at
// least one does not.
func computeIsAlphaBitmaskUsed(sources []SourceDescriptor) bool {
	haveAlpha, lackAlpha := false, false
	for _, sd := range sources {
		if sd.Alpha != nil {
			haveAlpha = true
		} else {
			lackAlpha = true
		}
	}
	return haveAlpha && lackAlpha
}

func (p *Plan) buildLUTs() {
	p.luts = make([]*noDataLUT, len(p.Sources))
	if p.Format != U8 {
		return
	}
	for i, sd := range p.Sources {
		if sd.NoData == nil {
			continue
		}
		p.luts[i] = buildNoDataLUT(*sd.NoData, p.BandCount, p.destNoDataU8)
	}
}

// WeightKind classifies how a source's per-pixel weight/acceptance is
// derived.
type WeightKind int

const (
	WeightNone WeightKind = iota
	WeightAlpha
	WeightROI
)

func weightKindFor(sd SourceDescriptor) WeightKind {
	if sd.Alpha != nil {
		return WeightAlpha
	}
	if sd.Roi != nil {
		return WeightROI
	}
	return WeightNone
}
