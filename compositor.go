package mosaic

// DestinationTile is the output of ComposeTile: a rectangle, sample
// format, band count, and typed scanline buffer, fully written over its
// intersection with the requested destination rectangle.
type DestinationTile = ExtendedTileAccessor

// sourceState holds the per-tile, per-source accessors and weighting
// configuration consulted by the typed inner loops. Prepared once per
// ComposeTile call, outside the hot per-pixel path.
type sourceState struct {
	data   *ExtendedTileAccessor // nil: source has no coverage of this tile
	alpha  *ExtendedTileAccessor // nil: no alpha channel for this source
	roi    *MaskAccessor         // nil: no ROI mask for this source
	lut    *noDataLUT            // non-nil only for U8 sources with no-data
	noData *NoDataRange          // the source's no-data range, if any
	weight WeightKind
}

// ComposeTile is the compositor's single entry point: a pure, re-entrant
// function from (plan, destRect) to destination pixels. It is safe to call
// concurrently for disjoint destRects against the same Plan.
func ComposeTile(plan *Plan, destRect Rect) (*DestinationTile, error) {
	dest := NewExtendedTileAccessor(plan.Format, plan.BandCount, destRect, 0)

	states, err := prepareSources(plan, destRect)
	if err != nil {
		return nil, err
	}

	anyCoverage := false
	for _, st := range states {
		if st.data != nil {
			anyCoverage = true
			break
		}
	}
	if !anyCoverage {
		fillDestNoData(plan, dest)
		return dest, nil
	}

	dispatchCompose(plan, states, dest)
	return dest, nil
}

// prepareSources maps destRect onto each source, eliding
// sources with no coverage and materializing border-extended accessors
// for the rest.
func prepareSources(plan *Plan, destRect Rect) ([]sourceState, error) {
	states := make([]sourceState, len(plan.Sources))

	for i, sd := range plan.Sources {
		mapped := destRect.Intersect(sd.Image.Bounds())
		if mapped.IsEmpty() {
			continue // source contributes nothing to this tile
		}

		data, err := sd.Image.GetExtendedData(destRect, SaturatedLowExtender{})
		if err != nil {
			return nil, err
		}

		st := sourceState{
			data:   data,
			noData: sd.NoData,
			lut:    plan.luts[i],
			weight: weightKindFor(sd),
		}

		if sd.Alpha != nil {
			alpha, err := sd.Alpha.GetExtendedData(destRect, ZeroFillExtender{})
			if err != nil {
				return nil, err
			}
			st.alpha = alpha
		} else if sd.Roi != nil {
			roi, err := sd.Roi.GetExtendedData(destRect, ZeroFillExtender{})
			if err != nil {
				return nil, err
			}
			st.roi = roi
		}

		states[i] = st
	}
	return states, nil
}

func fillDestNoData(plan *Plan, dest *DestinationTile) {
	r := dest.Bounds
	for b := 0; b < plan.BandCount; b++ {
		v := plan.destNoDataF64[b]
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				dest.Set(x, y, b, v)
			}
		}
	}
}

func dispatchCompose(plan *Plan, states []sourceState, dest *DestinationTile) {
	switch plan.Format {
	case U8:
		if plan.Mode == Overlay {
			composeOverlayU8(plan, states, dest)
		} else {
			composeBlendU8(plan, states, dest)
		}
	case U16:
		if plan.Mode == Overlay {
			composeOverlayU16(plan, states, dest)
		} else {
			composeBlendU16(plan, states, dest)
		}
	case I16:
		if plan.Mode == Overlay {
			composeOverlayI16(plan, states, dest)
		} else {
			composeBlendI16(plan, states, dest)
		}
	case I32:
		if plan.Mode == Overlay {
			composeOverlayI32(plan, states, dest)
		} else {
			composeBlendI32(plan, states, dest)
		}
	case F32:
		if plan.Mode == Overlay {
			composeOverlayF32(plan, states, dest)
		} else {
			composeBlendF32(plan, states, dest)
		}
	case F64:
		if plan.Mode == Overlay {
			composeOverlayF64(plan, states, dest)
		} else {
			composeBlendF64(plan, states, dest)
		}
	}
}

// alphaWeight computes the BLEND-mode weight from an alpha sample,
// applying either the bitmask or proportional-coverage rule.
func alphaWeight(a float64, isBitmask bool) float64 {
	if isBitmask {
		if a > 0 {
			return 1
		}
		return 0
	}
	return a / 255
}

// roiWeight computes the BLEND-mode weight from a ROI sample.
func roiWeight(v int32) float64 {
	if v > 0 {
		return 1
	}
	return 0
}

// roiAccept computes the OVERLAY-mode acceptance from a ROI sample.
func roiAccept(v int32) bool {
	return v > 0
}
