package mosaic

// composeOverlayU8 implements OVERLAY for U8 sources. The
// no-data test uses the precomputed LUT's equality-against-destination-
// no-data-byte trick, collapsing the range test to one memory load.
func composeOverlayU8(plan *Plan, states []sourceState, dest *DestinationTile) {
	r := dest.Bounds
	for b := 0; b < plan.BandCount; b++ {
		dnd := plan.destNoDataU8[b]
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				accepted := false
				var value byte
				for si := range states {
					st := &states[si]
					if st.data == nil {
						continue
					}
					v := st.data.U8(x, y, b)
					if st.lut != nil && st.lut.isNoData(b, v, dnd) {
						continue
					}
					accept := true
					switch st.weight {
					case WeightAlpha:
						accept = st.alpha.U8(x, y, 0) != 0
					case WeightROI:
						accept = roiAccept(st.roi.Sample(x, y))
					}
					if accept {
						value, accepted = v, true
						break
					}
				}
				if accepted {
					dest.Set(x, y, b, float64(value))
				} else {
					dest.Set(x, y, b, float64(dnd))
				}
			}
		}
	}
}

// composeBlendU8 implements BLEND for U8 sources. The
// integer path accumulates num unconditionally (w is 0 for invalid
// samples); unlike the float paths it needs no isData guard since a U8
// sample can never be NaN.
func composeBlendU8(plan *Plan, states []sourceState, dest *DestinationTile) {
	r := dest.Bounds
	isBitmask := plan.isAlphaBitmaskUsed
	for b := 0; b < plan.BandCount; b++ {
		dnd := plan.destNoDataU8[b]
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				var num, den float64
				for si := range states {
					st := &states[si]
					if st.data == nil {
						continue
					}
					v := st.data.U8(x, y, b)
					valid := !(st.lut != nil && st.lut.isNoData(b, v, dnd))
					var w float64
					if valid {
						switch st.weight {
						case WeightAlpha:
							w = alphaWeight(st.alpha.AsFloat64(x, y, 0), isBitmask)
						case WeightROI:
							w = roiWeight(st.roi.Sample(x, y))
						default:
							w = 1
						}
					}
					den += w
					num += w * float64(v)
				}
				if den == 0 {
					dest.Set(x, y, b, float64(dnd))
				} else {
					dest.Set(x, y, b, float64(clampU8(num/den)))
				}
			}
		}
	}
}
