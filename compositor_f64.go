package mosaic

import "math"

// composeOverlayF64 implements OVERLAY for F64 sources. A
// NaN sample is always rejected as no-data, regardless of whether the
// source configures a no-data range.
func composeOverlayF64(plan *Plan, states []sourceState, dest *DestinationTile) {
	r := dest.Bounds
	for b := 0; b < plan.BandCount; b++ {
		dnd := plan.destNoDataF64[b]
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				accepted := false
				var value float64
				for si := range states {
					st := &states[si]
					if st.data == nil {
						continue
					}
					v := st.data.F64(x, y, b)
					if math.IsNaN(v) {
						continue
					}
					if st.noData != nil && st.noData.Contains(v) {
						continue
					}
					accept := true
					switch st.weight {
					case WeightAlpha:
						accept = st.alpha.F64(x, y, 0) != 0
					case WeightROI:
						accept = roiAccept(st.roi.Sample(x, y))
					}
					if accept {
						value, accepted = v, true
						break
					}
				}
				if accepted {
					dest.Set(x, y, b, value)
				} else {
					dest.Set(x, y, b, dnd)
				}
			}
		}
	}
}

// composeBlendF64 implements BLEND for F64 sources. As in
// the F32 path, num only accumulates valid samples. Unlike every other
// format, the quotient is never clamped before being written:
// a double destination has no representable saturation point narrower than
// the accumulator itself.
func composeBlendF64(plan *Plan, states []sourceState, dest *DestinationTile) {
	r := dest.Bounds
	isBitmask := plan.isAlphaBitmaskUsed
	for b := 0; b < plan.BandCount; b++ {
		dnd := plan.destNoDataF64[b]
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				var num, den float64
				for si := range states {
					st := &states[si]
					if st.data == nil {
						continue
					}
					v := st.data.F64(x, y, b)
					valid := !math.IsNaN(v)
					if valid && st.noData != nil {
						valid = !st.noData.Contains(v)
					}
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
						den += w
						num += w * v
					}
				}
				if den == 0 {
					dest.Set(x, y, b, dnd)
				} else {
					dest.Set(x, y, b, num/den)
				}
			}
		}
	}
}
