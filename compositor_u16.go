package mosaic

// composeOverlayU16 implements OVERLAY for U16 sources.
func composeOverlayU16(plan *Plan, states []sourceState, dest *DestinationTile) {
	r := dest.Bounds
	for b := 0; b < plan.BandCount; b++ {
		dnd := plan.destNoDataU16[b]
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				accepted := false
				var value uint16
				for si := range states {
					st := &states[si]
					if st.data == nil {
						continue
					}
					v := st.data.U16(x, y, b)
					if st.noData != nil && st.noData.Contains(float64(v)) {
						continue
					}
					accept := true
					switch st.weight {
					case WeightAlpha:
						accept = st.alpha.U16(x, y, 0) != 0
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

// composeBlendU16 implements BLEND for U16 sources.
func composeBlendU16(plan *Plan, states []sourceState, dest *DestinationTile) {
	r := dest.Bounds
	isBitmask := plan.isAlphaBitmaskUsed
	for b := 0; b < plan.BandCount; b++ {
		dnd := plan.destNoDataU16[b]
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				var num, den float64
				for si := range states {
					st := &states[si]
					if st.data == nil {
						continue
					}
					v := st.data.U16(x, y, b)
					valid := true
					if st.noData != nil {
						valid = !st.noData.Contains(float64(v))
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
					}
					den += w
					num += w * float64(v)
				}
				if den == 0 {
					dest.Set(x, y, b, float64(dnd))
				} else {
					dest.Set(x, y, b, float64(clampU16(num/den)))
				}
			}
		}
	}
}
