package mosaic

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestComposeTileOverlayFirstAcceptingWins(t *testing.T) {
	a := newMemImage(NewRect(0, 0, 2, 2), U8, 1)
	b := newMemImage(NewRect(0, 0, 2, 2), U8, 1)
	a.Set(0, 0, 0, 10)
	b.Set(0, 0, 0, 20)

	plan, err := NewPlan(PlanOptions{
		Mode:    Overlay,
		Sources: []SourceDescriptor{{Image: a}, {Image: b}},
	})
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}

	tile, err := ComposeTile(plan, plan.DestRect)
	if err != nil {
		t.Fatalf("ComposeTile() error = %v", err)
	}
	if got := tile.U8(0, 0, 0); got != 10 {
		t.Errorf("ComposeTile()[0,0] = %d, want 10 (first source wins)", got)
	}
}

func TestComposeTileOverlaySkipsNoData(t *testing.T) {
	a := newMemImage(NewRect(0, 0, 2, 2), U8, 1)
	b := newMemImage(NewRect(0, 0, 2, 2), U8, 1)
	a.Set(0, 0, 0, 0) // a's no-data sentinel
	b.Set(0, 0, 0, 77)

	nd := NewNoDataValue(U8, 0)
	plan, err := NewPlan(PlanOptions{
		Mode: Overlay,
		Sources: []SourceDescriptor{
			{Image: a, NoData: &nd},
			{Image: b},
		},
	})
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}

	tile, err := ComposeTile(plan, plan.DestRect)
	if err != nil {
		t.Fatalf("ComposeTile() error = %v", err)
	}
	if got := tile.U8(0, 0, 0); got != 77 {
		t.Errorf("ComposeTile()[0,0] = %d, want 77 (a is no-data, falls through to b)", got)
	}
}

func TestComposeTileOverlayAllNoDataFillsDestination(t *testing.T) {
	a := newMemImage(NewRect(0, 0, 2, 2), U8, 1)
	a.Set(0, 0, 0, 0)
	nd := NewNoDataValue(U8, 0)

	plan, err := NewPlan(PlanOptions{
		Mode:              Overlay,
		Sources:           []SourceDescriptor{{Image: a, NoData: &nd}},
		DestinationNoData: []float64{250},
	})
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}

	tile, err := ComposeTile(plan, plan.DestRect)
	if err != nil {
		t.Fatalf("ComposeTile() error = %v", err)
	}
	if got := tile.U8(0, 0, 0); got != 250 {
		t.Errorf("ComposeTile()[0,0] = %d, want 250 (destination no-data)", got)
	}
}

func TestComposeTileBlendWeightedMean(t *testing.T) {
	a := newMemImage(NewRect(0, 0, 2, 2), U16, 1)
	b := newMemImage(NewRect(0, 0, 2, 2), U16, 1)
	a.Set(0, 0, 0, 100)
	b.Set(0, 0, 0, 200)

	plan, err := NewPlan(PlanOptions{
		Mode:    Blend,
		Sources: []SourceDescriptor{{Image: a}, {Image: b}},
	})
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}

	tile, err := ComposeTile(plan, plan.DestRect)
	if err != nil {
		t.Fatalf("ComposeTile() error = %v", err)
	}
	if got := tile.U16(0, 0, 0); got != 150 {
		t.Errorf("ComposeTile()[0,0] = %d, want 150 (unweighted mean)", got)
	}
}

func TestComposeTileBlendAlphaProportionalWeight(t *testing.T) {
	a := newMemImage(NewRect(0, 0, 2, 2), U8, 1)
	aAlpha := newMemImage(NewRect(0, 0, 2, 2), U8, 1)
	b := newMemImage(NewRect(0, 0, 2, 2), U8, 1)
	bAlpha := newMemImage(NewRect(0, 0, 2, 2), U8, 1)

	a.Set(0, 0, 0, 100)
	aAlpha.Set(0, 0, 0, 255) // full weight
	b.Set(0, 0, 0, 0)
	bAlpha.Set(0, 0, 0, 0) // zero weight

	plan, err := NewPlan(PlanOptions{
		Mode: Blend,
		Sources: []SourceDescriptor{
			{Image: a, Alpha: aAlpha},
			{Image: b, Alpha: bAlpha},
		},
	})
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}
	if plan.isAlphaBitmaskUsed {
		t.Fatalf("isAlphaBitmaskUsed = true, want false (both sources carry alpha)")
	}

	tile, err := ComposeTile(plan, plan.DestRect)
	if err != nil {
		t.Fatalf("ComposeTile() error = %v", err)
	}
	if got := tile.U8(0, 0, 0); got != 100 {
		t.Errorf("ComposeTile()[0,0] = %d, want 100 (b fully discounted by zero alpha)", got)
	}
}

func TestComposeTileBlendAlphaBitmaskWhenMixed(t *testing.T) {
	a := newMemImage(NewRect(0, 0, 2, 2), U8, 1)
	aAlpha := newMemImage(NewRect(0, 0, 2, 2), U8, 1)
	b := newMemImage(NewRect(0, 0, 2, 2), U8, 1) // no alpha at all

	a.Set(0, 0, 0, 100)
	aAlpha.Set(0, 0, 0, 1) // any nonzero value counts as fully "inside" under bitmask rule
	b.Set(0, 0, 0, 200)

	plan, err := NewPlan(PlanOptions{
		Mode: Blend,
		Sources: []SourceDescriptor{
			{Image: a, Alpha: aAlpha},
			{Image: b},
		},
	})
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}
	if !plan.isAlphaBitmaskUsed {
		t.Fatalf("isAlphaBitmaskUsed = false, want true (mixed alpha presence)")
	}

	tile, err := ComposeTile(plan, plan.DestRect)
	if err != nil {
		t.Fatalf("ComposeTile() error = %v", err)
	}
	// a contributes weight 1 (alpha=1 > 0 under bitmask), b contributes
	// weight 1 (no weighting source => WeightNone => w=1): mean of 100,200.
	if got := tile.U8(0, 0, 0); got != 150 {
		t.Errorf("ComposeTile()[0,0] = %d, want 150", got)
	}
}

func TestComposeTileRoiExcludesOutsidePixels(t *testing.T) {
	a := newMemImage(NewRect(0, 0, 2, 2), U8, 1)
	roi := newMemMask(NewRect(0, 0, 2, 2))
	a.Set(0, 0, 0, 42)
	roi.Set(0, 0, 0) // outside the region of interest

	plan, err := NewPlan(PlanOptions{
		Mode:              Overlay,
		Sources:           []SourceDescriptor{{Image: a, Roi: roi}},
		DestinationNoData: []float64{255},
	})
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}

	tile, err := ComposeTile(plan, plan.DestRect)
	if err != nil {
		t.Fatalf("ComposeTile() error = %v", err)
	}
	if got := tile.U8(0, 0, 0); got != 255 {
		t.Errorf("ComposeTile()[0,0] = %d, want 255 (ROI excludes this pixel)", got)
	}
}

func TestComposeTileElidesNonOverlappingSource(t *testing.T) {
	a := newMemImage(NewRect(0, 0, 2, 2), U8, 1)
	b := newMemImage(NewRect(10, 10, 2, 2), U8, 1)
	a.Set(0, 0, 0, 5)
	b.Set(10, 10, 0, 9)

	plan, err := NewPlan(PlanOptions{
		Mode:              Overlay,
		Sources:           []SourceDescriptor{{Image: a}, {Image: b}},
		DestinationNoData: []float64{1},
	})
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}

	// Query a destRect over only b's footprint; a contributes no coverage there.
	tile, err := ComposeTile(plan, NewRect(10, 10, 2, 2))
	if err != nil {
		t.Fatalf("ComposeTile() error = %v", err)
	}
	if got := tile.U8(10, 10, 0); got != 9 {
		t.Errorf("ComposeTile()[10,10] = %d, want 9", got)
	}
}

func TestComposeTileFloatRejectsNaNRegardlessOfNoDataRange(t *testing.T) {
	a := newMemImage(NewRect(0, 0, 2, 2), F32, 1)
	b := newMemImage(NewRect(0, 0, 2, 2), F32, 1)
	a.Set(0, 0, 0, math.NaN())
	b.Set(0, 0, 0, 3.5)

	// a has no configured no-data range at all; NaN must still be rejected.
	plan, err := NewPlan(PlanOptions{
		Mode:    Overlay,
		Sources: []SourceDescriptor{{Image: a}, {Image: b}},
	})
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}

	tile, err := ComposeTile(plan, plan.DestRect)
	if err != nil {
		t.Fatalf("ComposeTile() error = %v", err)
	}
	if got := tile.F32(0, 0, 0); got != 3.5 {
		t.Errorf("ComposeTile()[0,0] = %v, want 3.5 (NaN rejected even without a no-data range)", got)
	}
}

func TestComposeTileBlendF64UnclampedQuotient(t *testing.T) {
	a := newMemImage(NewRect(0, 0, 1, 1), F64, 1)
	a.Set(0, 0, 0, math.MaxFloat64)

	plan, err := NewPlan(PlanOptions{
		Mode:    Blend,
		Sources: []SourceDescriptor{{Image: a}},
	})
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}

	tile, err := ComposeTile(plan, plan.DestRect)
	if err != nil {
		t.Fatalf("ComposeTile() error = %v", err)
	}
	if got := tile.F64(0, 0, 0); got != math.MaxFloat64 {
		t.Errorf("ComposeTile()[0,0] = %v, want %v (F64 quotient is never clamped)", got, math.MaxFloat64)
	}
}

func TestComposeTileDisjointTilesAreIndependent(t *testing.T) {
	a := newMemImage(NewRect(0, 0, 4, 4), U8, 1)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			a.Set(x, y, 0, float64(x+y*4))
		}
	}
	plan, err := NewPlan(PlanOptions{
		Mode:    Overlay,
		Sources: []SourceDescriptor{{Image: a}},
	})
	if err != nil {
		t.Fatalf("NewPlan() error = %v", err)
	}

	left, err := ComposeTile(plan, NewRect(0, 0, 2, 4))
	if err != nil {
		t.Fatalf("ComposeTile(left) error = %v", err)
	}
	right, err := ComposeTile(plan, NewRect(2, 0, 2, 4))
	if err != nil {
		t.Fatalf("ComposeTile(right) error = %v", err)
	}

	gotLeft := flattenU8(left, NewRect(0, 0, 2, 4))
	wantLeft := []byte{0, 1, 4, 5, 8, 9, 12, 13}
	if diff := cmp.Diff(wantLeft, gotLeft); diff != "" {
		t.Errorf("left tile mismatch (-want +got):\n%s", diff)
	}

	gotRight := flattenU8(right, NewRect(2, 0, 2, 4))
	wantRight := []byte{2, 3, 6, 7, 10, 11, 14, 15}
	if diff := cmp.Diff(wantRight, gotRight); diff != "" {
		t.Errorf("right tile mismatch (-want +got):\n%s", diff)
	}
}

func flattenU8(tile *DestinationTile, r Rect) []byte {
	out := make([]byte, 0, r.Width()*r.Height())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			out = append(out, tile.U8(x, y, 0))
		}
	}
	return out
}
