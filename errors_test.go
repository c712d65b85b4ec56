package mosaic

import (
	"errors"
	"testing"
)

func TestPlanErrorIsSentinel(t *testing.T) {
	err := newPlanError(KindMismatchedSampleFormat, "source 1")
	if !errors.Is(err, ErrMismatchedSampleFormat) {
		t.Errorf("errors.Is(err, ErrMismatchedSampleFormat) = false, want true")
	}
	if errors.Is(err, ErrMismatchedBandCount) {
		t.Errorf("errors.Is(err, ErrMismatchedBandCount) = true, want false")
	}
}

func TestPlanErrorMessage(t *testing.T) {
	withDetail := newPlanError(KindInvalidLayout, "no sources")
	if got, want := withDetail.Error(), ErrInvalidLayout.Error()+": no sources"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	noDetail := newPlanError(KindInvalidLayout, "")
	if got, want := noDetail.Error(), ErrInvalidLayout.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestErrorKindString(t *testing.T) {
	cases := map[ErrorKind]string{
		KindMismatchedSampleFormat:  "MismatchedSampleFormat",
		KindMismatchedBandCount:     "MismatchedBandCount",
		KindNonUniformBandWidth:     "NonUniformBandWidth",
		KindInvalidLayout:           "InvalidLayout",
		KindInvalidNoDataRange:      "InvalidNoDataRange",
		KindSourceCountMismatch:     "SourceCountMismatch",
		KindUnsupportedSampleFormat: "UnsupportedSampleFormat",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Errorf("%v.String() = %q, want %q", int(kind), got, want)
		}
	}
}
