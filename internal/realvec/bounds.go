package realvec

import "math"

// Bounds defines the valid per-dimension parameter ranges of a search domain.
type Bounds struct {
	Lower []float64
	Upper []float64
}

// NewUniformBounds creates bounds with the same [lo, hi] range in every
// dimension.
func NewUniformBounds(dim int, lo, hi float64) *Bounds {
	lower := make([]float64, dim)
	upper := make([]float64, dim)
	for i := 0; i < dim; i++ {
		lower[i] = lo
		upper[i] = hi
	}
	return &Bounds{Lower: lower, Upper: upper}
}

// NewBounds creates bounds from explicit per-dimension ranges. The slices
// must have equal length; Validate reports mismatches.
func NewBounds(lower, upper []float64) *Bounds {
	return &Bounds{Lower: lower, Upper: upper}
}

// Dim returns the dimensionality of the domain.
func (b *Bounds) Dim() int {
	return len(b.Lower)
}

// Validate checks that the bounds describe a non-empty box.
func (b *Bounds) Validate() error {
	if len(b.Lower) == 0 {
		return &BoundsError{Reason: "empty domain bounds"}
	}
	if len(b.Lower) != len(b.Upper) {
		return &BoundsError{Reason: "lower and upper bounds differ in length"}
	}
	for i := range b.Lower {
		if b.Lower[i] > b.Upper[i] {
			return &BoundsError{Dimension: i, Reason: "min greater than max"}
		}
		if math.IsNaN(b.Lower[i]) || math.IsNaN(b.Upper[i]) {
			return &BoundsError{Dimension: i, Reason: "NaN bound"}
		}
	}
	return nil
}

// Clamp forces v back into the range of dimension i.
func (b *Bounds) Clamp(i int, v float64) float64 {
	return math.Max(b.Lower[i], math.Min(b.Upper[i], v))
}

// ClampVector clamps all coordinates in place.
func (b *Bounds) ClampVector(coords []float64) {
	for i := range coords {
		coords[i] = b.Clamp(i, coords[i])
	}
}

// BoundsError reports an invalid domain description.
type BoundsError struct {
	Dimension int
	Reason    string
}

func (e *BoundsError) Error() string {
	return "bounds error: " + e.Reason
}
