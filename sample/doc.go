// Package sample provides the validated container of paired observations
// that every ratio study statistic operates on.
//
// # Creating a Sample
//
// Build a sample from parallel slices of assessed values and sale prices:
//
//	s, err := sample.New(
//	    []float64{80, 180, 330, 480},   // assessed values
//	    []float64{100, 200, 300, 400},  // sale prices
//	)
//	if errors.Is(err, studyerr.ErrInvalidSample) {
//	    // length mismatch, empty input, or a non-positive / non-finite value
//	}
//
// A zero, negative, NaN, or infinite value is always an error. Rows are never
// skipped silently.
//
// # Ratios and Row Identity
//
// Each observation's ratio (assessed / sale price) is computed once at
// construction:
//
//	ratios := s.Ratios()         // copy, in input order
//	median := s.MedianRatio()
//
// A Sample never changes after construction. Subset builds a new Sample from
// chosen positions and keeps the original row of each observation:
//
//	sub, _ := s.Subset([]int{0, 2})
//	sub.Row(1) // 2
//
// # Quantiles
//
// Quantile and Quartiles use linear interpolation between order statistics
// (type 7), matching common statistical software:
//
//	q1, q3 := sample.Quartiles(s.SortedRatios())
package sample
