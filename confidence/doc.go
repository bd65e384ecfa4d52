// Package confidence provides interchangeable confidence interval estimators
// for ratio study statistics.
//
// Both estimators implement the same contract:
//
//	Interval(s *sample.Sample, stat Statistic, level float64) (Interval, error)
//
// # Analytic Intervals
//
// For statistics with a known standard error, such as PRB:
//
//	est := confidence.Analytic{StdErr: pricerelated.PRBStdErr}
//	iv, err := est.Interval(s, pricerelated.PRBSlope, 0.95)
//
// Set DF to use Student's t quantiles instead of the normal:
//
//	est := confidence.Analytic{StdErr: pricerelated.PRBStdErr, DF: float64(s.Len() - 2)}
//
// # Bootstrap Intervals
//
// For statistics without a closed-form variance, such as COD and PRD:
//
//	est := confidence.Bootstrap{Iterations: 1000, Seed: 42}
//	iv, err := est.Interval(s, dispersion.COD, 0.95)
//
// The seed is required and each call builds its own generator. The same
// seed, sample and iteration count always reproduce the same bounds, and
// estimators can be used from many goroutines at once.
package confidence
