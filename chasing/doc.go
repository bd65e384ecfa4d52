// Package chasing detects sales chasing: assessed values adjusted after a
// sale so that assessment ratios cluster unnaturally close to 1.
//
// Three independent tests each produce a Flag with a score, the threshold it
// was compared against, and the original rows that drove it:
//
//   - Distribution: share of ratios in the band versus a fitted normal,
//     standardized by its binomial standard error.
//   - CDF: largest run of tied ratios, inside the band.
//   - Rounding: assessed values equal to the sale price rounded to a unit.
//
// Detect runs the configured tests and combines them under Config.Rule.
// Always pass the untrimmed sample.
package chasing
