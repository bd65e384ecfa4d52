// Package goratio provides ratio study statistics for property assessment.
//
// GoRatio compares assessed values with sale prices to audit how fairly and
// uniformly a jurisdiction assesses property. It follows the IAAO Standard on
// Ratio Studies for the uniformity and vertical equity measures, and adds
// tests for sales chasing.
//
// # Features
//
//   - Coefficient of dispersion (COD)
//   - Price-related differential (PRD) and price-related bias (PRB)
//   - Kakwani and modified Kakwani indices (KI, MKI)
//   - IQR and percentile outlier trimming
//   - Bootstrap and analytic confidence intervals with reproducible seeds
//   - Sales chasing detection with per-row attribution
//   - Concurrent batch studies across jurisdictions
//
// # Quick Start
//
// Compute statistics on paired values:
//
//	s, _ := ratiostudy.FromPairs(assessed, salePrices)
//	cod, _ := ratiostudy.COD(s, nil)
//	prb, _ := ratiostudy.PRB(s, nil)
//
// Run a full study with trimming:
//
//	opts := ratiostudy.DefaultOptions()
//	opts.TrimBeforeCompute = true
//	report, _ := ratiostudy.Run(s, opts)
//
// # Packages
//
// The library is organized into the following packages:
//
//   - sample: Validated assessed/sale observations
//   - trim: Outlier trimming policies
//   - dispersion: COD
//   - pricerelated: PRD, PRB, KI and MKI
//   - confidence: Analytic and bootstrap intervals
//   - chasing: Sales chasing detection
//   - ratiostudy: One entry point per statistic, full studies and batches
//   - config: YAML and environment configuration
//   - studyerr: Error kinds
//
// # References
//
//   - International Association of Assessing Officers (2013). Standard on Ratio Studies
//   - Quintos, C. (2020). A Gini measure for vertical equity in property assessments
package goratio
