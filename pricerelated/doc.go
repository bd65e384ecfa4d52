// Package pricerelated provides vertical-equity statistics, which test
// whether assessment ratios vary systematically with property value.
//
// # Price-Related Differential
//
//	prd, err := pricerelated.PRD(s)
//
// PRD is the mean ratio over the sale-price-weighted mean ratio. A PRD near 1
// shows no tier bias; above 1 high-value properties are under-assessed
// relative to low-value ones (regressivity); below 1 the reverse.
//
// # Price-Related Bias
//
// PRB regresses the relative deviation of each ratio from the median on the
// log2 of a value proxy. The slope is the statistic and is only meaningful
// together with its standard error:
//
//	fit, err := pricerelated.PRB(s, s.MedianRatio(), nil)
//	// fit.Slope, fit.StdErr, fit.DF
//
// Pass one weight per observation for weighted least squares:
//
//	fit, err := pricerelated.PRB(s, s.MedianRatio(), weights)
//
// PRBSlope and PRBStdErr expose the unweighted slope and its standard error
// as plain statistic functions, for use with package confidence.
//
// # Kakwani Indices
//
// KI and MKI compare the Gini coefficient of assessed values with that of
// sale prices, both ordered by sale price:
//
//	ki, _ := pricerelated.KI(s)   // Gini(assessed) - Gini(sale)
//	mki, _ := pricerelated.MKI(s) // Gini(assessed) / Gini(sale)
package pricerelated
