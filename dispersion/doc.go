// Package dispersion provides the coefficient of dispersion (COD), the
// standard measure of how tightly assessment ratios cluster around their
// median.
//
// Lower COD means more uniform assessment. COD is sensitive to extreme
// ratios, so ratio studies normally trim outliers first (see package trim).
//
//	cod, err := dispersion.COD(s)
//
// When the median is already known, pass it in directly:
//
//	cod, err := dispersion.CODAround(s.Ratios(), s.MedianRatio())
package dispersion
