package ratiostudy

import (
	"math"

	"github.com/sartorproj/goratio/studyerr"
)

// Range is an inclusive interval of acceptable values.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

// Contains reports whether v lies within the range.
func (r Range) Contains(v float64) bool {
	return r.Min <= v && v <= r.Max
}

// Standards are the acceptable ranges a jurisdiction's statistics are judged
// against. KI has no standard range.
type Standards struct {
	COD Range `yaml:"cod" json:"cod"`
	PRD Range `yaml:"prd" json:"prd"`
	PRB Range `yaml:"prb" json:"prb"`
	MKI Range `yaml:"mki" json:"mki"`
}

// DefaultStandards returns the IAAO ranges.
func DefaultStandards() Standards {
	return Standards{
		COD: Range{Min: 5, Max: 15},
		PRD: Range{Min: 0.98, Max: 1.03},
		PRB: Range{Min: -0.05, Max: 0.05},
		MKI: Range{Min: 0.95, Max: 1.05},
	}
}

// Meets reports whether value meets the standard for stat. ok is false when
// stat has no standard.
func (s Standards) Meets(stat Stat, value float64) (met, ok bool) {
	r, ok := s.rangeFor(stat)
	if !ok {
		return false, false
	}
	return r.Contains(value), true
}

func (s Standards) rangeFor(stat Stat) (Range, bool) {
	switch stat {
	case StatCOD:
		return s.COD, true
	case StatPRD:
		return s.PRD, true
	case StatPRB:
		return s.PRB, true
	case StatMKI:
		return s.MKI, true
	}
	return Range{}, false
}

// Validate checks that every range is ordered and finite.
func (s Standards) Validate() error {
	for _, stat := range []Stat{StatCOD, StatPRD, StatPRB, StatMKI} {
		r, _ := s.rangeFor(stat)
		if math.IsNaN(r.Min) || math.IsNaN(r.Max) || r.Min > r.Max {
			return studyerr.Config("ratiostudy.Standards", "%s range must satisfy min <= max, got [%v, %v]", stat, r.Min, r.Max)
		}
	}
	return nil
}
