// internal/assessment/scoring/bands.go
package scoring

import (
	"fmt"
	"sort"

	"financial-clinic-workers/internal/models"
)

// Category status levels.
const (
	StatusExcellent        = "excellent"
	StatusGood             = "good"
	StatusNeedsImprovement = "needs_improvement"
	StatusAtRisk           = "at_risk"
)

// Overall status bands.
const (
	BandExcellent               = "Excellent"
	BandGood                    = "Good"
	BandModerate                = "Moderate"
	BandNeedsImprovement        = "Needs Improvement"
	BandNeedsImmediateAttention = "Needs Immediate Attention"
	BandAtRisk                  = "At Risk"
)

// Threshold is the inclusive lower bound of a band.
type Threshold struct {
	Min   float64
	Label string
}

// Scheme maps a 0-100 percentage to a label. Thresholds are held in
// descending Min order; anything below the last threshold gets Floor.
type Scheme struct {
	Name       string
	Thresholds []Threshold
	Floor      string
}

// NewScheme sorts thresholds descending.
func NewScheme(name, floor string, thresholds ...Threshold) Scheme {
	ts := make([]Threshold, len(thresholds))
	copy(ts, thresholds)
	sort.SliceStable(ts, func(i, j int) bool { return ts[i].Min > ts[j].Min })
	return Scheme{Name: name, Thresholds: ts, Floor: floor}
}

func (s Scheme) Classify(percentage float64) string {
	for _, t := range s.Thresholds {
		if percentage >= t.Min {
			return t.Label
		}
	}
	return s.Floor
}

// Labels returns every label the scheme can produce, best first.
func (s Scheme) Labels() []string {
	out := make([]string, 0, len(s.Thresholds)+1)
	for _, t := range s.Thresholds {
		out = append(out, t.Label)
	}
	return append(out, s.Floor)
}

var (
	FinancialClinicCategory = NewScheme("financial_clinic_category", StatusAtRisk,
		Threshold{Min: 81, Label: StatusExcellent},
		Threshold{Min: 41, Label: StatusGood},
	)

	FinancialClinicOverall = NewScheme("financial_clinic_overall", BandAtRisk,
		Threshold{Min: 81, Label: BandExcellent},
		Threshold{Min: 61, Label: BandGood},
		Threshold{Min: 41, Label: BandModerate},
		Threshold{Min: 21, Label: BandNeedsImmediateAttention},
	)

	LegacyCategory = NewScheme("legacy_category", StatusAtRisk,
		Threshold{Min: 60, Label: StatusExcellent},
		Threshold{Min: 45, Label: StatusGood},
		Threshold{Min: 30, Label: StatusNeedsImprovement},
	)

	LegacyOverall = NewScheme("legacy_overall", BandAtRisk,
		Threshold{Min: 60, Label: BandExcellent},
		Threshold{Min: 45, Label: BandGood},
		Threshold{Min: 30, Label: BandNeedsImprovement},
	)
)

// SchemesFor returns the category and overall schemes for a variant.
func SchemesFor(variant models.Variant) (category, overall Scheme, err error) {
	switch variant {
	case models.VariantFinancialClinic:
		return FinancialClinicCategory, FinancialClinicOverall, nil
	case models.VariantLegacy:
		return LegacyCategory, LegacyOverall, nil
	default:
		return Scheme{}, Scheme{}, fmt.Errorf("no band schemes for variant %q", variant)
	}
}
