package scoring

import (
	"math"

	"financial-clinic-workers/internal/models"
)

// NormalizeResponse maps an answer given on a question variation back to the
// base question scale by applying the variation's scoring adjustment.
// The result is rounded half away from zero onto the integer option scale
// and clamped to it, so 3 with +0.5 scores as 4 rather than 3.5. Scores of
// adjusted answers can therefore differ from a fractional computation by
// up to half an option step.
func NormalizeResponse(value int, adjustment float64) int {
	v := math.Round(float64(value) + adjustment)
	if v < models.MinOptionValue {
		return models.MinOptionValue
	}
	if v > models.MaxOptionValue {
		return models.MaxOptionValue
	}
	return int(v)
}

// NormalizeAnswers applies per-question adjustments. Questions without an
// adjustment keep their value.
func NormalizeAnswers(answers models.AnswerSet, adjustments map[string]float64) models.AnswerSet {
	out := make(models.AnswerSet, len(answers))
	for id, v := range answers {
		if adj, ok := adjustments[id]; ok && adj != 0 {
			out[id] = NormalizeResponse(v, adj)
			continue
		}
		out[id] = v
	}
	return out
}
