package scoring

import "financial-clinic-workers/internal/models"

// Legacy questions that indicate capacity for risk.
var riskIndicatorQuestions = []string{"q8_emergency_fund", "q11_debt_ratio", "q7_savings_rate"}

// RiskTolerance votes on the legacy savings, emergency fund and debt ratio
// answers. No votes resolve to moderate; ties go to the lower tolerance.
func RiskTolerance(answers models.AnswerSet) models.RiskTolerance {
	votes := map[models.RiskTolerance]int{}
	for _, id := range riskIndicatorQuestions {
		v, ok := answers[id]
		if !ok {
			continue
		}
		switch {
		case v >= 4:
			votes[models.RiskToleranceHigh]++
		case v <= 2:
			votes[models.RiskToleranceLow]++
		default:
			votes[models.RiskToleranceModerate]++
		}
	}

	// Ties go to the earlier level in this order.
	best := models.RiskToleranceModerate
	top := 0
	for _, level := range []models.RiskTolerance{models.RiskToleranceLow, models.RiskToleranceModerate, models.RiskToleranceHigh} {
		if votes[level] > top {
			best, top = level, votes[level]
		}
	}
	return best
}
