// internal/workers/assessment/calculate-score/config.go
package calculatescore

import (
	"time"

	"financial-clinic-workers/internal/models"
)

type Config struct {
	Timeout        time.Duration
	DefaultVariant models.Variant
	// SkipValidation scores answer sets that an upstream
	// validate-assessment-answers task already checked.
	SkipValidation bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout:        5 * time.Second,
		DefaultVariant: models.VariantFinancialClinic,
	}
}
