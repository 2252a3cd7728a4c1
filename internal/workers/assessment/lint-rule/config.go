// internal/workers/assessment/lint-rule/config.go
package lintrule

import (
	"time"

	"financial-clinic-workers/internal/models"
)

type Config struct {
	Timeout        time.Duration
	DefaultVariant models.Variant
}

func LoadConfig() *Config {
	return &Config{
		Timeout:        5 * time.Second,
		DefaultVariant: models.VariantFinancialClinic,
	}
}
