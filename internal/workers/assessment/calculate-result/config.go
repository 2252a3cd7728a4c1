// internal/workers/assessment/calculate-result/config.go
package calculateresult

import (
	"time"

	"financial-clinic-workers/internal/models"
)

type Config struct {
	Timeout         time.Duration
	DefaultVariant  models.Variant
	DefaultLanguage models.Language
	MaxInsights     int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         15 * time.Second,
		DefaultVariant:  models.VariantFinancialClinic,
		DefaultLanguage: models.LanguageEnglish,
		MaxInsights:     5,
	}
}
