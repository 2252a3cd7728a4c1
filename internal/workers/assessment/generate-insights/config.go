// internal/workers/assessment/generate-insights/config.go
package generateinsights

import (
	"time"

	"financial-clinic-workers/internal/assessment/insights"
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
		Timeout:         5 * time.Second,
		DefaultVariant:  models.VariantFinancialClinic,
		DefaultLanguage: models.LanguageEnglish,
		MaxInsights:     insights.DefaultMaxInsights,
	}
}
