// internal/workers/assessment/get-questions/config.go
package getquestions

import (
	"time"

	"financial-clinic-workers/internal/models"
)

type Config struct {
	Timeout         time.Duration
	DefaultVariant  models.Variant
	DefaultLanguage models.Language
	CacheTTL        time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout:         10 * time.Second,
		DefaultVariant:  models.VariantFinancialClinic,
		DefaultLanguage: models.LanguageEnglish,
		CacheTTL:        10 * time.Minute,
	}
}
