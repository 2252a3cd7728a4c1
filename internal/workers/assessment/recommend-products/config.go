// internal/workers/assessment/recommend-products/config.go
package recommendproducts

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
		Timeout:        10 * time.Second,
		DefaultVariant: models.VariantFinancialClinic,
	}
}
