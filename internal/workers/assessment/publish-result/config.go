// internal/workers/assessment/publish-result/config.go
package publishresult

import "time"

type Config struct {
	Timeout   time.Duration
	Enabled   bool
	EventType string
	Source    string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:   10 * time.Second,
		Enabled:   true,
		EventType: "assessment.completed",
		Source:    "financial-clinic-workers",
	}
}
