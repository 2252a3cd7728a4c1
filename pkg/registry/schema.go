// pkg/registry/schema.go
package registry

import "time"

// Implementation states an activity moves through.
const (
	StatusPlanned     = "planned"
	StatusImplemented = "implemented"
	StatusDeprecated  = "deprecated"
)

// DefaultTimeout applies to activities that declare none.
const DefaultTimeout = 30 * time.Second

type ActivityRegistry struct {
	Version     string     `json:"version"`
	LastUpdated string     `json:"lastUpdated"`
	Activities  []Activity `json:"activities"`
}

// Activity describes one BPMN service task: the job type a worker
// subscribes to and the JSON schemas of its variables.
type Activity struct {
	ID                   string                 `json:"id"`
	DisplayName          string                 `json:"displayName"`
	Description          string                 `json:"description"`
	Category             string                 `json:"category"`
	Version              string                 `json:"version"`
	TaskType             string                 `json:"taskType"`
	ImplementationStatus string                 `json:"implementationStatus"`
	InputSchema          map[string]interface{} `json:"inputSchema"`
	OutputSchema         map[string]interface{} `json:"outputSchema"`
	ErrorCodes           []string               `json:"errorCodes"`
	Timeout              string                 `json:"timeout"`
	Retries              int                    `json:"retries"`
	Workflows            []string               `json:"workflows"`
	Tags                 []string               `json:"tags"`
}

// TimeoutDuration parses Timeout, returning DefaultTimeout when it is empty.
func (a Activity) TimeoutDuration() (time.Duration, error) {
	if a.Timeout == "" {
		return DefaultTimeout, nil
	}
	return time.ParseDuration(a.Timeout)
}

func (a Activity) Implemented() bool {
	return a.ImplementationStatus == StatusImplemented
}
