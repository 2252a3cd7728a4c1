// internal/common/database/health.go
package database

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// CheckAll pings every dependency and joins the failures.
func CheckAll(ctx context.Context, deps map[string]Pinger) error {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)

	var failures []string
	for _, name := range names {
		if deps[name] == nil {
			continue
		}
		if err := deps[name].Ping(ctx); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("unhealthy dependencies: %s", strings.Join(failures, "; "))
	}
	return nil
}
