// Package health aggregates the health checks of the components a mining run
// depends on into one status and JSON document.
package health

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

type Check struct {
	Name  string
	Check func(ctx context.Context, checkLiveness bool) (int, string, error)
}

// CheckAll runs every check in order. The overall status is 200 only if every
// check returned 200 without an error, 503 otherwise.
func CheckAll(ctx context.Context, checkLiveness bool, checks []Check) (int, string, error) {
	overallStatus := http.StatusOK
	messages := make([]string, 0, len(checks))

	for _, check := range checks {
		status, message, err := check.Check(ctx, checkLiveness)
		if err != nil || status != http.StatusOK {
			overallStatus = http.StatusServiceUnavailable
		}

		errMsg := ""
		if err != nil {
			errMsg = err.Error()
		}

		messages = append(messages, fmt.Sprintf(`{"resource": %q, "status": "%d", "error": %q, "message": %q}`,
			check.Name, status, errMsg, message))
	}

	return overallStatus, fmt.Sprintf(`{"status": "%d", "dependencies": [%s]}`, overallStatus, strings.Join(messages, ",\n")), nil
}
