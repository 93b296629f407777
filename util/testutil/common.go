// Package testutil holds fixtures shared by the package tests: a common test
// setup and deterministic signed transactions.
package testutil

import (
	"context"
	"testing"

	"github.com/bsv-blockchain/mineblock/settings"
	"github.com/bsv-blockchain/mineblock/ulogger"
)

// CommonTestSetup provides the standard test context used across services
type CommonTestSetup struct {
	Ctx      context.Context
	Logger   ulogger.Logger
	Settings *settings.Settings
}

// NewCommonTestSetup creates the basic test infrastructure used by most service tests
func NewCommonTestSetup(t *testing.T) *CommonTestSetup {
	t.Helper()

	return &CommonTestSetup{
		Ctx:      t.Context(),
		Logger:   ulogger.TestLogger{},
		Settings: settings.NewSettings(),
	}
}
