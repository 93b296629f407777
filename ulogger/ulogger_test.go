package ulogger_test

import (
	"bytes"
	"testing"

	"github.com/bsv-blockchain/mineblock/ulogger"
	"github.com/ordishs/gocore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultsToZerolog(t *testing.T) {
	logger := ulogger.New("test", ulogger.WithWriter(&bytes.Buffer{}))

	_, ok := logger.(*ulogger.ZLoggerWrapper)
	require.True(t, ok)
}

func TestZeroLoggerLevels(t *testing.T) {
	var buf bytes.Buffer

	logger := ulogger.NewZeroLogger("miner", ulogger.WithWriter(&buf), ulogger.WithLevel("WARN"))
	assert.Equal(t, int(gocore.WARN), logger.LogLevel())

	logger.Infof("hidden %d", 1)
	logger.Warnf("visible %d", 2)

	assert.NotContains(t, buf.String(), "hidden 1")
	assert.Contains(t, buf.String(), "visible 2")

	logger.SetLogLevel("DEBUG")
	assert.Equal(t, int(gocore.DEBUG), logger.LogLevel())
}

func TestZeroLoggerDuplicate(t *testing.T) {
	var buf bytes.Buffer

	logger := ulogger.NewZeroLogger("miner", ulogger.WithWriter(&buf), ulogger.WithLevel("INFO"))
	debugLogger := logger.Duplicate(ulogger.WithLevel("DEBUG"))

	assert.Equal(t, int(gocore.INFO), logger.LogLevel())
	assert.Equal(t, int(gocore.DEBUG), debugLogger.LogLevel())

	debugLogger.Debugf("nonce %d", 42)
	assert.Contains(t, buf.String(), "nonce 42")
}

func TestTestLogger(t *testing.T) {
	var logger ulogger.Logger = ulogger.TestLogger{}

	logger.Infof("ignored")
	assert.Equal(t, logger, logger.New("other"))
	assert.Equal(t, logger, logger.Duplicate())
}

func TestVerboseTestLogger(t *testing.T) {
	var logger ulogger.Logger = ulogger.NewVerboseTestLogger(t)

	logger.Infof("block %d", 1)
	logger.Debugf("nonce %d", 2)
	assert.Equal(t, logger, logger.New("other"))
}

func TestZeroLoggerNewInheritsLevel(t *testing.T) {
	var buf bytes.Buffer

	parent := ulogger.NewZeroLogger("miner", ulogger.WithWriter(&buf), ulogger.WithLevel("ERROR"))
	child := parent.New("cpuminer")

	assert.Equal(t, int(gocore.ERROR), child.LogLevel())

	child.Warnf("hidden")
	child.Errorf("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
