package mempool_test

import (
	"net/url"
	"testing"

	"github.com/bsv-blockchain/mineblock/errors"
	"github.com/bsv-blockchain/mineblock/stores/mempool"
	"github.com/bsv-blockchain/mineblock/stores/mempool/file"
	"github.com/bsv-blockchain/mineblock/stores/mempool/memory"
	"github.com/bsv-blockchain/mineblock/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSource(t *testing.T) {
	fileURL, err := url.Parse("file://" + t.TempDir())
	require.NoError(t, err)

	source, err := mempool.NewSource(ulogger.TestLogger{}, fileURL)
	require.NoError(t, err)
	assert.IsType(t, &file.File{}, source)

	memoryURL, err := url.Parse("memory://")
	require.NoError(t, err)

	source, err = mempool.NewSource(ulogger.TestLogger{}, memoryURL)
	require.NoError(t, err)
	assert.IsType(t, &memory.Memory{}, source)

	kafkaURL, err := url.Parse("kafka://localhost:9092/txs")
	require.NoError(t, err)

	_, err = mempool.NewSource(ulogger.TestLogger{}, kafkaURL)
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
}
