package mineblock

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bsv-blockchain/mineblock/errors"
	"github.com/bsv-blockchain/mineblock/util/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var maxTarget = strings.Repeat("f", 64)

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()

	app := NewApp("test", "none")

	var out bytes.Buffer

	app.Writer = &out
	app.ErrWriter = &out

	err := app.Run(append([]string{app.Name}, args...))

	return out.String(), err
}

func TestMineAndInspect(t *testing.T) {
	mempoolDir := t.TempDir()
	outputDir := t.TempDir()

	alice := testutil.NewSigner(t, "alice")
	tx := testutil.LegacyTx(t, alice, 1)

	require.NoError(t, os.WriteFile(filepath.Join(mempoolDir, "a.txt"), []byte(hex.EncodeToString(tx.Serialize())+"\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(mempoolDir, "b.txt"), []byte("not a transaction"), 0o600))

	out, err := runApp(t, "mine",
		"--mempool", "file://"+mempoolDir,
		"--output", "file://"+outputDir,
		"--key", "block",
		"--target", maxTarget,
		"--workers", "2",
		"--log-level", "ERROR",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "nonce:")
	assert.Contains(t, out, "hash:")

	_, err = os.Stat(filepath.Join(outputDir, "block"))
	require.NoError(t, err)

	out, err = runApp(t, "inspect", "--output", "file://"+outputDir, "--target", maxTarget, "block")
	require.NoError(t, err)
	assert.Contains(t, out, "met: true")
	assert.Contains(t, out, "tx 0:")
	assert.Contains(t, out, tx.TxID().String())
	assert.NotContains(t, out, "tx 1:")
}

func TestMineFlagErrors(t *testing.T) {
	mempoolDir := t.TempDir()

	tests := []struct {
		name string
		args []string
		err  error
	}{
		{"bad target", []string{"--target", "zz"}, errors.ErrConfiguration},
		{"unknown network", []string{"--network", "nonet"}, errors.ErrInvalidArgument},
		{"unknown verifier", []string{"--verifier", "nope"}, errors.ErrConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"mine",
				"--mempool", "file://" + mempoolDir,
				"--output", "memory://",
				"--log-level", "ERROR",
			}, tt.args...)

			_, err := runApp(t, args...)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestInspectErrors(t *testing.T) {
	outputDir := t.TempDir()

	_, err := runApp(t, "inspect", "--output", "file://"+outputDir, "missing")
	require.ErrorIs(t, err, errors.ErrBlobNotFound)

	require.NoError(t, os.WriteFile(filepath.Join(outputDir, "short"), []byte{1, 2, 3}, 0o600))

	_, err = runApp(t, "inspect", "--output", "file://"+outputDir, "short")
	require.ErrorIs(t, err, errors.ErrBlockInvalid)
}

func TestSettingsCommand(t *testing.T) {
	out, err := runApp(t, "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "VERSION")
	assert.Contains(t, out, "test (none)")
	assert.Contains(t, out, "network:")
}

func TestHealthCommand(t *testing.T) {
	mempoolDir := t.TempDir()

	out, err := runApp(t, "health", "--mempool", "file://"+mempoolDir, "--output", "memory://", "--target", maxTarget)
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "200"`)

	_, err = runApp(t, "health", "--mempool", "file://"+mempoolDir, "--output", "memory://", "--target", "zz")
	require.ErrorIs(t, err, errors.ErrServiceUnavailable)
}
