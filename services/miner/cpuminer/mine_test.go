package cpuminer

import (
	"bytes"
	"context"
	"testing"

	"github.com/bsv-blockchain/mineblock/errors"
	"github.com/bsv-blockchain/mineblock/model"
	"github.com/bsv-blockchain/mineblock/ulogger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBlock() []byte {
	block := make([]byte, model.BlockHeaderSize)
	return append(block, 3, 0, 0, 0, 0, 0, 0, 0, 0xde, 0xad, 0xbe)
}

func easyTarget(t *testing.T) model.Target {
	t.Helper()

	// 1 in 16 hashes qualify
	target, err := model.NewTargetFromHex("1000000000000000000000000000000000000000000000000000000000000000")
	require.NoError(t, err)

	return target
}

func TestMineMaxTargetUsesNonceZero(t *testing.T) {
	var target model.Target
	for i := range target {
		target[i] = 0xff
	}

	block := testBlock()
	block[model.NonceOffset] = 0x7f

	solution, err := Mine(t.Context(), ulogger.TestLogger{}, block, target)
	require.NoError(t, err)

	assert.Equal(t, uint32(0), solution.Nonce)
	assert.Equal(t, uint64(1), solution.Attempts)
	assert.Equal(t, uint32(0), model.GetNonce(solution.Block))
	assert.Equal(t, byte(0x7f), block[model.NonceOffset], "input block must not be modified")
}

func TestMineFindsValidNonce(t *testing.T) {
	target := easyTarget(t)
	block := testBlock()
	original := bytes.Clone(block)

	solution, err := Mine(t.Context(), ulogger.TestLogger{}, block, target, WithLogInterval(4))
	require.NoError(t, err)

	assert.Equal(t, original, block)
	assert.Equal(t, solution.Nonce, model.GetNonce(solution.Block))
	assert.Equal(t, uint64(solution.Nonce)+1, solution.Attempts)

	hash := model.BlockHash(solution.Block)
	assert.Equal(t, hash, *solution.BlockHash)
	assert.True(t, target.IsMetBy(hash[:]))

	// every earlier nonce fails the target
	work := bytes.Clone(block)
	for nonce := uint32(0); nonce < solution.Nonce; nonce++ {
		model.SetNonce(work, nonce)
		h := model.BlockHash(work)
		assert.False(t, target.IsMetBy(h[:]), "nonce %d", nonce)
	}

	again, err := Mine(t.Context(), ulogger.TestLogger{}, block, target)
	require.NoError(t, err)
	assert.Equal(t, solution.Nonce, again.Nonce)
}

func TestMineCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	var impossible model.Target

	_, err := Mine(ctx, ulogger.TestLogger{}, testBlock(), impossible)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrContextCanceled))

	_, err = MineParallel(ctx, ulogger.TestLogger{}, testBlock(), impossible, 4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrContextCanceled))
}

func TestMineShortBlock(t *testing.T) {
	_, err := Mine(t.Context(), ulogger.TestLogger{}, make([]byte, 79), easyTarget(t))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))

	_, err = MineParallel(t.Context(), ulogger.TestLogger{}, make([]byte, 10), easyTarget(t), 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidArgument))
}

func TestMineParallel(t *testing.T) {
	target := easyTarget(t)
	block := testBlock()
	original := bytes.Clone(block)

	solution, err := MineParallel(t.Context(), ulogger.TestLogger{}, block, target, 4, WithLogInterval(1))
	require.NoError(t, err)

	assert.Equal(t, original, block)
	assert.Equal(t, solution.Nonce, model.GetNonce(solution.Block))
	assert.GreaterOrEqual(t, solution.Attempts, uint64(1))

	hash := model.BlockHash(solution.Block)
	assert.Equal(t, hash, *solution.BlockHash)
	assert.True(t, target.IsMetBy(hash[:]))
}

func TestMineParallelSingleWorker(t *testing.T) {
	target := easyTarget(t)

	sequential, err := Mine(t.Context(), ulogger.TestLogger{}, testBlock(), target)
	require.NoError(t, err)

	single, err := MineParallel(t.Context(), ulogger.TestLogger{}, testBlock(), target, 1)
	require.NoError(t, err)

	assert.Equal(t, sequential.Nonce, single.Nonce)
}
