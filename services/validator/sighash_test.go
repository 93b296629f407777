package validator_test

import (
	"bytes"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/mineblock/errors"
	"github.com/bsv-blockchain/mineblock/pkg/txcodec"
	"github.com/bsv-blockchain/mineblock/services/validator"
	"github.com/bsv-blockchain/mineblock/util/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignaturePreimage(t *testing.T) {
	alice := testutil.NewSigner(t, "alice")
	bob := testutil.NewSigner(t, "bob")
	tx := testutil.MixedTx(t, alice, bob, 7)
	scriptCode := tx.TxOut[0].ScriptPubKey

	t.Run("single input layout", func(t *testing.T) {
		single := testutil.LegacyTx(t, alice, 3)

		preimage, err := validator.SignaturePreimage(single, 0, scriptCode)
		require.NoError(t, err)

		expected := &txcodec.Tx{
			Version:  single.Version,
			TxIn:     []*txcodec.Input{{PreviousOutPoint: single.TxIn[0].PreviousOutPoint, ScriptSig: scriptCode, Sequence: single.TxIn[0].Sequence}},
			TxOut:    single.TxOut,
			LockTime: single.LockTime,
		}

		assert.Equal(t, append(expected.Serialize(), validator.SigHashAll), preimage)
	})

	t.Run("ignores script sigs and witnesses", func(t *testing.T) {
		before, err := validator.SignatureHash(tx, 1, scriptCode)
		require.NoError(t, err)

		stripped := testutil.Decoded(t, tx)
		stripped.TxIn[0].ScriptSig = []byte{0x51}
		stripped.TxIn[1].Witness = nil

		after, err := validator.SignatureHash(stripped, 1, scriptCode)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("commits to the input index", func(t *testing.T) {
		h0, err := validator.SignatureHash(tx, 0, scriptCode)
		require.NoError(t, err)

		h1, err := validator.SignatureHash(tx, 1, scriptCode)
		require.NoError(t, err)

		assert.NotEqual(t, h0, h1)
	})

	t.Run("commits to outputs", func(t *testing.T) {
		before, err := validator.SignatureHash(tx, 0, scriptCode)
		require.NoError(t, err)

		changed := testutil.Decoded(t, tx)
		changed.TxOut[1] = &txcodec.Output{Value: changed.TxOut[1].Value + 1, ScriptPubKey: changed.TxOut[1].ScriptPubKey}

		after, err := validator.SignatureHash(changed, 0, scriptCode)
		require.NoError(t, err)
		assert.NotEqual(t, before, after)
	})

	t.Run("hash is double sha256 of preimage", func(t *testing.T) {
		preimage, err := validator.SignaturePreimage(tx, 0, scriptCode)
		require.NoError(t, err)
		assert.Equal(t, byte(validator.SigHashAll), preimage[len(preimage)-1])
		assert.True(t, bytes.Contains(preimage, scriptCode))

		hash, err := validator.SignatureHash(tx, 0, scriptCode)
		require.NoError(t, err)
		assert.Equal(t, chainhash.DoubleHashB(preimage), hash)
	})

	t.Run("index out of range", func(t *testing.T) {
		_, err := validator.SignaturePreimage(tx, 2, scriptCode)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidArgument))

		_, err = validator.SignatureHash(tx, -1, scriptCode)
		require.Error(t, err)
	})
}
