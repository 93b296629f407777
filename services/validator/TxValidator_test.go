package validator_test

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/mineblock/errors"
	"github.com/bsv-blockchain/mineblock/pkg/txcodec"
	"github.com/bsv-blockchain/mineblock/services/validator"
	"github.com/bsv-blockchain/mineblock/settings"
	"github.com/bsv-blockchain/mineblock/ulogger"
	"github.com/bsv-blockchain/mineblock/util/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var verifierTypes = []validator.VerifierType{validator.VerifierGoSDK, validator.VerifierBTCEC}

func newTestValidator(t *testing.T, verifierType validator.VerifierType, opts ...validator.TxValidatorOption) *validator.TxValidator {
	t.Helper()

	logger := ulogger.TestLogger{}
	tSettings := settings.NewSettings()
	tSettings.Validator.SignatureVerifier = string(verifierType)

	verifier, err := validator.NewSignatureVerifier(logger, tSettings)
	require.NoError(t, err)
	require.Equal(t, verifierType, verifier.Type())

	return validator.NewTxValidator(logger, verifier, opts...)
}

func TestValidateAccepts(t *testing.T) {
	alice := testutil.NewSigner(t, "alice")
	bob := testutil.NewSigner(t, "bob")

	tests := []struct {
		name string
		tx   *txcodec.Tx
	}{
		{"legacy", testutil.LegacyTx(t, alice, 1)},
		{"native witness", testutil.WitnessTx(t, alice, 2)},
		{"wrapped witness", testutil.WrappedWitnessTx(t, bob, 3)},
		{"mixed inputs", testutil.MixedTx(t, alice, bob, 4)},
	}

	for _, verifierType := range verifierTypes {
		tv := newTestValidator(t, verifierType)

		for _, tt := range tests {
			t.Run(string(verifierType)+"/"+tt.name, func(t *testing.T) {
				tx := testutil.Decoded(t, tt.tx)

				bundle, err := tv.Validate(tx)
				require.NoError(t, err)
				require.NotNil(t, bundle)
				require.Len(t, bundle, tx.InputCount())

				for i, in := range tx.TxIn {
					assert.Equal(t, in.Witness, bundle[i])
				}
			})
		}
	}
}

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()

	b := make([]byte, n)

	_, err := rand.Read(b)
	require.NoError(t, err)

	return b
}

func TestValidateRejectsRandomSignature(t *testing.T) {
	alice := testutil.NewSigner(t, "alice")

	tests := []struct {
		name    string
		replace func(t *testing.T) *txcodec.Tx
	}{
		{
			name: "legacy",
			replace: func(t *testing.T) *txcodec.Tx {
				tx := testutil.LegacyTx(t, alice, 1)
				sig := alice.Sign(t, tx, 0, tx.TxOut[0].ScriptPubKey)
				tx.TxIn[0].ScriptSig = testutil.PushData(t, randomBytes(t, len(sig)), alice.PublicKey)

				return tx
			},
		},
		{
			name: "witness",
			replace: func(t *testing.T) *txcodec.Tx {
				tx := testutil.WitnessTx(t, alice, 1)
				tx.TxIn[0].Witness[0] = randomBytes(t, len(tx.TxIn[0].Witness[0]))

				return tx
			},
		},
		{
			name: "wrapped witness",
			replace: func(t *testing.T) *txcodec.Tx {
				tx := testutil.WrappedWitnessTx(t, alice, 1)
				tx.TxIn[0].Witness[0] = randomBytes(t, len(tx.TxIn[0].Witness[0]))

				return tx
			},
		},
	}

	for _, verifierType := range verifierTypes {
		tv := newTestValidator(t, verifierType)

		for _, tt := range tests {
			t.Run(string(verifierType)+"/"+tt.name, func(t *testing.T) {
				for range 20 {
					bundle, err := tv.Validate(testutil.Decoded(t, tt.replace(t)))
					require.NoError(t, err)
					assert.Nil(t, bundle)
				}
			})
		}
	}
}

func TestValidateLegacyBundleIsEmpty(t *testing.T) {
	tv := newTestValidator(t, validator.VerifierGoSDK)

	bundle, err := tv.Validate(testutil.Decoded(t, testutil.LegacyTx(t, testutil.NewSigner(t, "alice"), 1)))
	require.NoError(t, err)
	require.Len(t, bundle, 1)
	assert.Empty(t, bundle[0])
	assert.Equal(t, 0, bundle.Items())
}

func TestValidateRejects(t *testing.T) {
	alice := testutil.NewSigner(t, "alice")
	bob := testutil.NewSigner(t, "bob")

	tests := []struct {
		name   string
		mutate func(t *testing.T) *txcodec.Tx
	}{
		{
			name: "signature by another key",
			mutate: func(t *testing.T) *txcodec.Tx {
				tx := testutil.LegacyTx(t, alice, 1)
				sig := bob.Sign(t, tx, 0, tx.TxOut[0].ScriptPubKey)
				tx.TxIn[0].ScriptSig = testutil.PushData(t, sig, alice.PublicKey)

				return tx
			},
		},
		{
			name: "output changed after signing",
			mutate: func(t *testing.T) *txcodec.Tx {
				tx := testutil.WitnessTx(t, alice, 1)
				tx.TxOut[0].Value++

				return tx
			},
		},
		{
			name: "garbage signature",
			mutate: func(t *testing.T) *txcodec.Tx {
				tx := testutil.WrappedWitnessTx(t, alice, 1)
				tx.TxIn[0].Witness[0] = append(bytes.Repeat([]byte{0x30}, 20), validator.SigHashAll)

				return tx
			},
		},
		{
			name: "sighash type other than all",
			mutate: func(t *testing.T) *txcodec.Tx {
				tx := testutil.WitnessTx(t, alice, 1)
				sig := tx.TxIn[0].Witness[0]
				sig[len(sig)-1] = 0x41

				return tx
			},
		},
		{
			name: "second input fails",
			mutate: func(t *testing.T) *txcodec.Tx {
				tx := testutil.MixedTx(t, alice, bob, 1)
				tx.TxIn[1].Witness[1] = alice.PublicKey

				return tx
			},
		},
		{
			name: "missing referenced output",
			mutate: func(t *testing.T) *txcodec.Tx {
				tx := testutil.LegacyTx(t, alice, 1)
				tx.TxIn[0].PreviousOutPoint.Index = 5

				return tx
			},
		},
		{
			name: "unrecognized input",
			mutate: func(t *testing.T) *txcodec.Tx {
				tx := testutil.LegacyTx(t, alice, 1)
				tx.TxOut[0].ScriptPubKey = []byte{0x51}

				return tx
			},
		},
		{
			name: "no outputs",
			mutate: func(t *testing.T) *txcodec.Tx {
				tx := testutil.LegacyTx(t, alice, 1)
				tx.TxOut = nil

				return tx
			},
		},
		{
			name: "no inputs",
			mutate: func(t *testing.T) *txcodec.Tx {
				tx := testutil.LegacyTx(t, alice, 1)
				tx.TxIn = nil

				return tx
			},
		},
	}

	for _, verifierType := range verifierTypes {
		tv := newTestValidator(t, verifierType)

		for _, tt := range tests {
			t.Run(string(verifierType)+"/"+tt.name, func(t *testing.T) {
				bundle, err := tv.Validate(tt.mutate(t))
				require.NoError(t, err)
				assert.Nil(t, bundle)
			})
		}
	}
}

func TestValidateUnsupportedProgram(t *testing.T) {
	tv := newTestValidator(t, validator.VerifierGoSDK)

	tx := testutil.WitnessTx(t, testutil.NewSigner(t, "alice"), 1)
	tx.TxOut[0].ScriptPubKey = append([]byte{0x00, 0x20}, bytes.Repeat([]byte{0x01}, 32)...)

	bundle, err := tv.Validate(tx)
	require.Error(t, err)
	assert.Nil(t, bundle)
	assert.True(t, errors.Is(err, errors.ErrTxInvalid))
	assert.True(t, errors.Is(err, errors.ErrUnsupportedScript))

	var tErr *errors.Error
	require.True(t, errors.As(err, &tErr))
	assert.Equal(t, tx.TxID().String(), tErr.GetData("txid"))
	assert.Equal(t, 0, tErr.GetData("input"))
}

func TestValidateWithUtxoLookup(t *testing.T) {
	alice := testutil.NewSigner(t, "alice")
	bob := testutil.NewSigner(t, "bob")

	parent := testutil.LegacyTx(t, alice, 1)
	parentID := parent.TxID()

	child := &txcodec.Tx{
		Version: 1,
		TxIn: []*txcodec.Input{{
			PreviousOutPoint: txcodec.OutPoint{Hash: parentID[:], Index: 0},
			Sequence:         0xffffffff,
		}},
		TxOut: []*txcodec.Output{{Value: 5_000, ScriptPubKey: validator.PayToPubKeyHashScript(bob.PubKeyHash)}},
	}
	sig := alice.Sign(t, child, 0, parent.TxOut[0].ScriptPubKey)
	child.TxIn[0].ScriptSig = testutil.PushData(t, sig, alice.PublicKey)

	t.Run("self lookup rejects", func(t *testing.T) {
		bundle, err := newTestValidator(t, validator.VerifierGoSDK).Validate(child)
		require.NoError(t, err)
		assert.Nil(t, bundle)
	})

	t.Run("utxo lookup accepts", func(t *testing.T) {
		lookup := validator.NewUtxoLookup()
		require.NoError(t, lookup.AddTx(parent))
		assert.Equal(t, 1, lookup.Len())

		tv := newTestValidator(t, validator.VerifierBTCEC, validator.WithOutputLookup(lookup))

		bundle, err := tv.Validate(child)
		require.NoError(t, err)
		assert.Len(t, bundle, 1)
	})

	t.Run("utxo lookup without parent", func(t *testing.T) {
		tv := newTestValidator(t, validator.VerifierGoSDK, validator.WithOutputLookup(validator.NewUtxoLookup()))

		bundle, err := tv.Validate(child)
		require.NoError(t, err)
		assert.Nil(t, bundle)
	})
}

func TestNewOutputLookup(t *testing.T) {
	lookup, err := validator.NewOutputLookup("")
	require.NoError(t, err)
	assert.IsType(t, validator.SelfLookup{}, lookup)

	lookup, err = validator.NewOutputLookup(validator.OutputLookupUtxo)
	require.NoError(t, err)
	assert.IsType(t, &validator.UtxoLookup{}, lookup)

	_, err = validator.NewOutputLookup("aerospike")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrConfiguration))
}

func TestUtxoLookupNotFound(t *testing.T) {
	lookup := validator.NewUtxoLookup()
	tx := testutil.LegacyTx(t, testutil.NewSigner(t, "alice"), 9)

	_, err := lookup.LookupOutput(tx, tx.TxIn[0])
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	lookup.Add(tx.TxID(), 0, tx.TxOut[0])

	other := testutil.LegacyTx(t, testutil.NewSigner(t, "bob"), 9)
	_, err = lookup.LookupOutput(other, other.TxIn[0])
	require.Error(t, err)
}

func TestUtxoLookupSpend(t *testing.T) {
	alice := testutil.NewSigner(t, "alice")
	tx := testutil.LegacyTx(t, alice, 7)

	lookup := validator.NewUtxoLookup()
	lookup.Add(chainhash.Hash(bytes.Repeat([]byte{7}, 32)), 0, tx.TxOut[0])

	out, err := lookup.LookupOutput(tx, tx.TxIn[0])
	require.NoError(t, err)
	assert.Equal(t, tx.TxOut[0], out)

	require.NoError(t, lookup.Spend(tx))

	_, err = lookup.LookupOutput(tx, tx.TxIn[0])
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTxInvalid))

	err = lookup.Spend(tx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTxInvalid))

	twice := testutil.LegacyTx(t, alice, 8)
	twice.TxIn = append(twice.TxIn, twice.TxIn[0])

	err = lookup.Spend(twice)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTxInvalid))

	// the rejected spend consumed nothing
	lookup.Add(chainhash.Hash(bytes.Repeat([]byte{8}, 32)), 0, twice.TxOut[0])

	_, err = lookup.LookupOutput(twice, twice.TxIn[0])
	require.NoError(t, err)
}

func TestUtxoLookupFallback(t *testing.T) {
	alice := testutil.NewSigner(t, "alice")
	tx := testutil.LegacyTx(t, alice, 3)

	lookup := validator.NewUtxoLookup().WithFallback(validator.SelfLookup{})

	out, err := lookup.LookupOutput(tx, tx.TxIn[0])
	require.NoError(t, err)
	assert.Equal(t, tx.TxOut[0], out)

	// a pending mempool transaction is never resolved through the fallback
	lookup.Expect(chainhash.Hash(bytes.Repeat([]byte{3}, 32)))

	_, err = lookup.LookupOutput(tx, tx.TxIn[0])
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	tv := newTestValidator(t, validator.VerifierGoSDK, validator.WithOutputLookup(lookup))

	bundle, err := tv.Validate(tx)
	require.NoError(t, err)
	assert.Nil(t, bundle)
}
