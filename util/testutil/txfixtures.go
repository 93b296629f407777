package testutil

import (
	"bytes"
	"crypto/sha256"
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/bscript"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	crypto "github.com/bsv-blockchain/go-sdk/primitives/hash"
	"github.com/bsv-blockchain/mineblock/pkg/txcodec"
	"github.com/bsv-blockchain/mineblock/services/validator"
	"github.com/stretchr/testify/require"
)

// Signer is a deterministic key pair derived from a seed string.
type Signer struct {
	PrivateKey *ec.PrivateKey
	PublicKey  []byte
	PubKeyHash []byte
}

func NewSigner(t testing.TB, seed string) *Signer {
	t.Helper()

	keyBytes := sha256.Sum256([]byte(seed))
	privateKey, publicKey := ec.PrivateKeyFromBytes(keyBytes[:])
	require.NotNil(t, privateKey)

	pub := publicKey.Compressed()

	return &Signer{
		PrivateKey: privateKey,
		PublicKey:  pub,
		PubKeyHash: crypto.Hash160(pub),
	}
}

// Sign returns a DER signature with the SIGHASH_ALL byte appended, for input
// index of tx committing to scriptCode.
func (s *Signer) Sign(t testing.TB, tx *txcodec.Tx, index int, scriptCode []byte) []byte {
	t.Helper()

	hash, err := validator.SignatureHash(tx, index, scriptCode)
	require.NoError(t, err)

	sig, err := s.PrivateKey.Sign(hash)
	require.NoError(t, err)

	return append(sig.Serialize(), validator.SigHashAll)
}

// PushData builds a script of canonical pushes of items.
func PushData(t testing.TB, items ...[]byte) []byte {
	t.Helper()

	script := &bscript.Script{}
	for _, item := range items {
		require.NoError(t, script.AppendPushData(item))
	}

	return *script
}

func unsignedTx(prevHashSeed byte, prevIndices []uint32, outputs ...[]byte) *txcodec.Tx {
	tx := &txcodec.Tx{Version: 1}

	for _, idx := range prevIndices {
		tx.TxIn = append(tx.TxIn, &txcodec.Input{
			PreviousOutPoint: txcodec.OutPoint{Hash: bytes.Repeat([]byte{prevHashSeed}, 32), Index: idx},
			Sequence:         0xffffffff,
		})
	}

	for i, script := range outputs {
		tx.TxOut = append(tx.TxOut, &txcodec.Output{Value: uint64(10_000 * (i + 1)), ScriptPubKey: script})
	}

	return tx
}

// LegacyTx is a signed P2PKH spend of its own output 0, which pays to s.
func LegacyTx(t testing.TB, s *Signer, prevHashSeed byte) *txcodec.Tx {
	t.Helper()

	lockingScript := validator.PayToPubKeyHashScript(s.PubKeyHash)
	tx := unsignedTx(prevHashSeed, []uint32{0}, lockingScript)

	sig := s.Sign(t, tx, 0, lockingScript)
	tx.TxIn[0].ScriptSig = PushData(t, sig, s.PublicKey)

	return tx
}

// WitnessTx is a signed native P2WPKH spend of its own output 0.
func WitnessTx(t testing.TB, s *Signer, prevHashSeed byte) *txcodec.Tx {
	t.Helper()

	tx := unsignedTx(prevHashSeed, []uint32{0}, validator.PayToWitnessPubKeyHashScript(s.PubKeyHash))

	sig := s.Sign(t, tx, 0, validator.PayToPubKeyHashScript(s.PubKeyHash))
	tx.TxIn[0].Witness = [][]byte{sig, s.PublicKey}

	return tx
}

// WrappedWitnessTx is a signed P2SH-P2WPKH spend of its own output 0.
func WrappedWitnessTx(t testing.TB, s *Signer, prevHashSeed byte) *txcodec.Tx {
	t.Helper()

	redeemScript := validator.PayToWitnessPubKeyHashScript(s.PubKeyHash)
	tx := unsignedTx(prevHashSeed, []uint32{0}, validator.PayToScriptHashScript(crypto.Hash160(redeemScript)))
	tx.TxIn[0].ScriptSig = PushData(t, redeemScript)

	sig := s.Sign(t, tx, 0, validator.PayToPubKeyHashScript(s.PubKeyHash))
	tx.TxIn[0].Witness = [][]byte{sig, s.PublicKey}

	return tx
}

// MixedTx spends its output 0 with a P2PKH input signed by a and its output 1
// with a native P2WPKH input signed by b.
func MixedTx(t testing.TB, a, b *Signer, prevHashSeed byte) *txcodec.Tx {
	t.Helper()

	legacyScript := validator.PayToPubKeyHashScript(a.PubKeyHash)
	tx := unsignedTx(prevHashSeed, []uint32{0, 1}, legacyScript, validator.PayToWitnessPubKeyHashScript(b.PubKeyHash))

	sigA := a.Sign(t, tx, 0, legacyScript)
	sigB := b.Sign(t, tx, 1, validator.PayToPubKeyHashScript(b.PubKeyHash))

	tx.TxIn[0].ScriptSig = PushData(t, sigA, a.PublicKey)
	tx.TxIn[1].Witness = [][]byte{sigB, b.PublicKey}

	return tx
}

// Decoded serializes tx and decodes it again, which is what the pipeline sees.
func Decoded(t testing.TB, tx *txcodec.Tx) *txcodec.Tx {
	t.Helper()

	decoded, err := txcodec.Decode(tx.Serialize())
	require.NoError(t, err)

	return decoded
}
