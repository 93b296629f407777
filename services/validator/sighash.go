package validator

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/mineblock/errors"
	"github.com/bsv-blockchain/mineblock/pkg/txcodec"
)

// SigHashAll is the only signature hash type accepted. It is appended to the
// preimage as a single byte and must terminate every signature push.
const SigHashAll byte = 0x01

// SignaturePreimage builds the bytes signed for input inputIndex: the
// witness-less serialization of tx in which every script sig is emptied except
// the signing input's, which carries scriptCode, followed by SigHashAll.
func SignaturePreimage(tx *txcodec.Tx, inputIndex int, scriptCode []byte) ([]byte, error) {
	if inputIndex < 0 || inputIndex >= len(tx.TxIn) {
		return nil, errors.NewInvalidArgumentError("input index %d out of range, transaction has %d inputs", inputIndex, len(tx.TxIn))
	}

	preimage := txcodec.AppendUint32LE(nil, tx.Version)

	preimage = txcodec.AppendVarInt(preimage, uint64(len(tx.TxIn)))
	for i, in := range tx.TxIn {
		var script []byte
		if i == inputIndex {
			script = scriptCode
		}

		preimage = txcodec.AppendInput(preimage, in, script)
	}

	preimage = txcodec.AppendVarInt(preimage, uint64(len(tx.TxOut)))
	for _, out := range tx.TxOut {
		preimage = txcodec.AppendOutput(preimage, out)
	}

	preimage = txcodec.AppendUint32LE(preimage, tx.LockTime)

	return append(preimage, SigHashAll), nil
}

// SignatureHash is the double SHA256 of SignaturePreimage.
func SignatureHash(tx *txcodec.Tx, inputIndex int, scriptCode []byte) ([]byte, error) {
	preimage, err := SignaturePreimage(tx, inputIndex, scriptCode)
	if err != nil {
		return nil, err
	}

	return chainhash.DoubleHashB(preimage), nil
}
