/*
Package validator decides which pending transactions may enter a candidate block.

Every input of a transaction is matched against the two spending conditions the
block builder understands, pay-to-public-key-hash and pay-to-witness-public-key-hash
(native or nested in P2SH). The signature of each input is then checked over a
SIGHASH_ALL preimage with the configured SignatureVerifier.

A transaction is accepted only when every input passes. An input that fails is an
ordinary rejection: Validate returns no bundle and no error. A witness program of
an unsupported length is a hard ERR_UNSUPPORTED_SCRIPT error because it means the
transaction uses an encoding the validator was never meant to see.
*/
package validator

import (
	"time"

	"github.com/bsv-blockchain/mineblock/errors"
	"github.com/bsv-blockchain/mineblock/model"
	"github.com/bsv-blockchain/mineblock/pkg/txcodec"
	"github.com/bsv-blockchain/mineblock/ulogger"
)

// TxValidatorI is implemented by TxValidator and by test doubles.
type TxValidatorI interface {
	// Validate returns the witness stacks of tx when every input is validly
	// signed, nil when the transaction is rejected, and an error only for
	// transactions that cannot be classified at all.
	Validate(tx *txcodec.Tx) (model.WitnessBundle, error)
}

// TxValidator implements transaction validation logic
type TxValidator struct {
	logger   ulogger.Logger
	verifier SignatureVerifier
	options  *TxValidatorOptions
}

// NewTxValidator creates a validator around a verifier built once by the caller.
func NewTxValidator(logger ulogger.Logger, verifier SignatureVerifier, opts ...TxValidatorOption) *TxValidator {
	initPrometheusMetrics()

	return &TxValidator{
		logger:   logger,
		verifier: verifier,
		options:  NewTxValidatorOptions(opts...),
	}
}

// Validate checks every input of tx. Rejection is all or nothing: the first
// failing input excludes the whole transaction.
func (tv *TxValidator) Validate(tx *txcodec.Tx) (model.WitnessBundle, error) {
	start := time.Now()
	defer func() {
		prometheusTransactionValidate.Observe(time.Since(start).Seconds())
	}()

	txid := tx.TxID()

	if tx.InputCount() == 0 || tx.OutputCount() == 0 {
		tv.reject(txid.String(), -1, errors.NewTxInvalidError("transaction has no inputs or outputs"))
		return nil, nil
	}

	bundle := make(model.WitnessBundle, 0, tx.InputCount())

	for i, in := range tx.Inputs() {
		if err := tv.validateInput(tx, i, in); err != nil {
			if errors.Is(err, errors.ErrUnsupportedScript) {
				prometheusTransactionErrors.Inc()

				txErr := errors.New(errors.ERR_TX_INVALID, "[Validate][%s] input %d", txid.String(), i, err)
				txErr.SetData("txid", txid.String())
				txErr.SetData("input", i)

				return nil, txErr
			}

			tv.reject(txid.String(), i, err)

			return nil, nil
		}

		bundle = append(bundle, in.Witness)
	}

	prometheusTransactionAccepted.Inc()
	tv.logger.Debugf("[Validate][%s] accepted, %d inputs", txid.String(), tx.InputCount())

	return bundle, nil
}

func (tv *TxValidator) validateInput(tx *txcodec.Tx, index int, in *txcodec.Input) error {
	prevOutput, err := tv.options.outputLookup.LookupOutput(tx, in)
	if err != nil {
		return errors.NewScriptMismatchError("referenced output unavailable", err)
	}

	match, err := MatchSpend(in.ScriptSig, in.Witness, prevOutput.ScriptPubKey)
	if err != nil {
		return err
	}

	switch match.Class {
	case ScriptUnrecognized:
		return errors.NewScriptMismatchError("input does not match a supported spending condition")
	case ScriptLegacyPKH, ScriptWitnessPKH, ScriptWrappedWitnessPKH:
	default:
		return errors.NewScriptMismatchError("unknown script class %d", match.Class)
	}

	sig := match.Signature
	if len(sig) < 2 || sig[len(sig)-1] != SigHashAll {
		return errors.NewInvalidSignatureError("signature is not SIGHASH_ALL")
	}

	hash, err := SignatureHash(tx, index, match.ScriptCode)
	if err != nil {
		return err
	}

	return tv.verifier.Verify(hash, sig[:len(sig)-1], match.PublicKey)
}

func (tv *TxValidator) reject(txid string, index int, reason error) {
	prometheusTransactionRejected.WithLabelValues(errors.CodeOf(reason).String()).Inc()

	tv.logger.Debugf("[Validate][%s] rejected at input %d: %v", txid, index, reason)
}
