package validator

import (
	"github.com/bsv-blockchain/mineblock/errors"
	"github.com/bsv-blockchain/mineblock/ulogger"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

func init() {
	SignatureVerifierFactory[VerifierBTCEC] = newBTCECVerifier
}

type btcecVerifier struct {
	logger ulogger.Logger
}

func newBTCECVerifier(logger ulogger.Logger) SignatureVerifier {
	return &btcecVerifier{logger: logger}
}

func (v *btcecVerifier) Verify(hash []byte, derSig []byte, pubKey []byte) error {
	sig, err := ecdsa.ParseDERSignature(derSig)
	if err != nil {
		v.logger.Debugf("[%s] unparseable signature %x: %v", v.Type(), derSig, err)
		return errors.NewInvalidSignatureError("failed to parse signature", err)
	}

	pk, err := btcec.ParsePubKey(pubKey)
	if err != nil {
		v.logger.Debugf("[%s] unparseable public key %x: %v", v.Type(), pubKey, err)
		return errors.NewInvalidSignatureError("failed to parse public key", err)
	}

	if !sig.Verify(hash, pk) {
		return errors.NewInvalidSignatureError("signature does not verify")
	}

	return nil
}

func (v *btcecVerifier) Type() VerifierType {
	return VerifierBTCEC
}
