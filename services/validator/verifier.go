package validator

import (
	"github.com/bsv-blockchain/mineblock/errors"
	"github.com/bsv-blockchain/mineblock/settings"
	"github.com/bsv-blockchain/mineblock/ulogger"
)

// VerifierType names a signature verification engine.
type VerifierType string

const (
	// VerifierGoSDK verifies with the go-sdk secp256k1 implementation.
	VerifierGoSDK VerifierType = "GoSDK"

	// VerifierBTCEC verifies with btcec.
	VerifierBTCEC VerifierType = "BTCEC"
)

// SignatureVerifier checks an ECDSA signature. Implementations hold whatever
// curve context they need; one instance is built at startup and shared by
// every validation call.
type SignatureVerifier interface {
	// Verify checks derSig, without its sighash byte, over hash for pubKey.
	// Any parse or verification failure is ERR_INVALID_SIGNATURE.
	Verify(hash []byte, derSig []byte, pubKey []byte) error

	// Type returns the engine behind the verifier
	Type() VerifierType
}

// SignatureVerifierCreator builds a verifier.
type SignatureVerifierCreator func(logger ulogger.Logger) SignatureVerifier

// SignatureVerifierFactory holds the registered verifier creators.
var SignatureVerifierFactory = make(map[VerifierType]SignatureVerifierCreator)

// NewSignatureVerifier builds the verifier selected by validator_signatureVerifier.
func NewSignatureVerifier(logger ulogger.Logger, tSettings *settings.Settings) (SignatureVerifier, error) {
	verifierType := VerifierType(tSettings.Validator.SignatureVerifier)
	if verifierType == "" {
		verifierType = VerifierGoSDK
	}

	create, ok := SignatureVerifierFactory[verifierType]
	if !ok {
		return nil, errors.NewConfigurationError("unknown signature verifier %q", verifierType)
	}

	logger.Infof("[Validator] using %s signature verifier", verifierType)

	return create(logger), nil
}
