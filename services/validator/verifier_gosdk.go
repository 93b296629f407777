package validator

import (
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	"github.com/bsv-blockchain/mineblock/errors"
	"github.com/bsv-blockchain/mineblock/ulogger"
)

func init() {
	SignatureVerifierFactory[VerifierGoSDK] = newGoSDKVerifier
}

type goSDKVerifier struct {
	logger ulogger.Logger
}

func newGoSDKVerifier(logger ulogger.Logger) SignatureVerifier {
	return &goSDKVerifier{logger: logger}
}

func (v *goSDKVerifier) Verify(hash []byte, derSig []byte, pubKey []byte) error {
	sig, err := ec.ParseDERSignature(derSig)
	if err != nil {
		v.logger.Debugf("[%s] unparseable signature %x: %v", v.Type(), derSig, err)
		return errors.NewInvalidSignatureError("failed to parse signature", err)
	}

	pk, err := ec.ParsePubKey(pubKey)
	if err != nil {
		v.logger.Debugf("[%s] unparseable public key %x: %v", v.Type(), pubKey, err)
		return errors.NewInvalidSignatureError("failed to parse public key", err)
	}

	if !sig.Verify(hash, pk) {
		return errors.NewInvalidSignatureError("signature does not verify")
	}

	return nil
}

func (v *goSDKVerifier) Type() VerifierType {
	return VerifierGoSDK
}
