package validator

import (
	"bytes"

	"github.com/bsv-blockchain/go-bt/v2/bscript"
	crypto "github.com/bsv-blockchain/go-sdk/primitives/hash"
	"github.com/bsv-blockchain/mineblock/errors"
)

// ScriptClass is the spending condition recognised for an input.
type ScriptClass int

const (
	// ScriptUnrecognized is any shape the matcher does not accept.
	ScriptUnrecognized ScriptClass = iota
	// ScriptLegacyPKH is pay-to-public-key-hash spent through the script sig.
	ScriptLegacyPKH
	// ScriptWitnessPKH is a native version 0 pay-to-witness-public-key-hash spend.
	ScriptWitnessPKH
	// ScriptWrappedWitnessPKH is P2WPKH nested in a P2SH redeem script.
	ScriptWrappedWitnessPKH
)

func (c ScriptClass) String() string {
	switch c {
	case ScriptUnrecognized:
		return "Unrecognized"
	case ScriptLegacyPKH:
		return "LegacyPKH"
	case ScriptWitnessPKH:
		return "WitnessPKH"
	case ScriptWrappedWitnessPKH:
		return "WrappedWitnessPKH"
	default:
		return "Invalid"
	}
}

const (
	pubKeyHashSize = 20

	// OP_0 OP_DATA_20 <20 bytes>
	witnessPKHProgramSize = 2 + pubKeyHashSize
)

// SpendMatch is what the matcher extracts from a recognised input: the
// signature push (sighash byte included), the public key and the script code
// the signature commits to.
type SpendMatch struct {
	Class      ScriptClass
	Signature  []byte
	PublicKey  []byte
	ScriptCode []byte
}

var unrecognized = &SpendMatch{Class: ScriptUnrecognized}

// Classify returns the class of an input given its script sig, its witness
// stack and the locking script of the output it spends.
func Classify(scriptSig []byte, witness [][]byte, lockingScript []byte) (ScriptClass, error) {
	match, err := MatchSpend(scriptSig, witness, lockingScript)
	if err != nil {
		return ScriptUnrecognized, err
	}

	return match.Class, nil
}

// MatchSpend classifies an input and extracts its signing material. Shapes
// that simply do not match yield ScriptUnrecognized. A version 0 witness
// program of a length other than 20 bytes fails with ERR_UNSUPPORTED_SCRIPT.
func MatchSpend(scriptSig []byte, witness [][]byte, lockingScript []byte) (*SpendMatch, error) {
	switch {
	case len(witness) == 0:
		return matchLegacyPKH(scriptSig, lockingScript), nil
	case len(scriptSig) == 0:
		return matchWitnessPKH(witness, lockingScript)
	default:
		return matchWrappedWitnessPKH(scriptSig, witness, lockingScript)
	}
}

func matchLegacyPKH(scriptSig []byte, lockingScript []byte) *SpendMatch {
	parts, ok := decodePushes(scriptSig)
	if !ok || len(parts) != 2 {
		return unrecognized
	}

	sig, pubKey := parts[0], parts[1]

	if !bytes.Equal(lockingScript, PayToPubKeyHashScript(crypto.Hash160(pubKey))) {
		return unrecognized
	}

	return &SpendMatch{
		Class:      ScriptLegacyPKH,
		Signature:  sig,
		PublicKey:  pubKey,
		ScriptCode: lockingScript,
	}
}

func matchWitnessPKH(witness [][]byte, lockingScript []byte) (*SpendMatch, error) {
	program, ok := witnessV0Program(lockingScript)
	if !ok {
		return unrecognized, nil
	}

	if len(program) != pubKeyHashSize {
		return nil, errors.NewUnsupportedScriptError("witness program of %d bytes", len(program))
	}

	return matchWitnessStack(ScriptWitnessPKH, program, witness), nil
}

func matchWrappedWitnessPKH(scriptSig []byte, witness [][]byte, lockingScript []byte) (*SpendMatch, error) {
	parts, ok := decodePushes(scriptSig)
	if !ok || len(parts) != 1 {
		return unrecognized, nil
	}

	redeemScript := parts[0]

	program, ok := witnessV0Program(redeemScript)
	if !ok {
		return unrecognized, nil
	}

	if len(redeemScript) != witnessPKHProgramSize {
		return nil, errors.NewUnsupportedScriptError("redeem script witness program of %d bytes", len(program))
	}

	if !bytes.Equal(lockingScript, PayToScriptHashScript(crypto.Hash160(redeemScript))) {
		return unrecognized, nil
	}

	return matchWitnessStack(ScriptWrappedWitnessPKH, program, witness), nil
}

// matchWitnessStack checks a <sig> <pubkey> witness against a 20 byte key hash program.
func matchWitnessStack(class ScriptClass, program []byte, witness [][]byte) *SpendMatch {
	if len(witness) != 2 {
		return unrecognized
	}

	sig, pubKey := witness[0], witness[1]

	if !bytes.Equal(program, crypto.Hash160(pubKey)) {
		return unrecognized
	}

	return &SpendMatch{
		Class:      class,
		Signature:  sig,
		PublicKey:  pubKey,
		ScriptCode: PayToPubKeyHashScript(program),
	}
}

// PayToPubKeyHashScript builds OP_DUP OP_HASH160 <hash> OP_EQUALVERIFY OP_CHECKSIG.
func PayToPubKeyHashScript(pubKeyHash []byte) []byte {
	s := make([]byte, 0, 25)
	s = append(s, bscript.OpDUP, bscript.OpHASH160, bscript.OpDATA20)
	s = append(s, pubKeyHash...)

	return append(s, bscript.OpEQUALVERIFY, bscript.OpCHECKSIG)
}

// PayToScriptHashScript builds OP_HASH160 <hash> OP_EQUAL.
func PayToScriptHashScript(scriptHash []byte) []byte {
	s := make([]byte, 0, 23)
	s = append(s, bscript.OpHASH160, bscript.OpDATA20)
	s = append(s, scriptHash...)

	return append(s, bscript.OpEQUAL)
}

// PayToWitnessPubKeyHashScript builds OP_0 <20 byte hash>.
func PayToWitnessPubKeyHashScript(pubKeyHash []byte) []byte {
	s := make([]byte, 0, witnessPKHProgramSize)
	s = append(s, bscript.Op0, bscript.OpDATA20)

	return append(s, pubKeyHash...)
}

// witnessV0Program returns the program of an OP_0 <2..40 bytes> script.
func witnessV0Program(script []byte) ([]byte, bool) {
	if len(script) < 4 || len(script) > 42 {
		return nil, false
	}

	if script[0] != bscript.Op0 || int(script[1]) != len(script)-2 {
		return nil, false
	}

	return script[2:], true
}

// decodePushes splits a script that consists only of canonical data pushes.
func decodePushes(script []byte) ([][]byte, bool) {
	if len(script) == 0 {
		return nil, false
	}

	parts, err := bscript.DecodeParts(script)
	if err != nil {
		return nil, false
	}

	canonical := &bscript.Script{}
	for _, part := range parts {
		if len(part) == 0 {
			return nil, false
		}

		if err = canonical.AppendPushData(part); err != nil {
			return nil, false
		}
	}

	if !bytes.Equal(*canonical, script) {
		return nil, false
	}

	return parts, true
}
