package model

import (
	"bytes"
	"encoding/hex"
	"math/big"

	"github.com/bsv-blockchain/mineblock/errors"
)

// TargetSize is the length of a target and of a block hash.
const TargetSize = 32

// Target is the threshold a block hash has to fall below. It is compared
// lexicographically with the hash bytes, index 0 being the most significant.
type Target [TargetSize]byte

// NewTargetFromHex parses a 64 character hex string.
func NewTargetFromHex(s string) (Target, error) {
	var t Target

	b, err := hex.DecodeString(s)
	if err != nil {
		return t, errors.NewInvalidArgumentError("invalid target hex %q", s, err)
	}

	if len(b) != TargetSize {
		return t, errors.NewInvalidArgumentError("target must be %d bytes, got %d", TargetSize, len(b))
	}

	copy(t[:], b)

	return t, nil
}

// NewTargetFromBig encodes a non-negative integer as a big endian target.
func NewTargetFromBig(n *big.Int) (Target, error) {
	var t Target

	if n == nil || n.Sign() < 0 || n.BitLen() > TargetSize*8 {
		return t, errors.NewInvalidArgumentError("target value out of range")
	}

	n.FillBytes(t[:])

	return t, nil
}

// IsMetBy reports whether hash is strictly below the target.
func (t Target) IsMetBy(hash []byte) bool {
	return bytes.Compare(hash, t[:]) < 0
}

func (t Target) String() string {
	return hex.EncodeToString(t[:])
}
