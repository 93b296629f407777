package model

import (
	"encoding/binary"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

// LengthPrefixSize is the width of every length prefix in the block layout.
const LengthPrefixSize = 8

// SetNonce writes nonce, little endian, into bytes 76..80 of the block header.
func SetNonce(block []byte, nonce uint32) {
	binary.LittleEndian.PutUint32(block[NonceOffset:BlockHeaderSize], nonce)
}

// GetNonce reads the nonce field of the block header.
func GetNonce(block []byte) uint32 {
	return binary.LittleEndian.Uint32(block[NonceOffset:BlockHeaderSize])
}

// BlockHash is the double SHA256 of the whole block byte sequence, header and
// transactions, in the byte order produced by the hash function.
func BlockHash(block []byte) chainhash.Hash {
	return chainhash.DoubleHashH(block)
}
