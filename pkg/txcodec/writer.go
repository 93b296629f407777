package txcodec

import (
	"encoding/binary"

	"github.com/bsv-blockchain/go-bt/v2"
)

// AppendVarInt appends n as a Bitcoin compact size integer.
func AppendVarInt(b []byte, n uint64) []byte {
	return append(b, bt.VarInt(n).Bytes()...)
}

func AppendUint32LE(b []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(b, v)
}

func AppendUint64LE(b []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(b, v)
}

// AppendVarBytes appends data behind its compact size length.
func AppendVarBytes(b []byte, data []byte) []byte {
	b = AppendVarInt(b, uint64(len(data)))
	return append(b, data...)
}

// AppendLengthPrefixed appends data behind an 8 byte little endian length,
// the framing used for every entry of an assembled block.
func AppendLengthPrefixed(b []byte, data []byte) []byte {
	b = AppendUint64LE(b, uint64(len(data)))
	return append(b, data...)
}
