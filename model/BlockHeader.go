package model

import (
	"encoding/binary"

	"github.com/bsv-blockchain/go-bt/v2"
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/mineblock/errors"
)

const (
	// BlockHeaderSize is the fixed size of the header region at the start of every block.
	BlockHeaderSize = 80

	// NonceOffset is where the 4 byte little endian nonce lives inside the header.
	NonceOffset = 76
)

type BlockHeader struct {
	// Version of the block.  This is not the same as the protocol version.
	Version uint32

	// Hash of the previous block header in the blockchain.
	HashPrevBlock *chainhash.Hash

	// Merkle tree reference to hash of all transactions for the block.
	HashMerkleRoot *chainhash.Hash

	// Time the block was created im unix time.
	Timestamp uint32

	// Difficulty bits, big endian as displayed.
	Bits []byte

	// Nonce used to generate the block.
	Nonce uint32
}

// NewBlockHeaderFromBytes decodes the first 80 bytes of headerBytes.
func NewBlockHeaderFromBytes(headerBytes []byte) (*BlockHeader, error) {
	if len(headerBytes) < BlockHeaderSize {
		return nil, errors.NewInvalidArgumentError("block header should be %d bytes long, got %d", BlockHeaderSize, len(headerBytes))
	}

	hashPrevBlock, err := chainhash.NewHash(headerBytes[4:36])
	if err != nil {
		return nil, errors.NewProcessingError("error creating previous block hash from bytes", err)
	}

	hashMerkleRoot, err := chainhash.NewHash(headerBytes[36:68])
	if err != nil {
		return nil, errors.NewProcessingError("error creating merkle root hash from bytes", err)
	}

	return &BlockHeader{
		Version:        binary.LittleEndian.Uint32(headerBytes[:4]),
		HashPrevBlock:  hashPrevBlock,
		HashMerkleRoot: hashMerkleRoot,
		Timestamp:      binary.LittleEndian.Uint32(headerBytes[68:72]),
		Bits:           bt.ReverseBytes(headerBytes[72:76]),
		Nonce:          binary.LittleEndian.Uint32(headerBytes[NonceOffset:BlockHeaderSize]),
	}, nil
}

func (bh *BlockHeader) Bytes() []byte {
	blockHeaderBytes := make([]byte, 0, BlockHeaderSize)

	blockHeaderBytes = binary.LittleEndian.AppendUint32(blockHeaderBytes, bh.Version)
	blockHeaderBytes = append(blockHeaderBytes, hashBytes(bh.HashPrevBlock)...)
	blockHeaderBytes = append(blockHeaderBytes, hashBytes(bh.HashMerkleRoot)...)
	blockHeaderBytes = binary.LittleEndian.AppendUint32(blockHeaderBytes, bh.Timestamp)

	bits := make([]byte, 4)
	copy(bits, bh.Bits)
	blockHeaderBytes = append(blockHeaderBytes, bt.ReverseBytes(bits)...)

	blockHeaderBytes = binary.LittleEndian.AppendUint32(blockHeaderBytes, bh.Nonce)

	return blockHeaderBytes
}

func hashBytes(h *chainhash.Hash) []byte {
	if h == nil {
		return make([]byte, chainhash.HashSize)
	}

	return h.CloneBytes()
}
