package model

import (
	"testing"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNonceRoundTrip(t *testing.T) {
	block := make([]byte, BlockHeaderSize+10)

	SetNonce(block, 0x01020304)
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, block[76:80])
	assert.Equal(t, uint32(0x01020304), GetNonce(block))

	header, err := NewBlockHeaderFromBytes(block)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01020304), header.Nonce)
	assert.Equal(t, uint32(0), header.Version)
	assert.Equal(t, block[:BlockHeaderSize], header.Bytes())
}

func TestNewBlockHeaderFromBytesTooShort(t *testing.T) {
	_, err := NewBlockHeaderFromBytes(make([]byte, 79))
	require.Error(t, err)
}

func TestBlockHashDeterministic(t *testing.T) {
	block := make([]byte, BlockHeaderSize+32)

	first := BlockHash(block)
	second := BlockHash(block)
	assert.Equal(t, first, second)

	for i := 0; i < BlockHeaderSize; i++ {
		mutated := append([]byte(nil), block...)
		mutated[i] ^= 0x01
		assert.NotEqual(t, first, BlockHash(mutated), "byte %d", i)
	}
}

func TestBlockHashDistinctAcrossNonces(t *testing.T) {
	block := make([]byte, BlockHeaderSize+32)
	seen := make(map[chainhash.Hash]uint32, 4096)

	for nonce := uint32(0); nonce < 4096; nonce++ {
		SetNonce(block, nonce)

		hash := BlockHash(block)
		if prev, ok := seen[hash]; ok {
			t.Fatalf("nonce %d and %d hash the same", prev, nonce)
		}

		seen[hash] = nonce
	}
}

func TestCandidateSetOrder(t *testing.T) {
	cs := NewCandidateSet()
	cs.Add([]byte{0x01}, nil)
	cs.Add([]byte{0x02}, WitnessBundle{{{0xaa}, {0xbb}}})

	require.Equal(t, 2, cs.Len())

	var got []byte
	for i, c := range cs.All() {
		got = append(got, c.Tx...)
		if i == 1 {
			assert.Equal(t, 2, c.Witness.Items())
		}
	}

	assert.Equal(t, []byte{0x01, 0x02}, got)

	var empty *CandidateSet
	assert.Equal(t, 0, empty.Len())
}
