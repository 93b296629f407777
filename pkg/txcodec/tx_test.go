package txcodec

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/bsv-blockchain/mineblock/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// genesis block coinbase
const genesisCoinbaseHex = "01000000010000000000000000000000000000000000000000000000000000000000000000ffffffff4d04ffff001d0104455468652054696d65732030332f4a616e2f32303039204368616e63656c6c6f72206f6e206272696e6b206f66207365636f6e64206261696c6f757420666f722062616e6b73ffffffff0100f2052a01000000434104678afdb0fe5548271967f1a67130b7105cd6a828e03909a67962e0ea1f61deb649f6bc3f4cef38c4f35504e51ec112de5c384df7ba0b8d578a4c702b6bf11d5fac00000000"

func sampleWitnessTx() *Tx {
	return &Tx{
		Version: 2,
		TxIn: []*Input{
			{
				PreviousOutPoint: OutPoint{Hash: bytes.Repeat([]byte{0x11}, 32), Index: 1},
				ScriptSig:        nil,
				Sequence:         0xfffffffe,
				Witness:          [][]byte{bytes.Repeat([]byte{0x30}, 71), bytes.Repeat([]byte{0x02}, 33)},
			},
			{
				PreviousOutPoint: OutPoint{Hash: bytes.Repeat([]byte{0x22}, 32), Index: 0},
				ScriptSig:        []byte{0x01, 0x02, 0x03},
				Sequence:         0xffffffff,
			},
		},
		TxOut: []*Output{
			{Value: 1000, ScriptPubKey: []byte{0x00, 0x14, 0x01, 0x02}},
			{Value: 2_000_000, ScriptPubKey: bytes.Repeat([]byte{0xab}, 300)},
		},
		LockTime: 500,
	}
}

func TestDecodeGenesisCoinbase(t *testing.T) {
	raw, err := hex.DecodeString(genesisCoinbaseHex)
	require.NoError(t, err)

	tx, err := Decode(raw)
	require.NoError(t, err)

	assert.Equal(t, uint32(1), tx.Version)
	require.Equal(t, 1, tx.InputCount())
	require.Equal(t, 1, tx.OutputCount())
	assert.True(t, tx.TxIn[0].PreviousOutPoint.IsNull())
	assert.Len(t, tx.TxIn[0].ScriptSig, 77)
	assert.False(t, tx.HasWitness())

	out, err := tx.OutputAt(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(5_000_000_000), out.Value)

	assert.Equal(t, "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b", tx.TxID().String())
	assert.Equal(t, raw, tx.Serialize())
	assert.Equal(t, raw, tx.Bytes())
}

func TestWitnessRoundTrip(t *testing.T) {
	built := sampleWitnessTx()
	raw := built.Serialize()

	// marker and flag follow the version
	assert.Equal(t, []byte{0x00, 0x01}, raw[4:6])

	tx, err := Decode(raw)
	require.NoError(t, err)

	assert.True(t, tx.HasWitness())
	assert.Equal(t, built.TxIn[0].Witness, tx.TxIn[0].Witness)
	assert.Nil(t, tx.TxIn[1].Witness)
	assert.Equal(t, uint32(500), tx.LockTime)
	assert.Equal(t, raw, tx.Serialize())
	assert.Equal(t, built.TxID(), tx.TxID())
	assert.NotEqual(t, tx.TxID(), tx.WTxID())

	legacy, err := Decode(tx.SerializeNoWitness())
	require.NoError(t, err)
	assert.False(t, legacy.HasWitness())
	assert.Equal(t, tx.TxID(), legacy.TxID())
}

func TestDecodedFieldsAliasBuffer(t *testing.T) {
	raw := sampleWitnessTx().Serialize()

	tx, err := Decode(raw)
	require.NoError(t, err)

	// the first input's hash starts right after version, marker, flag and count
	assert.Same(t, &raw[7], &tx.TxIn[0].PreviousOutPoint.Hash[0])
}

func TestInputsIsRestartable(t *testing.T) {
	tx, err := Decode(sampleWitnessTx().Serialize())
	require.NoError(t, err)

	for range 2 {
		count := 0
		for i, in := range tx.Inputs() {
			assert.Equal(t, tx.TxIn[i], in)
			count++
		}

		assert.Equal(t, 2, count)
	}

	for i := range tx.Inputs() {
		require.Equal(t, 0, i)
		break
	}
}

func TestOutputAtOutOfRange(t *testing.T) {
	tx, err := Decode(sampleWitnessTx().Serialize())
	require.NoError(t, err)

	_, err = tx.OutputAt(2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrOutputOutOfRange))

	_, err = tx.OutputAt(0xffffffff)
	assert.True(t, errors.Is(err, errors.ErrOutputOutOfRange))
}

func TestDecodeTruncated(t *testing.T) {
	for _, raw := range [][]byte{sampleWitnessTx().Serialize(), sampleWitnessTx().SerializeNoWitness()} {
		for n := 0; n < len(raw); n++ {
			_, err := Decode(raw[:n])
			require.Error(t, err, "length %d", n)
			require.True(t, errors.Is(err, errors.ErrMalformedEncoding), "length %d: %v", n, err)
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	valid := sampleWitnessTx().SerializeNoWitness()

	tests := []struct {
		name string
		raw  []byte
	}{
		{"trailing bytes", append(append([]byte(nil), valid...), 0x00)},
		{"bad witness flag", append([]byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x02}, valid[4:]...)},
		{"input count larger than buffer", append([]byte{0x01, 0x00, 0x00, 0x00, 0xfd, 0xff, 0xff}, bytes.Repeat([]byte{0x00}, 50)...)},
		{"huge script length", append(append([]byte{0x01, 0x00, 0x00, 0x00, 0x01}, bytes.Repeat([]byte{0x00}, 36)...), 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00)},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrMalformedEncoding), err.Error())
		})
	}
}

func TestDecodePrefix(t *testing.T) {
	raw := sampleWitnessTx().Serialize()
	buf := append(append([]byte(nil), raw...), 0xde, 0xad)

	tx, n, err := DecodePrefix(buf)
	require.NoError(t, err)
	assert.Equal(t, len(raw), n)
	assert.Equal(t, raw, tx.Bytes())
}

func TestWriterHelpers(t *testing.T) {
	assert.Equal(t, []byte{0xfc}, AppendVarInt(nil, 0xfc))
	assert.Equal(t, []byte{0xfd, 0xfd, 0x00}, AppendVarInt(nil, 0xfd))
	assert.Equal(t, []byte{0xfe, 0x00, 0x00, 0x01, 0x00}, AppendVarInt(nil, 0x10000))
	assert.Equal(t, []byte{0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xaa, 0xbb, 0xcc}, AppendLengthPrefixed(nil, []byte{0xaa, 0xbb, 0xcc}))
	assert.Equal(t, []byte{0x02, 0xaa, 0xbb}, AppendVarBytes(nil, []byte{0xaa, 0xbb}))
}
