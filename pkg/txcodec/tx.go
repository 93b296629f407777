// Package txcodec decodes and re-encodes the parts of the Bitcoin transaction
// wire format the block builder needs: inputs, outputs, BIP144 witnesses and
// lock time. It checks structure only; whether a spend is valid is decided by
// the validator.
//
// Decoded byte fields are sub-slices of the buffer handed to Decode, so the
// buffer must not be modified while the Tx is in use.
package txcodec

import (
	"iter"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	"github.com/bsv-blockchain/mineblock/errors"
)

const (
	witnessMarker = 0x00
	witnessFlag   = 0x01

	// smallest possible encodings, used to bound counts before allocating
	minInputSize  = 32 + 4 + 1 + 4
	minOutputSize = 8 + 1
	minItemSize   = 1
)

// OutPoint references an output of a previous transaction. Hash is in
// internal (little endian) byte order, as it appears on the wire.
type OutPoint struct {
	Hash  []byte
	Index uint32
}

// IsNull reports whether the outpoint is the coinbase null outpoint.
func (o OutPoint) IsNull() bool {
	if o.Index != 0xffffffff {
		return false
	}

	for _, b := range o.Hash {
		if b != 0 {
			return false
		}
	}

	return true
}

type Input struct {
	PreviousOutPoint OutPoint
	ScriptSig        []byte
	Sequence         uint32
	Witness          [][]byte
}

type Output struct {
	Value        uint64
	ScriptPubKey []byte
}

type Tx struct {
	Version  uint32
	TxIn     []*Input
	TxOut    []*Output
	LockTime uint32

	raw []byte
}

// Decode decodes a complete transaction. Trailing bytes are an error.
func Decode(raw []byte) (*Tx, error) {
	tx, n, err := DecodePrefix(raw)
	if err != nil {
		return nil, err
	}

	if n != len(raw) {
		return nil, errors.NewMalformedEncodingError("%d trailing bytes after transaction", len(raw)-n)
	}

	return tx, nil
}

// DecodePrefix decodes the transaction at the start of raw and returns the
// number of bytes it occupies.
func DecodePrefix(raw []byte) (*Tx, int, error) {
	r := &reader{buf: raw}
	tx := &Tx{}

	var err error

	if tx.Version, err = r.readUint32("version"); err != nil {
		return nil, 0, err
	}

	segwit := false

	if r.remaining() >= 2 && r.buf[r.pos] == witnessMarker {
		if r.buf[r.pos+1] != witnessFlag {
			return nil, 0, errors.NewMalformedEncodingError("witness marker followed by flag 0x%02x", r.buf[r.pos+1])
		}

		segwit = true
		r.pos += 2
	}

	inCount, err := r.readCount("input count", minInputSize)
	if err != nil {
		return nil, 0, err
	}

	tx.TxIn = make([]*Input, 0, inCount)

	for i := uint64(0); i < inCount; i++ {
		in, err := readInput(r)
		if err != nil {
			return nil, 0, errors.NewMalformedEncodingError("input %d", i, err)
		}

		tx.TxIn = append(tx.TxIn, in)
	}

	outCount, err := r.readCount("output count", minOutputSize)
	if err != nil {
		return nil, 0, err
	}

	tx.TxOut = make([]*Output, 0, outCount)

	for i := uint64(0); i < outCount; i++ {
		out, err := readOutput(r)
		if err != nil {
			return nil, 0, errors.NewMalformedEncodingError("output %d", i, err)
		}

		tx.TxOut = append(tx.TxOut, out)
	}

	if segwit {
		for i, in := range tx.TxIn {
			if in.Witness, err = readWitness(r); err != nil {
				return nil, 0, errors.NewMalformedEncodingError("witness %d", i, err)
			}
		}
	}

	if tx.LockTime, err = r.readUint32("lock time"); err != nil {
		return nil, 0, err
	}

	tx.raw = raw[:r.pos:r.pos]

	return tx, r.pos, nil
}

func readInput(r *reader) (*Input, error) {
	var (
		in  = &Input{}
		err error
	)

	if in.PreviousOutPoint.Hash, err = r.readBytes(chainhash.HashSize, "previous tx hash"); err != nil {
		return nil, err
	}

	if in.PreviousOutPoint.Index, err = r.readUint32("previous output index"); err != nil {
		return nil, err
	}

	scriptLen, err := r.readVarInt("script sig length")
	if err != nil {
		return nil, err
	}

	if in.ScriptSig, err = r.readBytes(scriptLen, "script sig"); err != nil {
		return nil, err
	}

	if in.Sequence, err = r.readUint32("sequence"); err != nil {
		return nil, err
	}

	return in, nil
}

func readOutput(r *reader) (*Output, error) {
	var (
		out = &Output{}
		err error
	)

	if out.Value, err = r.readUint64("value"); err != nil {
		return nil, err
	}

	scriptLen, err := r.readVarInt("script pubkey length")
	if err != nil {
		return nil, err
	}

	if out.ScriptPubKey, err = r.readBytes(scriptLen, "script pubkey"); err != nil {
		return nil, err
	}

	return out, nil
}

func readWitness(r *reader) ([][]byte, error) {
	itemCount, err := r.readCount("witness item count", minItemSize)
	if err != nil {
		return nil, err
	}

	if itemCount == 0 {
		return nil, nil
	}

	items := make([][]byte, 0, itemCount)

	for j := uint64(0); j < itemCount; j++ {
		itemLen, err := r.readVarInt("witness item length")
		if err != nil {
			return nil, err
		}

		item, err := r.readBytes(itemLen, "witness item")
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	return items, nil
}

// Inputs iterates the inputs in order. The sequence can be ranged over any
// number of times.
func (tx *Tx) Inputs() iter.Seq2[int, *Input] {
	return func(yield func(int, *Input) bool) {
		for i, in := range tx.TxIn {
			if !yield(i, in) {
				return
			}
		}
	}
}

// OutputAt returns the output at index.
func (tx *Tx) OutputAt(index uint32) (*Output, error) {
	if uint64(index) >= uint64(len(tx.TxOut)) {
		return nil, errors.NewOutputOutOfRangeError("output %d requested, transaction has %d outputs", index, len(tx.TxOut))
	}

	return tx.TxOut[index], nil
}

func (tx *Tx) InputCount() int {
	return len(tx.TxIn)
}

func (tx *Tx) OutputCount() int {
	return len(tx.TxOut)
}

// HasWitness reports whether any input carries witness data.
func (tx *Tx) HasWitness() bool {
	for _, in := range tx.TxIn {
		if len(in.Witness) > 0 {
			return true
		}
	}

	return false
}

// Bytes returns the bytes the transaction was decoded from, or its
// serialization when it was built in memory.
func (tx *Tx) Bytes() []byte {
	if tx.raw != nil {
		return tx.raw
	}

	return tx.Serialize()
}

// Serialize encodes the transaction, in BIP144 form when any input has a witness.
func (tx *Tx) Serialize() []byte {
	return tx.appendTo(make([]byte, 0, tx.size()), tx.HasWitness())
}

// SerializeNoWitness encodes the transaction without marker, flag and witnesses.
func (tx *Tx) SerializeNoWitness() []byte {
	return tx.appendTo(make([]byte, 0, tx.size()), false)
}

// TxID is the double SHA256 of the witness-less serialization.
func (tx *Tx) TxID() chainhash.Hash {
	return chainhash.DoubleHashH(tx.SerializeNoWitness())
}

// WTxID is the double SHA256 of the full serialization.
func (tx *Tx) WTxID() chainhash.Hash {
	return chainhash.DoubleHashH(tx.Serialize())
}

func (tx *Tx) appendTo(b []byte, witness bool) []byte {
	b = AppendUint32LE(b, tx.Version)

	if witness {
		b = append(b, witnessMarker, witnessFlag)
	}

	b = AppendVarInt(b, uint64(len(tx.TxIn)))
	for _, in := range tx.TxIn {
		b = AppendInput(b, in, in.ScriptSig)
	}

	b = AppendVarInt(b, uint64(len(tx.TxOut)))
	for _, out := range tx.TxOut {
		b = AppendOutput(b, out)
	}

	if witness {
		for _, in := range tx.TxIn {
			b = AppendVarInt(b, uint64(len(in.Witness)))
			for _, item := range in.Witness {
				b = AppendVarBytes(b, item)
			}
		}
	}

	return AppendUint32LE(b, tx.LockTime)
}

// AppendInput appends the wire encoding of in, using script in place of its
// script sig. Signature hashing uses it to substitute the script code.
func AppendInput(b []byte, in *Input, script []byte) []byte {
	hash := in.PreviousOutPoint.Hash
	if len(hash) != chainhash.HashSize {
		padded := make([]byte, chainhash.HashSize)
		copy(padded, hash)
		hash = padded
	}

	b = append(b, hash...)
	b = AppendUint32LE(b, in.PreviousOutPoint.Index)
	b = AppendVarBytes(b, script)

	return AppendUint32LE(b, in.Sequence)
}

func AppendOutput(b []byte, out *Output) []byte {
	b = AppendUint64LE(b, out.Value)
	return AppendVarBytes(b, out.ScriptPubKey)
}

func (tx *Tx) size() int {
	n := 4 + 9 + 9 + 4
	for _, in := range tx.TxIn {
		n += minInputSize + 8 + len(in.ScriptSig)
		for _, item := range in.Witness {
			n += 9 + len(item)
		}
	}

	for _, out := range tx.TxOut {
		n += minOutputSize + 8 + len(out.ScriptPubKey)
	}

	return n
}
