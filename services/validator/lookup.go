package validator

import (
	"github.com/bsv-blockchain/go-bt/v2/chainhash"
	safeconversion "github.com/bsv-blockchain/go-safe-conversion"
	"github.com/bsv-blockchain/mineblock/errors"
	"github.com/bsv-blockchain/mineblock/pkg/txcodec"
)

const (
	// OutputLookupSelf resolves an input against the spending transaction's own outputs.
	OutputLookupSelf = "self"

	// OutputLookupUtxo resolves an input against the outputs of accepted
	// mempool transactions, falling back to self for outpoints the mempool
	// does not produce.
	OutputLookupUtxo = "utxo"
)

// OutputLookup resolves the output an input spends.
type OutputLookup interface {
	LookupOutput(tx *txcodec.Tx, in *txcodec.Input) (*txcodec.Output, error)
}

// NewOutputLookup returns the lookup named by validator_outputLookup.
func NewOutputLookup(kind string) (OutputLookup, error) {
	switch kind {
	case "", OutputLookupSelf:
		return SelfLookup{}, nil
	case OutputLookupUtxo:
		return NewUtxoLookup().WithFallback(SelfLookup{}), nil
	default:
		return nil, errors.NewConfigurationError("unknown output lookup %q", kind)
	}
}

// SelfLookup takes the output at the input's previous output index from the
// spending transaction itself.
type SelfLookup struct{}

func (SelfLookup) LookupOutput(tx *txcodec.Tx, in *txcodec.Input) (*txcodec.Output, error) {
	return tx.OutputAt(in.PreviousOutPoint.Index)
}

type outpointKey struct {
	hash  chainhash.Hash
	index uint32
}

// UtxoLookup resolves inputs against the outputs of accepted transactions, so a
// mempool transaction may spend another one once that one is in the block.
//
// Outpoints of transactions registered with Expect resolve only after AddTx.
// Any other outpoint goes to the fallback lookup, or is not found when there
// is none. An outpoint resolves at most once: Spend consumes it.
type UtxoLookup struct {
	outputs  map[outpointKey]*txcodec.Output
	spent    map[outpointKey]struct{}
	expected map[chainhash.Hash]struct{}
	fallback OutputLookup
}

func NewUtxoLookup() *UtxoLookup {
	return &UtxoLookup{
		outputs:  make(map[outpointKey]*txcodec.Output),
		spent:    make(map[outpointKey]struct{}),
		expected: make(map[chainhash.Hash]struct{}),
	}
}

// WithFallback resolves outpoints of unknown transactions through fallback.
func (u *UtxoLookup) WithFallback(fallback OutputLookup) *UtxoLookup {
	u.fallback = fallback
	return u
}

// Expect marks txid as a pending transaction whose outputs are not spendable
// until it is added with AddTx.
func (u *UtxoLookup) Expect(txid chainhash.Hash) {
	u.expected[txid] = struct{}{}
}

// AddTx indexes every output of tx under its txid.
func (u *UtxoLookup) AddTx(tx *txcodec.Tx) error {
	txid := tx.TxID()

	for i, out := range tx.TxOut {
		index, err := safeconversion.IntToUint32(i)
		if err != nil {
			return errors.NewProcessingError("output index %d overflows", i, err)
		}

		u.outputs[outpointKey{hash: txid, index: index}] = out
	}

	return nil
}

// Add indexes a single output. hash is in internal byte order.
func (u *UtxoLookup) Add(hash chainhash.Hash, index uint32, out *txcodec.Output) {
	u.outputs[outpointKey{hash: hash, index: index}] = out
}

// Spend consumes every outpoint tx spends. Nothing is consumed when one of them
// is already spent or appears twice in tx.
func (u *UtxoLookup) Spend(tx *txcodec.Tx) error {
	keys := make(map[outpointKey]struct{}, len(tx.TxIn))

	for i, in := range tx.TxIn {
		key, err := keyOf(in)
		if err != nil {
			return err
		}

		if _, ok := u.spent[key]; ok {
			return errors.NewTxInvalidError("input %d spends %s:%d, already spent", i, key.hash, key.index)
		}

		if _, ok := keys[key]; ok {
			return errors.NewTxInvalidError("input %d spends %s:%d twice", i, key.hash, key.index)
		}

		keys[key] = struct{}{}
	}

	for key := range keys {
		u.spent[key] = struct{}{}
	}

	return nil
}

func (u *UtxoLookup) Len() int {
	return len(u.outputs)
}

func (u *UtxoLookup) LookupOutput(tx *txcodec.Tx, in *txcodec.Input) (*txcodec.Output, error) {
	key, err := keyOf(in)
	if err != nil {
		return nil, err
	}

	if _, ok := u.spent[key]; ok {
		return nil, errors.NewTxInvalidError("output %s:%d already spent", key.hash, key.index)
	}

	if out, ok := u.outputs[key]; ok {
		return out, nil
	}

	if _, ok := u.expected[key.hash]; !ok && u.fallback != nil {
		return u.fallback.LookupOutput(tx, in)
	}

	return nil, errors.NewNotFoundError("output %s:%d not found", key.hash, key.index)
}

func keyOf(in *txcodec.Input) (outpointKey, error) {
	hash, err := chainhash.NewHash(in.PreviousOutPoint.Hash)
	if err != nil {
		return outpointKey{}, errors.NewMalformedEncodingError("invalid previous tx hash", err)
	}

	return outpointKey{hash: *hash, index: in.PreviousOutPoint.Index}, nil
}
