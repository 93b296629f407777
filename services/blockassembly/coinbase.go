package blockassembly

import (
	"github.com/bsv-blockchain/go-bt/v2/bscript"
	"github.com/bsv-blockchain/mineblock/pkg/txcodec"
)

const (
	// DefaultCoinbaseReward is 50 BTC in satoshis.
	DefaultCoinbaseReward uint64 = 50_0000_0000

	coinbaseIndex    = 0xffffffff
	coinbaseSequence = 0
)

// CreateCoinbaseTx builds the synthetic reward transaction: one null outpoint
// input carrying scriptSig and one P2PKH output of reward to pubKeyHash.
func CreateCoinbaseTx(reward uint64, pubKeyHash []byte, scriptSig []byte) []byte {
	lockingScript := make([]byte, 0, 25)
	lockingScript = append(lockingScript, bscript.OpDUP, bscript.OpHASH160, bscript.OpDATA20)
	lockingScript = append(lockingScript, pubKeyHash...)
	lockingScript = append(lockingScript, bscript.OpEQUALVERIFY, bscript.OpCHECKSIG)

	tx := &txcodec.Tx{
		Version: 1,
		TxIn: []*txcodec.Input{{
			PreviousOutPoint: txcodec.OutPoint{Hash: make([]byte, 32), Index: coinbaseIndex},
			ScriptSig:        scriptSig,
			Sequence:         coinbaseSequence,
		}},
		TxOut: []*txcodec.Output{{
			Value:        reward,
			ScriptPubKey: lockingScript,
		}},
	}

	return tx.Serialize()
}
