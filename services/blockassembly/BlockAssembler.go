// Package blockassembly lays out a candidate block: an 80 byte header region
// followed by the coinbase and every accepted transaction, each framed by an
// 8 byte little endian length.
package blockassembly

import (
	"encoding/hex"
	"time"

	"github.com/bsv-blockchain/mineblock/errors"
	"github.com/bsv-blockchain/mineblock/model"
	"github.com/bsv-blockchain/mineblock/pkg/txcodec"
	"github.com/bsv-blockchain/mineblock/settings"
	"github.com/bsv-blockchain/mineblock/ulogger"
)

// BlockAssembler builds block byte sequences for the miner.
type BlockAssembler struct {
	logger   ulogger.Logger
	settings *settings.Settings
}

func NewBlockAssembler(logger ulogger.Logger, tSettings *settings.Settings) *BlockAssembler {
	initPrometheusMetrics()

	return &BlockAssembler{
		logger:   logger,
		settings: tSettings,
	}
}

// CreateCoinbase builds the reward transaction from the coinbase settings.
func (ba *BlockAssembler) CreateCoinbase() ([]byte, error) {
	pubKeyHash, err := hex.DecodeString(ba.settings.Coinbase.PubKeyHash)
	if err != nil {
		return nil, errors.NewConfigurationError("coinbase_pubKeyHash is not valid hex", err)
	}

	if len(pubKeyHash) != 20 {
		return nil, errors.NewConfigurationError("coinbase_pubKeyHash must be 20 bytes, got %d", len(pubKeyHash))
	}

	scriptSig, err := hex.DecodeString(ba.settings.Coinbase.ScriptSig)
	if err != nil {
		return nil, errors.NewConfigurationError("coinbase_scriptSig is not valid hex", err)
	}

	return CreateCoinbaseTx(ba.settings.Coinbase.Reward, pubKeyHash, scriptSig), nil
}

// Assemble lays out the block for coinbase and candidates and records its size.
func (ba *BlockAssembler) Assemble(coinbase []byte, candidates *model.CandidateSet) []byte {
	start := time.Now()

	block := Assemble(coinbase, candidates)

	prometheusBlockAssemblerAssemble.Observe(time.Since(start).Seconds())
	prometheusBlockAssemblerBlockSize.Observe(float64(len(block)))
	prometheusBlockAssemblerTransactions.Set(float64(candidates.Len()))

	ba.logger.Infof("[BlockAssembler] assembled block of %d bytes with %d transactions", len(block), candidates.Len())

	return block
}

// Assemble returns 80 zero header bytes, the length prefixed coinbase and,
// in insertion order, every candidate as one length prefixed entry holding the
// transaction bytes followed by each of its witness items, each of those
// length prefixed as well.
func Assemble(coinbase []byte, candidates *model.CandidateSet) []byte {
	block := make([]byte, model.BlockHeaderSize, blockSize(coinbase, candidates))

	block = txcodec.AppendLengthPrefixed(block, coinbase)

	for _, candidate := range candidates.All() {
		block = txcodec.AppendUint64LE(block, uint64(entrySize(candidate)))
		block = append(block, candidate.Tx...)

		for _, stack := range candidate.Witness {
			for _, item := range stack {
				block = txcodec.AppendLengthPrefixed(block, item)
			}
		}
	}

	return block
}

func entrySize(candidate model.Candidate) int {
	n := len(candidate.Tx)

	for _, stack := range candidate.Witness {
		for _, item := range stack {
			n += model.LengthPrefixSize + len(item)
		}
	}

	return n
}

func blockSize(coinbase []byte, candidates *model.CandidateSet) int {
	n := model.BlockHeaderSize + model.LengthPrefixSize + len(coinbase)

	for _, candidate := range candidates.All() {
		n += model.LengthPrefixSize + entrySize(candidate)
	}

	return n
}
