package model

import (
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

// MiningSolution is the outcome of a successful proof-of-work search.
type MiningSolution struct {
	Id        []byte
	Nonce     uint32
	BlockHash *chainhash.Hash
	Block     []byte
	Attempts  uint64
	Duration  time.Duration
}
