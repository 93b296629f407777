package settings

import (
	"net/url"
	"time"

	"github.com/bsv-blockchain/go-chaincfg"
)

type MempoolSettings struct {
	// SourceURL selects the transaction source, e.g. file://./mempool or memory://
	SourceURL *url.URL
}

type OutputSettings struct {
	// StoreURL selects the block sink, e.g. file://./output, bolt://./blocks.db or memory://
	StoreURL *url.URL
	// Key is the name the mined block is stored under. Empty means the mining run id.
	Key string
	// StoreRetries is how often a failing write is attempted before the run fails.
	StoreRetries      int
	StoreRetryBackoff time.Duration
}

type MiningSettings struct {
	// Target is a 64 character hex string, or "powlimit" for the network proof-of-work limit.
	Target      string
	Workers     int
	LogInterval uint64
}

type CoinbaseSettings struct {
	Reward     uint64
	PubKeyHash string
	ScriptSig  string
}

type ValidatorSettings struct {
	SignatureVerifier string
	OutputLookup      string
}

type Settings struct {
	ClientName              string
	LogLevel                string
	Network                 string
	ChainCfgParams          *chaincfg.Params
	Timeout                 time.Duration
	PrometheusListenAddress string
	Mempool                 MempoolSettings
	Output                  OutputSettings
	Mining                  MiningSettings
	Coinbase                CoinbaseSettings
	Validator               ValidatorSettings
}
