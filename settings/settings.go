// Package settings reads the typed configuration of the block builder from
// gocore (settings.conf, settings_local.conf and the environment).
package settings

import (
	"time"

	"github.com/bsv-blockchain/go-chaincfg"
)

const (
	// DefaultTargetHex requires the first two bytes of the block hash to be zero.
	DefaultTargetHex = "0000ffff00000000000000000000000000000000000000000000000000000000"

	// DefaultCoinbaseScriptSig is the arbitrary coinbase input script.
	DefaultCoinbaseScriptSig = "04ffff001d0104"

	// DefaultCoinbasePubKeyHash pays the reward to an all zero key hash.
	DefaultCoinbasePubKeyHash = "0000000000000000000000000000000000000000"
)

func NewSettings() *Settings {
	network := getString("network", "mainnet")

	params, err := chaincfg.GetChainParams(network)
	if err != nil {
		panic(err)
	}

	return &Settings{
		ClientName:              getString("clientName", "mineblock"),
		LogLevel:                getString("logLevel", "INFO"),
		Network:                 network,
		ChainCfgParams:          params,
		Timeout:                 getDuration("mineblock_timeout", 0),
		PrometheusListenAddress: getString("prometheusListenAddress", ""),
		Mempool: MempoolSettings{
			SourceURL: getURL("mempool_sourceURL", "file://./mempool"),
		},
		Output: OutputSettings{
			StoreURL:          getURL("output_storeURL", "file://./output"),
			Key:               getString("output_key", ""),
			StoreRetries:      getInt("output_storeRetries", 3),
			StoreRetryBackoff: getDuration("output_storeRetryBackoff", 100*time.Millisecond),
		},
		Mining: MiningSettings{
			Target:      getString("mining_target", DefaultTargetHex),
			Workers:     getInt("mining_workers", 1),
			LogInterval: getUint64("mining_logInterval", 1_000_000),
		},
		Coinbase: CoinbaseSettings{
			Reward:     getUint64("coinbase_reward", 5_000_000_000),
			PubKeyHash: getString("coinbase_pubKeyHash", DefaultCoinbasePubKeyHash),
			ScriptSig:  getString("coinbase_scriptSig", DefaultCoinbaseScriptSig),
		},
		Validator: ValidatorSettings{
			SignatureVerifier: getString("validator_signatureVerifier", "GoSDK"),
			OutputLookup:      getString("validator_outputLookup", "self"),
		},
	}
}
