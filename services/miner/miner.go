// Package miner runs the block building pipeline once: it reads the mempool,
// validates every transaction, assembles the candidate block, searches for a
// nonce and writes the mined block to the sink.
package miner

import (
	"context"
	"net/http"
	"time"

	"github.com/bsv-blockchain/mineblock/errors"
	"github.com/bsv-blockchain/mineblock/model"
	"github.com/bsv-blockchain/mineblock/pkg/txcodec"
	"github.com/bsv-blockchain/mineblock/services/blockassembly"
	"github.com/bsv-blockchain/mineblock/services/miner/cpuminer"
	"github.com/bsv-blockchain/mineblock/services/validator"
	"github.com/bsv-blockchain/mineblock/settings"
	"github.com/bsv-blockchain/mineblock/stores/blob"
	"github.com/bsv-blockchain/mineblock/stores/mempool"
	"github.com/bsv-blockchain/mineblock/ulogger"
	"github.com/bsv-blockchain/mineblock/util/health"
	"github.com/bsv-blockchain/mineblock/util/retry"
	"github.com/google/uuid"
)

// PowLimitTarget selects the proof-of-work limit of the configured network as target.
const PowLimitTarget = "powlimit"

type Miner struct {
	logger     ulogger.Logger
	settings   *settings.Settings
	source     mempool.Source
	sink       blob.Store
	validator  validator.TxValidatorI
	assembler  *blockassembly.BlockAssembler
	utxoLookup *validator.UtxoLookup
}

type pendingTx struct {
	name string
	tx   *txcodec.Tx
}

// NewMiner wires the validator and assembler configured in tSettings around
// source and sink. The signature verifier is created here, once per miner.
func NewMiner(logger ulogger.Logger, tSettings *settings.Settings, source mempool.Source, sink blob.Store) (*Miner, error) {
	initPrometheusMetrics()

	verifier, err := validator.NewSignatureVerifier(logger, tSettings)
	if err != nil {
		return nil, err
	}

	lookup, err := validator.NewOutputLookup(tSettings.Validator.OutputLookup)
	if err != nil {
		return nil, err
	}

	m := &Miner{
		logger:    logger,
		settings:  tSettings,
		source:    source,
		sink:      sink,
		validator: validator.NewTxValidator(logger, verifier, validator.WithOutputLookup(lookup)),
		assembler: blockassembly.NewBlockAssembler(logger, tSettings),
	}

	if utxoLookup, ok := lookup.(*validator.UtxoLookup); ok {
		m.utxoLookup = utxoLookup
	}

	return m, nil
}

// Run executes one mining run and returns the solution that was written to
// the sink. Transactions that fail to decode or validate are skipped; only
// source, sink, configuration and cancellation failures end the run.
func (m *Miner) Run(ctx context.Context) (*model.MiningSolution, error) {
	start := time.Now()
	runID := uuid.New()

	if m.settings.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, m.settings.Timeout)
		defer cancel()
	}

	target, err := ResolveTarget(m.settings)
	if err != nil {
		return nil, err
	}

	m.logger.Infof("[Miner][%s] starting run, target %s", runID, target)

	pending, err := m.readPending(ctx)
	if err != nil {
		return nil, err
	}

	candidates := m.selectCandidates(pending)

	coinbase, err := m.assembler.CreateCoinbase()
	if err != nil {
		return nil, err
	}

	block := m.assembler.Assemble(coinbase, candidates)

	solution, err := cpuminer.MineParallel(ctx, m.logger, block, target, m.settings.Mining.Workers,
		cpuminer.WithLogInterval(m.settings.Mining.LogInterval))
	if err != nil {
		return nil, err
	}

	solution.Id = runID[:]

	key := m.settings.Output.Key
	if key == "" {
		key = runID.String()
	}

	if err = m.store(ctx, key, solution.Block); err != nil {
		return nil, errors.NewStorageError("[Miner][%s] failed to store block under %s", runID, key, err)
	}

	prometheusMinerRun.Observe(time.Since(start).Seconds())

	m.logger.Infof("[Miner][%s] stored block %x (%d bytes, %d transactions) under %s, nonce %d",
		runID, solution.BlockHash[:], len(solution.Block), candidates.Len(), key, solution.Nonce)

	return solution, nil
}

// Health checks the mempool source, the block sink and the configured target.
func (m *Miner) Health(ctx context.Context, checkLiveness bool) (int, string, error) {
	checks := []health.Check{
		{Name: "Mempool", Check: m.source.Health},
		{Name: "Output", Check: m.sink.Health},
		{Name: "Target", Check: func(context.Context, bool) (int, string, error) {
			target, err := ResolveTarget(m.settings)
			if err != nil {
				return http.StatusServiceUnavailable, "invalid target", err
			}

			return http.StatusOK, target.String(), nil
		}},
	}

	return health.CheckAll(ctx, checkLiveness, checks)
}

// store writes block to the sink, retrying failures other than an existing key.
func (m *Miner) store(ctx context.Context, key string, block []byte) error {
	_, err := retry.Retry(ctx, m.logger, func() (struct{}, error) {
		return struct{}{}, m.sink.Set(ctx, []byte(key), block)
	},
		retry.WithRetryCount(m.settings.Output.StoreRetries),
		retry.WithBackoffMultiplier(2),
		retry.WithBackoffDurationType(m.settings.Output.StoreRetryBackoff),
		retry.WithMessage("[Miner] storing block under "+key),
		retry.WithRetryable(func(err error) bool {
			return !errors.Is(err, errors.ErrBlobExists) && !errors.Is(err, errors.ErrInvalidArgument)
		}),
	)

	return err
}

// readPending decodes every mempool entry in source order. Undecodable
// entries are logged and dropped.
func (m *Miner) readPending(ctx context.Context) ([]pendingTx, error) {
	var pending []pendingTx

	err := m.source.ForEach(ctx, func(entry *model.MempoolEntry) error {
		prometheusMinerTransactions.WithLabelValues("read").Inc()

		tx, err := txcodec.Decode(entry.Raw)
		if err != nil {
			prometheusMinerTransactions.WithLabelValues("malformed").Inc()
			m.logger.Warnf("[Miner] skipping %s: %v", entry.Name, err)

			return nil
		}

		if m.utxoLookup != nil {
			m.utxoLookup.Expect(tx.TxID())
		}

		pending = append(pending, pendingTx{name: entry.Name, tx: tx})

		return nil
	})
	if err != nil {
		if errors.Is(err, errors.ErrContextCanceled) || errors.Is(err, errors.ErrStorageError) {
			return nil, err
		}

		return nil, errors.NewProcessingError("[Miner] failed to read mempool", err)
	}

	return pending, nil
}

// selectCandidates validates pending transactions in order and keeps those
// whose every input verifies. With the utxo lookup a transaction may spend an
// earlier candidate, so rejected transactions are retried while a pass still
// accepts something; parents therefore always precede their children.
func (m *Miner) selectCandidates(pending []pendingTx) *model.CandidateSet {
	candidates := model.NewCandidateSet()
	remaining := pending

	for {
		var (
			deferred []pendingTx
			accepted int
		)

		for _, p := range remaining {
			bundle, err := m.validator.Validate(p.tx)
			if err != nil {
				prometheusMinerTransactions.WithLabelValues("error").Inc()
				m.logger.Errorf("[Miner] skipping %s: %v", p.name, err)

				continue
			}

			if bundle == nil {
				deferred = append(deferred, p)
				continue
			}

			if err = m.spend(p.tx); err != nil {
				prometheusMinerTransactions.WithLabelValues("rejected").Inc()
				m.logger.Debugf("[Miner] skipping %s: %v", p.name, err)

				continue
			}

			prometheusMinerTransactions.WithLabelValues("accepted").Inc()
			candidates.Add(p.tx.Bytes(), bundle)

			accepted++
		}

		if m.utxoLookup == nil || accepted == 0 || len(deferred) == 0 {
			prometheusMinerTransactions.WithLabelValues("rejected").Add(float64(len(deferred)))
			break
		}

		remaining = deferred
	}

	m.logger.Infof("[Miner] %d of %d transactions accepted", candidates.Len(), len(pending))

	return candidates
}

// spend consumes the outpoints of an accepted transaction and makes its
// outputs spendable by later candidates.
func (m *Miner) spend(tx *txcodec.Tx) error {
	if m.utxoLookup == nil {
		return nil
	}

	if err := m.utxoLookup.Spend(tx); err != nil {
		return err
	}

	return m.utxoLookup.AddTx(tx)
}

// ResolveTarget parses the configured mining target.
func ResolveTarget(tSettings *settings.Settings) (model.Target, error) {
	if tSettings.Mining.Target == PowLimitTarget {
		if tSettings.ChainCfgParams == nil {
			return model.Target{}, errors.NewConfigurationError("no chain params for network %q", tSettings.Network)
		}

		return model.NewTargetFromBig(tSettings.ChainCfgParams.PowLimit)
	}

	target, err := model.NewTargetFromHex(tSettings.Mining.Target)
	if err != nil {
		return model.Target{}, errors.NewConfigurationError("invalid mining_target", err)
	}

	return target, nil
}
