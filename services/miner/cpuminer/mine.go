// Package cpuminer searches the nonce space of an assembled block on the CPU.
package cpuminer

import (
	"bytes"
	"context"
	"math"
	"time"

	safeconversion "github.com/bsv-blockchain/go-safe-conversion"
	"github.com/bsv-blockchain/mineblock/errors"
	"github.com/bsv-blockchain/mineblock/model"
	"github.com/bsv-blockchain/mineblock/ulogger"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

// Mine writes nonces 0, 1, 2, ... into a copy of block and returns the first
// one whose block hash is below target. The caller's slice is never modified.
// A nonce wrap past 0xffffffff is not detected.
func Mine(ctx context.Context, logger ulogger.Logger, block []byte, target model.Target, opts ...Option) (*model.MiningSolution, error) {
	if len(block) < model.BlockHeaderSize {
		return nil, errors.NewInvalidArgumentError("block of %d bytes has no room for a header", len(block))
	}

	initPrometheusMetrics()

	options := NewOptions(opts...)
	start := time.Now()
	work := bytes.Clone(block)

	var (
		nonce    uint32
		attempts uint64
	)

	defer func() {
		prometheusMinerHashAttempts.Add(float64(attempts))
	}()

	for {
		select {
		case <-ctx.Done():
			return nil, errors.NewContextCanceledError("[Mine] stopped after %d attempts", attempts, ctx.Err())
		default:
		}

		model.SetNonce(work, nonce)
		hash := model.BlockHash(work)
		attempts++

		if target.IsMetBy(hash[:]) {
			return solved(logger, work, nonce, attempts, start), nil
		}

		if options.logInterval > 0 && attempts%options.logInterval == 0 {
			logProgress(logger, attempts, start)
		}

		nonce++
	}
}

// MineParallel splits the nonce space between workers: worker w tries w,
// w+workers, w+2*workers and so on, each on its own copy of block. The first
// worker to find a solution stops the others. Unlike Mine, running out of
// nonces is reported as ERR_PROCESSING.
func MineParallel(ctx context.Context, logger ulogger.Logger, block []byte, target model.Target, workers int, opts ...Option) (*model.MiningSolution, error) {
	if workers <= 1 {
		return Mine(ctx, logger, block, target, opts...)
	}

	if len(block) < model.BlockHeaderSize {
		return nil, errors.NewInvalidArgumentError("block of %d bytes has no room for a header", len(block))
	}

	step, err := safeconversion.IntToUint32(workers)
	if err != nil {
		return nil, errors.NewInvalidArgumentError("invalid worker count %d", workers, err)
	}

	initPrometheusMetrics()

	options := NewOptions(opts...)
	start := time.Now()

	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gCtx := errgroup.WithContext(searchCtx)

	var (
		found    = atomic.NewBool(false)
		attempts = atomic.NewUint64(0)
		winner   uint32
		mined    []byte
	)

	for w := uint32(0); w < step; w++ {
		g.Go(func() error {
			work := bytes.Clone(block)

			var local uint64

			defer func() {
				attempts.Add(local)
			}()

			for nonce := w; ; nonce += step {
				select {
				case <-gCtx.Done():
					return nil
				default:
				}

				model.SetNonce(work, nonce)
				hash := model.BlockHash(work)
				local++

				if target.IsMetBy(hash[:]) {
					if found.CompareAndSwap(false, true) {
						winner, mined = nonce, work

						cancel()
					}

					return nil
				}

				if w == 0 && options.logInterval > 0 && local%options.logInterval == 0 {
					logProgress(logger, local*uint64(step), start)
				}

				if nonce > math.MaxUint32-step {
					return nil
				}
			}
		})
	}

	_ = g.Wait()

	total := attempts.Load()
	prometheusMinerHashAttempts.Add(float64(total))

	if found.Load() {
		return solved(logger, mined, winner, total, start), nil
	}

	if ctx.Err() != nil {
		return nil, errors.NewContextCanceledError("[MineParallel] stopped after %d attempts", total, ctx.Err())
	}

	return nil, errors.NewProcessingError("[MineParallel] nonce space exhausted after %d attempts, target %s", total, target.String())
}

func solved(logger ulogger.Logger, block []byte, nonce uint32, attempts uint64, start time.Time) *model.MiningSolution {
	duration := time.Since(start)
	blockHash := model.BlockHash(block)

	prometheusMinerBlockMined.Observe(duration.Seconds())

	logger.Infof("[Mine] found nonce %d after %d attempts in %s, hash %x", nonce, attempts, duration, blockHash[:])

	return &model.MiningSolution{
		Nonce:     nonce,
		BlockHash: &blockHash,
		Block:     block,
		Attempts:  attempts,
		Duration:  duration,
	}
}

func logProgress(logger ulogger.Logger, attempts uint64, start time.Time) {
	elapsed := time.Since(start)
	rate := float64(attempts) / elapsed.Seconds()

	prometheusMinerHashRate.Set(rate)

	logger.Debugf("[Mine] %d attempts in %s (%.0f H/s)", attempts, elapsed.Truncate(time.Millisecond), rate)
}
