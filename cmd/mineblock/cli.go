// Package mineblock is the command line front end of the block builder.
//
// Commands:
//   - mine: read the mempool, validate, assemble, mine and store one block.
//   - inspect: parse a stored block and print its header, hash and entries.
//   - health: check the source, the sink and the target.
//   - settings: print the resolved configuration.
package mineblock

import (
	"context"
	"encoding/hex"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bsv-blockchain/go-chaincfg"
	"github.com/bsv-blockchain/mineblock/errors"
	"github.com/bsv-blockchain/mineblock/model"
	"github.com/bsv-blockchain/mineblock/services/blockassembly"
	"github.com/bsv-blockchain/mineblock/services/miner"
	"github.com/bsv-blockchain/mineblock/settings"
	"github.com/bsv-blockchain/mineblock/stores/blob"
	"github.com/bsv-blockchain/mineblock/stores/mempool"
	"github.com/bsv-blockchain/mineblock/ulogger"
	"github.com/ordishs/gocore"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/urfave/cli/v2"
)

// Start runs the command line with args (without the program name) and exits
// non-zero on failure.
func Start(args []string, version, commit string) {
	app := NewApp(version, commit)

	if err := app.Run(append([]string{app.Name}, args...)); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func NewApp(version, commit string) *cli.App {
	return &cli.App{
		Name:    "mineblock",
		Usage:   "build and mine a candidate block from pending transactions",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		Commands: []*cli.Command{
			{
				Name:   "mine",
				Usage:  "Validate the mempool, assemble a block, mine it and store it",
				Action: mine,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "mempool", Usage: "transaction source URL, e.g. file://./mempool"},
					&cli.StringFlag{Name: "output", Usage: "block sink URL, e.g. file://./output or bolt://./blocks.db"},
					&cli.StringFlag{Name: "key", Usage: "key the mined block is stored under (default: run id)"},
					&cli.StringFlag{Name: "target", Usage: "64 character target hex, or powlimit"},
					&cli.StringFlag{Name: "network", Usage: "network whose proof-of-work limit powlimit refers to"},
					&cli.IntFlag{Name: "workers", Usage: "number of parallel nonce searchers"},
					&cli.StringFlag{Name: "verifier", Usage: "signature verifier: GoSDK or BTCEC"},
					&cli.StringFlag{Name: "lookup", Usage: "spent output lookup: self or utxo"},
					&cli.StringFlag{Name: "log-level", Usage: "DEBUG, INFO, WARN or ERROR"},
					&cli.DurationFlag{Name: "timeout", Usage: "abort the run after this long"},
				},
			},
			{
				Name:      "inspect",
				Usage:     "Parse a stored block and print its contents",
				ArgsUsage: "[key]",
				Action:    inspect,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Usage: "block store URL to read from"},
					&cli.StringFlag{Name: "target", Usage: "target to check the block hash against"},
				},
			},
			{
				Name:   "health",
				Usage:  "Check the mempool source, block sink and target",
				Action: checkHealth,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "mempool", Usage: "transaction source URL"},
					&cli.StringFlag{Name: "output", Usage: "block sink URL"},
					&cli.StringFlag{Name: "target", Usage: "64 character target hex, or powlimit"},
				},
			},
			{
				Name:  "settings",
				Usage: "Print the configuration",
				Action: func(c *cli.Context) error {
					return printSettings(c, version, commit)
				},
			},
		},
	}
}

func mine(c *cli.Context) error {
	tSettings := settings.NewSettings()

	if err := applyFlags(c, tSettings); err != nil {
		return err
	}

	logger := ulogger.New(tSettings.ClientName, ulogger.WithLevel(tSettings.LogLevel))

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := mempool.NewSource(logger, tSettings.Mempool.SourceURL)
	if err != nil {
		return err
	}

	defer func() {
		_ = source.Close(context.Background())
	}()

	sink, err := blob.NewStore(logger, tSettings.Output.StoreURL)
	if err != nil {
		return err
	}

	defer func() {
		_ = sink.Close(context.Background())
	}()

	m, err := miner.NewMiner(logger, tSettings, source, sink)
	if err != nil {
		return err
	}

	if tSettings.PrometheusListenAddress != "" {
		if err = serveHTTP(ctx, logger, tSettings.PrometheusListenAddress, m); err != nil {
			return err
		}
	}

	solution, err := m.Run(ctx)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(c.App.Writer, "nonce:    %d\nhash:     %s\nsize:     %d\nattempts: %d\nduration: %s\n",
		solution.Nonce, hex.EncodeToString(solution.BlockHash[:]), len(solution.Block), solution.Attempts, solution.Duration)

	return nil
}

func inspect(c *cli.Context) error {
	tSettings := settings.NewSettings()

	if err := applyFlags(c, tSettings); err != nil {
		return err
	}

	key := tSettings.Output.Key
	if c.Args().Present() {
		key = c.Args().First()
	}

	if key == "" {
		return errors.NewInvalidArgumentError("no block key given")
	}

	logger := ulogger.New(tSettings.ClientName, ulogger.WithLevel(tSettings.LogLevel))

	store, err := blob.NewStore(logger, tSettings.Output.StoreURL)
	if err != nil {
		return err
	}

	defer func() {
		_ = store.Close(context.Background())
	}()

	block, err := store.Get(c.Context, []byte(key))
	if err != nil {
		return err
	}

	parsed, err := blockassembly.ParseBlock(block)
	if err != nil {
		return err
	}

	target, err := miner.ResolveTarget(tSettings)
	if err != nil {
		return err
	}

	hash := model.BlockHash(block)
	w := c.App.Writer

	_, _ = fmt.Fprintf(w, "nonce:    %d\n", parsed.Header.Nonce)
	_, _ = fmt.Fprintf(w, "hash:     %s\n", hex.EncodeToString(hash[:]))
	_, _ = fmt.Fprintf(w, "target:   %s (met: %t)\n", target, target.IsMetBy(hash[:]))
	_, _ = fmt.Fprintf(w, "size:     %d\n", len(block))
	_, _ = fmt.Fprintf(w, "coinbase: %s %d bytes\n", parsed.Coinbase.Tx.TxID(), len(parsed.Coinbase.Raw))

	for i, entry := range parsed.Entries {
		_, _ = fmt.Fprintf(w, "tx %d:     %s %d bytes, %d witness items\n", i, entry.Tx.TxID(), len(entry.Raw), len(entry.Witness))
	}

	return nil
}

func checkHealth(c *cli.Context) error {
	tSettings := settings.NewSettings()

	if err := applyFlags(c, tSettings); err != nil {
		return err
	}

	logger := ulogger.New(tSettings.ClientName, ulogger.WithLevel(tSettings.LogLevel))

	source, err := mempool.NewSource(logger, tSettings.Mempool.SourceURL)
	if err != nil {
		return err
	}

	defer func() {
		_ = source.Close(context.Background())
	}()

	sink, err := blob.NewStore(logger, tSettings.Output.StoreURL)
	if err != nil {
		return err
	}

	defer func() {
		_ = sink.Close(context.Background())
	}()

	m, err := miner.NewMiner(logger, tSettings, source, sink)
	if err != nil {
		return err
	}

	status, message, err := m.Health(c.Context, true)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(c.App.Writer, message)

	if status != http.StatusOK {
		return errors.NewServiceUnavailableError("unhealthy: status %d", status)
	}

	return nil
}

func printSettings(c *cli.Context, version, commit string) error {
	tSettings := settings.NewSettings()

	stats := gocore.Config().Stats()

	_, _ = fmt.Fprintf(c.App.Writer, "STATS\n%s\nVERSION\n-------\n%s (%s)\n\n", stats, version, commit)
	_, _ = fmt.Fprintf(c.App.Writer, "network:  %s\nmempool:  %s\noutput:   %s\ntarget:   %s\nworkers:  %d\nverifier: %s\nlookup:   %s\n",
		tSettings.Network, tSettings.Mempool.SourceURL, tSettings.Output.StoreURL, tSettings.Mining.Target,
		tSettings.Mining.Workers, tSettings.Validator.SignatureVerifier, tSettings.Validator.OutputLookup)

	return nil
}

// applyFlags overrides tSettings with every flag set on the command line.
func applyFlags(c *cli.Context, tSettings *settings.Settings) error {
	var err error

	if c.IsSet("mempool") {
		if tSettings.Mempool.SourceURL, err = url.Parse(c.String("mempool")); err != nil {
			return errors.NewInvalidArgumentError("invalid --mempool", err)
		}
	}

	if c.IsSet("output") {
		if tSettings.Output.StoreURL, err = url.Parse(c.String("output")); err != nil {
			return errors.NewInvalidArgumentError("invalid --output", err)
		}
	}

	if c.IsSet("network") {
		network := c.String("network")

		params, pErr := chaincfg.GetChainParams(network)
		if pErr != nil {
			return errors.NewInvalidArgumentError("unknown network %q", network, pErr)
		}

		tSettings.Network = network
		tSettings.ChainCfgParams = params
	}

	if c.IsSet("key") {
		tSettings.Output.Key = c.String("key")
	}

	if c.IsSet("target") {
		tSettings.Mining.Target = c.String("target")
	}

	if c.IsSet("workers") {
		tSettings.Mining.Workers = c.Int("workers")
	}

	if c.IsSet("verifier") {
		tSettings.Validator.SignatureVerifier = c.String("verifier")
	}

	if c.IsSet("lookup") {
		tSettings.Validator.OutputLookup = c.String("lookup")
	}

	if c.IsSet("log-level") {
		tSettings.LogLevel = c.String("log-level")
	}

	if c.IsSet("timeout") {
		tSettings.Timeout = c.Duration("timeout")
	}

	return nil
}

// serveHTTP exposes /metrics and /health on addr until ctx is done.
func serveHTTP(ctx context.Context, logger ulogger.Logger, addr string, m *miner.Miner) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.NewConfigurationError("failed to listen on %s", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status, message, _ := m.Health(r.Context(), r.URL.Query().Get("liveness") != "")

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(message))
	})

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Infof("[mineblock] serving metrics and health on http://%s", listener.Addr())

		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("[mineblock] http server stopped: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		_ = server.Shutdown(shutdownCtx)
	}()

	return nil
}
