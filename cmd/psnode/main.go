// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/pooledstaking/pstake/cmd/psnode/httpserver"
	"github.com/pooledstaking/pstake/co"
	"github.com/pooledstaking/pstake/health"
	"github.com/pooledstaking/pstake/log"
	"github.com/pooledstaking/pstake/logdb"
	"github.com/pooledstaking/pstake/lvldb"
	"github.com/pooledstaking/pstake/metrics"
	"github.com/pooledstaking/pstake/pool"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "psnode")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version: fullVersion(),
		Name:    "psnode",
		Usage:   "Pooled staking ledger with deferred settlement",
		Flags: []cli.Flag{
			dataDirFlag,
			configFlag,
			persistFlag,
			cacheFlag,
			summaryCacheFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiTimeoutFlag,
			apiBacktraceLimitFlag,
			apiLogsLimitFlag,
			apiPageLimitFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			healthMaxPendingAgeFlag,
			verbosityFlag,
			jsonLogsFlag,
			autoProcessFlag,
			ntpCheckFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	cfg, err := loadConfig(ctx.String(configFlag.Name))
	if err != nil {
		return err
	}
	roles, err := cfg.AccessList()
	if err != nil {
		return err
	}

	var (
		mainDB  *lvldb.LevelDB
		logDB   *logdb.LogDB
		dataDir = "Memory"
	)
	if ctx.Bool(persistFlag.Name) {
		dataDir = makeDataDir(ctx)
		mainDB = openMainDB(ctx, dataDir)
		logDB = openLogDB(dataDir)
	} else {
		mainDB = openMemMainDB()
		logDB = openMemLogDB()
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()
	defer func() { logger.Info("closing event database..."); logDB.Close() }()

	p, err := pool.New(mainDB, logDB, roles, pool.Options{CacheSize: ctx.Int(summaryCacheFlag.Name)})
	if err != nil {
		return err
	}
	if err := applyGenesis(p, cfg); err != nil {
		return err
	}

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	handler, closeSubs := httpserver.NewAPIHandler(p, logDB, httpserver.APIOptions{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		BacktraceLimit:       ctx.Uint64(apiBacktraceLimitFlag.Name),
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
		PageLimit:            ctx.Uint64(apiPageLimitFlag.Name),
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
	})
	defer func() { logger.Info("closing subscriptions..."); closeSubs() }()

	apiURL, stopAPI, err := httpserver.StartAPIServer(
		ctx.String(apiAddrFlag.Name),
		handler,
		time.Duration(ctx.Uint64(apiTimeoutFlag.Name))*time.Millisecond,
	)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); stopAPI() }()

	metricsURL := ""
	if ctx.Bool(enableMetricsFlag.Name) {
		url, stop, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); stop() }()
		metricsURL = url
	}

	adminURL := ""
	if ctx.Bool(enableAdminFlag.Name) {
		url, stop, err := httpserver.StartAdminServer(
			ctx.String(adminAddrFlag.Name),
			logLevel,
			health.New(p, ctx.Duration(healthMaxPendingAgeFlag.Name)),
			apiLogs,
		)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); stop() }()
		adminURL = url
	}

	printStartupMessage(p, dataDir, apiURL, metricsURL, adminURL)

	runCtx, cancel := context.WithCancel(context.Background())
	var goes co.Goes
	if interval := ctx.Duration(autoProcessFlag.Name); interval > 0 {
		goes.Go(func() { autoProcess(runCtx, p, interval) })
	}
	if ctx.Bool(ntpCheckFlag.Name) {
		goes.Go(func() { clockCheckLoop(runCtx) })
	}

	<-exitSignal
	cancel()
	goes.Wait()
	return nil
}

func applyGenesis(p *pool.Pool, cfg *Config) error {
	g, err := cfg.Genesis()
	if err != nil || g == nil {
		return err
	}
	initialized, err := p.Initialized()
	if err != nil {
		return err
	}
	if initialized {
		logger.Debug("genesis already applied")
		return nil
	}
	if _, err := p.Genesis(g); err != nil {
		return err
	}
	logger.Info("genesis applied", "balances", len(g.Balances), "params", len(g.Params))
	return nil
}

func printStartupMessage(p *pool.Pool, dataDir, apiURL, metricsURL, adminURL string) {
	orNone := func(s string) string {
		if s == "" {
			return "disabled"
		}
		return s
	}
	fmt.Printf(`Starting %v
    Data dir     [ %v ]
    Last event   [ #%v ]
    API portal   [ %v ]
    Metrics      [ %v ]
    Admin        [ %v ]
`,
		"psnode "+fullVersion(),
		dataDir,
		p.LastSeq(),
		apiURL,
		orNone(metricsURL),
		orNone(adminURL),
	)
}
