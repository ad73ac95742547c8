// Copyright (c) 2026 The Veilchain developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/veilchain/veil/acl"
	"github.com/veilchain/veil/api"
	"github.com/veilchain/veil/eventdb"
	"github.com/veilchain/veil/fhe"
	"github.com/veilchain/veil/kv"
	"github.com/veilchain/veil/ledger"
	"github.com/veilchain/veil/log"
	"github.com/veilchain/veil/lvldb"
	"github.com/veilchain/veil/metrics"
	"github.com/veilchain/veil/veil"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

const (
	bucketAccounts    = kv.Bucket("a")
	bucketCiphertexts = kv.Bucket("c")
	bucketGrants      = kv.Bucket("g")
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
		Version:   fullVersion(),
		Name:      "Veil",
		Usage:     "Confidential staking ledger node",
		Copyright: "2026 Veilchain",
		Flags: []cli.Flag{
			dataDirFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiEventsLimitFlag,
			verbosityFlag,
			memFlag,
			enableMetricsFlag,
			pprofFlag,
		},
		Action: defaultAction,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	defer func() { logger.Info("exited") }()

	initLogger(ctx)
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	var (
		mainDB  *lvldb.LevelDB
		eventDB *eventdb.EventDB
		key     *ecdsa.PrivateKey
		secret  []byte
		err     error
	)
	if ctx.Bool(memFlag.Name) {
		if mainDB, err = lvldb.NewMem(); err != nil {
			fatal("open main database:", err)
		}
		if eventDB, err = eventdb.NewMem(); err != nil {
			fatal("open event database:", err)
		}
		if key, err = crypto.GenerateKey(); err != nil {
			fatal("generate identity key:", err)
		}
		secret = crypto.Keccak256(crypto.FromECDSA(key))
	} else {
		dataDir := makeDataDir(ctx)
		if mainDB, err = lvldb.New(filepath.Join(dataDir, "main.db"), lvldb.Options{}); err != nil {
			fatal("open main database:", err)
		}
		if eventDB, err = eventdb.New(filepath.Join(dataDir, "events.db")); err != nil {
			fatal("open event database:", err)
		}
		if key, err = loadOrGeneratePrivateKey(filepath.Join(dataDir, "identity.key")); err != nil {
			fatal("load or generate identity key:", err)
		}
		if secret, err = loadOrGenerateSecret(filepath.Join(dataDir, "enclave.key")); err != nil {
			fatal("load or generate enclave secret:", err)
		}
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()
	defer func() { logger.Info("closing event database..."); eventDB.Close() }()

	grants := acl.New(bucketGrants.NewGetPutter(mainDB))
	eng, err := fhe.NewEnclave(bucketCiphertexts.NewGetPutter(mainDB), secret, grants)
	if err != nil {
		fatal("create enclave:", err)
	}
	identity := veil.Address(crypto.PubkeyToAddress(key.PublicKey))
	ldgr := ledger.New(eng, grants, bucketAccounts.NewGetPutter(mainDB), eventDB, identity)

	handler := api.New(ldgr, eng, eventDB,
		func() uint64 { return uint64(time.Now().Unix()) },
		api.Options{
			AllowedOrigins: ctx.String(apiCorsFlag.Name),
			EventsLimit:    ctx.Uint64(apiEventsLimitFlag.Name),
			PprofOn:        ctx.Bool(pprofFlag.Name),
			EnableMetrics:  ctx.Bool(enableMetricsFlag.Name),
		})

	addr := ctx.String(apiAddrFlag.Name)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen API addr [%v]: %v", addr, err))
	}
	srv := &http.Server{Handler: http.HandlerFunc(handler)}

	logger.Info("starting ledger node",
		"version", fullVersion(),
		"identity", identity,
		"api", "http://"+listener.Addr().String()+"/",
	)

	exitCtx := handleExitSignal()
	var group errgroup.Group
	group.Go(func() error {
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-exitCtx.Done()
		logger.Info("stopping API server...")
		return srv.Shutdown(context.Background())
	})
	return group.Wait()
}
