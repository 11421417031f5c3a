package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	masterCore "github.com/pyropy/chunkfs/core/master"
	"github.com/pyropy/chunkfs/lib/logger"
	"github.com/pyropy/chunkfs/lib/netrpc"
	masterRPC "github.com/pyropy/chunkfs/rpc/master"
)

var log, _ = logger.New("master")

func main() {
	if err := run(); err != nil {
		log.Fatalw("startup", "error", err)
	}
}

func run() error {
	cfg, err := masterCore.GetConfig()
	if err != nil {
		log.Errorw("startup", "error", "config error")
		return err
	}

	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		return err
	}

	registry, err := masterCore.LoadChunkServerRegistry(cfg)
	if err != nil {
		log.Errorw("startup", "error", "chunk server registry")
		return err
	}

	if registry.Len() == 0 {
		log.Warnw("startup", "status", "chunk server registry is empty, every allocation will fail")
	}

	master := masterCore.NewMaster(registry, masterCore.NewPlacement(cfg.Replication.Factor))

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	l, err := net.Listen("tcp", addr)
	if err != nil {
		log.Errorw("startup", "error", "net listen failed")
		return err
	}

	srv, err := netrpc.Serve(l, masterRPC.ServiceName, masterCore.NewAPI(master))
	if err != nil {
		return err
	}

	log.Infow("startup", "status", "master rpc server started", "address", srv.Addr(),
		"chunkServers", registry.Servers().Addresses(), "replicationFactor", cfg.Replication.Factor)
	defer log.Infow("shutdown", "status", "master rpc server stopped", "address", srv.Addr())

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-srv.Err():
		return err
	case <-shutdown:
	}

	log.Infow("shutdown", "status", "master rpc server stopping", "address", srv.Addr())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return srv.Shutdown(ctx)
}
