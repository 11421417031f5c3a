package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/pyropy/chunkfs/core/chunkserver"
	"github.com/pyropy/chunkfs/lib/logger"
	"github.com/pyropy/chunkfs/lib/netrpc"
	chunkServerRPC "github.com/pyropy/chunkfs/rpc/chunkserver"
)

var log, _ = logger.New("chunk-server")

func main() {
	if err := run(); err != nil {
		log.Fatalw("startup", "error", err)
	}
}

func run() error {
	cfg, err := chunkserver.GetConfig()
	if err != nil {
		log.Errorw("startup", "error", "config error")
		return err
	}

	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		return err
	}

	store, err := chunkserver.NewChunkStore(cfg)
	if err != nil {
		log.Errorw("startup", "error", "chunk store", "backend", cfg.Chunks.Backend)
		return err
	}

	chunkServer := chunkserver.NewChunkServer(store, cfg.Chunks.CacheSize)
	defer chunkServer.Close()

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	l, err := net.Listen("tcp", addr)
	if err != nil {
		log.Errorw("startup", "error", "net listen failed")
		return err
	}

	srv, err := netrpc.Serve(l, chunkServerRPC.ServiceName, chunkserver.NewAPI(chunkServer))
	if err != nil {
		return err
	}

	listenAddr := srv.Addr()
	log.Infow("startup", "status", "chunkserver rpc server started", "address", listenAddr,
		"node", cfg.NodeID(), "backend", cfg.Chunks.Backend, "cacheSize", cfg.Chunks.CacheSize)
	defer log.Infow("shutdown", "status", "chunkserver rpc server stopped", "address", listenAddr)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-srv.Err():
		return err
	case <-shutdown:
	}

	log.Infow("shutdown", "status", "chunkserver rpc server stopping", "address", listenAddr)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return srv.Shutdown(ctx)
}
