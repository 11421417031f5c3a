package client

import (
	"bytes"
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/pyropy/chunkfs/core/chunkserver"
	"github.com/pyropy/chunkfs/core/master"
	"github.com/pyropy/chunkfs/core/model"
	"github.com/pyropy/chunkfs/lib/netrpc"
	chunkServerRPC "github.com/pyropy/chunkfs/rpc/chunkserver"
	masterRPC "github.com/pyropy/chunkfs/rpc/master"
)

type testCluster struct {
	masterAddr string
	nodes      []*netrpc.Server
}

func listen(t *testing.T) net.Listener {
	t.Helper()

	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	return l
}

// startCluster runs a master and n chunk servers on loopback. extra is
// appended to the registry as-is.
func startCluster(t *testing.T, n int, extra ...model.ChunkLocation) *testCluster {
	t.Helper()

	cluster := &testCluster{}
	var servers model.Locations

	for i := 0; i < n; i++ {
		store, err := chunkserver.NewDiskChunkStore(t.TempDir(), "node")
		if err != nil {
			t.Fatalf("NewDiskChunkStore() error = %v", err)
		}

		srv, err := netrpc.Serve(listen(t), chunkServerRPC.ServiceName, chunkserver.NewAPI(chunkserver.NewChunkServer(store, 4)))
		if err != nil {
			t.Fatalf("Serve() error = %v", err)
		}
		t.Cleanup(func() { _ = srv.Close() })

		loc, err := model.ParseChunkLocation(srv.Addr())
		if err != nil {
			t.Fatalf("ParseChunkLocation() error = %v", err)
		}

		servers = append(servers, loc)
		cluster.nodes = append(cluster.nodes, srv)
	}

	registry, err := master.NewChunkServerRegistry(append(servers, extra...))
	if err != nil {
		t.Fatalf("NewChunkServerRegistry() error = %v", err)
	}

	m := master.NewMaster(registry, master.FullRegistryPlacement{})
	srv, err := netrpc.Serve(listen(t), masterRPC.ServiceName, master.NewAPI(m))
	if err != nil {
		t.Fatalf("Serve() error = %v", err)
	}
	t.Cleanup(func() { _ = srv.Close() })

	cluster.masterAddr = srv.Addr()
	return cluster
}

func (tc *testCluster) client(timeout time.Duration) *Client {
	return &Client{
		Master:       NewRPCMasterClient(tc.masterAddr, timeout),
		ChunkServers: NewRPCChunkServerClient(timeout),
		ChunkSize:    1 << 20,
		Policy:       WritePolicy{MinReplicas: 1},
	}
}

func TestCluster_ReadSurvivesTwoStoppedNodes(t *testing.T) {
	cluster := startCluster(t, 3)
	c := cluster.client(5 * time.Second)
	ctx := context.Background()

	data := payload(3 << 19)
	written, err := c.WriteFile(ctx, "big.bin", "ns", data)
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if len(written.Chunks) != 2 {
		t.Fatalf("WriteFile() chunks = %d, want 2", len(written.Chunks))
	}

	for _, chunk := range written.Chunks {
		if chunk.Succeeded() != 3 {
			t.Errorf("chunk %d written to %d replicas, want 3", chunk.Index, chunk.Succeeded())
		}
	}

	_ = cluster.nodes[0].Close()
	_ = cluster.nodes[1].Close()

	read, err := c.ReadFile(ctx, "big.bin", "ns")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if !read.Complete() || !bytes.Equal(read.Data, data) {
		t.Errorf("ReadFile() = %d bytes missing %v, want all %d", len(read.Data), read.MissingChunks, len(data))
	}
}

func TestCluster_SilentReplicaTimesOut(t *testing.T) {
	silent := listen(t)
	defer silent.Close()

	go func() {
		for {
			conn, err := silent.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
		}
	}()

	silentLoc, err := model.ParseChunkLocation(silent.Addr().String())
	if err != nil {
		t.Fatalf("ParseChunkLocation() error = %v", err)
	}

	cluster := startCluster(t, 2, silentLoc)
	c := cluster.client(300 * time.Millisecond)

	start := time.Now()
	written, err := c.WriteFile(context.Background(), "f", "ns", payload(10))
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Errorf("WriteFile() took %v, want the silent replica bounded by the call timeout", elapsed)
	}

	chunk := written.Chunks[0]
	if chunk.Succeeded() != 2 {
		t.Errorf("chunk written to %d replicas, want 2", chunk.Succeeded())
	}

	last := chunk.Outcomes[len(chunk.Outcomes)-1]
	if last.Location != silentLoc || last.Err == nil {
		t.Errorf("silent replica outcome = %+v, want a failure for %v", last, silentLoc)
	}
}

func TestCluster_MasterUnreachable(t *testing.T) {
	l := listen(t)
	addr := l.Addr().String()
	l.Close()

	c := &Client{
		Master:       NewRPCMasterClient(addr, time.Second),
		ChunkServers: NewRPCChunkServerClient(time.Second),
		ChunkSize:    4,
		Policy:       WritePolicy{MinReplicas: 1},
	}

	_, err := c.WriteFile(context.Background(), "f", "ns", payload(4))
	if !errors.Is(err, ErrCoordinator) || !errors.Is(err, netrpc.ErrUnreachable) {
		t.Errorf("WriteFile() error = %v, want %v wrapping %v", err, ErrCoordinator, netrpc.ErrUnreachable)
	}

	_, err = c.ReadFile(context.Background(), "f", "ns")
	if !errors.Is(err, ErrCoordinator) {
		t.Errorf("ReadFile() error = %v, want %v", err, ErrCoordinator)
	}
}

// stopAfterFirstRead runs stop once the first chunk read has succeeded.
type stopAfterFirstRead struct {
	ChunkServerClient
	once sync.Once
	stop func()
}

func (s *stopAfterFirstRead) ReadChunk(ctx context.Context, loc model.ChunkLocation, id model.ChunkID) ([]byte, error) {
	data, err := s.ChunkServerClient.ReadChunk(ctx, loc, id)
	if err == nil {
		s.once.Do(s.stop)
	}

	return data, err
}

// Every node stops after chunk 0 was read: chunk 1 is dropped from the output
// and reported, not filled in.
func TestCluster_AllNodesStopBeforeSecondChunk(t *testing.T) {
	cluster := startCluster(t, 3)
	c := cluster.client(time.Second)
	ctx := context.Background()

	data := payload(3 << 19)
	if _, err := c.WriteFile(ctx, "big.bin", "ns", data); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	c.ChunkServers = &stopAfterFirstRead{
		ChunkServerClient: c.ChunkServers,
		stop: func() {
			for _, node := range cluster.nodes {
				_ = node.Close()
			}
		},
	}

	read, err := c.ReadFile(ctx, "big.bin", "ns")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if !bytes.Equal(read.Data, data[:c.ChunkSize]) {
		t.Errorf("ReadFile() = %d bytes, want chunk 0 only (%d bytes)", len(read.Data), c.ChunkSize)
	}

	if len(read.MissingChunks) != 1 || read.MissingChunks[0] != 1 {
		t.Errorf("MissingChunks = %v, want [1]", read.MissingChunks)
	}
}
