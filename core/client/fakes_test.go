package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pyropy/chunkfs/core/model"
)

var (
	errMasterDown = errors.New("master down")
	errNodeDown   = errors.New("node down")
)

// fakeMaster allocates sequential ids and places every chunk on servers.
type fakeMaster struct {
	mu      sync.Mutex
	servers model.Locations
	files   map[model.FileKey]model.ChunkIDs
	chunks  map[model.ChunkID]model.Locations
	next    int

	failAllocate bool
	failList     bool
	failLocate   bool
}

func newFakeMaster(servers model.Locations) *fakeMaster {
	return &fakeMaster{
		servers: servers,
		files:   map[model.FileKey]model.ChunkIDs{},
		chunks:  map[model.ChunkID]model.Locations{},
	}
}

func (m *fakeMaster) AllocateChunk(_ context.Context, fileName, namespace string, _ int) (model.ChunkMetadata, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failAllocate {
		return model.ChunkMetadata{}, errMasterDown
	}

	id := model.ChunkID(fmt.Sprintf("chunk-%d", m.next))
	m.next++

	key := model.NewFileKey(namespace, fileName)
	m.files[key] = append(m.files[key], id)
	m.chunks[id] = m.servers.Clone()

	return model.ChunkMetadata{ID: id, Locations: m.servers.Clone()}, nil
}

func (m *fakeMaster) ListChunks(_ context.Context, fileName, namespace string) (model.ChunkIDs, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failList {
		return nil, errMasterDown
	}

	return m.files[model.NewFileKey(namespace, fileName)].Clone(), nil
}

func (m *fakeMaster) LocateChunk(_ context.Context, id model.ChunkID) (model.Locations, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failLocate {
		return nil, errMasterDown
	}

	return m.chunks[id].Clone(), nil
}

// fakeNodes keeps chunks per address. Addresses in down fail every call.
type fakeNodes struct {
	mu     sync.Mutex
	chunks map[string]map[model.ChunkID][]byte
	down   map[string]bool
	writes map[string]int
	reads  map[string]int
}

func newFakeNodes() *fakeNodes {
	return &fakeNodes{
		chunks: map[string]map[model.ChunkID][]byte{},
		down:   map[string]bool{},
		writes: map[string]int{},
		reads:  map[string]int{},
	}
}

func (n *fakeNodes) WriteChunk(_ context.Context, loc model.ChunkLocation, id model.ChunkID, data []byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	addr := loc.Address()
	n.writes[addr]++
	if n.down[addr] {
		return errNodeDown
	}

	if n.chunks[addr] == nil {
		n.chunks[addr] = map[model.ChunkID][]byte{}
	}

	n.chunks[addr][id] = append([]byte(nil), data...)
	return nil
}

func (n *fakeNodes) ReadChunk(_ context.Context, loc model.ChunkLocation, id model.ChunkID) ([]byte, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	addr := loc.Address()
	n.reads[addr]++
	if n.down[addr] {
		return nil, errNodeDown
	}

	data, ok := n.chunks[addr][id]
	if !ok {
		return nil, errors.New("chunk not found")
	}

	return append([]byte(nil), data...), nil
}

func (n *fakeNodes) drop(id model.ChunkID) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, chunks := range n.chunks {
		delete(chunks, id)
	}
}

func threeNodes() model.Locations {
	return model.Locations{
		{Host: "node-a", Port: 9001},
		{Host: "node-b", Port: 9002},
		{Host: "node-c", Port: 9003},
	}
}

func newFakeClient(chunkSize, minReplicas int) (*Client, *fakeMaster, *fakeNodes) {
	m := newFakeMaster(threeNodes())
	n := newFakeNodes()

	return &Client{
		Master:       m,
		ChunkServers: n,
		ChunkSize:    chunkSize,
		Policy:       WritePolicy{MinReplicas: minReplicas},
	}, m, n
}
