package master

import (
	"errors"
	"fmt"
	"os"

	"github.com/pyropy/chunkfs/core/model"
	"github.com/pyropy/chunkfs/lib/utils"
	"gopkg.in/yaml.v3"
)

var (
	ErrDuplicateChunkServer = errors.New("duplicate chunk server")
)

// ChunkServerRegistry is the fixed list of chunk servers known at startup.
// It is never mutated after construction.
type ChunkServerRegistry struct {
	servers model.Locations
}

type registryFile struct {
	ChunkServers model.Locations `yaml:"chunk_servers"`
}

func NewChunkServerRegistry(servers model.Locations) (*ChunkServerRegistry, error) {
	addrs := make([]string, 0, len(servers))

	for _, s := range servers {
		if err := s.Validate(); err != nil {
			return nil, err
		}

		if utils.Contains(addrs, s.Address()) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateChunkServer, s.Address())
		}

		addrs = append(addrs, s.Address())
	}

	return &ChunkServerRegistry{servers: servers.Clone()}, nil
}

// LoadChunkServerRegistry builds the registry from REGISTRY_FILE when set and
// from the CHUNK_SERVERS list otherwise.
func LoadChunkServerRegistry(cfg *Config) (*ChunkServerRegistry, error) {
	if cfg.Registry.File != "" {
		return ReadChunkServerRegistry(cfg.Registry.File)
	}

	servers := make(model.Locations, 0, len(cfg.Registry.ChunkServers))
	for _, addr := range cfg.Registry.ChunkServers {
		loc, err := model.ParseChunkLocation(addr)
		if err != nil {
			return nil, err
		}

		servers = append(servers, loc)
	}

	return NewChunkServerRegistry(servers)
}

// ReadChunkServerRegistry reads a YAML file with a top level chunk_servers list
// of host/port entries.
func ReadChunkServerRegistry(path string) (*ChunkServerRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry file: %w", err)
	}

	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse registry file %s: %w", path, err)
	}

	return NewChunkServerRegistry(f.ChunkServers)
}

// Servers returns the registered servers in registration order.
func (r *ChunkServerRegistry) Servers() model.Locations {
	return r.servers.Clone()
}

func (r *ChunkServerRegistry) Len() int {
	return len(r.servers)
}
