package chunkserver

import (
	"strconv"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server struct {
		Host string `envconfig:"SERVER_HOST"`
		Port int    `envconfig:"SERVER_PORT" default:"9001"`
	}
	Node struct {
		ID string `envconfig:"NODE_ID"`
	}
	Chunks struct {
		Path      string `envconfig:"CHUNK_PATH" default:"chunks"`
		Backend   string `envconfig:"CHUNK_BACKEND" default:"disk"`
		CacheSize int    `envconfig:"CHUNK_CACHE_SIZE" default:"64"`
	}
	Log struct {
		Level string `envconfig:"LOG_LEVEL" default:"info"`
	}
}

func GetConfig() (*Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

// NodeID names this server's chunk directory. It falls back to the port so
// several servers can share a CHUNK_PATH.
func (c *Config) NodeID() string {
	if c.Node.ID != "" {
		return c.Node.ID
	}

	return strconv.Itoa(c.Server.Port)
}
