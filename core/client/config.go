package client

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Master struct {
		Addr string `envconfig:"MASTER_ADDR" default:"localhost:9000"`
	}
	Chunks struct {
		Size int `envconfig:"CHUNK_SIZE" default:"1048576"`
	}
	RPC struct {
		Timeout time.Duration `envconfig:"CALL_TIMEOUT" default:"5s"`
	}
	Replication struct {
		// MinReplicas of 0 accepts a chunk even when no replica was written
		MinReplicas int `envconfig:"MIN_REPLICAS" default:"1"`
	}
	Store struct {
		Path string `envconfig:"STORE_PATH" default:".dfs"`
	}
	Download struct {
		Dir string `envconfig:"DOWNLOAD_DIR" default:"download"`
	}
	Log struct {
		Level string `envconfig:"LOG_LEVEL" default:"warn"`
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
