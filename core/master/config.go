package master

import "github.com/kelseyhightower/envconfig"

type Config struct {
	Server struct {
		Host string `envconfig:"SERVER_HOST"`
		Port int    `envconfig:"SERVER_PORT" default:"9000"`
	}
	Registry struct {
		ChunkServers []string `envconfig:"CHUNK_SERVERS" default:"localhost:9001,localhost:9002,localhost:9003"`
		File         string   `envconfig:"REGISTRY_FILE"`
	}
	Replication struct {
		// Factor <= 0 places every chunk on every registered server
		Factor int `envconfig:"REPLICATION_FACTOR" default:"0"`
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
