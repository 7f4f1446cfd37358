package config

import (
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Server struct {
		Port string `env:"SERVER_PORT" envDefault:"8080"`
	}

	Database struct {
		Path string `env:"DATABASE_PATH" envDefault:"database/aptview.db"`
	}

	Redis struct {
		Address  string `env:"REDIS_ADDRESS" envDefault:"localhost:6379"`
		Password string `env:"REDIS_PASSWORD" envDefault:""`
		DB       int    `env:"REDIS_DB" envDefault:"0"`
	}

	Cache CacheTTL
}

// CacheTTL holds the per-operation cache lifetimes. Statistics are the most
// expensive to compute and the least volatile, so they keep the longest TTL.
type CacheTTL struct {
	Search     time.Duration `env:"CACHE_TTL_SEARCH" envDefault:"5m"`
	List       time.Duration `env:"CACHE_TTL_LIST" envDefault:"10m"`
	Detail     time.Duration `env:"CACHE_TTL_DETAIL" envDefault:"5m"`
	Types      time.Duration `env:"CACHE_TTL_TYPES" envDefault:"10m"`
	Summary    time.Duration `env:"CACHE_TTL_SUMMARY" envDefault:"5m"`
	Statistics time.Duration `env:"CACHE_TTL_STATISTICS" envDefault:"30m"`
	Boundary   time.Duration `env:"CACHE_TTL_BOUNDARY" envDefault:"10m"`
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
