package envconfig

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type redisEnv struct {
	Address  string        `env:"REDIS_ADDRESS" envDefault:"localhost:6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	LockTTL  time.Duration `env:"REDIS_LOCK_TTL" envDefault:"30s"`
}

type redis struct {
	raw redisEnv
}

func NewRedisConfig() (*redis, error) {
	var raw redisEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &redis{raw: raw}, nil
}

func (cfg *redis) Address() string        { return cfg.raw.Address }
func (cfg *redis) Password() string       { return cfg.raw.Password }
func (cfg *redis) DB() int                { return cfg.raw.DB }
func (cfg *redis) LockTTL() time.Duration { return cfg.raw.LockTTL }
