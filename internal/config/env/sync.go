package envconfig

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type syncEnv struct {
	ServerURL      string        `env:"SYNC_SERVER_URL" envDefault:"http://localhost:8080"`
	Token          string        `env:"SYNC_TOKEN"`
	FlushInterval  time.Duration `env:"SYNC_FLUSH_INTERVAL" envDefault:"1m"`
	RequestTimeout time.Duration `env:"SYNC_REQUEST_TIMEOUT" envDefault:"3s"`
	CacheBackend   string        `env:"SYNC_CACHE_BACKEND" envDefault:"file"`
	CachePath      string        `env:"SYNC_CACHE_PATH" envDefault:".stockledger"`
}

type syncClient struct {
	raw syncEnv
}

func NewSyncConfig() (*syncClient, error) {
	var raw syncEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &syncClient{raw: raw}, nil
}

func (cfg *syncClient) ServerURL() string             { return cfg.raw.ServerURL }
func (cfg *syncClient) Token() string                 { return cfg.raw.Token }
func (cfg *syncClient) FlushInterval() time.Duration  { return cfg.raw.FlushInterval }
func (cfg *syncClient) RequestTimeout() time.Duration { return cfg.raw.RequestTimeout }
func (cfg *syncClient) CacheBackend() string          { return cfg.raw.CacheBackend }
func (cfg *syncClient) CachePath() string             { return cfg.raw.CachePath }
