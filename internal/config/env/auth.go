package envconfig

import "github.com/caarlos0/env/v11"

type authEnv struct {
	JWTSecret       string `env:"AUTH_JWT_SECRET"`
	FallbackOwnerID int64  `env:"AUTH_FALLBACK_OWNER_ID" envDefault:"0"`
}

type auth struct {
	raw authEnv
}

func NewAuthConfig() (*auth, error) {
	var raw authEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &auth{raw: raw}, nil
}

func (cfg *auth) JWTSecret() string { return cfg.raw.JWTSecret }

// FallbackOwnerID is zero when requests without a token must be rejected.
func (cfg *auth) FallbackOwnerID() int64 { return cfg.raw.FallbackOwnerID }
