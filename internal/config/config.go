package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config es la configuración del servicio. Se carga desde YAML y se puede
// sobreescribir con variables de entorno (ver applyEnv).
type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
	} `yaml:"app"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Storage struct {
		// memory | postgres
		Driver   string `yaml:"driver"`
		Postgres struct {
			DSN             string `yaml:"dsn"`
			MaxConns        int    `yaml:"max_conns"`
			ConnMaxLifetime string `yaml:"conn_max_lifetime"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		// memory | redis
		Kind  string `yaml:"kind"`
		Redis struct {
			Addr   string `yaml:"addr"`
			DB     int    `yaml:"db"`
			Prefix string `yaml:"prefix"`
		} `yaml:"redis"`
		Memory struct {
			DefaultTTL string `yaml:"default_ttl"`
		} `yaml:"memory"`
	} `yaml:"cache"`

	OAuth2 struct {
		// Scopes por defecto del servidor. Se usan cuando ni el request ni el
		// client declaran scopes propios.
		DefaultScopes []string `yaml:"default_scopes"`

		// IssueRefreshTokens habilita la emisión de refresh tokens junto al
		// access token (toggle global de proceso).
		IssueRefreshTokens bool `yaml:"issue_refresh_tokens"`

		// opaque | jwt
		TokenFormat string `yaml:"token_format"`

		AccessTTL string `yaml:"access_ttl"`

		JWT struct {
			Issuer string `yaml:"issuer"`
			Secret string `yaml:"secret"`
		} `yaml:"jwt"`
	} `yaml:"oauth2"`

	Rate struct {
		Enabled bool `yaml:"enabled"`
		Token   struct {
			Limit  int    `yaml:"limit"`
			Window string `yaml:"window"`
		} `yaml:"token"`
	} `yaml:"rate"`
}

// Load lee la configuración desde un archivo YAML y aplica overrides de ENV.
// Si path está vacío o el archivo no existe, arranca con defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("config: read %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("APP_ENV"); v != "" {
		c.App.Env = v
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("STORAGE_DRIVER"); v != "" {
		c.Storage.Driver = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		c.Storage.Postgres.DSN = v
	}
	if v := os.Getenv("CACHE_KIND"); v != "" {
		c.Cache.Kind = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("OAUTH2_DEFAULT_SCOPES"); v != "" {
		c.OAuth2.DefaultScopes = strings.Fields(v)
	}
	if v := os.Getenv("OAUTH2_ISSUE_REFRESH_TOKENS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.OAuth2.IssueRefreshTokens = b
		}
	}
	if v := os.Getenv("OAUTH2_TOKEN_FORMAT"); v != "" {
		c.OAuth2.TokenFormat = v
	}
	if v := os.Getenv("OAUTH2_JWT_SECRET"); v != "" {
		c.OAuth2.JWT.Secret = v
	}
	if v := os.Getenv("OAUTH2_JWT_ISSUER"); v != "" {
		c.OAuth2.JWT.Issuer = v
	}
}

func (c *Config) applyDefaults() {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.OAuth2.TokenFormat == "" {
		c.OAuth2.TokenFormat = "opaque"
	}
	if c.OAuth2.JWT.Issuer == "" {
		c.OAuth2.JWT.Issuer = "littlejohn"
	}
	if c.Rate.Token.Limit <= 0 {
		c.Rate.Token.Limit = 30
	}
}

// AccessTTL retorna el TTL de access tokens (default 2h).
func (c *Config) AccessTTL() time.Duration {
	return parseDurationOr(c.OAuth2.AccessTTL, 2*time.Hour)
}

// RateWindow retorna la ventana del rate limiter del endpoint de tokens.
func (c *Config) RateWindow() time.Duration {
	return parseDurationOr(c.Rate.Token.Window, time.Minute)
}

// CacheDefaultTTL retorna el TTL por defecto del cache de memoria.
func (c *Config) CacheDefaultTTL() time.Duration {
	return parseDurationOr(c.Cache.Memory.DefaultTTL, 5*time.Minute)
}

func parseDurationOr(s string, def time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
