package config

import (
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains runtime configuration required by the service.
type Config struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Postgres Postgres `envPrefix:"DB_"`
	Telegram Telegram `envPrefix:"TELEGRAM_"`

	// InviteTTL is how long a minted invite link stays valid.
	InviteTTL time.Duration `env:"INVITE_TTL" envDefault:"24h"`
}

// Postgres holds the connection settings read from DB_*.
type Postgres struct {
	Host            string        `env:"HOST,required,notEmpty"`
	Port            string        `env:"PORT" envDefault:"25060"`
	User            string        `env:"USER,required,notEmpty"`
	Password        string        `env:"PASSWORD"`
	Name            string        `env:"NAME,required,notEmpty"`
	SSLMode         string        `env:"SSL" envDefault:"require"`
	MaxConns        int32         `env:"MAX_CONNS" envDefault:"10"`
	MinConns        int32         `env:"MIN_CONNS" envDefault:"0"`
	MaxConnLifetime time.Duration `env:"MAX_CONN_LIFETIME" envDefault:"30m"`
	MaxConnIdleTime time.Duration `env:"MAX_CONN_IDLE_TIME" envDefault:"5m"`
}

// Telegram holds Bot API client settings read from TELEGRAM_*.
type Telegram struct {
	// APIEndpoint is a URL format with %s for the token and the method.
	APIEndpoint string        `env:"API_ENDPOINT" envDefault:"https://api.telegram.org/bot%s/%s"`
	Timeout     time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ConnString renders the settings as a postgres:// URL understood by pgx.
func (p Postgres) ConnString() string {
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(p.Host, p.Port),
		Path:   "/" + p.Name,
	}
	if p.Password != "" {
		u.User = url.UserPassword(p.User, p.Password)
	} else {
		u.User = url.User(p.User)
	}
	if p.SSLMode != "" {
		u.RawQuery = url.Values{"sslmode": []string{p.SSLMode}}.Encode()
	}
	return u.String()
}
