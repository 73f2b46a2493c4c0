package store

import (
	"time"

	"enricher/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	AutoMigrate    bool
	ConnectRetries int           // default 20
	PingTimeout    time.Duration // default 3s
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled    bool
	URL        string
	ClientRole string
	ClientTag  string
}

// FromEnv reads SERVICE_PGSQL_* and SERVICE_CLICKHOUSE_* under root
// a URL is required only for an enabled backend
func FromEnv(root config.Conf, role string) Config {
	pg := root.Prefix("SERVICE_PGSQL_")
	ch := root.Prefix("SERVICE_CLICKHOUSE_")

	var cfg Config
	cfg.PG = PGConfig{
		Enabled:        pg.MayBool("ENABLED", false),
		MaxConns:       int32(pg.MayInt("MAX_CONNS", 4)),
		SlowQueryMs:    pg.MayInt("SLOW_MS", 500),
		LogSQL:         pg.MayBool("LOG_SQL", false),
		AutoMigrate:    pg.MayBool("AUTO_MIGRATE", false),
		ConnectRetries: pg.MayInt("CONNECT_RETRIES", 20),
		PingTimeout:    pg.MayDuration("PING_TIMEOUT", 3*time.Second),
	}
	if cfg.PG.Enabled {
		cfg.PG.URL = pg.MustString("DBURL")
	}
	cfg.CH = CHConfig{
		Enabled:    ch.MayBool("ENABLED", false),
		ClientRole: role,
		ClientTag:  ch.MayString("CLIENT_TAG", "enricher"),
	}
	if cfg.CH.Enabled {
		cfg.CH.URL = ch.MustString("DBURL")
	}
	return cfg
}
