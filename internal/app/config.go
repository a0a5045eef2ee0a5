package app

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/methodgraph-backend/internal/data/db"
	"github.com/yungbote/methodgraph-backend/internal/modules/methods/graph"
	"github.com/yungbote/methodgraph-backend/internal/platform/envutil"
	"github.com/yungbote/methodgraph-backend/internal/platform/logger"
	"github.com/yungbote/methodgraph-backend/internal/realtime/bus"
)

const configYAMLEnv = "METHODGRAPH_CONFIG_YAML"

type Config struct {
	HTTPAddr    string   `yaml:"http_addr"`
	CORSOrigins []string `yaml:"cors_origins"`

	DB    db.Config       `yaml:"db"`
	Redis bus.RedisConfig `yaml:"redis"`

	MetricsEnabled bool       `yaml:"metrics_enabled"`
	Otel           OtelConfig `yaml:"otel"`

	// MethodGraphMaxDepth bounds tree reads and clone recursion.
	MethodGraphMaxDepth int `yaml:"method_graph_max_depth"`
	// RuleCacheSize is the number of compiled rule programs kept.
	RuleCacheSize int `yaml:"rule_cache_size"`
}

type OtelConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	Endpoint    string  `yaml:"endpoint"`
	Headers     string  `yaml:"headers"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sample_ratio"`
}

func DefaultConfig() Config {
	return Config{
		HTTPAddr: ":8080",
		DB: db.Config{
			Driver:       db.DriverPostgres,
			PostgresHost: "localhost",
			PostgresPort: "5432",
			PostgresUser: "methodgraph",
			PostgresName: "methodgraph",
			SQLitePath:   "methodgraph.db",
			MaxOpenConns: 20,
		},
		Redis: bus.RedisConfig{
			Channel: bus.DefaultChannel,
		},
		MetricsEnabled: true,
		Otel: OtelConfig{
			ServiceName: "methodgraph-backend",
			SampleRatio: 1,
		},
		MethodGraphMaxDepth: graph.DefaultMaxDepth,
		RuleCacheSize:       256,
	}
}

// LoadConfig layers an optional YAML file and then environment variables
// over DefaultConfig.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := DefaultConfig()
	if path := envutil.String(configYAMLEnv, ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
		log.Info("Loaded config file", "path", path)
	}
	applyEnv(&cfg, log)
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, log *logger.Logger) {
	str := func(name string, dst *string) {
		if v := envutil.String(name, ""); v != "" {
			log.Debug("Environment variable found, using environment", "env_var", name, "value", v)
			*dst = v
		}
	}
	num := func(name string, dst *int) {
		if _, ok := os.LookupEnv(name); ok {
			*dst = envutil.Int(name, *dst)
			log.Debug("Environment variable found, using environment", "env_var", name, "value", *dst)
		}
	}
	flag := func(name string, dst *bool) {
		if _, ok := os.LookupEnv(name); ok {
			*dst = envutil.Bool(name, *dst)
			log.Debug("Environment variable found, using environment", "env_var", name, "value", *dst)
		}
	}

	str("HTTP_ADDR", &cfg.HTTPAddr)
	if v := envutil.String("CORS_ORIGINS", ""); v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	str("DB_DRIVER", &cfg.DB.Driver)
	str("POSTGRES_HOST", &cfg.DB.PostgresHost)
	str("POSTGRES_PORT", &cfg.DB.PostgresPort)
	str("POSTGRES_USER", &cfg.DB.PostgresUser)
	str("POSTGRES_PASSWORD", &cfg.DB.PostgresPassword)
	str("POSTGRES_NAME", &cfg.DB.PostgresName)
	str("POSTGRES_SSLMODE", &cfg.DB.PostgresSSLMode)
	str("SQLITE_PATH", &cfg.DB.SQLitePath)

	str("REDIS_ADDR", &cfg.Redis.Addr)
	str("REDIS_CHANNEL", &cfg.Redis.Channel)

	flag("METRICS_ENABLED", &cfg.MetricsEnabled)
	flag("OTEL_ENABLED", &cfg.Otel.Enabled)
	str("OTEL_SERVICE_NAME", &cfg.Otel.ServiceName)
	str("OTEL_EXPORTER_OTLP_ENDPOINT", &cfg.Otel.Endpoint)
	str("OTEL_EXPORTER_OTLP_HEADERS", &cfg.Otel.Headers)
	flag("OTEL_EXPORTER_OTLP_INSECURE", &cfg.Otel.Insecure)
	if _, ok := os.LookupEnv("OTEL_SAMPLER_RATIO"); ok {
		cfg.Otel.SampleRatio = envutil.Float("OTEL_SAMPLER_RATIO", cfg.Otel.SampleRatio)
	}

	num("METHOD_GRAPH_MAX_DEPTH", &cfg.MethodGraphMaxDepth)
	num("RULE_CACHE_SIZE", &cfg.RuleCacheSize)
}

func (c Config) validate() error {
	switch strings.ToLower(c.DB.Driver) {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", db.DriverPostgres, db.DriverSQLite, c.DB.Driver)
	}
	if c.MethodGraphMaxDepth <= 0 {
		return fmt.Errorf("METHOD_GRAPH_MAX_DEPTH must be positive, got %d", c.MethodGraphMaxDepth)
	}
	if strings.TrimSpace(c.HTTPAddr) == "" {
		return fmt.Errorf("HTTP_ADDR is required")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
