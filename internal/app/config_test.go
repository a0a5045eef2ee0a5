package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/yungbote/methodgraph-backend/internal/data/db"
	"github.com/yungbote/methodgraph-backend/internal/platform/logger"
)

func TestLoadConfigLayers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "methodgraph.yaml")
	yml := `
http_addr: ":9000"
db:
  driver: sqlite
  sqlite_path: /tmp/from-yaml.db
redis:
  addr: redis:6379
method_graph_max_depth: 8
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	t.Setenv(configYAMLEnv, path)
	t.Setenv("SQLITE_PATH", "/tmp/from-env.db")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := LoadConfig(logger.Nop())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.HTTPAddr != ":9000" || cfg.DB.Driver != db.DriverSQLite || cfg.MethodGraphMaxDepth != 8 {
		t.Fatalf("yaml not applied: %+v", cfg)
	}
	if cfg.DB.SQLitePath != "/tmp/from-env.db" {
		t.Fatalf("env should win over yaml, got %q", cfg.DB.SQLitePath)
	}
	if cfg.Redis.Addr != "redis:6379" || cfg.Redis.Channel == "" {
		t.Fatalf("redis: %+v", cfg.Redis)
	}
	if cfg.MetricsEnabled {
		t.Fatalf("METRICS_ENABLED=false ignored")
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example.com" {
		t.Fatalf("cors origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadConfigRejects(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"DB_DRIVER": "mysql"}},
		{"non positive depth", map[string]string{"METHOD_GRAPH_MAX_DEPTH": "0"}},
		{"missing yaml file", map[string]string{configYAMLEnv: "/does/not/exist.yaml"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := LoadConfig(logger.Nop()); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}
