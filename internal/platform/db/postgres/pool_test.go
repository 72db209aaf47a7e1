package postgres

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/ogurasousui/employee-directory/internal/platform/config"
	"github.com/rs/zerolog"
)

func TestBuildPoolConfig(t *testing.T) {
	t.Parallel()

	dbCfg := config.DatabaseConfig{
		Host:            "localhost",
		Port:            15432,
		User:            "user",
		Password:        "pass",
		Name:            "db",
		SSLMode:         "disable",
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 10 * time.Minute,
	}

	poolCfg, err := BuildPoolConfig(dbCfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("BuildPoolConfig returned error: %v", err)
	}

	if poolCfg.MaxConns != 20 {
		t.Errorf("expected MaxConns 20, got %d", poolCfg.MaxConns)
	}

	if poolCfg.MinConns != 5 {
		t.Errorf("expected MinConns 5, got %d", poolCfg.MinConns)
	}

	if poolCfg.MaxConnLifetime != 30*time.Minute {
		t.Errorf("unexpected MaxConnLifetime: %v", poolCfg.MaxConnLifetime)
	}

	if poolCfg.MaxConnIdleTime != 10*time.Minute {
		t.Errorf("unexpected MaxConnIdleTime: %v", poolCfg.MaxConnIdleTime)
	}

	if poolCfg.ConnConfig.Database != "db" {
		t.Errorf("expected database db, got %s", poolCfg.ConnConfig.Database)
	}

	if poolCfg.ConnConfig.Tracer != nil {
		t.Errorf("expected no tracer without query_log_level")
	}
}

func TestBuildPoolConfig_QueryTracer(t *testing.T) {
	t.Parallel()

	dbCfg := config.DatabaseConfig{
		Host:          "localhost",
		Port:          5432,
		User:          "user",
		Password:      "pass",
		Name:          "db",
		SSLMode:       "disable",
		QueryLogLevel: "debug",
	}

	poolCfg, err := BuildPoolConfig(dbCfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("BuildPoolConfig returned error: %v", err)
	}

	tracer, ok := poolCfg.ConnConfig.Tracer.(*tracelog.TraceLog)
	if !ok {
		t.Fatalf("expected tracelog tracer, got %T", poolCfg.ConnConfig.Tracer)
	}
	if tracer.LogLevel != tracelog.LogLevelDebug {
		t.Errorf("expected debug level, got %v", tracer.LogLevel)
	}
}
