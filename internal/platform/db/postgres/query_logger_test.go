package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

func TestQueryLogger_Log(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := newQueryLogger(zerolog.New(&buf))

	l.Log(context.Background(), tracelog.LogLevelInfo, "Query", map[string]any{
		"sql":  "SELECT 1",
		"time": "1ms",
	})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid log output %q: %v", buf.String(), err)
	}
	if entry["sql"] != "SELECT 1" || entry["component"] != "pgx" || entry["level"] != "info" {
		t.Fatalf("unexpected log entry: %v", entry)
	}

	buf.Reset()
	l.Log(context.Background(), tracelog.LogLevelNone, "ignored", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected LogLevelNone to be dropped, got %q", buf.String())
	}
}
