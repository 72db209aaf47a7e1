//go:build integration

package integration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	repo "github.com/ogurasousui/employee-directory/internal/adapters/repository/postgres"
	"github.com/ogurasousui/employee-directory/internal/core/employee"
	"github.com/ogurasousui/employee-directory/internal/platform/config"
	pg "github.com/ogurasousui/employee-directory/internal/platform/db/postgres"
	"github.com/rs/zerolog"
)

const migrationsDir = "../assets/migrations"

type fixtureRow struct {
	name     string
	position *string
	status   bool
}

func strPtr(v string) *string { return &v }

func TestEmployeeDirectoryIntegration(t *testing.T) {
	cfg, err := config.Load(configPathFromEnv())
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if err := resetMigrations(cfg.Database.DSN(), migrationsDir); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	ctx := context.Background()
	pool, err := pg.NewPool(ctx, cfg.Database, zerolog.Nop())
	if err != nil {
		t.Fatalf("failed to create pool: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	created := time.Date(2024, 1, 31, 20, 0, 0, 0, time.UTC)
	insertFixtures(t, ctx, pool, created, []fixtureRow{
		{name: "Ann", position: strPtr("Eng"), status: true},
		{name: "Bo", position: strPtr("Eng"), status: false},
		{name: "Anna", position: strPtr("Eng"), status: true},
		{name: "Cy_1", position: strPtr(""), status: true},
		{name: "Dee", position: nil, status: false},
	})

	loc, err := employee.LoadDisplayLocation("Asia/Kolkata")
	if err != nil {
		t.Fatalf("failed to load location: %v", err)
	}
	svc := employee.NewService(repo.NewEmployeeRepository(pool), pg.NewTransactionManager(pool, pg.WithBeginErrorMapper(repo.TranslateBeginError)), employee.WithDisplayLocation(loc))

	t.Run("name filter is case-insensitive substring", func(t *testing.T) {
		res, err := svc.ListEmployees(ctx, employee.ListEmployeesInput{
			Filter: employee.Filter{Name: strPtr("an")},
			Skip:   intPtr(0),
			Take:   intPtr(10),
		})
		if err != nil {
			t.Fatalf("ListEmployees error: %v", err)
		}
		if res.TotalCount != 2 || len(res.Employees) != 2 {
			t.Fatalf("expected 2 matches, got total=%d len=%d", res.TotalCount, len(res.Employees))
		}
		if res.Employees[0].Name != "Ann" || res.Employees[1].Name != "Anna" {
			t.Fatalf("unexpected order: %s, %s", res.Employees[0].Name, res.Employees[1].Name)
		}
		if got := employee.FormatTimestamp(res.Employees[0].CreatedAt); got != "2024-02-01 01:30:00" {
			t.Fatalf("expected display-zone timestamp, got %s", got)
		}
	})

	t.Run("like metacharacters match literally", func(t *testing.T) {
		res, err := svc.ListEmployees(ctx, employee.ListEmployeesInput{Filter: employee.Filter{Name: strPtr("y_")}})
		if err != nil {
			t.Fatalf("ListEmployees error: %v", err)
		}
		if res.TotalCount != 1 || res.Employees[0].Name != "Cy_1" {
			t.Fatalf("expected only Cy_1, got total=%d", res.TotalCount)
		}

		res, err = svc.ListEmployees(ctx, employee.ListEmployeesInput{Filter: employee.Filter{Name: strPtr("%")}})
		if err != nil {
			t.Fatalf("ListEmployees error: %v", err)
		}
		if res.TotalCount != 0 {
			t.Fatalf("%% must not act as a wildcard, got total=%d", res.TotalCount)
		}
	})

	t.Run("status partitions the set", func(t *testing.T) {
		all, err := svc.ListEmployees(ctx, employee.ListEmployeesInput{Take: intPtr(100)})
		if err != nil {
			t.Fatalf("ListEmployees error: %v", err)
		}
		active, err := svc.ListEmployees(ctx, employee.ListEmployeesInput{Filter: employee.Filter{Status: boolPtr(true)}, Take: intPtr(100)})
		if err != nil {
			t.Fatalf("ListEmployees error: %v", err)
		}
		inactive, err := svc.ListEmployees(ctx, employee.ListEmployeesInput{Filter: employee.Filter{Status: boolPtr(false)}, Take: intPtr(100)})
		if err != nil {
			t.Fatalf("ListEmployees error: %v", err)
		}
		if active.TotalCount+inactive.TotalCount != all.TotalCount || active.TotalCount != 3 {
			t.Fatalf("unexpected partition: active=%d inactive=%d all=%d", active.TotalCount, inactive.TotalCount, all.TotalCount)
		}
	})

	t.Run("pages concatenate without gaps", func(t *testing.T) {
		seen := make(map[string]bool)
		var ids []string
		for skip := 0; ; skip += 2 {
			res, err := svc.ListEmployees(ctx, employee.ListEmployeesInput{Skip: intPtr(skip), Take: intPtr(2)})
			if err != nil {
				t.Fatalf("ListEmployees error: %v", err)
			}
			if res.TotalCount != 5 {
				t.Fatalf("total must not depend on paging, got %d", res.TotalCount)
			}
			if len(res.Employees) == 0 {
				break
			}
			for _, e := range res.Employees {
				if seen[e.ID] {
					t.Fatalf("duplicate id %s", e.ID)
				}
				seen[e.ID] = true
				ids = append(ids, e.ID)
			}
		}
		if len(ids) != 5 {
			t.Fatalf("expected 5 ids across pages, got %v", ids)
		}
	})

	t.Run("skip beyond total keeps total", func(t *testing.T) {
		res, err := svc.ListEmployees(ctx, employee.ListEmployeesInput{Skip: intPtr(50), Take: intPtr(10)})
		if err != nil {
			t.Fatalf("ListEmployees error: %v", err)
		}
		if res.TotalCount != 5 || len(res.Employees) != 0 {
			t.Fatalf("expected empty page with total 5, got total=%d len=%d", res.TotalCount, len(res.Employees))
		}
	})

	t.Run("positions are distinct and non-empty", func(t *testing.T) {
		positions, err := svc.ListPositions(ctx)
		if err != nil {
			t.Fatalf("ListPositions error: %v", err)
		}
		want := []employee.PositionStatus{{Position: "Eng", Status: true}, {Position: "Eng", Status: false}}
		if len(positions) != len(want) {
			t.Fatalf("unexpected positions: %+v", positions)
		}
		for i := range want {
			if positions[i] != want[i] {
				t.Fatalf("position %d: want %+v got %+v", i, want[i], positions[i])
			}
		}
	})
}

func insertFixtures(t *testing.T, ctx context.Context, pool *pgxpool.Pool, created time.Time, rows []fixtureRow) {
	t.Helper()

	if _, err := pool.Exec(ctx, `TRUNCATE employees RESTART IDENTITY`); err != nil {
		t.Fatalf("truncate employees: %v", err)
	}
	for _, r := range rows {
		if _, err := pool.Exec(ctx, `
            INSERT INTO employees (name, first_name, last_name, position, status, created_at, updated_at, created_by, updated_by)
            VALUES ($1, $1, '', $2, $3, $4, $4, 'integration', 'integration')
        `, r.name, r.position, r.status, created); err != nil {
			t.Fatalf("insert %s: %v", r.name, err)
		}
	}
}

func resetMigrations(dsn, dir string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	m, err := migrate.New("file://"+filepath.ToSlash(absDir), dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

func configPathFromEnv() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "../assets/local.yaml"
}

func intPtr(v int) *int { return &v }

func boolPtr(v bool) *bool { return &v }
