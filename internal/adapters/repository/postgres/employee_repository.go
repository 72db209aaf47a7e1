package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/employee-directory/internal/core/employee"
	pgdb "github.com/ogurasousui/employee-directory/internal/platform/db/postgres"
)

// pagePrealloc はページ用スライスの初期容量の上限です。
const pagePrealloc = 64

const employeeColumns = `employee_id, name, first_name, last_name, position, status, created_at, updated_at`

const listPositionsQuery = `
        SELECT DISTINCT position, status
          FROM employees
         WHERE position IS NOT NULL
           AND position <> ''
         ORDER BY position ASC, status DESC
    `

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EmployeeRepository は PostgreSQL を利用した社員名簿の参照実装です。
type EmployeeRepository struct {
	pool pgdb.Queryer
}

// NewEmployeeRepository は EmployeeRepository を生成します。
func NewEmployeeRepository(pool pgdb.Queryer) *EmployeeRepository {
	return &EmployeeRepository{pool: pool}
}

var _ employee.Repository = (*EmployeeRepository)(nil)

// List は条件に一致する社員の 1 ページ分と、ページング前の総件数を 1 回のクエリで取得します。
// ページが空でも総件数を返すため、件数の行にページを LEFT JOIN します。
func (r *EmployeeRepository) List(ctx context.Context, filter employee.ListFilter) (*employee.Page, error) {
	conditions, args := buildEmployeeConditions(filter.Filter)

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "\n         WHERE " + strings.Join(conditions, "\n           AND ")
	}

	limitPlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, filter.Take)
	offsetPlaceholder := "$" + strconv.Itoa(len(args)+1)
	args = append(args, filter.Skip)

	query := `
        WITH filtered AS (
            SELECT ` + employeeColumns + `
              FROM employees` + whereClause + `
        ), page AS (
            SELECT ` + employeeColumns + `
              FROM filtered
             ORDER BY employee_id ASC
             LIMIT ` + limitPlaceholder + `
            OFFSET ` + offsetPlaceholder + `
        )
        SELECT c.total_count,
               p.employee_id::text,
               p.name,
               p.first_name,
               p.last_name,
               p.position,
               p.status,
               p.created_at,
               p.updated_at
          FROM (SELECT COUNT(*) AS total_count FROM filtered) c
          LEFT JOIN page p ON TRUE
         ORDER BY p.employee_id ASC
    `

	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, translateEmployeePgError("list employees", err)
	}
	defer rows.Close()

	page := &employee.Page{Employees: make([]*employee.Employee, 0, min(max(filter.Take, 0), pagePrealloc))}
	for rows.Next() {
		emp, total, err := scanPageRow(rows)
		if err != nil {
			return nil, translateEmployeePgError("list employees", err)
		}
		page.TotalCount = total
		if emp != nil {
			page.Employees = append(page.Employees, emp)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError("list employees", err)
	}

	return page, nil
}

// ListPositions は空でない役職と状態の組を重複なく、役職昇順・状態降順で返します。
func (r *EmployeeRepository) ListPositions(ctx context.Context) ([]employee.PositionStatus, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, listPositionsQuery)
	if err != nil {
		return nil, translateEmployeePgError("list positions", err)
	}
	defer rows.Close()

	positions := make([]employee.PositionStatus, 0)
	for rows.Next() {
		var p employee.PositionStatus
		if err := rows.Scan(&p.Position, &p.Status); err != nil {
			return nil, translateEmployeePgError("list positions", err)
		}
		positions = append(positions, p)
	}

	if err := rows.Err(); err != nil {
		return nil, translateEmployeePgError("list positions", err)
	}

	return positions, nil
}

// buildEmployeeConditions は指定された条件のみから WHERE 句の要素とバインド引数を組み立てます。
func buildEmployeeConditions(f employee.Filter) ([]string, []any) {
	conditions := make([]string, 0, 5)
	args := make([]any, 0, 7)

	addContains := func(column string, value *string) {
		if value == nil {
			return
		}
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, column+" ILIKE '%' || "+placeholder+"::text || '%'")
		args = append(args, likeEscaper.Replace(*value))
	}

	addContains("name", f.Name)
	addContains("first_name", f.FirstName)
	addContains("last_name", f.LastName)
	addContains("position", f.Position)

	if f.Status != nil {
		placeholder := "$" + strconv.Itoa(len(args)+1)
		conditions = append(conditions, "status = "+placeholder+"::boolean")
		args = append(args, *f.Status)
	}

	return conditions, args
}

func scanPageRow(row pgx.Row) (*employee.Employee, int, error) {
	var (
		total     int64
		id        sql.NullString
		name      sql.NullString
		firstName sql.NullString
		lastName  sql.NullString
		position  sql.NullString
		status    sql.NullBool
		createdAt sql.NullTime
		updatedAt sql.NullTime
	)

	if err := row.Scan(
		&total,
		&id,
		&name,
		&firstName,
		&lastName,
		&position,
		&status,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, 0, err
	}

	// ページが空の場合は件数のみの行になる
	if !id.Valid {
		return nil, int(total), nil
	}

	return &employee.Employee{
		ID:        id.String,
		Name:      name.String,
		FirstName: firstName.String,
		LastName:  lastName.String,
		Position:  position.String,
		Status:    status.Bool,
		CreatedAt: storedTime(createdAt),
		UpdatedAt: storedTime(updatedAt),
	}, int(total), nil
}

// storedTime は timestamp without time zone を UTC として解釈します。
func storedTime(v sql.NullTime) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	t := v.Time
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// TranslateBeginError はトランザクション開始の失敗を社員名簿のエラー分類へ変換します。
func TranslateBeginError(err error) error {
	return translateEmployeePgError("begin transaction", err)
}

// translateEmployeePgError は元のエラーを保持したままラップします。
// 接続系の失敗には employee.ErrStoreUnavailable を付与します。
func translateEmployeePgError(op string, err error) error {
	if err == nil {
		return nil
	}

	wrapped := fmt.Errorf("employee: %s: %w", op, err)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgerrcode.IsConnectionException(pgErr.Code) ||
			pgErr.Code == pgerrcode.AdminShutdown ||
			pgErr.Code == pgerrcode.CannotConnectNow ||
			pgErr.Code == pgerrcode.TooManyConnections {
			return errors.Join(employee.ErrStoreUnavailable, wrapped)
		}
		return wrapped
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.SafeToRetry(err) {
		return errors.Join(employee.ErrStoreUnavailable, wrapped)
	}

	return wrapped
}
