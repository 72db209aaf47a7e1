package employee

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// DefaultTake は take 未指定時の件数です。
const DefaultTake = 10

// Service は社員名簿の参照ユースケースをまとめます。
type Service struct {
	repo        Repository
	tx          TransactionManager
	location    *time.Location
	defaultTake int
	maxTake     int
	log         zerolog.Logger
}

// UseCase は社員名簿ユースケースの公開インターフェースです。
type UseCase interface {
	ListEmployees(ctx context.Context, in ListEmployeesInput) (*ListEmployeesResult, error)
	ListPositions(ctx context.Context) ([]PositionStatus, error)
}

// Option は Service の任意設定です。
type Option func(*Service)

// WithDisplayLocation は表示タイムゾーンを設定します。
func WithDisplayLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithTakeLimits は take の既定値と上限を設定します。
// defaultTake が 0 以下なら既定値のまま、maxTake が 0 以下なら上限なしです。
func WithTakeLimits(defaultTake, maxTake int) Option {
	return func(s *Service) {
		s.maxTake = max(maxTake, 0)
		if defaultTake > 0 {
			s.defaultTake = defaultTake
		}
	}
}

// WithLogger はロガーを設定します。
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.log = logger.With().Str("component", "employee").Logger()
	}
}

// NewService は Service を生成します。tx が nil の場合はトランザクションを張りません。
func NewService(repo Repository, tx TransactionManager, opts ...Option) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	s := &Service{
		repo:        repo,
		tx:          tx,
		location:    defaultDisplayLocation(),
		defaultTake: DefaultTake,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.maxTake > 0 && s.defaultTake > s.maxTake {
		s.defaultTake = s.maxTake
	}
	return s
}

// LoadDisplayLocation はタイムゾーン名から表示用 Location を読み込みます。空文字列は既定値を使います。
func LoadDisplayLocation(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultDisplayTimeZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTimeZone, name, err)
	}
	return loc, nil
}

// tzdata が無い環境では Asia/Kolkata と同じ UTC+05:30 の固定ゾーンを使います。
func defaultDisplayLocation() *time.Location {
	if loc, err := LoadDisplayLocation(""); err == nil {
		return loc
	}
	return time.FixedZone(DefaultDisplayTimeZone, 5*60*60+30*60)
}

// ListEmployeesInput は一覧取得時の入力です。Skip と Take が nil の場合は既定値を使います。
type ListEmployeesInput struct {
	Filter Filter
	Skip   *int
	Take   *int
}

// ListEmployeesResult は一覧取得結果を表します。TotalCount はページング前の件数です。
type ListEmployeesResult struct {
	Employees  []*Employee
	TotalCount int
}

// ListEmployees は条件に一致する社員を ID 昇順でページングして返します。
func (s *Service) ListEmployees(ctx context.Context, in ListEmployeesInput) (*ListEmployeesResult, error) {
	skip, err := normalizeSkip(in.Skip)
	if err != nil {
		return nil, err
	}

	take, err := s.normalizeTake(in.Take)
	if err != nil {
		return nil, err
	}

	filter := ListFilter{Filter: in.Filter.clone(), Skip: skip, Take: take}
	start := time.Now()

	var page *Page
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.List(txCtx, filter)
		if err != nil {
			return err
		}
		page = result
		return nil
	}); err != nil {
		s.log.Error().Err(err).Int("skip", skip).Int("take", take).Msg("list employees failed")
		return nil, err
	}
	if page == nil {
		page = &Page{}
	}

	employees := make([]*Employee, 0, len(page.Employees))
	for _, emp := range page.Employees {
		employees = append(employees, s.inDisplayZone(emp))
	}

	s.log.Debug().
		Bool("filtered", !filter.IsEmpty()).
		Int("skip", skip).
		Int("take", take).
		Int("returned", len(employees)).
		Int("total_count", page.TotalCount).
		Dur("took", time.Since(start)).
		Msg("employees listed")

	return &ListEmployeesResult{Employees: employees, TotalCount: page.TotalCount}, nil
}

// ListPositions は役職と状態の組を重複なく返します。
func (s *Service) ListPositions(ctx context.Context) ([]PositionStatus, error) {
	var positions []PositionStatus
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.ListPositions(txCtx)
		if err != nil {
			return err
		}
		positions = result
		return nil
	}); err != nil {
		s.log.Error().Err(err).Msg("list positions failed")
		return nil, err
	}

	if positions == nil {
		positions = []PositionStatus{}
	}
	s.log.Debug().Int("count", len(positions)).Msg("positions listed")
	return positions, nil
}

func (s *Service) inDisplayZone(emp *Employee) *Employee {
	if emp == nil {
		return nil
	}
	out := *emp
	out.CreatedAt = emp.CreatedAt.In(s.location)
	out.UpdatedAt = emp.UpdatedAt.In(s.location)
	return &out
}

func normalizeSkip(skip *int) (int, error) {
	if skip == nil {
		return 0, nil
	}
	if *skip < 0 {
		return 0, ErrInvalidSkip
	}
	return *skip, nil
}

func (s *Service) normalizeTake(take *int) (int, error) {
	if take == nil {
		return s.defaultTake, nil
	}
	if *take < 0 {
		return 0, fmt.Errorf("take must not be negative: %w", ErrInvalidTake)
	}
	if s.maxTake > 0 && *take > s.maxTake {
		return 0, fmt.Errorf("take must not exceed %d: %w", s.maxTake, ErrInvalidTake)
	}
	return *take, nil
}
