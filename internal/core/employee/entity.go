package employee

import "time"

// DisplayLayout は表示用タイムスタンプの書式 (YYYY-MM-DD HH:MM:SS) です。
const DisplayLayout = "2006-01-02 15:04:05"

// DefaultDisplayTimeZone は表示タイムゾーンの既定値です。
const DefaultDisplayTimeZone = "Asia/Kolkata"

// Employee は社員名簿の読み取り専用プロジェクションです。
type Employee struct {
	ID        string
	Name      string
	FirstName string
	LastName  string
	Position  string
	Status    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PositionStatus は役職と状態の組です。
type PositionStatus struct {
	Position string
	Status   bool
}

// Filter は一覧取得時の任意条件です。nil のフィールドは条件に含めません。
type Filter struct {
	Name      *string
	FirstName *string
	LastName  *string
	Position  *string
	Status    *bool
}

// IsEmpty はいずれの条件も指定されていない場合に true を返します。
func (f Filter) IsEmpty() bool {
	return f.Name == nil && f.FirstName == nil && f.LastName == nil && f.Position == nil && f.Status == nil
}

func (f Filter) clone() Filter {
	return Filter{
		Name:      cloneString(f.Name),
		FirstName: cloneString(f.FirstName),
		LastName:  cloneString(f.LastName),
		Position:  cloneString(f.Position),
		Status:    cloneBool(f.Status),
	}
}

// FormatTimestamp は t を DisplayLayout で整形します。
func FormatTimestamp(t time.Time) string {
	return t.Format(DisplayLayout)
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
