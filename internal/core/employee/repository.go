package employee

import "context"

// Repository は社員名簿の参照用永続化の抽象です。
type Repository interface {
	List(ctx context.Context, filter ListFilter) (*Page, error)
	ListPositions(ctx context.Context) ([]PositionStatus, error)
}

// ListFilter は一覧取得用フィルタです。Skip と Take は検証済みであることを前提とします。
type ListFilter struct {
	Filter
	Skip int
	Take int
}

// Page は一覧取得結果とページング前の総件数です。
type Page struct {
	Employees  []*Employee
	TotalCount int
}
