package handler

import (
	"context"

	"github.com/ogurasousui/employee-directory/internal/core/employee"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// EmployeeFilter は一覧取得の任意条件です。省略したフィールドは条件に含めません。
type EmployeeFilter struct {
	Name      *string `json:"Name,omitempty"`
	FirstName *string `json:"FirstName,omitempty"`
	LastName  *string `json:"LastName,omitempty"`
	Position  *string `json:"Position,omitempty"`
	Status    *bool   `json:"Status,omitempty"`
}

// ListEmployeesRequest は ListEmployees の要求です。
type ListEmployeesRequest struct {
	Filter EmployeeFilter `json:"filter"`
	Skip   *int           `json:"skip,omitempty"`
	Take   *int           `json:"take,omitempty"`
}

// Employee は応答に含まれる社員です。日時は表示タイムゾーンで整形されます。
type Employee struct {
	EmployeeID string `json:"employeeId"`
	Name       string `json:"Name"`
	FirstName  string `json:"FirstName"`
	LastName   string `json:"LastName"`
	Position   string `json:"Position"`
	Status     bool   `json:"Status"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// ListEmployeesResponse は ListEmployees の応答です。
type ListEmployeesResponse struct {
	Employees  []Employee `json:"employees"`
	TotalCount int        `json:"total_count"`
}

// ListPositionsRequest は ListPositions の要求です。
type ListPositionsRequest struct{}

// Position は役職と状態の組です。
type Position struct {
	Position string `json:"Position"`
	Status   bool   `json:"Status"`
}

// ListPositionsResponse は ListPositions の応答です。
type ListPositionsResponse struct {
	Positions []Position `json:"positions"`
}

// EmployeeDirectoryHandler は EmployeeDirectory の gRPC 実装です。
type EmployeeDirectoryHandler struct {
	svc employee.UseCase
}

// NewEmployeeDirectoryHandler は EmployeeDirectoryHandler を生成します。
func NewEmployeeDirectoryHandler(svc employee.UseCase) *EmployeeDirectoryHandler {
	return &EmployeeDirectoryHandler{svc: svc}
}

var _ EmployeeDirectoryServer = (*EmployeeDirectoryHandler)(nil)

// ListEmployees は社員の一覧を取得します。
func (h *EmployeeDirectoryHandler) ListEmployees(ctx context.Context, req *ListEmployeesRequest) (*ListEmployeesResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	result, err := h.svc.ListEmployees(ctx, employee.ListEmployeesInput{
		Filter: employee.Filter{
			Name:      req.Filter.Name,
			FirstName: req.Filter.FirstName,
			LastName:  req.Filter.LastName,
			Position:  req.Filter.Position,
			Status:    req.Filter.Status,
		},
		Skip: req.Skip,
		Take: req.Take,
	})
	if err != nil {
		return nil, toStatusError(err)
	}

	employees := make([]Employee, 0, len(result.Employees))
	for _, emp := range result.Employees {
		if emp == nil {
			continue
		}
		employees = append(employees, toWireEmployee(emp))
	}

	return &ListEmployeesResponse{
		Employees:  employees,
		TotalCount: result.TotalCount,
	}, nil
}

// ListPositions は役職と状態の組を取得します。
func (h *EmployeeDirectoryHandler) ListPositions(ctx context.Context, req *ListPositionsRequest) (*ListPositionsResponse, error) {
	positions, err := h.svc.ListPositions(ctx)
	if err != nil {
		return nil, toStatusError(err)
	}

	out := make([]Position, 0, len(positions))
	for _, p := range positions {
		out = append(out, Position{Position: p.Position, Status: p.Status})
	}

	return &ListPositionsResponse{Positions: out}, nil
}

func toWireEmployee(emp *employee.Employee) Employee {
	return Employee{
		EmployeeID: emp.ID,
		Name:       emp.Name,
		FirstName:  emp.FirstName,
		LastName:   emp.LastName,
		Position:   emp.Position,
		Status:     emp.Status,
		CreatedAt:  employee.FormatTimestamp(emp.CreatedAt),
		UpdatedAt:  employee.FormatTimestamp(emp.UpdatedAt),
	}
}
