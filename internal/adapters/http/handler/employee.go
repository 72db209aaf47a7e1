package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/ogurasousui/employee-directory/internal/core/employee"
)

// EmployeeFilter は検索リクエストの任意条件です。
type EmployeeFilter struct {
	Name      *string `json:"Name,omitempty"`
	FirstName *string `json:"FirstName,omitempty"`
	LastName  *string `json:"LastName,omitempty"`
	Position  *string `json:"Position,omitempty"`
	Status    *bool   `json:"Status,omitempty"`
}

// SearchRequest は POST /employees/search の本文です。
type SearchRequest struct {
	Filter EmployeeFilter `json:"filter"`
	Skip   *int           `json:"skip,omitempty"`
	Take   *int           `json:"take,omitempty"`
}

// EmployeeView は応答に含まれる社員です。
type EmployeeView struct {
	EmployeeID string `json:"employeeId"`
	Name       string `json:"Name"`
	FirstName  string `json:"FirstName"`
	LastName   string `json:"LastName"`
	Position   string `json:"Position"`
	Status     bool   `json:"Status"`
	CreatedAt  string `json:"createdAt"`
	UpdatedAt  string `json:"updatedAt"`
}

// ListResponse は社員一覧の応答です。
type ListResponse struct {
	Employees  []EmployeeView `json:"employees"`
	TotalCount int            `json:"total_count"`
}

// PositionView は役職と状態の組です。
type PositionView struct {
	Position string `json:"Position"`
	Status   bool   `json:"Status"`
}

// EmployeeHandler は社員名簿の HTTP ハンドラーです。
type EmployeeHandler struct {
	svc employee.UseCase
}

// NewEmployeeHandler は EmployeeHandler を生成します。
func NewEmployeeHandler(svc employee.UseCase) *EmployeeHandler {
	return &EmployeeHandler{svc: svc}
}

// List は GET /employees を処理します。空のクエリ値は未指定として扱います。
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	in, fields := parseListQuery(r.URL.Query())
	if len(fields) > 0 {
		writeError(w, r, http.StatusBadRequest, codeInvalidInput, "invalid query parameters", fields)
		return
	}
	h.list(w, r, in)
}

// Search は POST /employees/search を処理します。
func (h *EmployeeHandler) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, http.StatusRequestEntityTooLarge, codeTooLarge, "request body too large", nil)
			return
		}
		writeError(w, r, http.StatusBadRequest, codeInvalidInput, "invalid JSON body: "+err.Error(), nil)
		return
	}

	h.list(w, r, employee.ListEmployeesInput{
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
}

// Positions は GET /positions を処理します。
func (h *EmployeeHandler) Positions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.svc.ListPositions(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]PositionView, 0, len(positions))
	for _, p := range positions {
		out = append(out, PositionView{Position: p.Position, Status: p.Status})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *EmployeeHandler) list(w http.ResponseWriter, r *http.Request, in employee.ListEmployeesInput) {
	result, err := h.svc.ListEmployees(r.Context(), in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	views := make([]EmployeeView, 0, len(result.Employees))
	for _, emp := range result.Employees {
		if emp == nil {
			continue
		}
		views = append(views, EmployeeView{
			EmployeeID: emp.ID,
			Name:       emp.Name,
			FirstName:  emp.FirstName,
			LastName:   emp.LastName,
			Position:   emp.Position,
			Status:     emp.Status,
			CreatedAt:  employee.FormatTimestamp(emp.CreatedAt),
			UpdatedAt:  employee.FormatTimestamp(emp.UpdatedAt),
		})
	}

	writeJSON(w, http.StatusOK, ListResponse{Employees: views, TotalCount: result.TotalCount})
}

func parseListQuery(q url.Values) (employee.ListEmployeesInput, []FieldError) {
	var (
		in     employee.ListEmployeesInput
		fields []FieldError
	)

	in.Filter.Name = optionalString(q, "name")
	in.Filter.FirstName = optionalString(q, "first_name")
	in.Filter.LastName = optionalString(q, "last_name")
	in.Filter.Position = optionalString(q, "position")

	if raw := q.Get("status"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			fields = append(fields, FieldError{Field: "status", Message: "must be true or false"})
		} else {
			in.Filter.Status = &v
		}
	}

	in.Skip, fields = optionalInt(q, "skip", fields)
	in.Take, fields = optionalInt(q, "take", fields)

	return in, fields
}

func optionalString(q url.Values, key string) *string {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	return &v
}

func optionalInt(q url.Values, key string, fields []FieldError) (*int, []FieldError) {
	raw := q.Get(key)
	if raw == "" {
		return nil, fields
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, append(fields, FieldError{Field: key, Message: "must be an integer"})
	}
	return &v, fields
}
