package employee

import "context"

type EmployeeService interface {
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) error
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)
	GetEmployeeByUserID(ctx context.Context, userID string) (EmployeeResponse, error)
	ListEmployees(ctx context.Context, activeOnly bool) ([]EmployeeResponse, error)
	DeactivateEmployee(ctx context.Context, id string) error
}
