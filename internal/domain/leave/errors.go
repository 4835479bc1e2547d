package leave

import "errors"

var (
	ErrLeaveTypeNotFound    = errors.New("leave type not found")
	ErrLeaveTypeInactive    = errors.New("leave type is not available")
	ErrLeaveTypeNameExists  = errors.New("leave type name already exists")
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrBalanceNotFound      = errors.New("leave balance not found")
	ErrInsufficientBalance  = errors.New("insufficient leave balance")
	ErrOverlappingRequest   = errors.New("overlapping leave request for these dates")
	ErrAlreadyProcessed     = errors.New("leave request already processed")
	ErrNotCancellable       = errors.New("leave request cannot be cancelled in its current status")
	ErrNotRequestOwner      = errors.New("leave request belongs to another employee")
	ErrEmployeeOnProbation  = errors.New("employee is still on probation")
	ErrOutsideCurrentYear   = errors.New("leave dates must fall within the current year")
)
